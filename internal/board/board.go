// Package board pairs the kanban task store with the optimistic
// reconciliation layer: moves apply to the local view immediately and are
// written through to the store, while refreshes feed store reads back as
// server snapshots so the rendered ordering never regresses behind a
// pending move.
package board

import (
	"context"
	"strconv"

	"github.com/rs/zerolog"

	"mbb-tracker/internal/domain"
	"mbb-tracker/internal/errors"
	"mbb-tracker/internal/reconcile"
	"mbb-tracker/internal/repository/sqlite"
)

// Board is the reconciled view over the task store.
type Board struct {
	repo   sqlite.Repository
	rec    *reconcile.Reconciler
	mapper *domain.Mapper
	logger zerolog.Logger

	// tasks caches task details by ID so column views can be rebuilt from
	// id orderings without another read.
	tasks map[int64]domain.Task
}

// New creates a board over repo.
func New(repo sqlite.Repository, logger zerolog.Logger) *Board {
	return &Board{
		repo:   repo,
		rec:    reconcile.New(),
		mapper: domain.NewMapper(),
		logger: logger,
		tasks:  make(map[int64]domain.Task),
	}
}

// Refresh reads every column from the store and feeds the orderings to the
// reconciler as server snapshots. Columns with a pending local move keep
// their local ordering until the store agrees.
func (b *Board) Refresh(ctx context.Context) error {
	for _, status := range domain.Statuses() {
		dbTasks, err := b.repo.ListTasksByStatus(ctx, string(status))
		if err != nil {
			return err
		}

		ids := make([]int64, len(dbTasks))
		for i, dbTask := range dbTasks {
			task := b.mapper.Task.FromDatabase(*dbTask)
			b.tasks[task.ID] = task
			ids[i] = task.ID
		}

		if !b.rec.ReceiveServerSnapshot(string(status), ids) {
			b.logger.Debug().
				Str("column", string(status)).
				Msg("ignoring stale server ordering for pending column")
		}
	}
	return nil
}

// Column returns the tasks of one column in reconciled order.
func (b *Board) Column(status domain.Status) []domain.Task {
	ids := b.rec.CurrentView(string(status))
	tasks := make([]domain.Task, 0, len(ids))
	for _, id := range ids {
		if task, ok := b.tasks[id]; ok {
			tasks = append(tasks, task)
		}
	}
	return tasks
}

// Pending reports whether a column has an unconfirmed local move.
func (b *Board) Pending(status domain.Status) bool {
	return b.rec.StateOf(string(status)) == reconcile.PendingLocal
}

// Move relocates a task to position within the toStatus column. The local
// orderings update first, so the view reflects the user's intent
// immediately; the store write follows, and the next Refresh confirms it.
func (b *Board) Move(ctx context.Context, taskID int64, toStatus domain.Status, position int) error {
	if !toStatus.IsValid() {
		return errors.NewInvalidInputError("status", string(toStatus), "unknown board column")
	}
	task, ok := b.tasks[taskID]
	if !ok {
		return errors.NewNotFoundError("task", strconv.FormatInt(taskID, 10))
	}

	fromStatus := task.Status
	fromOrder := removeID(b.rec.CurrentView(string(fromStatus)), taskID)
	toOrder := b.rec.CurrentView(string(toStatus))
	if fromStatus == toStatus {
		toOrder = fromOrder
	}
	toOrder = insertID(toOrder, taskID, position)

	if fromStatus != toStatus {
		b.rec.ApplyLocalMove(string(fromStatus), fromOrder)
	}
	b.rec.ApplyLocalMove(string(toStatus), toOrder)

	task.Status = toStatus
	b.tasks[taskID] = task

	// Write-through. A failure leaves the column pending; the view keeps
	// the user's ordering and a later successful write plus refresh
	// resolves it.
	if err := b.repo.ReorderTasks(ctx, string(toStatus), toOrder); err != nil {
		return err
	}
	if fromStatus != toStatus {
		if err := b.repo.ReorderTasks(ctx, string(fromStatus), fromOrder); err != nil {
			return err
		}
	}
	return nil
}

func removeID(ids []int64, id int64) []int64 {
	out := make([]int64, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func insertID(ids []int64, id int64, position int) []int64 {
	if position < 0 {
		position = 0
	}
	if position > len(ids) {
		position = len(ids)
	}
	out := make([]int64, 0, len(ids)+1)
	out = append(out, ids[:position]...)
	out = append(out, id)
	out = append(out, ids[position:]...)
	return out
}
