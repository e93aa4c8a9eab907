package board

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mbb-tracker/internal/domain"
	"mbb-tracker/internal/logging"
	"mbb-tracker/internal/repository/sqlite"
)

func setupBoard(t *testing.T) (*Board, sqlite.Repository) {
	t.Helper()
	repo, err := sqlite.NewMemory()
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return New(repo, logging.Nop()), repo
}

func addTask(t *testing.T, repo sqlite.Repository, title, status string) int64 {
	t.Helper()
	task := &sqlite.Task{Title: title, Status: status}
	require.NoError(t, repo.CreateTask(context.Background(), task))
	return task.ID
}

func columnIDs(tasks []domain.Task) []int64 {
	ids := make([]int64, len(tasks))
	for i, task := range tasks {
		ids[i] = task.ID
	}
	return ids
}

func TestRefreshPopulatesColumns(t *testing.T) {
	b, repo := setupBoard(t)

	a := addTask(t, repo, "A", "todo")
	c := addTask(t, repo, "C", "doing")

	require.NoError(t, b.Refresh(context.Background()))

	assert.Equal(t, []int64{a}, columnIDs(b.Column(domain.StatusTodo)))
	assert.Equal(t, []int64{c}, columnIDs(b.Column(domain.StatusDoing)))
	assert.Empty(t, b.Column(domain.StatusDone))
}

func TestMoveWithinColumn(t *testing.T) {
	b, repo := setupBoard(t)

	a := addTask(t, repo, "A", "todo")
	c := addTask(t, repo, "B", "todo")
	require.NoError(t, b.Refresh(context.Background()))

	require.NoError(t, b.Move(context.Background(), c, domain.StatusTodo, 0))

	// View reflects the move immediately.
	assert.Equal(t, []int64{c, a}, columnIDs(b.Column(domain.StatusTodo)))

	// The write went through, so the next refresh confirms and the column
	// returns to synced.
	require.NoError(t, b.Refresh(context.Background()))
	assert.False(t, b.Pending(domain.StatusTodo))
	assert.Equal(t, []int64{c, a}, columnIDs(b.Column(domain.StatusTodo)))
}

func TestMoveAcrossColumns(t *testing.T) {
	b, repo := setupBoard(t)

	a := addTask(t, repo, "A", "todo")
	c := addTask(t, repo, "B", "doing")
	require.NoError(t, b.Refresh(context.Background()))

	require.NoError(t, b.Move(context.Background(), a, domain.StatusDoing, 1))

	assert.Empty(t, b.Column(domain.StatusTodo))
	assert.Equal(t, []int64{c, a}, columnIDs(b.Column(domain.StatusDoing)))

	require.NoError(t, b.Refresh(context.Background()))
	assert.Equal(t, []int64{c, a}, columnIDs(b.Column(domain.StatusDoing)))
	assert.False(t, b.Pending(domain.StatusDoing))
}

func TestMoveUnknownTask(t *testing.T) {
	b, _ := setupBoard(t)
	require.NoError(t, b.Refresh(context.Background()))

	err := b.Move(context.Background(), 999, domain.StatusDoing, 0)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMoveInvalidStatus(t *testing.T) {
	b, repo := setupBoard(t)
	a := addTask(t, repo, "A", "todo")
	require.NoError(t, b.Refresh(context.Background()))

	err := b.Move(context.Background(), a, domain.Status("archived"), 0)
	assert.Error(t, err)
}

// failingReorderRepo wraps a working repository but fails reorder writes,
// standing in for a store outage mid-move.
type failingReorderRepo struct {
	sqlite.Repository
}

func (f *failingReorderRepo) ReorderTasks(ctx context.Context, status string, orderedIDs []int64) error {
	return fmt.Errorf("store unavailable")
}

func TestFailedWriteLeavesColumnPending(t *testing.T) {
	repo, err := sqlite.NewMemory()
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	a := addTask(t, repo, "A", "todo")
	c := addTask(t, repo, "B", "todo")

	b := New(&failingReorderRepo{Repository: repo}, logging.Nop())
	require.NoError(t, b.Refresh(context.Background()))

	err = b.Move(context.Background(), c, domain.StatusTodo, 0)
	assert.Error(t, err)

	// The user's ordering stays on screen and the column stays pending: the
	// store still has the old ordering, so its snapshots are ignored.
	assert.True(t, b.Pending(domain.StatusTodo))
	assert.Equal(t, []int64{c, a}, columnIDs(b.Column(domain.StatusTodo)))

	require.NoError(t, b.Refresh(context.Background()))
	assert.True(t, b.Pending(domain.StatusTodo))
	assert.Equal(t, []int64{c, a}, columnIDs(b.Column(domain.StatusTodo)))
}
