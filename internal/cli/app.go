package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"mbb-tracker/internal/config"
	"mbb-tracker/internal/domain"
	"mbb-tracker/internal/engine"
	"mbb-tracker/internal/logging"
	"mbb-tracker/internal/repository/sqlite"
	"mbb-tracker/internal/snapshot"
)

// App wires the record store, snapshot slot, and timer engine for one CLI
// invocation. Timers survive across invocations through the snapshot slot:
// every run restores the active set, applies its operation, and the engine
// snapshots back on each mutation.
type App struct {
	cfg    *config.Config
	logger zerolog.Logger
	repo   sqlite.Repository
	engine *engine.Engine
	mapper *domain.Mapper

	redisClient *redis.Client
}

// NewApp loads configuration, opens the record store and snapshot slot, and
// restores the active-timer set into a fresh engine.
func NewApp(ctx context.Context, configPath string) (*App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	repo, err := sqlite.New(cfg.DatabasePath())
	if err != nil {
		return nil, err
	}

	app := &App{
		cfg:    cfg,
		logger: logger,
		repo:   repo,
		mapper: domain.NewMapper(),
	}

	slot, err := app.openSlot()
	if err != nil {
		repo.Close()
		return nil, err
	}

	store := snapshot.NewStore(slot, cfg.SnapshotStaleAfter(), logger)
	recorder := &sessionRecorder{repo: repo, mapper: app.mapper}
	app.engine = engine.New(recorder, store, logger)

	timers, err := store.RestoreTimers(ctx)
	if err != nil {
		// A transient slot read failure must not block the invocation;
		// the engine starts empty and the next snapshot rewrites the slot.
		logger.Warn().Err(err).Msg("could not restore active timers")
	}
	app.engine.Load(timers)

	return app, nil
}

func (a *App) openSlot() (snapshot.Slot, error) {
	switch a.cfg.Snapshot.Backend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     a.cfg.Snapshot.Redis.Addr,
			Password: a.cfg.Snapshot.Redis.Password,
			DB:       a.cfg.Snapshot.Redis.DB,
		})
		a.redisClient = client
		return snapshot.NewRedisSlot(client, a.cfg.Snapshot.Redis.Key), nil
	default:
		return snapshot.NewFileSlot(a.cfg.SnapshotPath()), nil
	}
}

// Close releases the record store and any snapshot backend connection.
func (a *App) Close() error {
	if a.redisClient != nil {
		a.redisClient.Close()
	}
	return a.repo.Close()
}

// categorySnapshotFor resolves the rate source for a starting timer. The
// category is read once here; rate changes made later never alter an
// in-progress timer.
func (a *App) categorySnapshotFor(ctx context.Context, task domain.Task) (domain.CategorySnapshot, error) {
	if task.CategoryID == nil {
		return domain.CategorySnapshot{Label: "uncategorized"}, nil
	}
	dbCategory, err := a.repo.GetCategory(ctx, *task.CategoryID)
	if err != nil {
		return domain.CategorySnapshot{}, err
	}
	return a.mapper.Category.FromDatabase(*dbCategory).Snapshot(), nil
}

// sessionRecorder adapts the sqlite repository to the engine's record-store
// boundary.
type sessionRecorder struct {
	repo   sqlite.Repository
	mapper *domain.Mapper
}

func (r *sessionRecorder) RecordSession(ctx context.Context, session domain.TimeSession) (int64, error) {
	dbSession := r.mapper.Session.ToDatabase(session)
	if err := r.repo.CreateSession(ctx, &dbSession); err != nil {
		return 0, err
	}
	return dbSession.ID, nil
}

// formatDuration formats elapsed seconds as "1h 23m 45s".
func formatDuration(seconds float64) string {
	d := time.Duration(seconds * float64(time.Second))
	if d < 0 {
		d = 0
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm %ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
