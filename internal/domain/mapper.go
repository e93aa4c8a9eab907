package domain

import (
	"mbb-tracker/internal/repository/sqlite"
)

// TaskMapper handles conversion between domain and database Task models.
type TaskMapper struct{}

// ToDatabase converts a domain Task to a database Task.
func (m *TaskMapper) ToDatabase(task Task) sqlite.Task {
	return sqlite.Task{
		ID:         task.ID,
		Title:      task.Title,
		Status:     string(task.Status),
		Position:   task.Position,
		CategoryID: task.CategoryID,
	}
}

// FromDatabase converts a database Task to a domain Task.
func (m *TaskMapper) FromDatabase(dbTask sqlite.Task) Task {
	return Task{
		ID:         dbTask.ID,
		Title:      dbTask.Title,
		Status:     Status(dbTask.Status),
		Position:   dbTask.Position,
		CategoryID: dbTask.CategoryID,
	}
}

// FromDatabaseSlice converts a slice of database Tasks to domain Tasks.
func (m *TaskMapper) FromDatabaseSlice(dbTasks []*sqlite.Task) []Task {
	tasks := make([]Task, len(dbTasks))
	for i, dbTask := range dbTasks {
		tasks[i] = m.FromDatabase(*dbTask)
	}
	return tasks
}

// CategoryMapper handles conversion between domain and database Category models.
type CategoryMapper struct{}

// ToDatabase converts a domain Category to a database Category.
func (m *CategoryMapper) ToDatabase(category Category) sqlite.Category {
	return sqlite.Category{
		ID:         category.ID,
		Label:      category.Label,
		HourlyRate: category.HourlyRate,
	}
}

// FromDatabase converts a database Category to a domain Category.
func (m *CategoryMapper) FromDatabase(dbCategory sqlite.Category) Category {
	return Category{
		ID:         dbCategory.ID,
		Label:      dbCategory.Label,
		HourlyRate: dbCategory.HourlyRate,
	}
}

// SessionMapper handles conversion between domain and database session models.
type SessionMapper struct{}

// ToDatabase converts a domain TimeSession to a database Session.
func (m *SessionMapper) ToDatabase(session TimeSession) sqlite.Session {
	return sqlite.Session{
		ID:              session.ID,
		TaskID:          session.TaskID,
		CategoryRate:    session.CategoryRate,
		StartedAt:       session.StartedAt,
		EndedAt:         session.EndedAt,
		DurationSeconds: session.DurationSeconds,
		EarningsUSD:     session.EarningsUSD,
	}
}

// FromDatabase converts a database Session to a domain TimeSession.
func (m *SessionMapper) FromDatabase(dbSession sqlite.Session) TimeSession {
	return TimeSession{
		ID:              dbSession.ID,
		TaskID:          dbSession.TaskID,
		CategoryRate:    dbSession.CategoryRate,
		StartedAt:       dbSession.StartedAt,
		EndedAt:         dbSession.EndedAt,
		DurationSeconds: dbSession.DurationSeconds,
		EarningsUSD:     dbSession.EarningsUSD,
	}
}

// FromDatabaseSlice converts a slice of database Sessions to domain TimeSessions.
func (m *SessionMapper) FromDatabaseSlice(dbSessions []*sqlite.Session) []TimeSession {
	sessions := make([]TimeSession, len(dbSessions))
	for i, dbSession := range dbSessions {
		sessions[i] = m.FromDatabase(*dbSession)
	}
	return sessions
}

// Mapper provides a unified interface for all mapping operations.
type Mapper struct {
	Task     *TaskMapper
	Category *CategoryMapper
	Session  *SessionMapper
}

// NewMapper creates a new Mapper instance with all sub-mappers.
func NewMapper() *Mapper {
	return &Mapper{
		Task:     &TaskMapper{},
		Category: &CategoryMapper{},
		Session:  &SessionMapper{},
	}
}
