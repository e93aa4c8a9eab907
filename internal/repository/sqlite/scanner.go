package sqlite

import (
	"database/sql"
)

// scanCategory scans a single category from a database row
func scanCategory(s scanner) (*Category, error) {
	category := &Category{}
	err := s.Scan(&category.ID, &category.Label, &category.HourlyRate)
	if err != nil {
		return nil, err
	}
	return category, nil
}

// scanTask scans a single task from a database row
func scanTask(s scanner) (*Task, error) {
	task := &Task{}
	var categoryID sql.NullInt64

	err := s.Scan(&task.ID, &task.Title, &task.Status, &task.Position, &categoryID)
	if err != nil {
		return nil, err
	}

	if categoryID.Valid {
		task.CategoryID = &categoryID.Int64
	}

	return task, nil
}

// scanSession scans a single session from a database row. Timestamps are
// stored as RFC3339 strings.
func scanSession(s scanner) (*Session, error) {
	session := &Session{}
	var startedAt string
	var endedAt sql.NullString

	err := s.Scan(
		&session.ID,
		&session.TaskID,
		&session.CategoryRate,
		&startedAt,
		&endedAt,
		&session.DurationSeconds,
		&session.EarningsUSD,
	)
	if err != nil {
		return nil, err
	}

	session.StartedAt, err = parseTime(startedAt)
	if err != nil {
		return nil, err
	}
	if endedAt.Valid {
		t, parseErr := parseTime(endedAt.String)
		if parseErr != nil {
			return nil, parseErr
		}
		session.EndedAt = &t
	}

	return session, nil
}
