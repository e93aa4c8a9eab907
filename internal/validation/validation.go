package validation

import (
	"strings"

	"mbb-tracker/internal/domain"
	"mbb-tracker/internal/errors"
)

const (
	// TitleMaxLength bounds task titles and category labels.
	TitleMaxLength = 255
)

// ValidateID checks that an identifier is positive. A non-positive ID is a
// contract violation by the caller, not an expected runtime condition.
func ValidateID(field string, id int64) error {
	if id <= 0 {
		return errors.NewInvalidInputError(field, id, "must be positive")
	}
	return nil
}

// ValidateTitle checks a task title or category label.
func ValidateTitle(field, title string) error {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return errors.NewValidationError(field+" cannot be empty", nil)
	}
	if len(trimmed) > TitleMaxLength {
		return errors.NewValidationError(field+" is too long", nil)
	}
	return nil
}

// CleanTitle returns the title with surrounding whitespace removed.
func CleanTitle(title string) string {
	return strings.TrimSpace(title)
}

// ValidateRate checks an hourly rate.
func ValidateRate(rate float64) error {
	if rate < 0 {
		return errors.NewValidationError("hourly rate cannot be negative", nil)
	}
	return nil
}

// ValidateStatus checks a board column name.
func ValidateStatus(status string) error {
	if !domain.Status(status).IsValid() {
		return errors.NewInvalidInputError("status", status, "unknown board column")
	}
	return nil
}
