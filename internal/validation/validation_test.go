package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateID(t *testing.T) {
	assert.NoError(t, ValidateID("taskID", 1))
	assert.Error(t, ValidateID("taskID", 0))
	assert.Error(t, ValidateID("taskID", -7))
}

func TestValidateTitle(t *testing.T) {
	assert.NoError(t, ValidateTitle("title", "Write report"))
	assert.Error(t, ValidateTitle("title", ""))
	assert.Error(t, ValidateTitle("title", "   "))
	assert.Error(t, ValidateTitle("title", strings.Repeat("x", TitleMaxLength+1)))
	assert.NoError(t, ValidateTitle("title", strings.Repeat("x", TitleMaxLength)))
}

func TestCleanTitle(t *testing.T) {
	assert.Equal(t, "Write report", CleanTitle("  Write report \n"))
}

func TestValidateRate(t *testing.T) {
	assert.NoError(t, ValidateRate(0))
	assert.NoError(t, ValidateRate(150.50))
	assert.Error(t, ValidateRate(-1))
}

func TestValidateStatus(t *testing.T) {
	for _, status := range []string{"backlog", "todo", "doing", "done"} {
		assert.NoError(t, ValidateStatus(status))
	}
	assert.Error(t, ValidateStatus("archived"))
	assert.Error(t, ValidateStatus(""))
}
