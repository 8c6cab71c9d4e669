package repositories

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRepositoryErrorClassification(t *testing.T) {
	notFound := NotFoundError("merchant", 42)
	assert.Equal(t, "merchant with ID 42 not found", notFound.Error())
	assert.True(t, IsNotFound(notFound))
	assert.True(t, IsNotFound(fmt.Errorf("lookup: %w", notFound)))
	assert.False(t, IsValidation(notFound))

	invalid := ValidationError("merchant", errors.New("name is required"))
	assert.True(t, IsValidation(invalid))
	assert.Contains(t, invalid.Error(), "name is required")

	constraint := ConstraintError("invoice", "FOREIGN KEY", errors.New("FOREIGN KEY constraint failed"))
	assert.True(t, IsConstraint(constraint))
	assert.False(t, IsNotFound(constraint))
}

func TestRepositoryErrorMessage(t *testing.T) {
	cause := errors.New("disk I/O error")

	err := NewRepositoryError("list", "merchant", 0, cause)
	assert.Equal(t, "merchant list operation failed: disk I/O error", err.Error())
	assert.ErrorIs(t, err, cause)

	err = NewRepositoryError("get_by_id", "merchant", 7, cause)
	assert.Equal(t, "merchant get_by_id operation failed for ID 7: disk I/O error", err.Error())
}
