package services

import (
	"errors"
	"fmt"

	"merchant-bi-api/internal/metrics"
	"merchant-bi-api/internal/repositories"
)

// Service errors. Callers classify with errors.Is.
var (
	// ErrNotFound is returned when the addressed merchant or record does not exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument is returned when a caller-supplied argument is out of range
	ErrInvalidArgument = errors.New("invalid argument")
)

// invalidArgument wraps a reason in ErrInvalidArgument
func invalidArgument(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// translateRepositoryError maps repository failures onto service errors
func translateRepositoryError(err error) error {
	switch {
	case err == nil:
		return nil
	case repositories.IsNotFound(err):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.Is(err, repositories.ErrInvalidID), repositories.IsValidation(err):
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	default:
		return err
	}
}

// outcomeOf labels a query result for metrics
func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, ErrNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, ErrInvalidArgument):
		return metrics.OutcomeInvalidArgument
	default:
		return metrics.OutcomeError
	}
}

// repositoryNotFound builds the ErrNotFound error for a missing record
func repositoryNotFound(entity string, id int64) error {
	return translateRepositoryError(repositories.NotFoundError(entity, id))
}
