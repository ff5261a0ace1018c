package service

import (
	"errors"
	"fmt"

	"github.com/lshigami/examprep/internal/dto"
	"github.com/lshigami/examprep/internal/evaluator"
	"github.com/lshigami/examprep/internal/repository"
)

var (
	ErrNotFound          = repository.ErrNotFound
	ErrInvalidInput      = errors.New("invalid input")
	ErrPaymentRequired   = errors.New("an active membership is required for this test")
	ErrAttemptsExhausted = errors.New("no attempts left for this test")
	ErrForbidden         = errors.New("forbidden")
	ErrConflict          = errors.New("conflict")
	ErrUnavailable       = errors.New("service unavailable")
	ErrSessionBusy       = evaluator.ErrSessionBusy
)

// DeniedError is returned when entitlement denies a start. It carries the plan to offer.
type DeniedError struct {
	TestID uint
	Upsell *dto.PlanDTO
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("test %d: %s", e.TestID, ErrPaymentRequired)
}

func (e *DeniedError) Unwrap() error { return ErrPaymentRequired }

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
