package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/payee-classifier/internal/model"
)

// Validation errors.
var (
	ErrNilContext            = errors.New("context cannot be nil")
	ErrEmptyString           = errors.New("string parameter cannot be empty")
	ErrInvalidClassification = errors.New("invalid classification")
	ErrUnsupportedDriver     = errors.New("unsupported database driver")
	ErrCorruptRecord         = errors.New("corrupt stored record")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validateClassifications(results []model.PayeeClassification) error {
	for i := range results {
		if err := validateClassification(&results[i]); err != nil {
			return fmt.Errorf("result %d: %w", i, err)
		}
	}
	return nil
}

func validateClassification(pc *model.PayeeClassification) error {
	if pc.RowIndex < 0 {
		return fmt.Errorf("%w: negative row index %d", ErrInvalidClassification, pc.RowIndex)
	}

	switch pc.Result.Classification {
	case model.Business, model.Individual:
	default:
		return fmt.Errorf("%w: unknown classification %q", ErrInvalidClassification, pc.Result.Classification)
	}

	if pc.Result.Confidence < 0 || pc.Result.Confidence > 100 {
		return fmt.Errorf("%w: confidence %d out of range", ErrInvalidClassification, pc.Result.Confidence)
	}

	return nil
}
