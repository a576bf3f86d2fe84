package apperrors_test

import (
	"errors"
	"testing"

	"credit-engine/internal/pkg/apperrors"

	"github.com/stretchr/testify/assert"
)

func TestNewValidationError(t *testing.T) {
	err := apperrors.NewValidationError("monthly_income", "monthly income must be a positive integer")

	assert.ErrorIs(t, err, apperrors.ErrValidation)

	var validationErr *apperrors.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "monthly_income", validationErr.Field)
	assert.Contains(t, err.Error(), "monthly_income")
}

func TestValidationErrorWithoutField(t *testing.T) {
	err := &apperrors.ValidationError{Message: "payload is empty"}
	assert.Equal(t, "validation failed: payload is empty", err.Error())
}

func TestWrapDatabaseError(t *testing.T) {
	cause := errors.New("connection refused")
	err := apperrors.WrapDatabaseError(cause, "saving customer failed")

	assert.ErrorIs(t, err, apperrors.ErrDatabase)
	assert.ErrorIs(t, err, cause)

	var appErr *apperrors.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, "DB_ERROR", appErr.Code)
	assert.Equal(t, "[DB_ERROR] saving customer failed", err.Error())
}
