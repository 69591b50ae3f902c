package compiler

import (
	stderrors "errors"

	apperrors "github.com/goliatone/go-errors"
)

const (
	ErrCodeNoTrigger = "AUTOMATION_NO_TRIGGER"
	ErrCodeNoActions = "AUTOMATION_NO_ACTIONS"
)

var (
	ErrNoTrigger = apperrors.New("automation has no trigger", apperrors.CategoryValidation).
			WithTextCode(ErrCodeNoTrigger)
	ErrNoActions = apperrors.New("automation needs at least one action", apperrors.CategoryValidation).
			WithTextCode(ErrCodeNoActions)
)

// ErrorCode returns the text code of a compile error.
func ErrorCode(err error) string {
	var ge *apperrors.Error
	if stderrors.As(err, &ge) {
		return ge.TextCode
	}
	return ""
}

// IsStructural reports whether err is one of the errors that block saving.
func IsStructural(err error) bool {
	switch ErrorCode(err) {
	case ErrCodeNoTrigger, ErrCodeNoActions:
		return true
	}
	return false
}
