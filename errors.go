package automation

import (
	stderrors "errors"

	apperrors "github.com/goliatone/go-errors"
)

const (
	ErrCodeInvalidFields = "AUTOMATION_INVALID_FIELDS"
	ErrCodeNilRegistry   = "AUTOMATION_NIL_REGISTRY"
	ErrCodeNilHandler    = "AUTOMATION_NIL_SAVE_HANDLER"
	ErrCodeSaveCancelled = "AUTOMATION_SAVE_CANCELLED"
	ErrCodeSaveFailed    = "AUTOMATION_SAVE_FAILED"
)

var (
	// ErrInvalidFields blocks Save in strict mode when any node has a
	// missing or invalid config field.
	ErrInvalidFields = apperrors.New("automation has invalid node configuration", apperrors.CategoryValidation).
				WithTextCode(ErrCodeInvalidFields)
	ErrNilRegistry = apperrors.New("type registry is required", apperrors.CategoryBadInput).
			WithTextCode(ErrCodeNilRegistry)
	ErrNilHandler = apperrors.New("save handler is required", apperrors.CategoryBadInput).
			WithTextCode(ErrCodeNilHandler)
)

// ErrorCode returns the text code of any error raised by this module's
// packages, or "" for foreign errors.
func ErrorCode(err error) string {
	var ge *apperrors.Error
	if stderrors.As(err, &ge) {
		return ge.TextCode
	}
	return ""
}
