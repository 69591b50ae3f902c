package catalog

import (
	stderrors "errors"
	"strings"

	apperrors "github.com/goliatone/go-errors"
)

const (
	ErrCodeEmptyRegistry     = "CATALOG_EMPTY_REGISTRY"
	ErrCodeUnknownType       = "CATALOG_UNKNOWN_TYPE"
	ErrCodeInvalidDescriptor = "CATALOG_INVALID_DESCRIPTOR"
	ErrCodeInvalidConfig     = "CATALOG_INVALID_CONFIG"
)

var (
	// ErrEmptyRegistry is returned when a registry lacks trigger or action
	// types. Hosts must treat it as fatal: no valid graph can be authored.
	ErrEmptyRegistry = apperrors.New("registry requires at least one trigger and one action type", apperrors.CategoryBadInput).
				WithTextCode(ErrCodeEmptyRegistry)
	ErrUnknownType = apperrors.New("unknown type", apperrors.CategoryNotFound).
			WithTextCode(ErrCodeUnknownType)
	ErrInvalidDescriptor = apperrors.New("invalid type descriptor", apperrors.CategoryValidation).
				WithTextCode(ErrCodeInvalidDescriptor)
	ErrInvalidConfig = apperrors.New("invalid node config", apperrors.CategoryValidation).
				WithTextCode(ErrCodeInvalidConfig)
)

// ErrorCode returns the text code carried by a catalog error.
func ErrorCode(err error) string {
	var ge *apperrors.Error
	if stderrors.As(err, &ge) {
		return ge.TextCode
	}
	return ""
}

func newError(base *apperrors.Error, message string, metadata map[string]any) *apperrors.Error {
	err := base.Clone()
	if text := strings.TrimSpace(message); text != "" {
		err.Message = text
	}
	if len(metadata) > 0 {
		err = err.WithMetadata(metadata)
	}
	return err
}
