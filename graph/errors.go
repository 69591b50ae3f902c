package graph

import (
	stderrors "errors"
	"strings"

	apperrors "github.com/goliatone/go-errors"
)

const (
	ErrCodeNodeNotFound     = "GRAPH_NODE_NOT_FOUND"
	ErrCodeEdgeNotFound     = "GRAPH_EDGE_NOT_FOUND"
	ErrCodeEdgeRejected     = "GRAPH_EDGE_REJECTED"
	ErrCodeTriggerProtected = "GRAPH_TRIGGER_PROTECTED"
	ErrCodeDuplicateTrigger = "GRAPH_DUPLICATE_TRIGGER"
	ErrCodeInvalidCommand   = "GRAPH_INVALID_COMMAND"
	ErrCodeUnsupportedKind  = "GRAPH_UNSUPPORTED_KIND"
)

var (
	ErrNodeNotFound = apperrors.New("node not found", apperrors.CategoryNotFound).
			WithTextCode(ErrCodeNodeNotFound)
	ErrEdgeNotFound = apperrors.New("edge not found", apperrors.CategoryNotFound).
			WithTextCode(ErrCodeEdgeNotFound)
	ErrEdgeRejected = apperrors.New("connection not allowed", apperrors.CategoryBadInput).
			WithTextCode(ErrCodeEdgeRejected)
	ErrTriggerProtected = apperrors.New("trigger node cannot be deleted", apperrors.CategoryBadInput).
				WithTextCode(ErrCodeTriggerProtected)
	ErrDuplicateTrigger = apperrors.New("graph already has a trigger node", apperrors.CategoryConflict).
				WithTextCode(ErrCodeDuplicateTrigger)
	ErrInvalidCommand = apperrors.New("invalid graph command", apperrors.CategoryValidation).
				WithTextCode(ErrCodeInvalidCommand)
	ErrUnsupportedKind = apperrors.New("unsupported node kind", apperrors.CategoryBadInput).
				WithTextCode(ErrCodeUnsupportedKind)
)

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

// ErrorCode returns the text code of a graph error, or "" for foreign errors.
func ErrorCode(err error) string {
	var ge *apperrors.Error
	if stderrors.As(err, &ge) {
		return ge.TextCode
	}
	return ""
}

// IsRejectedEdge reports whether err came from a refused connection.
func IsRejectedEdge(err error) bool {
	return ErrorCode(err) == ErrCodeEdgeRejected
}
