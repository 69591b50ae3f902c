package automation

import (
	"context"

	apperrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-automation/compiler"
	"github.com/goliatone/go-automation/validate"
)

// SaveHandler persists or registers a compiled automation. The editor holds
// no lock while it runs.
type SaveHandler interface {
	Save(ctx context.Context, def compiler.Definition) error
}

// SaveFunc adapts a function to SaveHandler.
type SaveFunc func(ctx context.Context, def compiler.Definition) error

func (f SaveFunc) Save(ctx context.Context, def compiler.Definition) error {
	return f(ctx, def)
}

// Save compiles the graph and hands the definition to h. Structural errors
// always block; field errors block only with WithStrictSave. The handler
// receives a copy, so later edits never reach it.
func (e *Editor) Save(ctx context.Context, h SaveHandler) (compiler.Definition, error) {
	if h == nil {
		return compiler.Definition{}, ErrNilHandler.Clone()
	}
	if ctx == nil {
		ctx = context.Background()
	}
	logger := e.logger.WithContext(ctx)

	if err := ctx.Err(); err != nil {
		return compiler.Definition{}, apperrors.Wrap(err, apperrors.CategoryExternal, "save cancelled").
			WithTextCode(ErrCodeSaveCancelled)
	}

	def, err := e.Compile()
	if err != nil {
		logger.Warn("save blocked: %v", err)
		return compiler.Definition{}, err
	}

	if e.strict {
		fields := validate.Fields(e.graph, e.reg)
		if validate.HasErrors(fields) {
			logger.Warn("save blocked by field errors: %d", len(validate.InvalidNodes(fields)))
			return compiler.Definition{}, ErrInvalidFields.Clone().WithMetadata(map[string]any{
				"invalid_nodes": validate.InvalidNodes(fields),
				"messages":      validate.Messages(fields),
			})
		}
	}

	if err := h.Save(ctx, def.Clone()); err != nil {
		logger.Error("save handler failed: %v", err)
		return compiler.Definition{}, apperrors.Wrap(err, apperrors.CategoryExternal, "save handler failed").
			WithTextCode(ErrCodeSaveFailed).
			WithMetadata(map[string]any{
				"trigger_type": def.TriggerType,
				"actions":      len(def.Actions),
			})
	}

	withLoggerFields(logger, map[string]any{
		"trigger_type": def.TriggerType,
		"actions":      len(def.Actions),
	}).Info("automation saved")
	return def, nil
}
