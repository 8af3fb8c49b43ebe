package schema

import (
	"context"
	"fmt"

	"github.com/architeacher/records/pkg/logger"
	"github.com/architeacher/records/services/svc-records/internal/domain/model"
)

type (
	// Pipeline validates inbound payloads and shapes outbound records using the registry.
	Pipeline struct {
		registry *Registry
		logger   logger.Logger
	}

	// Output is a shaped response; Transformed is set when a bound transform produced Body.
	Output struct {
		Body        any
		Transformed bool
	}
)

func NewPipeline(registry *Registry, log logger.Logger) *Pipeline {
	return &Pipeline{
		registry: registry,
		logger:   log,
	}
}

// Inbound validates payload for operation. Create and update fail with
// ConfigurationMissing when no input schema is bound.
func (p *Pipeline) Inbound(
	ctx context.Context,
	owner string,
	operation Operation,
	method string,
	payload model.Record,
) (model.Record, error) {
	binding, source := p.registry.Resolve(owner, operation, method)

	if binding.Input == nil {
		if !operation.RequiresInput() {
			return payload, nil
		}

		opLogger := p.logger.ForOperation(ctx, owner, string(operation))
		opLogger.Error().
			Str("method", method).
			Str("source", source.String()).
			Msg("no input schema bound")

		return nil, &model.ConfigurationMissingError{Owner: owner, Operation: string(operation)}
	}

	if err := Validate(binding.Input, payload); err != nil {
		return nil, err
	}

	return payload, nil
}

// Outbound projects result, a record or a record slice, onto the bound output
// schema and then applies the bound transform, if any.
func (p *Pipeline) Outbound(ctx context.Context, owner string, operation Operation, method string, result any) (any, error) {
	output, err := p.Shape(ctx, owner, operation, method, result)
	if err != nil {
		return nil, err
	}

	return output.Body, nil
}

func (p *Pipeline) Shape(ctx context.Context, owner string, operation Operation, method string, result any) (Output, error) {
	binding, source := p.registry.Resolve(owner, operation, method)

	if binding.Output == nil {
		opLogger := p.logger.ForOperation(ctx, owner, string(operation))
		opLogger.Warn().
			Str("method", method).
			Str("source", source.String()).
			Msg("no output schema bound, passing records through")
	}

	var projected any

	switch typed := result.(type) {
	case model.Record:
		projected = Project(binding.Output, typed)
	case []model.Record:
		projected = ProjectAll(binding.Output, typed)
	case nil:
		projected = nil
	default:
		return Output{}, fmt.Errorf("%w: cannot shape %T", model.ErrUnexpected, result)
	}

	if binding.Transform == nil {
		return Output{Body: projected}, nil
	}

	return Output{Body: binding.Transform(projected), Transformed: true}, nil
}
