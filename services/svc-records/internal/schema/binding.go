package schema

import "github.com/getkin/kin-openapi/openapi3"

type Operation string

const (
	OpCreate     Operation = "create"
	OpUpdate     Operation = "update"
	OpFindAll    Operation = "findAll"
	OpFindOne    Operation = "findOne"
	OpSoftDelete Operation = "softDelete"
	OpRestore    Operation = "restore"
	OpDelete     Operation = "delete"
)

// RequiresInput reports whether the operation persists a caller payload.
func (o Operation) RequiresInput() bool {
	return o == OpCreate || o == OpUpdate
}

type Source uint8

const (
	SourceIdentity Source = iota
	SourceClass
	SourceMethod
)

func (s Source) String() string {
	switch s {
	case SourceClass:
		return "class"
	case SourceMethod:
		return "method"
	default:
		return "identity"
	}
}

type (
	// TransformFunc reshapes an already projected record or record slice.
	TransformFunc func(result any) any

	// Binding is the schema pair and optional response shaping applied to one operation.
	Binding struct {
		Input     *openapi3.Schema
		Output    *openapi3.Schema
		Transform TransformFunc
	}
)

func (b Binding) IsZero() bool {
	return b.Input == nil && b.Output == nil && b.Transform == nil
}

// overlay returns b with every field set on override replacing its counterpart.
func (b Binding) overlay(override Binding) Binding {
	if override.Input != nil {
		b.Input = override.Input
	}

	if override.Output != nil {
		b.Output = override.Output
	}

	if override.Transform != nil {
		b.Transform = override.Transform
	}

	return b
}
