package model

type SpecOperator string

const (
	SpecOpEq      SpecOperator = "eq"
	SpecOpLike    SpecOperator = "like"
	SpecOpBetween SpecOperator = "between"
	SpecOpIsNull  SpecOperator = "is_null"
	SpecOpNotNull SpecOperator = "not_null"
	SpecOpMust    SpecOperator = "must"
	SpecOpShould  SpecOperator = "should"
)

// Specification is a predicate tree the query engine renders into SQL conditions.
type Specification interface {
	Must(other Specification) Specification
	Should(other Specification) Specification
	IsComposite() bool
	Children() []Specification
	Operator() SpecOperator
	Field() string
	Value() any
}
