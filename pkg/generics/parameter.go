package generics

import (
	"github.com/tydi-lang/tilc/pkg/ilerrors"
	"github.com/tydi-lang/tilc/pkg/name"
)

// Parameter is a compile-time generic parameter: a named, integer-kinded
// slot with a required default value and an optional condition that any
// assignment (including the default) must satisfy.
type Parameter struct {
	Name      name.Name
	Kind      Kind
	Default   int64
	Condition Condition // nil means "always satisfied"
}

// NewParameter validates default against kind and, if cond is non-nil,
// against cond, returning InvalidArgument on either failure.
func NewParameter(n name.Name, kind Kind, def int64, cond Condition) (*Parameter, error) {
	if err := kind.Validate(def); err != nil {
		return nil, err
	}
	if cond != nil && !cond.Evaluate(def) {
		return nil, ilerrors.InvalidArgument(
			"default value %d for parameter %q does not satisfy its condition %s", def, n.String(), cond.String())
	}
	return &Parameter{Name: n, Kind: kind, Default: def, Condition: cond}, nil
}

// WithCondition returns a copy of p with cond composed on top of any
// existing condition (both must hold), re-validating the default.
func (p *Parameter) WithCondition(cond Condition) (*Parameter, error) {
	combined := cond
	if p.Condition != nil {
		combined = And{Left: p.Condition, Right: cond}
	}
	return NewParameter(p.Name, p.Kind, p.Default, combined)
}

// Validate checks that v satisfies both the parameter's kind and its
// condition (if any).
func (p *Parameter) Validate(v int64) error {
	if err := p.Kind.Validate(v); err != nil {
		return err
	}
	if p.Condition != nil && !p.Condition.Evaluate(v) {
		return ilerrors.InvalidArgument(
			"value %d for parameter %q does not satisfy its condition %s", v, p.Name.String(), p.Condition.String())
	}
	return nil
}
