package machine

import (
	"fmt"
	"strconv"

	"github.com/pijama-lang/pijama/internal/ast"
	"github.com/pijama-lang/pijama/internal/lir"
)

// Value is a runtime value. Inspect renders it the way print writes it:
// integers in decimal, true as 1, false as 0, unit as "unit", and closures
// as their term with de Bruijn variables.
type Value interface {
	Inspect() string
	value()
}

type Integer struct {
	Value int64
}

type Boolean struct {
	Value bool
}

type Unit struct{}

// Closure pairs a lambda body with the environment it was built in. Pushes
// onto the outer environment after the snapshot never reach the closure.
type Closure struct {
	Env  *Env
	Body lir.Term
}

// Builtin is a primitive function used as a value.
type Builtin struct {
	Prim ast.Prim
}

func (v *Integer) Inspect() string {
	return strconv.FormatInt(v.Value, 10)
}

func (v *Boolean) Inspect() string {
	if v.Value {
		return "1"
	}
	return "0"
}

func (v *Unit) Inspect() string {
	return "unit"
}

func (v *Closure) Inspect() string {
	return fmt.Sprintf("(λ. %s)", v.Body)
}

func (v *Builtin) Inspect() string {
	return v.Prim.String()
}

func (*Integer) value() {}
func (*Boolean) value() {}
func (*Unit) value()    {}
func (*Closure) value() {}
func (*Builtin) value() {}

func fromLiteral(lit ast.Literal) Value {
	switch lit.Kind {
	case ast.LitInt:
		return &Integer{Value: lit.Int}
	case ast.LitBool:
		return &Boolean{Value: lit.Bool}
	default:
		return &Unit{}
	}
}
