// Package machine is the environment-based evaluator. Evaluation is strict
// and left to right, with two exceptions: conditionals are lazy in their
// branches, and && and || are short-circuit in their second operand.
package machine

import (
	"io"
	"math"

	"github.com/pijama-lang/pijama/internal/ast"
	"github.com/pijama-lang/pijama/internal/diagnostics"
	"github.com/pijama-lang/pijama/internal/lir"
	"github.com/pijama-lang/pijama/internal/token"
)

type Machine struct {
	out      io.Writer
	maxSteps int
	steps    int
}

// New creates a machine writing program output to out. maxSteps bounds the
// number of evaluation steps; 0 means unlimited.
func New(out io.Writer, maxSteps int) *Machine {
	return &Machine{out: out, maxSteps: maxSteps}
}

// Run evaluates a closed term in the empty environment.
func (m *Machine) Run(term lir.Term) (Value, *diagnostics.Error) {
	m.steps = 0
	return m.eval(term, nil)
}

func (m *Machine) eval(term lir.Term, env *Env) (Value, *diagnostics.Error) {
	m.steps++
	if m.maxSteps > 0 && m.steps > m.maxSteps {
		return nil, diagnostics.New(diagnostics.PhaseRuntime, diagnostics.ErrR003, term.Span())
	}

	switch t := term.(type) {
	case *lir.Lit:
		return fromLiteral(t.Value), nil

	case *lir.Var:
		value, ok := env.Lookup(t.Index)
		if !ok {
			return nil, diagnostics.New(diagnostics.PhaseRuntime, diagnostics.ErrR004, t.Loc, "variable slot out of range")
		}
		return value, nil

	case *lir.Prim:
		return &Builtin{Prim: t.Prim}, nil

	case *lir.Abs:
		return &Closure{Env: env, Body: t.Body}, nil

	case *lir.App:
		return m.evalApp(t, env)

	case *lir.BinaryOp:
		return m.evalBinaryOp(t, env)

	case *lir.UnaryOp:
		return m.evalUnaryOp(t, env)

	case *lir.Cond:
		cond, err := m.eval(t.Cond, env)
		if err != nil {
			return nil, err
		}
		b, ok := cond.(*Boolean)
		if !ok {
			return nil, diagnostics.New(diagnostics.PhaseRuntime, diagnostics.ErrR004, t.Cond.Span(), "condition is not a boolean")
		}
		if b.Value {
			return m.eval(t.Then, env)
		}
		return m.eval(t.Else, env)

	case *lir.Let:
		return m.evalLet(t, env)

	case *lir.Seq:
		if _, err := m.eval(t.First, env); err != nil {
			return nil, err
		}
		return m.eval(t.Second, env)

	default:
		return nil, diagnostics.New(diagnostics.PhaseRuntime, diagnostics.ErrR004, term.Span(), "unknown term")
	}
}

func (m *Machine) evalApp(t *lir.App, env *Env) (Value, *diagnostics.Error) {
	fun, err := m.eval(t.Fun, env)
	if err != nil {
		return nil, err
	}
	arg, err := m.eval(t.Arg, env)
	if err != nil {
		return nil, err
	}

	switch f := fun.(type) {
	case *Closure:
		return m.eval(f.Body, f.Env.Push(arg))
	case *Builtin:
		// print writes the value and a newline, and yields unit.
		if _, werr := io.WriteString(m.out, arg.Inspect()+"\n"); werr != nil {
			return nil, diagnostics.New(diagnostics.PhaseRuntime, diagnostics.ErrR004, t.Loc, werr.Error())
		}
		return &Unit{}, nil
	default:
		return nil, diagnostics.New(diagnostics.PhaseRuntime, diagnostics.ErrR004, t.Fun.Span(), "called value is not a function")
	}
}

func (m *Machine) evalLet(t *lir.Let, env *Env) (Value, *diagnostics.Error) {
	if t.Rec {
		// Fixed-point binding: the slot is visible (but empty) while the
		// value is evaluated, then patched with the result. When the value is
		// a lambda, nothing reads the slot before it is filled; a recursive
		// definition without parameters reads the still empty slot and fails
		// with an internal machine error.
		s := &slot{}
		inner := &Env{slot: s, next: env}
		value, err := m.eval(t.Value, inner)
		if err != nil {
			return nil, err
		}
		s.value = value
		return m.eval(t.Body, inner)
	}

	value, err := m.eval(t.Value, env)
	if err != nil {
		return nil, err
	}
	return m.eval(t.Body, env.Push(value))
}

func (m *Machine) evalBinaryOp(t *lir.BinaryOp, env *Env) (Value, *diagnostics.Error) {
	// && and || must not evaluate their right operand when the left one
	// already decides the result.
	if t.Op == ast.And || t.Op == ast.Or {
		return m.evalShortCircuit(t, env)
	}

	left, err := m.eval(t.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := m.eval(t.Right, env)
	if err != nil {
		return nil, err
	}

	switch t.Op {
	case ast.Eq:
		return &Boolean{Value: valuesEqual(left, right)}, nil
	case ast.Neq:
		return &Boolean{Value: !valuesEqual(left, right)}, nil
	}

	a, aok := left.(*Integer)
	b, bok := right.(*Integer)
	if !aok || !bok {
		return nil, diagnostics.New(diagnostics.PhaseRuntime, diagnostics.ErrR004, t.Loc, "operands are not integers")
	}

	switch t.Op {
	case ast.Add, ast.Sub, ast.Mul, ast.Div, ast.Rem, ast.Shl, ast.Shr:
		n, err := m.arith(t.Op, a.Value, b.Value, t.Loc)
		if err != nil {
			return nil, err
		}
		return &Integer{Value: n}, nil
	case ast.BitAnd:
		return &Integer{Value: a.Value & b.Value}, nil
	case ast.BitOr:
		return &Integer{Value: a.Value | b.Value}, nil
	case ast.BitXor:
		return &Integer{Value: a.Value ^ b.Value}, nil
	case ast.Lt:
		return &Boolean{Value: a.Value < b.Value}, nil
	case ast.Gt:
		return &Boolean{Value: a.Value > b.Value}, nil
	case ast.Lte:
		return &Boolean{Value: a.Value <= b.Value}, nil
	case ast.Gte:
		return &Boolean{Value: a.Value >= b.Value}, nil
	default:
		return nil, diagnostics.New(diagnostics.PhaseRuntime, diagnostics.ErrR004, t.Loc, "unknown operator")
	}
}

func (m *Machine) evalShortCircuit(t *lir.BinaryOp, env *Env) (Value, *diagnostics.Error) {
	left, err := m.eval(t.Left, env)
	if err != nil {
		return nil, err
	}
	l, ok := left.(*Boolean)
	if !ok {
		return nil, diagnostics.New(diagnostics.PhaseRuntime, diagnostics.ErrR004, t.Left.Span(), "operand is not a boolean")
	}

	if t.Op == ast.And && !l.Value {
		return &Boolean{Value: false}, nil
	}
	if t.Op == ast.Or && l.Value {
		return &Boolean{Value: true}, nil
	}

	right, err := m.eval(t.Right, env)
	if err != nil {
		return nil, err
	}
	r, ok := right.(*Boolean)
	if !ok {
		return nil, diagnostics.New(diagnostics.PhaseRuntime, diagnostics.ErrR004, t.Right.Span(), "operand is not a boolean")
	}
	return &Boolean{Value: r.Value}, nil
}

// arith performs checked 64-bit signed arithmetic.
func (m *Machine) arith(op ast.BinOp, a, b int64, loc token.Span) (int64, *diagnostics.Error) {
	overflow := func() (int64, *diagnostics.Error) {
		return 0, diagnostics.New(diagnostics.PhaseRuntime, diagnostics.ErrR001, loc, op.String())
	}

	switch op {
	case ast.Add:
		if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
			return overflow()
		}
		return a + b, nil
	case ast.Sub:
		if (b < 0 && a > math.MaxInt64+b) || (b > 0 && a < math.MinInt64+b) {
			return overflow()
		}
		return a - b, nil
	case ast.Mul:
		if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
			return overflow()
		}
		r := a * b
		if a != 0 && r/a != b {
			return overflow()
		}
		return r, nil
	case ast.Div:
		if b == 0 {
			return 0, diagnostics.New(diagnostics.PhaseRuntime, diagnostics.ErrR002, loc)
		}
		if a == math.MinInt64 && b == -1 {
			return overflow()
		}
		return a / b, nil
	case ast.Rem:
		if b == 0 {
			return 0, diagnostics.New(diagnostics.PhaseRuntime, diagnostics.ErrR002, loc)
		}
		if a == math.MinInt64 && b == -1 {
			return overflow()
		}
		return a % b, nil
	case ast.Shl:
		if b < 0 || b >= 64 {
			return overflow()
		}
		return a << uint(b), nil
	case ast.Shr:
		if b < 0 || b >= 64 {
			return overflow()
		}
		return a >> uint(b), nil
	default:
		return 0, diagnostics.New(diagnostics.PhaseRuntime, diagnostics.ErrR004, loc, "unknown operator")
	}
}

func (m *Machine) evalUnaryOp(t *lir.UnaryOp, env *Env) (Value, *diagnostics.Error) {
	operand, err := m.eval(t.Operand, env)
	if err != nil {
		return nil, err
	}

	switch t.Op {
	case ast.Neg:
		n, ok := operand.(*Integer)
		if !ok {
			return nil, diagnostics.New(diagnostics.PhaseRuntime, diagnostics.ErrR004, t.Operand.Span(), "operand is not an integer")
		}
		if n.Value == math.MinInt64 {
			return nil, diagnostics.New(diagnostics.PhaseRuntime, diagnostics.ErrR001, t.Loc, t.Op.String())
		}
		return &Integer{Value: -n.Value}, nil
	default:
		b, ok := operand.(*Boolean)
		if !ok {
			return nil, diagnostics.New(diagnostics.PhaseRuntime, diagnostics.ErrR004, t.Operand.Span(), "operand is not a boolean")
		}
		return &Boolean{Value: !b.Value}, nil
	}
}

func valuesEqual(a, b Value) bool {
	switch av := a.(type) {
	case *Integer:
		bv, ok := b.(*Integer)
		return ok && av.Value == bv.Value
	case *Boolean:
		bv, ok := b.(*Boolean)
		return ok && av.Value == bv.Value
	case *Unit:
		_, ok := b.(*Unit)
		return ok
	default:
		// Functions compare by identity.
		return a == b
	}
}
