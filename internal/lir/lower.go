package lir

import (
	"github.com/pijama-lang/pijama/internal/ast"
	"github.com/pijama-lang/pijama/internal/diagnostics"
	"github.com/pijama-lang/pijama/internal/mir"
)

// Lower converts a named term into a nameless one. A stack of binder names
// tracks scope; a variable becomes the distance from the top of the stack to
// the nearest binding of its name.
//
// An unbound name should already have been rejected by the type-checker;
// the check here is kept as a safety net.
func Lower(term mir.Term) (Term, *diagnostics.Error) {
	l := &lowerer{}
	return l.lower(term)
}

type lowerer struct {
	stack []ast.Name
}

func (l *lowerer) push(name ast.Name) {
	l.stack = append(l.stack, name)
}

func (l *lowerer) pop() {
	l.stack = l.stack[:len(l.stack)-1]
}

func (l *lowerer) index(name ast.Name) (int, bool) {
	for i := len(l.stack) - 1; i >= 0; i-- {
		if l.stack[i] == name {
			return len(l.stack) - 1 - i, true
		}
	}
	return 0, false
}

func (l *lowerer) lower(term mir.Term) (Term, *diagnostics.Error) {
	switch t := term.(type) {
	case *mir.Lit:
		return &Lit{Value: t.Value, Loc: t.Loc}, nil

	case *mir.Var:
		index, ok := l.index(t.Name)
		if !ok {
			return nil, diagnostics.New(diagnostics.PhaseLower, diagnostics.ErrW003, t.Loc, string(t.Name))
		}
		return &Var{Index: index, Loc: t.Loc}, nil

	case *mir.Prim:
		return &Prim{Prim: t.Prim, Loc: t.Loc}, nil

	case *mir.BinaryOp:
		left, err := l.lower(t.Left)
		if err != nil {
			return nil, err
		}
		right, err := l.lower(t.Right)
		if err != nil {
			return nil, err
		}
		return &BinaryOp{Op: t.Op, Left: left, Right: right, Loc: t.Loc}, nil

	case *mir.UnaryOp:
		operand, err := l.lower(t.Operand)
		if err != nil {
			return nil, err
		}
		return &UnaryOp{Op: t.Op, Operand: operand, Loc: t.Loc}, nil

	case *mir.Cond:
		cond, err := l.lower(t.Cond)
		if err != nil {
			return nil, err
		}
		then, err := l.lower(t.Then)
		if err != nil {
			return nil, err
		}
		els, err := l.lower(t.Else)
		if err != nil {
			return nil, err
		}
		return &Cond{Cond: cond, Then: then, Else: els, Loc: t.Loc}, nil

	case *mir.App:
		fun, err := l.lower(t.Fun)
		if err != nil {
			return nil, err
		}
		arg, err := l.lower(t.Arg)
		if err != nil {
			return nil, err
		}
		return &App{Fun: fun, Arg: arg, Loc: t.Loc}, nil

	case *mir.Abs:
		l.push(t.Bind.Name)
		body, err := l.lower(t.Body)
		l.pop()
		if err != nil {
			return nil, err
		}
		return &Abs{Body: body, Loc: t.Loc}, nil

	case *mir.Let:
		if t.Kind.Rec {
			// The binder is pushed before the value is lowered so that
			// occurrences of the name inside the value resolve to the
			// innermost slot.
			l.push(t.Name)
			value, err := l.lower(t.Value)
			if err != nil {
				l.pop()
				return nil, err
			}
			body, err := l.lower(t.Body)
			l.pop()
			if err != nil {
				return nil, err
			}
			return &Let{Rec: true, Value: value, Body: body, Loc: t.Loc}, nil
		}

		value, err := l.lower(t.Value)
		if err != nil {
			return nil, err
		}
		l.push(t.Name)
		body, err := l.lower(t.Body)
		l.pop()
		if err != nil {
			return nil, err
		}
		return &Let{Rec: false, Value: value, Body: body, Loc: t.Loc}, nil

	case *mir.Seq:
		first, err := l.lower(t.First)
		if err != nil {
			return nil, err
		}
		second, err := l.lower(t.Second)
		if err != nil {
			return nil, err
		}
		return &Seq{First: first, Second: second, Loc: t.Loc}, nil

	default:
		return nil, diagnostics.New(diagnostics.PhaseLower, diagnostics.ErrR004, term.Span(), "unknown term")
	}
}
