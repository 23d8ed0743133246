// Package typecheck infers a type for a term in two phases: a walk that
// collects equality constraints, and a unification pass that solves them.
package typecheck

import (
	"github.com/pijama-lang/pijama/internal/ast"
	"github.com/pijama-lang/pijama/internal/diagnostics"
	"github.com/pijama-lang/pijama/internal/mir"
	"github.com/pijama-lang/pijama/internal/token"
	"github.com/pijama-lang/pijama/internal/types"
)

// constraint demands that two types unify. The expected side is the type
// dictated by the operator or context; the found side is what was inferred,
// and the span points at the term the found type came from.
type constraint struct {
	expected types.Type
	found    types.Type
	span     token.Span
}

type scopeEntry struct {
	name ast.Name
	ty   types.Type
}

type checker struct {
	scope       []scopeEntry
	next        int
	constraints []constraint
}

// Check infers the type of the term. The result is the inferred type with
// the final substitution applied; it may still contain variables, which
// represent unconstrained but consistent unknowns.
func Check(term mir.Term) (types.Type, *diagnostics.Error) {
	c := &checker{}
	ty, err := c.infer(term)
	if err != nil {
		return nil, err
	}
	subst, err := c.solve()
	if err != nil {
		return nil, err
	}
	return ty.Apply(subst), nil
}

func (c *checker) fresh() types.Var {
	v := types.Var{Index: c.next}
	c.next++
	return v
}

func (c *checker) constrain(expected, found types.Type, span token.Span) {
	c.constraints = append(c.constraints, constraint{expected: expected, found: found, span: span})
}

func (c *checker) push(name ast.Name, ty types.Type) {
	c.scope = append(c.scope, scopeEntry{name: name, ty: ty})
}

func (c *checker) pop() {
	c.scope = c.scope[:len(c.scope)-1]
}

func (c *checker) lookup(name ast.Name) (types.Type, bool) {
	for i := len(c.scope) - 1; i >= 0; i-- {
		if c.scope[i].name == name {
			return c.scope[i].ty, true
		}
	}
	return nil, false
}

func (c *checker) infer(term mir.Term) (types.Type, *diagnostics.Error) {
	switch t := term.(type) {
	case *mir.Lit:
		switch t.Value.Kind {
		case ast.LitBool:
			return types.Bool, nil
		case ast.LitInt:
			return types.Int, nil
		default:
			return types.Unit, nil
		}

	case *mir.Var:
		ty, ok := c.lookup(t.Name)
		if !ok {
			return nil, diagnostics.New(diagnostics.PhaseTypecheck, diagnostics.ErrT003, t.Loc, string(t.Name))
		}
		return ty, nil

	case *mir.Prim:
		// print accepts any one argument and returns unit; the argument type
		// is a fresh unknown per use.
		return types.Arrow{Domain: c.fresh(), Codomain: types.Unit}, nil

	case *mir.BinaryOp:
		return c.inferBinaryOp(t)

	case *mir.UnaryOp:
		operandTy, err := c.infer(t.Operand)
		if err != nil {
			return nil, err
		}
		switch t.Op {
		case ast.Neg:
			c.constrain(types.Int, operandTy, t.Operand.Span())
			return types.Int, nil
		default:
			c.constrain(types.Bool, operandTy, t.Operand.Span())
			return types.Bool, nil
		}

	case *mir.Cond:
		condTy, err := c.infer(t.Cond)
		if err != nil {
			return nil, err
		}
		c.constrain(types.Bool, condTy, t.Cond.Span())
		thenTy, err := c.infer(t.Then)
		if err != nil {
			return nil, err
		}
		elseTy, err := c.infer(t.Else)
		if err != nil {
			return nil, err
		}
		c.constrain(thenTy, elseTy, t.Else.Span())
		return thenTy, nil

	case *mir.App:
		funTy, err := c.infer(t.Fun)
		if err != nil {
			return nil, err
		}
		argTy, err := c.infer(t.Arg)
		if err != nil {
			return nil, err
		}
		result := c.fresh()
		// The function's type is the authority here, so it sits on the
		// expected side and the mismatch points at the argument.
		c.constrain(funTy, types.Arrow{Domain: argTy, Codomain: result}, t.Arg.Span())
		return result, nil

	case *mir.Abs:
		paramTy := t.Bind.Ty
		if paramTy == nil {
			paramTy = c.fresh()
		}
		c.push(t.Bind.Name, paramTy)
		bodyTy, err := c.infer(t.Body)
		if err != nil {
			return nil, err
		}
		c.pop()
		return types.Arrow{Domain: paramTy, Codomain: bodyTy}, nil

	case *mir.Let:
		return c.inferLet(t)

	case *mir.Seq:
		firstTy, err := c.infer(t.First)
		if err != nil {
			return nil, err
		}
		// Every statement before the last must be unit typed; values are
		// never discarded silently.
		c.constrain(types.Unit, firstTy, t.First.Span())
		return c.infer(t.Second)

	default:
		return nil, diagnostics.New(diagnostics.PhaseTypecheck, diagnostics.ErrR004, term.Span(), "unknown term")
	}
}

func (c *checker) inferBinaryOp(t *mir.BinaryOp) (types.Type, *diagnostics.Error) {
	leftTy, err := c.infer(t.Left)
	if err != nil {
		return nil, err
	}
	rightTy, err := c.infer(t.Right)
	if err != nil {
		return nil, err
	}

	switch t.Op {
	case ast.Add, ast.Sub, ast.Mul, ast.Div, ast.Rem,
		ast.BitAnd, ast.BitOr, ast.BitXor, ast.Shl, ast.Shr:
		c.constrain(types.Int, leftTy, t.Left.Span())
		c.constrain(types.Int, rightTy, t.Right.Span())
		return types.Int, nil
	case ast.And, ast.Or:
		c.constrain(types.Bool, leftTy, t.Left.Span())
		c.constrain(types.Bool, rightTy, t.Right.Span())
		return types.Bool, nil
	case ast.Lt, ast.Gt, ast.Lte, ast.Gte:
		c.constrain(types.Int, leftTy, t.Left.Span())
		c.constrain(types.Int, rightTy, t.Right.Span())
		return types.Bool, nil
	default: // Eq, Neq
		c.constrain(leftTy, rightTy, t.Right.Span())
		return types.Bool, nil
	}
}

func (c *checker) inferLet(t *mir.Let) (types.Type, *diagnostics.Error) {
	if t.Kind.Rec {
		// The binding is visible while its own value is inferred.
		c.push(t.Name, t.Kind.Ann)
		valueTy, err := c.infer(t.Value)
		if err != nil {
			return nil, err
		}
		c.constrain(t.Kind.Ann, valueTy, t.Value.Span())
		bodyTy, err := c.infer(t.Body)
		if err != nil {
			return nil, err
		}
		c.pop()
		return bodyTy, nil
	}

	valueTy, err := c.infer(t.Value)
	if err != nil {
		return nil, err
	}
	if t.Kind.Ann != nil {
		c.constrain(t.Kind.Ann, valueTy, t.Value.Span())
	}
	c.push(t.Name, valueTy)
	bodyTy, err := c.infer(t.Body)
	if err != nil {
		return nil, err
	}
	c.pop()
	return bodyTy, nil
}

// solve runs first-order unification over the collected constraints. The
// substitution built so far is applied to each constraint before it is
// unified, and extended with the result.
func (c *checker) solve() (types.Subst, *diagnostics.Error) {
	subst := types.Subst{}
	for _, ct := range c.constraints {
		expected := ct.expected.Apply(subst)
		found := ct.found.Apply(subst)
		s, err := types.Unify(expected, found)
		if err != nil {
			switch e := err.(type) {
			case *types.MismatchError:
				return nil, diagnostics.New(diagnostics.PhaseTypecheck, diagnostics.ErrT001, ct.span, e.Expected, e.Found)
			case *types.InfiniteTypeError:
				return nil, diagnostics.New(diagnostics.PhaseTypecheck, diagnostics.ErrT002, ct.span, types.Var{Index: e.Index}, e.Ty)
			default:
				return nil, diagnostics.New(diagnostics.PhaseTypecheck, diagnostics.ErrR004, ct.span, err.Error())
			}
		}
		subst = subst.Compose(s)
	}
	return subst, nil
}
