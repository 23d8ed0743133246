package mir

import (
	"github.com/pijama-lang/pijama/internal/ast"
	"github.com/pijama-lang/pijama/internal/diagnostics"
	"github.com/pijama-lang/pijama/internal/token"
	"github.com/pijama-lang/pijama/internal/types"
)

// LowerBlock lowers a surface block to a single term whose value is the
// block's value.
//
// Statements are combined right to left so that each let binding captures the
// rest of the block as its body: a lowered let arrives with a placeholder
// unit body, which is replaced by the continuation; any other statement is
// sequenced in front of it.
func LowerBlock(blk ast.Block) (Term, *diagnostics.Error) {
	if len(blk.Nodes) == 0 {
		return &Lit{Value: ast.UnitLit(), Loc: blk.Loc}, nil
	}

	term, err := lowerNode(blk.Nodes[len(blk.Nodes)-1])
	if err != nil {
		return nil, err
	}

	for i := len(blk.Nodes) - 2; i >= 0; i-- {
		prev, err := lowerNode(blk.Nodes[i])
		if err != nil {
			return nil, err
		}
		if let, ok := prev.(*Let); ok {
			term = &Let{
				Kind:    let.Kind,
				Name:    let.Name,
				NameLoc: let.NameLoc,
				Value:   let.Value,
				Body:    term,
				Loc:     let.Loc,
			}
		} else {
			term = &Seq{First: prev, Second: term, Loc: prev.Span()}
		}
	}
	return term, nil
}

func lowerNode(node ast.Node) (Term, *diagnostics.Error) {
	switch n := node.(type) {
	case *ast.Ident:
		return &Var{Name: n.Name, Loc: n.Loc}, nil
	case *ast.Lit:
		return &Lit{Value: n.Value, Loc: n.Loc}, nil
	case *ast.PrimExpr:
		return &Prim{Prim: n.Prim, Loc: n.Loc}, nil
	case *ast.BinaryExpr:
		return lowerBinaryOp(n)
	case *ast.UnaryExpr:
		return lowerUnaryOp(n)
	case *ast.CondExpr:
		return lowerCond(n)
	case *ast.CallExpr:
		return lowerCall(n)
	case *ast.LetBind:
		return lowerLetBind(n)
	case *ast.FnDef:
		return lowerFnDef(n)
	default:
		return nil, diagnostics.New(diagnostics.PhaseLower, diagnostics.ErrR004, node.Span(), "unknown syntax node")
	}
}

func lowerBinaryOp(n *ast.BinaryExpr) (Term, *diagnostics.Error) {
	left, err := lowerNode(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := lowerNode(n.Right)
	if err != nil {
		return nil, err
	}
	return &BinaryOp{Op: n.Op, Left: left, Right: right, Loc: n.Loc}, nil
}

func lowerUnaryOp(n *ast.UnaryExpr) (Term, *diagnostics.Error) {
	operand, err := lowerNode(n.Operand)
	if err != nil {
		return nil, err
	}
	return &UnaryOp{Op: n.Op, Operand: operand, Loc: n.Loc}, nil
}

// lowerCond folds the else-if chain right to left into nested conditionals,
// with the else block as the innermost alternative.
func lowerCond(n *ast.CondExpr) (Term, *diagnostics.Error) {
	elseTerm, err := LowerBlock(n.Else)
	if err != nil {
		return nil, err
	}

	for i := len(n.Elifs) - 1; i >= 0; i-- {
		branch := n.Elifs[i]
		cond, err := LowerBlock(branch.Cond)
		if err != nil {
			return nil, err
		}
		body, err := LowerBlock(branch.Body)
		if err != nil {
			return nil, err
		}
		elseTerm = &Cond{Cond: cond, Then: body, Else: elseTerm, Loc: n.Loc}
	}

	cond, err := LowerBlock(n.If.Cond)
	if err != nil {
		return nil, err
	}
	body, err := LowerBlock(n.If.Body)
	if err != nil {
		return nil, err
	}
	return &Cond{Cond: cond, Then: body, Else: elseTerm, Loc: n.Loc}, nil
}

// lowerCall curries a multi-argument call into a chain of applications.
func lowerCall(n *ast.CallExpr) (Term, *diagnostics.Error) {
	term, err := lowerNode(n.Callee)
	if err != nil {
		return nil, err
	}
	for _, arg := range n.Args {
		argTerm, err := lowerNode(arg)
		if err != nil {
			return nil, err
		}
		term = &App{Fun: term, Arg: argTerm, Loc: n.Loc}
	}
	return term, nil
}

// lowerLetBind lowers a binding with a placeholder unit body. The block
// combiner splices the actual continuation in.
func lowerLetBind(n *ast.LetBind) (Term, *diagnostics.Error) {
	value, err := lowerNode(n.Value)
	if err != nil {
		return nil, err
	}

	kind := LetKind{Rec: false}
	if !n.Ty.IsMissing() {
		kind.Ann = types.FromAST(n.Ty)
		kind.AnnLoc = n.Ty.Loc
	}

	return &Let{
		Kind:    kind,
		Name:    n.Name,
		NameLoc: n.NameLoc,
		Value:   value,
		Body:    placeholderBody(n.Loc),
		Loc:     n.Loc,
	}, nil
}

func lowerFnDef(n *ast.FnDef) (Term, *diagnostics.Error) {
	// If the user added a return type annotation, fold it through the
	// bindings into the type of the whole function.
	var fnTy *annotation
	if !n.RetTy.IsMissing() {
		ty := types.FromAST(n.RetTy)
		for i := len(n.Binds) - 1; i >= 0; i-- {
			ty = types.Arrow{Domain: types.FromAST(n.Binds[i].Ty), Codomain: ty}
		}
		fnTy = &annotation{ty: ty, loc: n.RetTy.Loc}
	}

	// Decide whether the function is recursive. Only named functions can
	// be, and a parameter with the same name shadows it inside the body.
	var kind LetKind
	switch {
	case n.Named && !shadowedByParam(n) && ast.IsRecursive(n.Name, n.Body):
		if fnTy == nil {
			return nil, diagnostics.New(diagnostics.PhaseLower, diagnostics.ErrW001, n.NameLoc)
		}
		kind = LetKind{Rec: true, Ann: fnTy.ty, AnnLoc: fnTy.loc}
	case !n.Named && fnTy != nil:
		return nil, diagnostics.New(diagnostics.PhaseLower, diagnostics.ErrW002, fnTy.loc)
	default:
		kind = LetKind{Rec: false}
		if fnTy != nil {
			kind.Ann = fnTy.ty
			kind.AnnLoc = fnTy.loc
		}
	}

	term, err := LowerBlock(n.Body)
	if err != nil {
		return nil, err
	}

	// The rightmost binding becomes the innermost lambda.
	for i := len(n.Binds) - 1; i >= 0; i-- {
		bind := n.Binds[i]
		term = &Abs{
			Bind: Binding{Name: bind.Name, Ty: types.FromAST(bind.Ty)},
			Body: term,
			Loc:  n.Loc,
		}
	}

	if n.Named {
		term = &Let{
			Kind:    kind,
			Name:    n.Name,
			NameLoc: n.NameLoc,
			Value:   term,
			Body:    placeholderBody(n.Loc),
			Loc:     n.Loc,
		}
	}
	return term, nil
}

type annotation struct {
	ty  types.Type
	loc token.Span
}

func shadowedByParam(n *ast.FnDef) bool {
	for _, bind := range n.Binds {
		if bind.Name == n.Name {
			return true
		}
	}
	return false
}

// placeholderBody is the trailing unit a lowered let carries until the block
// combiner replaces it with the continuation.
func placeholderBody(loc token.Span) Term {
	return &Lit{Value: ast.UnitLit(), Loc: token.Span{Start: loc.End, End: loc.End}}
}
