// Package mir holds the named intermediate term language. Blocks are gone
// (folded into lets and sequences), calls are curried, and every let carries
// an explicit recursion marker.
package mir

import (
	"github.com/pijama-lang/pijama/internal/ast"
	"github.com/pijama-lang/pijama/internal/token"
	"github.com/pijama-lang/pijama/internal/types"
)

// Term is a named intermediate term.
type Term interface {
	Span() token.Span
	term()
}

// Binding is a lambda parameter. Parameter types are always explicit here.
type Binding struct {
	Name ast.Name
	Ty   types.Type
}

// LetKind selects recursive fixed-point semantics or ordinary shadowing for a
// let binding. Non-recursive lets may omit the annotation; recursive lets
// always carry one.
type LetKind struct {
	Rec    bool
	Ann    types.Type // nil when absent (non-recursive only)
	AnnLoc token.Span
}

type Lit struct {
	Value ast.Literal
	Loc   token.Span
}

type Var struct {
	Name ast.Name
	Loc  token.Span
}

type Prim struct {
	Prim ast.Prim
	Loc  token.Span
}

type BinaryOp struct {
	Op    ast.BinOp
	Left  Term
	Right Term
	Loc   token.Span
}

type UnaryOp struct {
	Op      ast.UnOp
	Operand Term
	Loc     token.Span
}

type Cond struct {
	Cond Term
	Then Term
	Else Term
	Loc  token.Span
}

// App is a unary application; multi-argument calls are curried chains.
type App struct {
	Fun Term
	Arg Term
	Loc token.Span
}

// Abs is a unary lambda.
type Abs struct {
	Bind Binding
	Body Term
	Loc  token.Span
}

type Let struct {
	Kind    LetKind
	Name    ast.Name
	NameLoc token.Span
	Value   Term
	Body    Term
	Loc     token.Span
}

// Seq evaluates First for its effect and yields Second's value.
type Seq struct {
	First  Term
	Second Term
	Loc    token.Span
}

func (t *Lit) Span() token.Span      { return t.Loc }
func (t *Var) Span() token.Span      { return t.Loc }
func (t *Prim) Span() token.Span     { return t.Loc }
func (t *BinaryOp) Span() token.Span { return t.Loc }
func (t *UnaryOp) Span() token.Span  { return t.Loc }
func (t *Cond) Span() token.Span     { return t.Loc }
func (t *App) Span() token.Span      { return t.Loc }
func (t *Abs) Span() token.Span      { return t.Loc }
func (t *Let) Span() token.Span      { return t.Loc }
func (t *Seq) Span() token.Span      { return t.Loc }

func (*Lit) term()      {}
func (*Var) term()      {}
func (*Prim) term()     {}
func (*BinaryOp) term() {}
func (*UnaryOp) term()  {}
func (*Cond) term()     {}
func (*App) term()      {}
func (*Abs) term()      {}
func (*Let) term()      {}
func (*Seq) term()      {}
