// Package lir holds the nameless term language the machine runs. Variables
// are de Bruijn indices: 0 is the innermost binder.
package lir

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pijama-lang/pijama/internal/ast"
	"github.com/pijama-lang/pijama/internal/token"
)

// Term is a de-Bruijn-indexed term.
type Term interface {
	Span() token.Span
	String() string
	term()
}

type Lit struct {
	Value ast.Literal
	Loc   token.Span
}

type Var struct {
	Index int
	Loc   token.Span
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

type App struct {
	Fun Term
	Arg Term
	Loc token.Span
}

// Abs is a lambda with no parameter name and no type; it adds one variable
// slot.
type Abs struct {
	Body Term
	Loc  token.Span
}

// Let adds one variable slot. When Rec is set, the value's own slot is
// visible while the value is evaluated.
type Let struct {
	Rec   bool
	Value Term
	Body  Term
	Loc   token.Span
}

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

// FormatLiteral renders a literal the way the machine prints values:
// integers in decimal, true as 1, false as 0, and unit as "unit".
func FormatLiteral(lit ast.Literal) string {
	switch lit.Kind {
	case ast.LitInt:
		return strconv.FormatInt(lit.Int, 10)
	case ast.LitBool:
		if lit.Bool {
			return "1"
		}
		return "0"
	default:
		return "unit"
	}
}

func (t *Lit) String() string {
	return FormatLiteral(t.Value)
}

func (t *Var) String() string {
	return "_" + strconv.Itoa(t.Index)
}

func (t *Prim) String() string {
	return t.Prim.String()
}

func (t *BinaryOp) String() string {
	return fmt.Sprintf("(%s %s %s)", t.Left, t.Op, t.Right)
}

func (t *UnaryOp) String() string {
	return fmt.Sprintf("(%s%s)", t.Op, t.Operand)
}

func (t *Cond) String() string {
	return fmt.Sprintf("(if %s then %s else %s)", t.Cond, t.Then, t.Else)
}

func (t *App) String() string {
	return fmt.Sprintf("(%s %s)", t.Fun, t.Arg)
}

func (t *Abs) String() string {
	return fmt.Sprintf("(λ. %s)", t.Body)
}

func (t *Let) String() string {
	var sb strings.Builder
	sb.WriteString("(let ")
	if t.Rec {
		sb.WriteString("rec ")
	}
	sb.WriteString(t.Value.String())
	sb.WriteString(" in ")
	sb.WriteString(t.Body.String())
	sb.WriteString(")")
	return sb.String()
}

func (t *Seq) String() string {
	return fmt.Sprintf("(%s; %s)", t.First, t.Second)
}
