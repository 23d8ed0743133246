package lir_test

import (
	"testing"

	"github.com/pijama-lang/pijama/internal/ast"
	"github.com/pijama-lang/pijama/internal/diagnostics"
	"github.com/pijama-lang/pijama/internal/lexer"
	"github.com/pijama-lang/pijama/internal/lir"
	"github.com/pijama-lang/pijama/internal/mir"
	"github.com/pijama-lang/pijama/internal/parser"
)

func lower(t *testing.T, input string) lir.Term {
	t.Helper()
	tokens, err := lexer.Tokenize(input)
	if err != nil {
		t.Fatalf("lexing failed: %v", err)
	}
	blk, err := parser.Parse(tokens)
	if err != nil {
		t.Fatalf("parsing failed: %v", err)
	}
	named, err := mir.LowerBlock(blk)
	if err != nil {
		t.Fatalf("mir lowering failed: %v", err)
	}
	term, err := lir.Lower(named)
	if err != nil {
		t.Fatalf("lir lowering failed: %v", err)
	}
	return term
}

func TestIdentityLambda(t *testing.T) {
	let := lower(t, "fn f(x: Int): Int do x end").(*lir.Let)
	abs, ok := let.Value.(*lir.Abs)
	if !ok {
		t.Fatalf("value: got %#v", let.Value)
	}
	v, ok := abs.Body.(*lir.Var)
	if !ok || v.Index != 0 {
		t.Fatalf("body: got %#v, want _0", abs.Body)
	}
}

func TestCurriedParameters(t *testing.T) {
	// In fn sub(a, b) do a - b end the inner binder b is index 0 and the
	// outer binder a is index 1.
	let := lower(t, "fn sub(a: Int, b: Int): Int do a - b end").(*lir.Let)
	outer := let.Value.(*lir.Abs)
	inner := outer.Body.(*lir.Abs)
	op := inner.Body.(*lir.BinaryOp)
	if v := op.Left.(*lir.Var); v.Index != 1 {
		t.Errorf("a: got index %d, want 1", v.Index)
	}
	if v := op.Right.(*lir.Var); v.Index != 0 {
		t.Errorf("b: got index %d, want 0", v.Index)
	}
}

func TestRecursiveSelfReference(t *testing.T) {
	// Inside the lambda body the parameter is 0 and the recursive binding
	// itself is 1.
	let := lower(t, "fn rec fact(n: Int): Int do\n    if n == 0 do 1 else n * fact(n - 1) end\nend").(*lir.Let)
	if !let.Rec {
		t.Fatal("binding is not recursive")
	}
	abs := let.Value.(*lir.Abs)
	cond := abs.Body.(*lir.Cond)
	mul := cond.Else.(*lir.BinaryOp)
	app := mul.Right.(*lir.App)
	if v := app.Fun.(*lir.Var); v.Index != 1 {
		t.Errorf("recursive reference: got index %d, want 1", v.Index)
	}
	if v := mul.Left.(*lir.Var); v.Index != 0 {
		t.Errorf("parameter: got index %d, want 0", v.Index)
	}
}

func TestNonRecValueDoesNotSeeItsOwnSlot(t *testing.T) {
	// In let x = 1 followed by let x = x + 1 the second right-hand side
	// refers to the first binding, which is still the innermost slot at that
	// point.
	outer := lower(t, "let x = 1\nlet x = x + 1\nx").(*lir.Let)
	innerLet := outer.Body.(*lir.Let)
	add := innerLet.Value.(*lir.BinaryOp)
	if v := add.Left.(*lir.Var); v.Index != 0 {
		t.Errorf("rhs reference: got index %d, want 0", v.Index)
	}
	if v := innerLet.Body.(*lir.Var); v.Index != 0 {
		t.Errorf("body reference: got index %d, want 0", v.Index)
	}
}

func TestShadowingPicksInnermost(t *testing.T) {
	let := lower(t, "fn f(x: Int): Int -> Int do\n    fn (x: Int) do x end\nend").(*lir.Let)
	outer := let.Value.(*lir.Abs)
	inner := outer.Body.(*lir.Abs)
	if v := inner.Body.(*lir.Var); v.Index != 0 {
		t.Errorf("shadowed variable: got index %d, want 0", v.Index)
	}
}

func TestUnboundNameIsDefensive(t *testing.T) {
	_, err := lir.Lower(&mir.Var{Name: "ghost"})
	if err == nil {
		t.Fatal("expected an error")
	}
	if err.Code != diagnostics.ErrW003 {
		t.Errorf("code: got %s, want %s", err.Code, diagnostics.ErrW003)
	}
	if err.Phase != diagnostics.PhaseLower {
		t.Errorf("phase: got %s", err.Phase)
	}
}

// TestScopePreservation checks that after lowering, every variable index is
// strictly below the number of binders enclosing its occurrence.
func TestScopePreservation(t *testing.T) {
	programs := []string{
		"fn rec fib(n: Int): Int do\n    if n < 2 do n else fib(n - 1) + fib(n - 2) end\nend\nprint(fib(8))",
		"fn add(a: Int, b: Int): Int do a + b end\nlet one = 1\nprint(add(one, 2))",
		"let x = 1\nlet y = 2\nfn f(z: Int): Int do x + y + z end\nprint(f(3))",
		"fn twice(f: Int -> Int, x: Int): Int do f(f(x))\nend\nprint(twice(fn (n: Int) do n + 1 end, 5))",
	}

	for _, src := range programs {
		term := lower(t, src)
		checkDepth(t, term, 0)
	}
}

func checkDepth(t *testing.T, term lir.Term, depth int) {
	t.Helper()
	switch v := term.(type) {
	case *lir.Var:
		if v.Index >= depth {
			t.Errorf("variable index %d at depth %d", v.Index, depth)
		}
	case *lir.Lit, *lir.Prim:
	case *lir.BinaryOp:
		checkDepth(t, v.Left, depth)
		checkDepth(t, v.Right, depth)
	case *lir.UnaryOp:
		checkDepth(t, v.Operand, depth)
	case *lir.Cond:
		checkDepth(t, v.Cond, depth)
		checkDepth(t, v.Then, depth)
		checkDepth(t, v.Else, depth)
	case *lir.App:
		checkDepth(t, v.Fun, depth)
		checkDepth(t, v.Arg, depth)
	case *lir.Abs:
		checkDepth(t, v.Body, depth+1)
	case *lir.Let:
		valueDepth := depth
		if v.Rec {
			valueDepth++
		}
		checkDepth(t, v.Value, valueDepth)
		checkDepth(t, v.Body, depth+1)
	case *lir.Seq:
		checkDepth(t, v.First, depth)
		checkDepth(t, v.Second, depth)
	default:
		t.Fatalf("unknown term %#v", term)
	}
}

func TestTermPrinter(t *testing.T) {
	tests := []struct {
		term lir.Term
		want string
	}{
		{&lir.Abs{Body: &lir.Var{Index: 0}}, "(λ. _0)"},
		{&lir.Abs{Body: &lir.Abs{Body: &lir.Var{Index: 1}}}, "(λ. (λ. _1))"},
		{&lir.Lit{Value: ast.IntLit(42)}, "42"},
		{&lir.Lit{Value: ast.BoolLit(true)}, "1"},
		{&lir.Lit{Value: ast.BoolLit(false)}, "0"},
		{&lir.Lit{Value: ast.UnitLit()}, "unit"},
		{&lir.Prim{Prim: ast.PrimPrint}, "print"},
		{
			&lir.BinaryOp{Op: ast.Add, Left: &lir.Var{Index: 0}, Right: &lir.Lit{Value: ast.IntLit(1)}},
			"(_0 + 1)",
		},
		{
			&lir.Abs{Body: &lir.App{Fun: &lir.Prim{Prim: ast.PrimPrint}, Arg: &lir.Var{Index: 0}}},
			"(λ. (print _0))",
		},
	}

	for _, tt := range tests {
		if got := tt.term.String(); got != tt.want {
			t.Errorf("String: got %q, want %q", got, tt.want)
		}
	}
}
