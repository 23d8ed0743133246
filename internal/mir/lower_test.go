package mir_test

import (
	"testing"

	"github.com/pijama-lang/pijama/internal/ast"
	"github.com/pijama-lang/pijama/internal/diagnostics"
	"github.com/pijama-lang/pijama/internal/lexer"
	"github.com/pijama-lang/pijama/internal/mir"
	"github.com/pijama-lang/pijama/internal/parser"
	"github.com/pijama-lang/pijama/internal/types"
)

func lower(t *testing.T, input string) mir.Term {
	t.Helper()
	tokens, err := lexer.Tokenize(input)
	if err != nil {
		t.Fatalf("lexing failed: %v", err)
	}
	blk, err := parser.Parse(tokens)
	if err != nil {
		t.Fatalf("parsing failed: %v", err)
	}
	term, err := mir.LowerBlock(blk)
	if err != nil {
		t.Fatalf("lowering failed: %v", err)
	}
	return term
}

func lowerErr(t *testing.T, input string) *diagnostics.Error {
	t.Helper()
	tokens, err := lexer.Tokenize(input)
	if err != nil {
		t.Fatalf("lexing failed: %v", err)
	}
	blk, err := parser.Parse(tokens)
	if err != nil {
		t.Fatalf("parsing failed: %v", err)
	}
	_, err = mir.LowerBlock(blk)
	if err == nil {
		t.Fatal("expected a lowering error")
	}
	return err
}

func TestEmptyBlockIsUnit(t *testing.T) {
	lit, ok := lower(t, "").(*mir.Lit)
	if !ok || lit.Value.Kind != ast.LitUnit {
		t.Fatalf("got %#v, want unit literal", lit)
	}
}

func TestLetCapturesRestOfBlock(t *testing.T) {
	let, ok := lower(t, "let x = 1\nx + 1").(*mir.Let)
	if !ok {
		t.Fatal("root is not a let")
	}
	if let.Kind.Rec || let.Name != "x" {
		t.Fatalf("let: got %+v", let)
	}
	if _, ok := let.Body.(*mir.BinaryOp); !ok {
		t.Fatalf("body: got %#v, want the continuation", let.Body)
	}
}

func TestTrailingLetKeepsUnitBody(t *testing.T) {
	let := lower(t, "let x = 1").(*mir.Let)
	body, ok := let.Body.(*mir.Lit)
	if !ok || body.Value.Kind != ast.LitUnit {
		t.Fatalf("body: got %#v, want unit placeholder", let.Body)
	}
	if body.Loc.Start != body.Loc.End {
		t.Errorf("placeholder span should be empty, got %v", body.Loc)
	}
}

func TestStatementsBecomeSeq(t *testing.T) {
	seq, ok := lower(t, "print(1)\nprint(2)").(*mir.Seq)
	if !ok {
		t.Fatal("root is not a sequence")
	}
	if _, ok := seq.First.(*mir.App); !ok {
		t.Errorf("first: got %#v", seq.First)
	}
	if _, ok := seq.Second.(*mir.App); !ok {
		t.Errorf("second: got %#v", seq.Second)
	}
}

func TestCallsAreCurried(t *testing.T) {
	outer, ok := lower(t, "f(1, 2, 3)").(*mir.App)
	if !ok {
		t.Fatal("root is not an application")
	}
	middle, ok := outer.Fun.(*mir.App)
	if !ok {
		t.Fatal("middle is not an application")
	}
	inner, ok := middle.Fun.(*mir.App)
	if !ok {
		t.Fatal("inner is not an application")
	}
	if v, ok := inner.Fun.(*mir.Var); !ok || v.Name != "f" {
		t.Fatalf("callee: got %#v", inner.Fun)
	}
}

func TestZeroArgCallIsCallee(t *testing.T) {
	if v, ok := lower(t, "f()").(*mir.Var); !ok || v.Name != "f" {
		t.Fatalf("got %#v, want the bare callee", v)
	}
}

func TestElifChainFoldsRight(t *testing.T) {
	cond, ok := lower(t, "if a do 1 else if b do 2 else if c do 3 else 4 end").(*mir.Cond)
	if !ok {
		t.Fatal("root is not a conditional")
	}
	second, ok := cond.Else.(*mir.Cond)
	if !ok {
		t.Fatal("first alternative is not a conditional")
	}
	third, ok := second.Else.(*mir.Cond)
	if !ok {
		t.Fatal("second alternative is not a conditional")
	}
	if lit, ok := third.Else.(*mir.Lit); !ok || lit.Value.Int != 4 {
		t.Fatalf("innermost alternative: got %#v", third.Else)
	}
}

func TestFnDefBuildsCurriedLambda(t *testing.T) {
	let := lower(t, "fn add(a: Int, b: Int): Int do a + b end").(*mir.Let)
	if let.Kind.Rec {
		t.Fatal("non-recursive function lowered as recursive")
	}
	if let.Name != "add" {
		t.Fatalf("name: got %q", let.Name)
	}

	want := types.Arrow{
		Domain:   types.Int,
		Codomain: types.Arrow{Domain: types.Int, Codomain: types.Int},
	}
	if let.Kind.Ann != types.Type(want) {
		t.Errorf("annotation: got %s, want %s", let.Kind.Ann, want)
	}

	outer, ok := let.Value.(*mir.Abs)
	if !ok || outer.Bind.Name != "a" {
		t.Fatalf("outer lambda: got %#v", let.Value)
	}
	inner, ok := outer.Body.(*mir.Abs)
	if !ok || inner.Bind.Name != "b" {
		t.Fatalf("inner lambda: got %#v", outer.Body)
	}
	if inner.Bind.Ty != types.Type(types.Int) {
		t.Errorf("parameter type: got %s", inner.Bind.Ty)
	}
}

func TestRecursiveFnDef(t *testing.T) {
	let := lower(t, "fn rec fact(n: Int): Int do\n    if n == 0 do 1 else n * fact(n - 1) end\nend").(*mir.Let)
	if !let.Kind.Rec {
		t.Fatal("recursive function lowered as non-recursive")
	}
	want := types.Arrow{Domain: types.Int, Codomain: types.Int}
	if let.Kind.Ann != types.Type(want) {
		t.Errorf("annotation: got %s, want %s", let.Kind.Ann, want)
	}
}

func TestRecursionIsDetectedWithoutMarker(t *testing.T) {
	// The rec marker is cosmetic; the body decides.
	let := lower(t, "fn fact(n: Int): Int do\n    if n == 0 do 1 else n * fact(n - 1) end\nend").(*mir.Let)
	if !let.Kind.Rec {
		t.Fatal("recursion was not detected from the body")
	}
}

func TestAnonymousFnIsBareLambda(t *testing.T) {
	abs, ok := lower(t, "fn (x: Int) do x end").(*mir.Abs)
	if !ok {
		t.Fatalf("got %#v, want a lambda", abs)
	}
	if abs.Bind.Name != "x" {
		t.Errorf("binding: got %q", abs.Bind.Name)
	}
}

func TestRecWithoutTy(t *testing.T) {
	err := lowerErr(t, "fn rec loop() do loop() end")
	if err.Code != diagnostics.ErrW001 {
		t.Errorf("code: got %s, want %s", err.Code, diagnostics.ErrW001)
	}
	if err.Phase != diagnostics.PhaseLower {
		t.Errorf("phase: got %s", err.Phase)
	}
}

func TestAnonWithTy(t *testing.T) {
	err := lowerErr(t, "fn (x: Int): Int do x end")
	if err.Code != diagnostics.ErrW002 {
		t.Errorf("code: got %s, want %s", err.Code, diagnostics.ErrW002)
	}
}

func TestShadowingFnIsNotRecursive(t *testing.T) {
	// The parameter f shadows the function's name, so this is not recursion
	// and needs no annotation.
	let := lower(t, "fn f(f: Int) do f end").(*mir.Let)
	if let.Kind.Rec {
		t.Fatal("shadowed occurrence treated as recursion")
	}
}
