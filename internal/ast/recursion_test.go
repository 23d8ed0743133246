package ast

import "testing"

func ident(name string) *Ident {
	return &Ident{Name: Name(name)}
}

func block(nodes ...Node) Block {
	return Block{Nodes: nodes}
}

func TestIsRecursive(t *testing.T) {
	tests := []struct {
		name string
		body Block
		want bool
	}{
		{
			name: "direct_mention",
			body: block(&CallExpr{Callee: ident("f"), Args: []Node{&Lit{Value: IntLit(1)}}}),
			want: true,
		},
		{
			name: "no_mention",
			body: block(ident("g")),
			want: false,
		},
		{
			name: "mention_inside_operator",
			body: block(&BinaryExpr{Op: Mul, Left: ident("n"), Right: &CallExpr{Callee: ident("f")}}),
			want: true,
		},
		{
			name: "mention_inside_cond",
			body: block(&CondExpr{
				If:   Branch{Cond: block(ident("x")), Body: block(&Lit{Value: IntLit(0)})},
				Else: block(&CallExpr{Callee: ident("f")}),
			}),
			want: true,
		},
		{
			name: "shadowed_by_let_for_rest_of_block",
			body: block(
				&LetBind{Name: "f", Value: &Lit{Value: IntLit(1)}},
				&CallExpr{Callee: ident("f")},
			),
			want: false,
		},
		{
			name: "let_value_still_sees_outer_binding",
			body: block(
				&LetBind{Name: "f", Value: &CallExpr{Callee: ident("f")}},
				ident("g"),
			),
			want: true,
		},
		{
			name: "use_before_shadowing_let",
			body: block(
				&CallExpr{Callee: ident("f")},
				&LetBind{Name: "f", Value: &Lit{Value: IntLit(1)}},
			),
			want: true,
		},
		{
			name: "shadowed_by_nested_fn_parameter",
			body: block(&FnDef{
				Name: "g", Named: true,
				Binds: []Binding{{Name: "f"}},
				Body:  block(&CallExpr{Callee: ident("f")}),
			}),
			want: false,
		},
		{
			name: "shadowed_by_nested_fn_of_same_name",
			body: block(
				&FnDef{Name: "f", Named: true, Body: block(&CallExpr{Callee: ident("f")})},
				&CallExpr{Callee: ident("f")},
			),
			want: false,
		},
		{
			name: "nested_fn_body_mention",
			body: block(&FnDef{
				Name: "g", Named: true,
				Binds: []Binding{{Name: "x"}},
				Body:  block(&CallExpr{Callee: ident("f"), Args: []Node{ident("x")}}),
			}),
			want: true,
		},
		{
			name: "anonymous_fn_body_mention",
			body: block(&FnDef{
				Binds: []Binding{{Name: "x"}},
				Body:  block(&CallExpr{Callee: ident("f"), Args: []Node{ident("x")}}),
			}),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRecursive("f", tt.body); got != tt.want {
				t.Errorf("IsRecursive(f) = %v, want %v", got, tt.want)
			}
		})
	}
}
