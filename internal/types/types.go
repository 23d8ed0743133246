package types

import (
	"fmt"

	"github.com/pijama-lang/pijama/internal/ast"
)

// Type is the interface for all types in our system.
type Type interface {
	String() string
	Apply(Subst) Type
	// Contains reports whether the variable with the given index occurs in
	// the type. This is what the occurs check is built on.
	Contains(index int) bool
}

// Con is a type constant: Bool, Int or Unit.
type Con struct {
	Name string
}

var (
	Bool = Con{Name: "Bool"}
	Int  = Con{Name: "Int"}
	Unit = Con{Name: "Unit"}
)

func (t Con) String() string { return t.Name }

func (t Con) Apply(Subst) Type { return t }

func (t Con) Contains(int) bool { return false }

// Arrow is the type of functions between two types.
type Arrow struct {
	Domain   Type
	Codomain Type
}

func (t Arrow) String() string {
	if _, ok := t.Domain.(Arrow); ok {
		return fmt.Sprintf("(%s) -> %s", t.Domain, t.Codomain)
	}
	return fmt.Sprintf("%s -> %s", t.Domain, t.Codomain)
}

func (t Arrow) Apply(s Subst) Type {
	return Arrow{Domain: t.Domain.Apply(s), Codomain: t.Codomain.Apply(s)}
}

func (t Arrow) Contains(index int) bool {
	return t.Domain.Contains(index) || t.Codomain.Contains(index)
}

// Var is a type variable. Variables exist only as unification unknowns; a
// variable left over after a successful solve is an unconstrained but
// consistent unknown, not an error.
type Var struct {
	Index int
}

func (t Var) String() string { return fmt.Sprintf("?X%d", t.Index) }

func (t Var) Apply(s Subst) Type {
	if replacement, ok := s[t.Index]; ok {
		return replacement
	}
	return t
}

func (t Var) Contains(index int) bool { return t.Index == index }

// FromAST translates a surface annotation into a type. Missing annotations
// (including nil nodes) translate to nil.
func FromAST(node *ast.TyNode) Type {
	if node.IsMissing() {
		return nil
	}
	switch node.Kind {
	case ast.TyBool:
		return Bool
	case ast.TyInt:
		return Int
	case ast.TyUnit:
		return Unit
	case ast.TyArrow:
		domain := FromAST(node.Left)
		codomain := FromAST(node.Right)
		if domain == nil || codomain == nil {
			return nil
		}
		return Arrow{Domain: domain, Codomain: codomain}
	default:
		return nil
	}
}

// Subst is a mapping from type variable indices to types.
type Subst map[int]Type

// Compose combines two substitutions: applying the result is equivalent to
// applying s1 and then s2.
func (s1 Subst) Compose(s2 Subst) Subst {
	subst := Subst{}
	for k, v := range s2 {
		subst[k] = v
	}
	for k, v := range s1 {
		subst[k] = v.Apply(s2)
	}
	return subst
}
