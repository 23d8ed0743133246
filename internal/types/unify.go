package types

import "fmt"

// MismatchError reports that two types cannot be made equal. Expected is the
// type dictated by the context of the failing constraint; Found is the type
// that was inferred instead.
type MismatchError struct {
	Expected Type
	Found    Type
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("type mismatch: expected %s, found %s", e.Expected, e.Found)
}

// InfiniteTypeError reports a failed occurs check: binding the variable would
// produce a type that contains itself.
type InfiniteTypeError struct {
	Index int
	Ty    Type
}

func (e *InfiniteTypeError) Error() string {
	return fmt.Sprintf("infinite type: %s occurs in %s", Var{Index: e.Index}, e.Ty)
}

// Unify attempts to find a substitution that makes expected and found equal.
// The argument order only matters for error reporting: on failure the
// mismatch keeps the expected/found orientation of the caller.
func Unify(expected, found Type) (Subst, error) {
	switch t1 := expected.(type) {
	case Var:
		return Bind(t1, found)
	case Con:
		switch t2 := found.(type) {
		case Var:
			return Bind(t2, expected)
		case Con:
			if t1.Name == t2.Name {
				return Subst{}, nil
			}
		}
		return nil, &MismatchError{Expected: expected, Found: found}
	case Arrow:
		switch t2 := found.(type) {
		case Var:
			return Bind(t2, expected)
		case Arrow:
			s1, err := Unify(t1.Domain, t2.Domain)
			if err != nil {
				return nil, err
			}
			s2, err := Unify(t1.Codomain.Apply(s1), t2.Codomain.Apply(s1))
			if err != nil {
				return nil, err
			}
			return s1.Compose(s2), nil
		}
		return nil, &MismatchError{Expected: expected, Found: found}
	default:
		return nil, &MismatchError{Expected: expected, Found: found}
	}
}

// Bind binds a type variable to a type, performing the occurs check.
func Bind(tv Var, t Type) (Subst, error) {
	if other, ok := t.(Var); ok && other.Index == tv.Index {
		return Subst{}, nil
	}
	if t.Contains(tv.Index) {
		return nil, &InfiniteTypeError{Index: tv.Index, Ty: t}
	}
	return Subst{tv.Index: t}, nil
}
