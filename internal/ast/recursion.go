package ast

// IsRecursive reports whether some occurrence of name is free in the body.
// A plain text search is not enough: bindings introduced by parameters, lets
// and nested function definitions that re-bind the name hide the occurrences
// after them, so the walk has to track scope.
func IsRecursive(name Name, body Block) bool {
	return blockMentions(name, body)
}

func blockMentions(name Name, blk Block) bool {
	for _, n := range blk.Nodes {
		switch node := n.(type) {
		case *LetBind:
			// The right-hand side still sees the outer binding.
			if nodeMentions(name, node.Value) {
				return true
			}
			if node.Name == name {
				// Shadowed for the rest of the block.
				return false
			}
		case *FnDef:
			if node.Named && node.Name == name {
				// The nested definition re-binds the name both inside its
				// own body and for the rest of the block.
				return false
			}
			if nodeMentions(name, node) {
				return true
			}
		default:
			if nodeMentions(name, n) {
				return true
			}
		}
	}
	return false
}

func nodeMentions(name Name, n Node) bool {
	switch node := n.(type) {
	case *Ident:
		return node.Name == name
	case *Lit, *PrimExpr:
		return false
	case *BinaryExpr:
		return nodeMentions(name, node.Left) || nodeMentions(name, node.Right)
	case *UnaryExpr:
		return nodeMentions(name, node.Operand)
	case *CondExpr:
		if blockMentions(name, node.If.Cond) || blockMentions(name, node.If.Body) {
			return true
		}
		for _, br := range node.Elifs {
			if blockMentions(name, br.Cond) || blockMentions(name, br.Body) {
				return true
			}
		}
		return blockMentions(name, node.Else)
	case *CallExpr:
		if nodeMentions(name, node.Callee) {
			return true
		}
		for _, arg := range node.Args {
			if nodeMentions(name, arg) {
				return true
			}
		}
		return false
	case *LetBind:
		return nodeMentions(name, node.Value)
	case *FnDef:
		if node.Named && node.Name == name {
			return false
		}
		for _, bind := range node.Binds {
			if bind.Name == name {
				// A parameter shadows the whole body.
				return false
			}
		}
		return blockMentions(name, node.Body)
	default:
		return false
	}
}
