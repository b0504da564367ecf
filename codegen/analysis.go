package codegen

import (
	"slices"

	"github.com/takoeight0821/rjulia/ast"
)

// loopBindings returns the names a while loop may rebind, in first-seen
// order: every plain assignment target in the body, through nested blocks,
// conditionals and loops, followed by the left operand of the condition when
// it is a variable.
func loopBindings(n *ast.While) []string {
	var names []string
	add := func(name string) {
		name = unquote(name)
		if !slices.Contains(names, name) {
			names = append(names, name)
		}
	}

	collectAssigned(n.Body, add)

	if cond, ok := n.Cond.(*ast.BinaryOp); ok {
		if v, ok := cond.Left.(*ast.Var); ok {
			add(v.Name)
		}
	}

	return names
}

// collectAssigned walks statements only; function bodies have their own scope.
func collectAssigned(n ast.Node, add func(string)) {
	switch n := n.(type) {
	case *ast.Assign:
		add(n.Name)
		collectAssigned(n.Expr, add)
	case *ast.Block, *ast.If, *ast.While, *ast.For, *ast.ExprStmt:
		for _, child := range ast.Children(n) {
			collectAssigned(child, add)
		}
	}
}
