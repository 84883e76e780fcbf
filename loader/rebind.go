package loader

// rebind.go removes the module's own bindings of patched names, so that
// references to them resolve to the predeclared replacements instead.

import "go.starlark.net/syntax"

// shadowPrefix marks renamed top-level bindings of patched names.
const shadowPrefix = "_unpatched_"

// unbind renames every top-level binding of name in stmts. Definitions
// still run, under the shadow name, and keep their side effects.
func unbind(stmts []syntax.Stmt, name string) {
	for _, stmt := range stmts {
		switch stmt := stmt.(type) {
		case *syntax.DefStmt:
			rename(stmt.Name, name)
		case *syntax.AssignStmt:
			unbindTarget(stmt.LHS, name)
		case *syntax.LoadStmt:
			for _, id := range stmt.To {
				rename(id, name)
			}
		case *syntax.IfStmt:
			unbind(stmt.True, name)
			unbind(stmt.False, name)
		case *syntax.ForStmt:
			unbindTarget(stmt.Vars, name)
			unbind(stmt.Body, name)
		case *syntax.WhileStmt:
			unbind(stmt.Body, name)
		}
	}
}

func unbindTarget(e syntax.Expr, name string) {
	switch e := e.(type) {
	case *syntax.Ident:
		rename(e, name)
	case *syntax.ParenExpr:
		unbindTarget(e.X, name)
	case *syntax.TupleExpr:
		for _, x := range e.List {
			unbindTarget(x, name)
		}
	case *syntax.ListExpr:
		for _, x := range e.List {
			unbindTarget(x, name)
		}
	}
}

func rename(id *syntax.Ident, name string) {
	if id.Name == name {
		id.Name = shadowPrefix + name
	}
}
