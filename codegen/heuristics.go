package codegen

import (
	"strings"
	"unicode"

	"github.com/takoeight0821/rjulia/ast"
)

// The predicates below decide on syntax alone; runtime types are unknown.

// maxOperatorLength bounds the length of an operator symbol in an
// `op.Class` declaration name.
const maxOperatorLength = 2

// operators maps the overloadable R operators to their Julia spelling.
var operators = map[string]string{
	"+":  "+",
	"-":  "-",
	"*":  "*",
	"/":  "/",
	"^":  "^",
	"%%": "%",
	"==": "==",
	"!=": "!=",
	"<":  "<",
	"<=": "<=",
	">":  ">",
	">=": ">=",
	"&":  "&",
	"|":  "|",
	"!":  "!",
}

// isOperatorSymbol reports whether op is an overloadable R operator.
func isOperatorSymbol(op string) bool {
	if len(op) > maxOperatorLength {
		return false
	}
	_, ok := operators[op]
	return ok
}

func juliaOperator(op string) string {
	if j, ok := operators[op]; ok {
		return j
	}
	return op
}

// operatorClass splits a declaration name of the form `op.Class`.
func operatorClass(name string) (string, string, bool) {
	if strings.Count(name, ".") != 1 {
		return "", "", false
	}
	op, class, _ := strings.Cut(name, ".")
	if class == "" || !isOperatorSymbol(op) {
		return "", "", false
	}
	return op, class, true
}

// isIdentifier reports whether name can be written as a Julia symbol literal.
func isIdentifier(name string) bool {
	for i, r := range name {
		if r != '_' && !unicode.IsLetter(r) && (i == 0 || !unicode.IsDigit(r)) {
			return false
		}
	}
	return name != ""
}

// isSequenceName reports whether target is a variable whose name carries the
// prefix used for sequence-typed variables.
func isSequenceName(target ast.Node, prefix string) bool {
	v, ok := target.(*ast.Var)
	return ok && prefix != "" && strings.HasPrefix(unquote(v.Name), prefix)
}

// rendersAsQuotedString reports whether rendered Julia code is a string literal.
func rendersAsQuotedString(rendered string) bool {
	return len(rendered) >= 2 && strings.HasPrefix(rendered, `"`) && strings.HasSuffix(rendered, `"`)
}

// isStringIndex reports whether an index makes its target a string-keyed mapping.
func isStringIndex(index ast.Node) bool {
	_, ok := index.(*ast.StringLiteral)
	return ok
}

// structureCall matches `structure(v, class = "c")` and returns the class.
func structureCall(expr ast.Node) (*ast.Call, string, bool) {
	call, ok := expr.(*ast.Call)
	if !ok || call.Name != "structure" {
		return nil, "", false
	}
	class, ok := call.Lookup("class")
	if !ok {
		return nil, "", false
	}
	lit, ok := class.(*ast.StringLiteral)
	if !ok {
		return nil, "", false
	}
	return call, lit.Value, true
}
