package codegen

import (
	"strings"
	"unicode"

	"github.com/takoeight0821/rjulia/ast"
)

// recordField is the single field of every emitted record type.
const recordField = "value"

// record marks typ as used. The first time typ is seen in this session, its
// definition is queued for the program header: Julia accepts struct
// definitions only at top level, and every use site must follow one.
func (g *Generator) record(typ string) {
	if _, ok := g.records[typ]; ok {
		return
	}
	g.records[typ] = struct{}{}
	g.pending = append(g.pending, typ)
}

func (g *Generator) recordDefinition(typ string) string {
	return joinLines("struct "+typ, g.prefixAt(1)+recordField, "end")
}

// construct renders `name <- structure(v, class = "c")` as a constructor call
// of the record type for c.
func (g *Generator) construct(name string, call *ast.Call, class string) string {
	typ := recordName(class)
	g.record(typ)

	value := "nothing"
	if pos := call.Positional(); len(pos) > 0 {
		value = g.gen(pos[0])
	}

	return unquote(name) + " = " + typ + "(" + value + ")"
}

// operatorMethod renders an operator overload restricted to two arguments of
// the record type for class. A single-line body uses the short form.
func (g *Generator) operatorMethod(op, class string, params []string, body *ast.Block) string {
	typ := recordName(class)
	g.record(typ)

	left, right := operands(params)
	signature := "Base.:(" + juliaOperator(op) + ")(" + left + "::" + typ + ", " + right + "::" + typ + ")"

	inner := g.prefixAt(g.indent + 1)
	rendered := g.block(body)

	switch {
	case rendered == "":
		return signature + " = nothing"
	case !strings.Contains(rendered, "\n"):
		line := strings.TrimPrefix(rendered, inner)
		return signature + " = " + strings.TrimPrefix(line, "return ")
	default:
		return joinLines("function "+signature, rendered, g.prefix()+"end")
	}
}

// operands picks the two parameter names of a binary operator, falling back
// to R's e1 and e2.
func operands(params []string) (string, string) {
	left, right := "e1", "e2"
	if len(params) > 0 {
		left = params[0]
	}
	if len(params) > 1 {
		right = params[1]
	}
	return left, right
}

// recordName turns an R class string into a Julia type name: the first
// letter upper case, the rest lower case, and characters that cannot appear
// in an identifier replaced by `_`.
func recordName(class string) string {
	var b strings.Builder
	for i, r := range strings.ToLower(class) {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			r = '_'
		}
		if i == 0 {
			r = unicode.ToUpper(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
