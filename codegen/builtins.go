package codegen

import (
	"slices"
	"strconv"
	"strings"

	"github.com/takoeight0821/rjulia/ast"
	"github.com/takoeight0821/rjulia/config"
)

// rewrite renders a call to an R builtin as its Julia counterpart.
type rewrite func(g *Generator, c *ast.Call) string

// builtins is the closed set of calls rewritten by name. Every other call is
// rendered by plainCall. Filled in init: the rewrites refer back to the
// generator.
var builtins map[string]rewrite

func init() {
	builtins = map[string]rewrite{
		"c":       sequence,
		"list":    mapping,
		"matrix":  matrix,
		"print":   printLine,
		"exists":  exists,
		"paste":   renamed("string"),
		"nchar":   renamed("length"),
		"min":     renamed("minimum"),
		"max":     renamed("maximum"),
		"sd":      renamed("std"),
		"new.env": renamed("Dict"),
	}
	prefixBuiltins = []prefixRewrite{
		{"data.frame", table},
	}
}

type prefixRewrite struct {
	prefix  string
	rewrite rewrite
}

// prefixBuiltins match callee names by prefix, e.g. data.frame and data.frame.x.
var prefixBuiltins []prefixRewrite

func lookupRewrite(name string) (rewrite, bool) {
	if r, ok := builtins[name]; ok {
		return r, true
	}
	for _, p := range prefixBuiltins {
		if strings.HasPrefix(name, p.prefix) {
			return p.rewrite, true
		}
	}
	return nil, false
}

// packages maps Julia functions to the package that exports them.
var packages = map[string]string{
	"DataFrame": "DataFrames",
	"mean":      "Statistics",
	"median":    "Statistics",
	"std":       "Statistics",
	"var":       "Statistics",
	"quantile":  "Statistics",
}

func (g *Generator) call(c *ast.Call) string {
	if r, ok := lookupRewrite(c.Name); ok {
		return r(g, c)
	}
	return g.plainCall(c.Name, c)
}

func (g *Generator) positional(c *ast.Call) []string {
	var args []string
	for _, arg := range c.Positional() {
		args = append(args, g.gen(arg))
	}
	return args
}

// plainCall renders name(p1, p2; k1=v1). The `;` section is left out when
// there are no named arguments.
func (g *Generator) plainCall(name string, c *ast.Call) string {
	g.use(name)
	pos := strings.Join(g.positional(c), ", ")

	var kws []string
	for _, arg := range c.Named() {
		kws = append(kws, arg.Name+"="+g.gen(arg.Value))
	}

	switch {
	case len(kws) == 0:
		return name + "(" + pos + ")"
	case pos == "":
		return name + "(; " + strings.Join(kws, ", ") + ")"
	default:
		return name + "(" + pos + "; " + strings.Join(kws, ", ") + ")"
	}
}

func renamed(name string) rewrite {
	return func(g *Generator, c *ast.Call) string {
		return g.plainCall(name, c)
	}
}

// sequence: c(a, b) -> [a, b]. Named elements keep their value only.
func sequence(g *Generator, c *ast.Call) string {
	elems := make([]string, len(c.Args))
	for i, arg := range c.Args {
		if named, ok := arg.(*ast.NamedArg); ok {
			arg = named.Value
		}
		elems[i] = g.gen(arg)
	}
	return "[" + strings.Join(elems, ", ") + "]"
}

// mapping: list(a = 1, 2) -> Dict("a" => 1, "1" => 2).
func mapping(g *Generator, c *ast.Call) string {
	var entries []string
	for _, arg := range c.Named() {
		entries = append(entries, quote(arg.Name)+" => "+g.gen(arg.Value))
	}
	if g.config.ListPositionalKeys {
		for i, arg := range g.positional(c) {
			entries = append(entries, quote(strconv.Itoa(i+1))+" => "+arg)
		}
	}
	return "Dict(" + strings.Join(entries, ", ") + ")"
}

// matrix reshapes its data, deriving a missing dimension from the length.
func matrix(g *Generator, c *ast.Call) string {
	var data string
	if pos := c.Positional(); len(pos) > 0 {
		data = g.gen(pos[0])
	} else if v, ok := c.Lookup("data"); ok {
		data = g.gen(v)
	}

	var nrow, ncol string
	if v, ok := c.Lookup("nrow"); ok {
		nrow = g.gen(v)
	}
	if v, ok := c.Lookup("ncol"); ok {
		ncol = g.gen(v)
	}

	switch {
	case data == "" && g.config.MatrixFallback == config.MatrixReshape:
		return "reshape([], 0, 0)"
	case data == "":
		return g.plainCall("matrix", c)
	case nrow != "" && ncol != "":
		return "reshape(" + data + ", " + nrow + ", " + ncol + ")"
	case nrow != "":
		return "reshape(" + data + ", " + nrow + ", div(length(" + data + "), " + nrow + "))"
	case ncol != "":
		return "reshape(" + data + ", div(length(" + data + "), " + ncol + "), " + ncol + ")"
	case g.config.MatrixFallback == config.MatrixReshape:
		return "reshape(" + data + ", length(" + data + "), 1)"
	default:
		return g.plainCall("matrix", c)
	}
}

// table: data.frame(x = a, y = b) -> DataFrame(x = a, y = b).
func table(g *Generator, c *ast.Call) string {
	var args []string
	for _, arg := range c.Named() {
		args = append(args, arg.Name+" = "+g.gen(arg.Value))
	}
	args = append(args, g.positional(c)...)
	g.use("DataFrame")
	return "DataFrame(" + strings.Join(args, ", ") + ")"
}

func printLine(g *Generator, c *ast.Call) string {
	return "println(" + strings.Join(g.positional(c), ", ") + ")"
}

// exists("x") -> isdefined(Main, :x). Names that are not Julia identifiers
// go through Symbol.
func exists(g *Generator, c *ast.Call) string {
	pos := c.Positional()
	if len(pos) == 0 {
		return g.plainCall("exists", c)
	}
	if name, ok := pos[0].(*ast.StringLiteral); ok && isIdentifier(name.Value) {
		return "isdefined(Main, :" + name.Value + ")"
	}
	return "isdefined(Main, Symbol(" + g.gen(pos[0]) + "))"
}

// use records the package that exports the Julia function name, if any.
func (g *Generator) use(name string) {
	if pkg, ok := packages[name]; ok {
		g.imports[pkg] = struct{}{}
	}
}

func (g *Generator) importHeader() string {
	pkgs := make([]string, 0, len(g.imports))
	for pkg := range g.imports {
		pkgs = append(pkgs, pkg)
	}
	slices.Sort(pkgs)

	lines := make([]string, len(pkgs))
	for i, pkg := range pkgs {
		lines[i] = "using " + pkg
	}
	return strings.Join(lines, "\n")
}
