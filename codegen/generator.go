package codegen

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/takoeight0821/rjulia/ast"
	"github.com/takoeight0821/rjulia/config"
)

// Generator renders an AST as Julia source. A Generator is one translation
// session: it remembers which record types it has already emitted, so a new
// Generator must be created for every unrelated program.
type Generator struct {
	config  config.Config
	indent  int
	records map[string]struct{}
	// pending holds the record types first used by the current Generate call.
	pending []string
	imports map[string]struct{}
	err     error
}

func NewGenerator(cfg config.Config) *Generator {
	return &Generator{
		config:  cfg,
		indent:  0,
		records: make(map[string]struct{}),
		pending: nil,
		imports: make(map[string]struct{}),
		err:     nil,
	}
}

type UnsupportedNodeError struct {
	Node ast.Node
}

func (e UnsupportedNodeError) Error() string {
	return fmt.Sprintf("no code generation rule for %T: %v", e.Node, e.Node)
}

// Generate renders program: the `using` lines, then the record types first
// used by program, then the statements. If any node has no rendering rule,
// it returns the error and no output.
func (g *Generator) Generate(program *ast.Program) (string, error) {
	g.err = nil
	g.pending = nil

	var lines []string
	for _, stmt := range program.Stmts {
		if out := g.gen(stmt); out != "" {
			lines = append(lines, out)
		}
	}
	if g.err != nil {
		for _, typ := range g.pending {
			delete(g.records, typ)
		}
		return "", g.err
	}

	header := []string{g.importHeader()}
	for _, typ := range g.pending {
		header = append(header, g.recordDefinition(typ))
	}
	lines = append(header, lines...)

	return joinLines(lines...), nil
}

func (g *Generator) fail(err error) {
	if g.err == nil {
		g.err = err
	}
}

func (g *Generator) gen(node ast.Node) string {
	if g.err != nil || node == nil {
		return ""
	}

	switch n := node.(type) {
	case *ast.Block:
		return g.block(n)
	case *ast.Assign:
		return g.assign(n)
	case *ast.AssignIndex:
		return g.assignIndex(n)
	case *ast.ExprStmt:
		return g.gen(n.Expr)
	case *ast.If:
		return g.ifStmt(n)
	case *ast.While:
		return g.whileStmt(n)
	case *ast.For:
		return g.forStmt(n)
	case *ast.FunctionDecl:
		return g.functionDecl(n)
	case *ast.OperatorClassFunctionDecl:
		return g.operatorDecl(n)
	case *ast.Return:
		if n.Expr == nil {
			return "return"
		}
		return "return " + g.gen(n.Expr)
	case *ast.Call:
		return g.call(n)
	case *ast.BinaryOp:
		return g.binary(n)
	case *ast.UnaryOp:
		return "(" + n.Op + g.gen(n.Expr) + ")"
	case *ast.Var:
		return unquote(n.Name)
	case *ast.IntLiteral:
		return n.Digits
	case *ast.FloatLiteral:
		return formatFloat(n.Value)
	case *ast.StringLiteral:
		return quote(n.Value)
	case *ast.BoolLiteral:
		return strconv.FormatBool(n.Value)
	case *ast.IndexOp:
		return g.gen(n.Target) + "[" + g.gen(n.Index) + "]"
	case *ast.FieldAccess:
		return g.gen(n.Target) + "[" + quote(n.Field) + "]"
	case *ast.TypePredicate:
		return "(" + g.gen(n.Expr) + " isa " + juliaType(n.Kind) + ")"
	default:
		g.fail(UnsupportedNodeError{Node: node})
		return ""
	}
}

func (g *Generator) prefix() string {
	return g.prefixAt(g.indent)
}

func (g *Generator) prefixAt(level int) string {
	return strings.Repeat(" ", level*g.config.IndentWidth)
}

// block renders each statement on its own line, one level deeper than the
// enclosing statement. Lines after the first line of a statement are already
// indented by the statement itself.
func (g *Generator) block(b *ast.Block) string {
	g.indent++
	defer func() { g.indent-- }()

	var lines []string
	for _, stmt := range b.Stmts {
		if out := g.gen(stmt); out != "" {
			lines = append(lines, g.prefix()+out)
		}
	}

	return strings.Join(lines, "\n")
}

// joinLines joins the non-empty lines.
func joinLines(lines ...string) string {
	return strings.Join(slices.DeleteFunc(lines, func(s string) bool { return s == "" }), "\n")
}

func (g *Generator) assign(n *ast.Assign) string {
	if call, class, ok := structureCall(n.Expr); ok {
		return g.construct(n.Name, call, class)
	}

	return unquote(n.Name) + " = " + g.gen(n.Expr)
}

// assignIndex lowers `t[i] <- e`. The choice between the three renderings is
// syntactic; see the predicates in heuristics.go.
func (g *Generator) assignIndex(n *ast.AssignIndex) string {
	target := g.gen(n.Target)
	index := g.gen(n.Index)
	value := g.gen(n.Expr)

	switch {
	case rendersAsQuotedString(index) && isSequenceName(n.Target, g.config.SequencePrefix):
		return fmt.Sprintf("%s = Dict(string(k) => v for (k, v) in enumerate(%s)); %s[%s] = %s",
			target, target, target, index, value)
	case isStringIndex(n.Index):
		return fmt.Sprintf("%s = Dict(); %s[%s] = %s", target, target, index, value)
	default:
		return fmt.Sprintf("%s[%s] = %s", target, index, value)
	}
}

func (g *Generator) binary(n *ast.BinaryOp) string {
	left := g.gen(n.Left)
	right := g.gen(n.Right)

	op := n.Op
	switch op {
	case "&", "&&":
		op = "&&"
	case "|", "||":
		op = "||"
	case ":":
		return left + ":" + right
	}

	return "(" + left + " " + op + " " + right + ")"
}

// ifStmt renders an else branch that holds a single if as `elseif`, down the
// whole chain.
func (g *Generator) ifStmt(n *ast.If) string {
	lines := []string{"if " + g.gen(n.Cond), g.block(n.Then)}

	for els := n.Else; els != nil; {
		if nested, ok := elseIf(els); ok {
			lines = append(lines, g.prefix()+"elseif "+g.gen(nested.Cond), g.block(nested.Then))
			els = nested.Else
			continue
		}
		lines = append(lines, g.prefix()+"else", g.block(els))
		break
	}

	lines = append(lines, g.prefix()+"end")

	return joinLines(lines...)
}

func elseIf(b *ast.Block) (*ast.If, bool) {
	if len(b.Stmts) != 1 {
		return nil, false
	}
	nested, ok := b.Stmts[0].(*ast.If)
	return nested, ok
}

func (g *Generator) forStmt(n *ast.For) string {
	var iterable string
	if n.Start != nil {
		iterable = g.gen(n.Start) + ":" + g.gen(n.End)
	} else {
		iterable = g.gen(n.End)
	}

	return joinLines("for "+unquote(n.Var)+" in "+iterable, g.block(n.Body), g.prefix()+"end")
}

// whileStmt wraps the loop in a `let` that rebinds every name the loop
// assigns. Without assigned names the loop is emitted bare.
func (g *Generator) whileStmt(n *ast.While) string {
	names := loopBindings(n)
	if len(names) == 0 {
		return g.whileLoop(n)
	}

	bindings := make([]string, len(names))
	for i, name := range names {
		bindings[i] = name + " = " + name
	}

	g.indent++
	loop := g.prefix() + g.whileLoop(n)
	g.indent--

	return joinLines("let "+strings.Join(bindings, ", "), loop, g.prefix()+"end")
}

func (g *Generator) whileLoop(n *ast.While) string {
	return joinLines("while "+g.gen(n.Cond), g.block(n.Body), g.prefix()+"end")
}

func (g *Generator) functionDecl(n *ast.FunctionDecl) string {
	name := unquote(n.Name)
	if op, class, ok := operatorClass(name); ok {
		return g.operatorMethod(op, class, n.Params, n.Body)
	}

	return g.function(name, n.Params, n.Body)
}

func (g *Generator) operatorDecl(n *ast.OperatorClassFunctionDecl) string {
	if !isOperatorSymbol(n.Op) {
		return g.function(n.Op+"."+n.Class, n.Params, n.Body)
	}

	return g.operatorMethod(n.Op, n.Class, n.Params, n.Body)
}

func (g *Generator) function(name string, params []string, body *ast.Block) string {
	return joinLines("function "+name+"("+strings.Join(params, ", ")+")", g.block(body), g.prefix()+"end")
}

func juliaType(kind ast.PredicateKind) string {
	switch kind {
	case ast.IsFloat:
		return "Float64"
	case ast.IsInteger:
		return "Int"
	case ast.IsNumeric:
		return "Number"
	case ast.IsCharacter:
		return "AbstractString"
	case ast.IsLogical:
		return "Bool"
	default:
		return "Any"
	}
}

// formatFloat renders v in its shortest form, keeping a `.` or an exponent so
// that Julia reads it back as a Float64.
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eIN") {
		s += ".0"
	}
	return s
}

// quote wraps s in double quotes, escaping `"` and the interpolation sigil
// `$`. Backslash escapes kept by the lexer are copied as they are.
func quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\\':
			b.WriteByte(c)
			if i+1 < len(s) {
				i++
				b.WriteByte(s[i])
			}
		case '"', '$':
			b.WriteByte('\\')
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// unquote strips the backticks of a quoted R name.
func unquote(name string) string {
	if len(name) >= 2 && strings.HasPrefix(name, "`") && strings.HasSuffix(name, "`") {
		return name[1 : len(name)-1]
	}
	return name
}
