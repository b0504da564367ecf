package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// AST

type Node interface {
	fmt.Stringer
	// Plate applies the given function to each child node.
	// If f returns an error, f also must return the original argument n.
	// It is similar to Visitor pattern.
	// FYI: https://hackage.haskell.org/package/lens-5.2.3/docs/Control-Lens-Plated.html
	Plate(error, func(Node, error) (Node, error)) (Node, error)
}

// Program is the root of a parsed source file.
type Program struct {
	Stmts []Node
}

func (p Program) String() string {
	return parenthesize("program", concat(p.Stmts)).String()
}

func (p *Program) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	for i, stmt := range p.Stmts {
		p.Stmts[i], err = f(stmt, err)
	}
	return p, err
}

var _ Node = &Program{}

// Block is a braced statement list, or the single statement of an unbraced body.
type Block struct {
	Stmts []Node
}

func (b Block) String() string {
	return parenthesize("block", concat(b.Stmts)).String()
}

func (b *Block) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	for i, stmt := range b.Stmts {
		b.Stmts[i], err = f(stmt, err)
	}
	return b, err
}

var _ Node = &Block{}

// Assign binds Name. It is also an expression, so `x <- y <- 0` nests.
type Assign struct {
	Name string
	Expr Node
}

func (a Assign) String() string {
	return parenthesize("assign", text(a.Name), a.Expr).String()
}

func (a *Assign) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	a.Expr, err = f(a.Expr, err)
	return a, err
}

var _ Node = &Assign{}

// AssignIndex stores Expr into Target[Index]. `t$f <- e` is lowered to this
// node with a string literal index.
type AssignIndex struct {
	Target Node
	Index  Node
	Expr   Node
}

func (a AssignIndex) String() string {
	return parenthesize("assign-index", a.Target, a.Index, a.Expr).String()
}

func (a *AssignIndex) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	a.Target, err = f(a.Target, err)
	a.Index, err = f(a.Index, err)
	a.Expr, err = f(a.Expr, err)
	return a, err
}

var _ Node = &AssignIndex{}

type ExprStmt struct {
	Expr Node
}

func (e ExprStmt) String() string {
	return parenthesize("expr", e.Expr).String()
}

func (e *ExprStmt) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	e.Expr, err = f(e.Expr, err)
	return e, err
}

var _ Node = &ExprStmt{}

// If has an optional Else. An else branch made of a single nested If is kept
// as is; the generator flattens it into `elseif`.
type If struct {
	Cond Node
	Then *Block
	Else *Block
}

func (i If) String() string {
	return parenthesize("if", i.Cond, i.Then, optionalBlock(i.Else)).String()
}

func (i *If) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	i.Cond, err = f(i.Cond, err)
	i.Then, err = plateBlock(i.Then, err, f)
	if i.Else != nil {
		i.Else, err = plateBlock(i.Else, err, f)
	}
	return i, err
}

var _ Node = &If{}

type While struct {
	Cond Node
	Body *Block
}

func (w While) String() string {
	return parenthesize("while", w.Cond, w.Body).String()
}

func (w *While) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	w.Cond, err = f(w.Cond, err)
	w.Body, err = plateBlock(w.Body, err, f)
	return w, err
}

var _ Node = &While{}

// For iterates Var over Start:End when Start is set, otherwise over End itself.
type For struct {
	Var   string
	Start Node
	End   Node
	Body  *Block
}

func (f For) String() string {
	return parenthesize("for", text(f.Var), optional(f.Start), f.End, f.Body).String()
}

func (f *For) Plate(err error, g func(Node, error) (Node, error)) (Node, error) {
	if f.Start != nil {
		f.Start, err = g(f.Start, err)
	}
	f.End, err = g(f.End, err)
	f.Body, err = plateBlock(f.Body, err, g)
	return f, err
}

var _ Node = &For{}

type FunctionDecl struct {
	Name   string
	Params []string
	Body   *Block
}

func (d FunctionDecl) String() string {
	return parenthesize("function", text(d.Name), params(d.Params), d.Body).String()
}

func (d *FunctionDecl) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	d.Body, err = plateBlock(d.Body, err, f)
	return d, err
}

var _ Node = &FunctionDecl{}

// OperatorClassFunctionDecl is a declaration named `op.Class` in backticks.
// It defines Op for values tagged with Class.
type OperatorClassFunctionDecl struct {
	Op     string
	Class  string
	Params []string
	Body   *Block
}

func (d OperatorClassFunctionDecl) String() string {
	return parenthesize("operator", text(d.Op), text(d.Class), params(d.Params), d.Body).String()
}

func (d *OperatorClassFunctionDecl) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	d.Body, err = plateBlock(d.Body, err, f)
	return d, err
}

var _ Node = &OperatorClassFunctionDecl{}

// Return has a nil Expr for a bare `return`.
type Return struct {
	Expr Node
}

func (r Return) String() string {
	return parenthesize("return", optional(r.Expr)).String()
}

func (r *Return) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	if r.Expr != nil {
		r.Expr, err = f(r.Expr, err)
	}
	return r, err
}

var _ Node = &Return{}

// Call is a call of a named function. Args holds positional expressions and
// *NamedArg values in source order.
type Call struct {
	Name string
	Args []Node
}

func (c Call) String() string {
	return parenthesize("call", text(c.Name), concat(c.Args)).String()
}

func (c *Call) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	for i, arg := range c.Args {
		c.Args[i], err = f(arg, err)
	}
	return c, err
}

var _ Node = &Call{}

// Positional returns the arguments that are not named, in order.
func (c *Call) Positional() []Node {
	var args []Node
	for _, arg := range c.Args {
		if _, ok := arg.(*NamedArg); !ok {
			args = append(args, arg)
		}
	}
	return args
}

// Named returns the named arguments, in order.
func (c *Call) Named() []*NamedArg {
	var args []*NamedArg
	for _, arg := range c.Args {
		if named, ok := arg.(*NamedArg); ok {
			args = append(args, named)
		}
	}
	return args
}

// Lookup returns the value of the first named argument called name.
func (c *Call) Lookup(name string) (Node, bool) {
	for _, arg := range c.Named() {
		if arg.Name == name {
			return arg.Value, true
		}
	}
	return nil, false
}

type NamedArg struct {
	Name  string
	Value Node
}

func (n NamedArg) String() string {
	return parenthesize("named", text(n.Name), n.Value).String()
}

func (n *NamedArg) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	n.Value, err = f(n.Value, err)
	return n, err
}

var _ Node = &NamedArg{}

// BinaryOp keeps the operator spelling of the source (`&` and `&&` differ).
type BinaryOp struct {
	Op    string
	Left  Node
	Right Node
}

func (b BinaryOp) String() string {
	return parenthesize(b.Op, b.Left, b.Right).String()
}

func (b *BinaryOp) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	b.Left, err = f(b.Left, err)
	b.Right, err = f(b.Right, err)
	return b, err
}

var _ Node = &BinaryOp{}

type UnaryOp struct {
	Op   string
	Expr Node
}

func (u UnaryOp) String() string {
	return parenthesize(u.Op, u.Expr).String()
}

func (u *UnaryOp) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	u.Expr, err = f(u.Expr, err)
	return u, err
}

var _ Node = &UnaryOp{}

type Var struct {
	Name string
}

func (v Var) String() string {
	return parenthesize("var", text(v.Name)).String()
}

func (v *Var) Plate(err error, _ func(Node, error) (Node, error)) (Node, error) {
	return v, err
}

var _ Node = &Var{}

// IntLiteral keeps the decimal digits of the source, without the `L` suffix.
// Its value may exceed any fixed-width integer type.
type IntLiteral struct {
	Digits string
}

func (l IntLiteral) String() string {
	return parenthesize("int", text(l.Digits)).String()
}

func (l *IntLiteral) Plate(err error, _ func(Node, error) (Node, error)) (Node, error) {
	return l, err
}

var _ Node = &IntLiteral{}

type FloatLiteral struct {
	Value float64
}

func (l FloatLiteral) String() string {
	return parenthesize("float", text(strconv.FormatFloat(l.Value, 'g', -1, 64))).String()
}

func (l *FloatLiteral) Plate(err error, _ func(Node, error) (Node, error)) (Node, error) {
	return l, err
}

var _ Node = &FloatLiteral{}

// StringLiteral holds the decoded text, without the surrounding quotes.
type StringLiteral struct {
	Value string
}

func (l StringLiteral) String() string {
	return parenthesize("string", text(strconv.Quote(l.Value))).String()
}

func (l *StringLiteral) Plate(err error, _ func(Node, error) (Node, error)) (Node, error) {
	return l, err
}

var _ Node = &StringLiteral{}

type BoolLiteral struct {
	Value bool
}

func (l BoolLiteral) String() string {
	return parenthesize("bool", text(strconv.FormatBool(l.Value))).String()
}

func (l *BoolLiteral) Plate(err error, _ func(Node, error) (Node, error)) (Node, error) {
	return l, err
}

var _ Node = &BoolLiteral{}

type IndexOp struct {
	Target Node
	Index  Node
}

func (i IndexOp) String() string {
	return parenthesize("index", i.Target, i.Index).String()
}

func (i *IndexOp) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	i.Target, err = f(i.Target, err)
	i.Index, err = f(i.Index, err)
	return i, err
}

var _ Node = &IndexOp{}

// FieldAccess is `Target$Field`.
type FieldAccess struct {
	Target Node
	Field  string
}

func (a FieldAccess) String() string {
	return parenthesize("field", a.Target, text(a.Field)).String()
}

func (a *FieldAccess) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	a.Target, err = f(a.Target, err)
	return a, err
}

var _ Node = &FieldAccess{}

type PredicateKind int

const (
	IsFloat PredicateKind = iota
	IsInteger
	IsNumeric
	IsCharacter
	IsLogical
)

// predicateNames maps the R spelling of a type test to its kind.
var predicateNames = map[string]PredicateKind{
	"is.double":    IsFloat,
	"is.integer":   IsInteger,
	"is.numeric":   IsNumeric,
	"is.character": IsCharacter,
	"is.logical":   IsLogical,
}

// LookupPredicate reports whether name is a recognized type test.
func LookupPredicate(name string) (PredicateKind, bool) {
	kind, ok := predicateNames[name]
	return kind, ok
}

func (k PredicateKind) String() string {
	for name, kind := range predicateNames {
		if kind == k {
			return name
		}
	}
	return fmt.Sprintf("PredicateKind(%d)", int(k))
}

// TypePredicate is a single-argument runtime type test such as is.double(x).
type TypePredicate struct {
	Kind PredicateKind
	Expr Node
}

func (t TypePredicate) String() string {
	return parenthesize(t.Kind.String(), t.Expr).String()
}

func (t *TypePredicate) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	t.Expr, err = f(t.Expr, err)
	return t, err
}

var _ Node = &TypePredicate{}

func plateBlock(b *Block, err error, f func(Node, error) (Node, error)) (*Block, error) {
	n, err := f(b, err)
	if block, ok := n.(*Block); ok {
		return block, err
	}
	return b, fmt.Errorf("expected block, got %v", n)
}

type text string

func (t text) String() string {
	return string(t)
}

func params(names []string) fmt.Stringer {
	elems := make([]fmt.Stringer, len(names))
	for i, name := range names {
		elems[i] = text(name)
	}
	return parenthesize("", elems...)
}

// optional renders a nil child as nothing.
func optional(n Node) fmt.Stringer {
	if n == nil {
		return text("")
	}
	return n
}

func optionalBlock(b *Block) fmt.Stringer {
	if b == nil {
		return text("")
	}
	return b
}

// parenthesize takes a head string and a variadic number of nodes that implement the fmt.Stringer interface.
// It returns a fmt.Stringer that represents a string where each node is parenthesized and separated by a space.
// If the head string is not empty, it is added at the beginning of the string.
func parenthesize(head string, elems ...fmt.Stringer) fmt.Stringer {
	var b strings.Builder
	b.WriteString("(")
	elemsStr := concat(elems).String()
	if head != "" {
		b.WriteString(head)
	}
	if elemsStr != "" {
		if head != "" {
			b.WriteString(" ")
		}
		b.WriteString(elemsStr)
	}
	b.WriteString(")")
	return &b
}

// concat takes a slice of nodes that implement the fmt.Stringer interface.
// It returns a fmt.Stringer that represents a string where each node is separated by a space.
// Empty strings are skipped, e.g. concat({}) == "".
func concat[T fmt.Stringer](elems []T) fmt.Stringer {
	var b strings.Builder
	for _, elem := range elems {
		str := elem.String()
		if str == "" {
			continue
		}
		if b.Len() != 0 {
			b.WriteString(" ")
		}
		b.WriteString(str)
	}
	return &b
}

// Traverse the [Node] in depth-first order.
// f is called for each node.
// If f returns an error, f also must return the original argument n.
// Traverse visits each child before n.
func Traverse(n Node, f func(Node, error) (Node, error)) (Node, error) {
	n, err := n.Plate(nil, func(n Node, err error) (Node, error) {
		return Traverse(n, f)
	})
	return f(n, err)
}

func Children(n Node) []Node {
	var children []Node
	_, err := n.Plate(nil, func(n Node, _ error) (Node, error) {
		children = append(children, n)
		return n, nil
	})
	if err != nil {
		panic(fmt.Errorf("unexpected error: %w", err))
	}
	return children
}

func Universe(n Node) []Node {
	var nodes []Node
	_, err := Traverse(n, func(n Node, _ error) (Node, error) {
		nodes = append(nodes, n)
		return n, nil
	})
	if err != nil {
		panic(fmt.Errorf("unexpected error: %w", err))
	}
	return nodes
}
