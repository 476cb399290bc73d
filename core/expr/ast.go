package expr

import (
	"sort"
	"strings"
)

// Kind identifies the type of expression node.
type Kind int

const (
	KindNumber Kind = iota // Numeric literal (5, 0.25)
	KindIdent              // Variable reference (CD19_ab, u1)
	KindUnary              // Unary operation (-x, !x)
	KindBinary             // Binary operation (a + b, a && b)
	KindCall               // Function call (ln(x), max(a, b))
	KindParen              // Parenthesized sub-expression
)

// Expr is a formula tree node.
//
// Parentheses are kept as KindParen nodes so that formatting a parsed tree
// reproduces the user's grouping, and so that substitution can wrap an
// inlined definition without re-deriving precedence.
type Expr struct {
	Kind Kind
	Span Span

	// KindNumber: literal text as written
	Value string

	// KindIdent: variable name; KindCall: function name
	Name string

	// KindUnary, KindBinary: operator text
	Op string

	// KindUnary and KindParen use Left only
	Left  *Expr
	Right *Expr

	// KindCall arguments
	Args []*Expr
}

// Span identifies a byte range in the formula source.
type Span struct {
	Start int
	End   int
}

// Clone returns a deep copy of e.
func (e *Expr) Clone() *Expr {
	if e == nil {
		return nil
	}
	c := *e
	c.Left = e.Left.Clone()
	c.Right = e.Right.Clone()
	if e.Args != nil {
		c.Args = make([]*Expr, len(e.Args))
		for i, a := range e.Args {
			c.Args[i] = a.Clone()
		}
	}
	return &c
}

// Walk calls fn for every node in pre-order. Returning false skips children.
func (e *Expr) Walk(fn func(*Expr) bool) {
	if e == nil || !fn(e) {
		return
	}
	e.Left.Walk(fn)
	e.Right.Walk(fn)
	for _, a := range e.Args {
		a.Walk(fn)
	}
}

// Rewrite rebuilds the tree bottom-up. fn receives each node after its
// children were rewritten and returns the node to put in its place.
// The receiver is not modified.
func (e *Expr) Rewrite(fn func(*Expr) *Expr) *Expr {
	if e == nil {
		return nil
	}
	c := *e
	c.Left = e.Left.Rewrite(fn)
	c.Right = e.Right.Rewrite(fn)
	if e.Args != nil {
		c.Args = make([]*Expr, len(e.Args))
		for i, a := range e.Args {
			c.Args[i] = a.Rewrite(fn)
		}
	}
	return fn(&c)
}

// Vars returns the sorted, deduplicated variable names referenced by e.
// Function names are not variables.
func (e *Expr) Vars() []string {
	seen := make(map[string]struct{})
	e.Walk(func(n *Expr) bool {
		if n.Kind == KindIdent {
			seen[n.Name] = struct{}{}
		}
		return true
	})
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// References reports whether e references the variable name.
func (e *Expr) References(name string) bool {
	found := false
	e.Walk(func(n *Expr) bool {
		if n.Kind == KindIdent && n.Name == name {
			found = true
		}
		return !found
	})
	return found
}

// String formats e back into formula text. The output compiles to a tree
// equal to e, ignoring spans.
func (e *Expr) String() string {
	var b strings.Builder
	e.format(&b)
	return b.String()
}

func (e *Expr) format(b *strings.Builder) {
	if e == nil {
		return
	}
	switch e.Kind {
	case KindNumber:
		b.WriteString(e.Value)
	case KindIdent:
		b.WriteString(quoteIdent(e.Name))
	case KindUnary:
		b.WriteString(e.Op)
		e.Left.format(b)
	case KindBinary:
		e.Left.format(b)
		b.WriteString(" ")
		b.WriteString(e.Op)
		b.WriteString(" ")
		e.Right.format(b)
	case KindCall:
		b.WriteString(quoteIdent(e.Name))
		b.WriteString("(")
		for i, a := range e.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			a.format(b)
		}
		b.WriteString(")")
	case KindParen:
		b.WriteString("(")
		e.Left.format(b)
		b.WriteString(")")
	}
}

// quoteIdent wraps a name in backticks when it would not lex as a bare
// identifier.
func quoteIdent(name string) string {
	l := NewLexer(name)
	tok := l.Next()
	if tok.Type == IDENTIFIER && tok.Text == name && l.Next().Type == EOF {
		return name
	}
	return "`" + name + "`"
}

// Ident builds a variable reference node.
func Ident(name string) *Expr {
	return &Expr{Kind: KindIdent, Name: name}
}

// Paren wraps e in a parenthesized group.
func Paren(e *Expr) *Expr {
	return &Expr{Kind: KindParen, Left: e, Span: e.Span}
}
