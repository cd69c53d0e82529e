// Package ast defines the RenderNode tree: literals,
// variable paths, filter chains, and the tag/block nodes produced by the
// parser driver.
//
// Generalized from codingersid-legit-template's parser.Node interface family
// (codingersid-legit-template/parser/parser.go: TextNode, EchoNode,
// IfNode, ForeachNode, SwitchNode, ...) — the node-per-construct shape is
// kept, the construct set is replaced with Liquid's tags/blocks.
package ast

import "github.com/codingersid/liquidgo/token"

// Node is any element of a parsed template body.
type Node interface {
	Pos() token.Position
}

type base struct{ P token.Position }

func (b base) Pos() token.Position { return b.P }

// Text is a literal run of source bytes.
type Text struct {
	base
	Content string
}

// Output is an `{{ ... }}` interpolation.
type Output struct {
	base
	Chain *FilterChain
}

// Expression is a Literal, a Range, a Variable path, or a Super call.
type Expression interface {
	Node
	exprNode()
}

// Literal wraps a constant value token (string/int/float/bool literal);
// a parenthesized (START..STOP) range is a Range instead.
type Literal struct {
	base
	// Kind mirrors token.Kind for the literal's source token.
	Kind  token.Kind
	Text  string
	Int   int32
	Float float64
	Bool  bool
}

func (*Literal) exprNode() {}

// Range is a parenthesized counted range (START..STOP); each endpoint is
// itself an Expression that must coerce to integer at evaluation time.
type Range struct {
	base
	Start Expression
	Stop  Expression
}

func (*Range) exprNode() {}

// IndexKind distinguishes a Variable path segment's shape.
type IndexKind int

const (
	IndexKey    IndexKind = iota // .ident
	IndexBracketExpr                // [expr] — any bracketed segment, literal or not
)

// Index is one path segment following the root identifier.
type Index struct {
	Kind IndexKind
	Key  string     // IndexKey
	Expr Expression // IndexBracketExpr
}

// Variable is a root identifier followed by zero or more index segments.
type Variable struct {
	base
	Root    string
	Indexes []Index
}

func (*Variable) exprNode() {}

// FilterArg is a positional or keyword argument to a filter invocation.
type FilterArg struct {
	Keyword string // "" for positional
	Value   Expression
}

// FilterCall is one named filter invocation with its arguments.
type FilterCall struct {
	Pos  token.Position
	Name string
	Args []FilterArg
}

// FilterChain is an Expression followed by zero or more filter calls.
type FilterChain struct {
	Head    Expression
	Filters []FilterCall
}

// ---- Condition grammar (if/unless/elsif) ----

// CompareOp is a comparison operator token.
type CompareOp int

const (
	OpNone CompareOp = iota
	OpEq
	OpNe
	OpLt
	OpGt
	OpLe
	OpGe
	OpContains
)

// Atom is a single condition term: either a bare truthiness test or a
// binary comparison.
type Atom struct {
	Left  Expression
	Op    CompareOp // OpNone for a bare truthiness test
	Right Expression
}

// CondChain models `atom (("and"|"or") atom)*` with and-binds-tighter:
// AndGroups is the or-chain, each group an and-chain of Atoms.
type CondChain struct {
	AndGroups [][]Atom
}

// ---- Tags / blocks ----

// Assign is `{% assign name = chain %}`.
type Assign struct {
	base
	Name  string
	Chain *FilterChain
}

// Capture is `{% capture name %}...{% endcapture %}`.
type Capture struct {
	base
	Name string
	Body []Node
}

// IfArm is one if/elsif/else arm.
type IfArm struct {
	Cond *CondChain // nil for the else arm
	Body []Node
}

// If models if/elsif/else and unless/else (Negate set for `unless`).
type If struct {
	base
	Negate bool
	Arms   []IfArm
}

// For models `{% for var in range ... %}...{% else %}...{% endfor %}`.
type For struct {
	base
	Var      string
	Source   Expression // Variable/Literal (array) or *Range
	RangeSrc string     // exact source text of the range expression, for offset:continue keying
	Limit    Expression
	Offset   Expression
	OffsetContinue bool
	Reversed bool
	Body     []Node
	Else     []Node
}

// InterruptKind distinguishes break from continue.
type InterruptKind int

const (
	InterruptBreak InterruptKind = iota
	InterruptContinue
)

// Interrupt is `{% break %}` / `{% continue %}`.
type Interrupt struct {
	base
	Kind InterruptKind
}

// CaseWhen is one `when` arm: a comma-separated list of match expressions.
type CaseWhen struct {
	Values []Expression
	Body   []Node
}

// Case models `{% case %}...{% when %}...{% else %}...{% endcase %}`.
type Case struct {
	base
	Subject Expression
	Whens   []CaseWhen
	Else    []Node
}

// Cycle is `{% cycle "group": v1, v2, ... %}`.
type Cycle struct {
	base
	Group  string // "" if not explicitly named
	Values []Expression
}

// KeywordArg is a `key: value` pair passed to include/render.
type KeywordArg struct {
	Key   string
	Value Expression
}

// Include is `{% include "name" ... %}` — renders against the current
// scope (locals visible, assigns leak out).
type Include struct {
	base
	Name     Expression
	With     Expression
	WithAs   string
	ForColl  Expression
	ForAs    string
	Keywords []KeywordArg
}

// Render is `{% render "name" ... %}` — renders against a sandboxed scope.
type Render struct {
	base
	Name     Expression
	With     Expression
	WithAs   string
	ForColl  Expression
	ForAs    string
	Keywords []KeywordArg
}

// Raw is `{% raw %}...{% endraw %}`; Content is passed through unlexed.
type Raw struct {
	base
	Content string
}

// Comment is `{% comment %}...{% endcomment %}`; its body is discarded.
type Comment struct {
	base
}

// IncDec is `{% increment name %}` / `{% decrement name %}`.
type IncDec struct {
	base
	Name      string
	Decrement bool
}

// IfChanged is `{% ifchanged %}...{% endifchanged %}`.
type IfChanged struct {
	base
	Body []Node
}

// TableRow is `{% tablerow var in range cols: N ... %}...{% endtablerow %}`.
type TableRow struct {
	base
	Var      string
	Source   Expression
	RangeSrc string
	Cols     Expression
	Limit    Expression
	Offset   Expression
	Body     []Node
}

// Extends is `{% extends "parent" %}`, only ever valid as the sole
// top-level directive alongside Block/Assign nodes.
type Extends struct {
	base
	Parent Expression
}

// Block is `{% block name %}...{% endblock %}` (inheritance primitive,
// distinct from the generic GLOSSARY "Block" meaning a body-carrying tag).
type Block struct {
	base
	Name string
	Body []Node
}

// Super is `{{ super() }}` inside a child Block body — resolved by the
// inheritance-chain builder to the parent's block body at that call site.
type Super struct {
	base
}

func (*Super) exprNode() {}

// ResolvedBlock replaces a skeleton's Block node after the inheritance
// chain builder (package partials) has flattened a child into its
// ancestor: Chain holds each ancestor's body for this block name,
// ordered root-most first and leaf (most-derived, the one actually
// rendered) last, so that `{{ super() }}` inside the leaf body can walk
// back up the chain one level at a time.
type ResolvedBlock struct {
	base
	Name  string
	Chain [][]Node
}

// CustomTag is a render-time dispatch to a user-registered single-line
// tag (registry.RegisterTag).
type CustomTag struct {
	base
	Name string
	Args []FilterArg
}

// CustomBlock is a render-time dispatch to a user-registered block
// (registry.RegisterBlock).
type CustomBlock struct {
	base
	Name string
	Args []FilterArg
	Body []Node
}
