// Package token defines the token types shared by the lexer and parser.
//
// Generalized from codingersid-legit-template's lexer.Token/lexer.Position
// (codingersid-legit-template/lexer/lexer.go), adapted from Blade's
// echo/directive token set to Liquid's markup-element and
// expression-token-stream two-phase design.
package token

import "github.com/codingersid/liquidgo/liquiderror"

// Position is re-exported so callers need only import one package for
// source locations.
type Position = liquiderror.Position

// ElementKind is produced by the lexer's outer phase.
type ElementKind int

const (
	ElementText ElementKind = iota
	ElementOutput
	ElementTag
)

// Element is one markup unit from the outer phase: a raw text run, an
// `{{ ... }}` output, or a `{% ... %}` tag. For Output and Tag, Body is
// the unparsed inner text (with surrounding whitespace trimmed) that the
// inner phase tokenizes into a Kind stream on demand.
type Element struct {
	Kind ElementKind
	Text string // ElementText
	Body string // ElementOutput / ElementTag: raw inner source
	Pos  Position
}

// Kind is an inner-phase expression token kind.
type Kind int

const (
	EOF Kind = iota
	Ident
	DottedIdent
	StringLiteral
	IntegerLiteral
	FloatLiteral
	BoolLiteral

	Pipe     // |
	Dot      // .
	Colon    // :
	Comma    // ,
	LBracket // [
	RBracket // ]
	LParen   // (
	RParen   // )
	Question // ?
	Assign   // =
	DotDot   // ..

	Eq  // ==
	Ne  // !=
	Lt  // <
	Gt  // >
	Le  // <=
	Ge  // >=
	Ne2 // <>

	And      // and
	Or       // or
	Contains // contains
)

// Token is one inner-phase lexical token.
type Token struct {
	Kind  Kind
	Text  string
	Int   int32
	Float float64
	Bool  bool
	Pos   Position
}
