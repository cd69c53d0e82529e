// Package parser implements the parser driver: it consumes the
// outer-phase element stream, dispatches tag/block bodies to the
// registered or built-in grammar, and assembles the RenderNode tree
// (package ast).
//
// Generalized from codingersid-legit-template's parser.Parser
// (parser/parser.go), which drives a similar token-consuming
// recursive-descent loop keyed on directive name, but over Blade's
// @if/@foreach/@switch directive set; here the same shape is re-pointed
// at Liquid's tag/block table (registry.Registry) and, critically, at
// the same-name block nesting rule, which falls out naturally from
// recursive descent: a nested `{% if %}` consumes its own `{% endif %}`
// before the outer parseIf ever sees one.
package parser

import (
	"github.com/codingersid/liquidgo/ast"
	"github.com/codingersid/liquidgo/lexer"
	"github.com/codingersid/liquidgo/liquiderror"
	"github.com/codingersid/liquidgo/registry"
	"github.com/codingersid/liquidgo/token"
)

// Parser turns template source into a node list using a language
// registry to resolve tag and block names at dispatch time.
type Parser struct {
	reg *registry.Registry
}

// New returns a Parser bound to reg.
func New(reg *registry.Registry) *Parser {
	return &Parser{reg: reg}
}

// Parse tokenizes and parses source into a node list.
func (p *Parser) Parse(source string) ([]ast.Node, error) {
	elements, err := lexer.New(source).Tokenize()
	if err != nil {
		return nil, err
	}
	c := &cursor{source: source, elements: elements, reg: p.reg}
	nodes, stop, _, _, err := c.parseNodes(nil)
	if err != nil {
		return nil, err
	}
	if stop != "" {
		return nil, liquiderror.New(liquiderror.KindParser, token.Position{}, "unexpected closing tag %q with no matching opener", stop)
	}
	return nodes, nil
}

// cursor walks the element stream, with recursive descent into block
// bodies per tag.
type cursor struct {
	source   string
	elements []token.Element
	pos      int
	reg      *registry.Registry
}

func (c *cursor) atEnd() bool { return c.pos >= len(c.elements) }

func (c *cursor) peek() token.Element {
	if c.atEnd() {
		return token.Element{Kind: -1}
	}
	return c.elements[c.pos]
}

func (c *cursor) advance() token.Element {
	e := c.peek()
	c.pos++
	return e
}

// parseNodes parses nodes until EOF or until a Tag element's first token
// text matches one of stopNames (at this nesting level — nested same-name
// constructs are consumed whole by their own recursive parse call before
// control returns here). Returns the stop name matched ("" at EOF), the
// remaining tokens of that stop tag (e.g. an `elsif` condition), and its
// position.
func (c *cursor) parseNodes(stopNames []string) (nodes []ast.Node, stopName string, stopToks []token.Token, stopPos token.Position, err error) {
	for !c.atEnd() {
		elem := c.peek()

		switch elem.Kind {
		case token.ElementText:
			c.advance()
			nodes = append(nodes, &ast.Text{Content: elem.Text})
			continue
		case token.ElementOutput:
			c.advance()
			toks, terr := lexer.TokenizeBody(elem.Body, elem.Pos)
			if terr != nil {
				return nil, "", nil, token.Position{}, terr
			}
			ep := newExprParser(toks)
			chain, perr2 := parseOutputBody(ep)
			if perr2 != nil {
				return nil, "", nil, token.Position{}, perr2
			}
			nodes = append(nodes, &ast.Output{Chain: chain})
			continue
		}

		// ElementTag
		toks, terr := lexer.TokenizeBody(elem.Body, elem.Pos)
		if terr != nil {
			return nil, "", nil, token.Position{}, terr
		}
		if len(toks) == 0 || toks[0].Kind == token.EOF {
			return nil, "", nil, token.Position{}, liquiderror.New(liquiderror.KindParser, elem.Pos, "empty tag")
		}
		name := toks[0].Text
		rest := toks[1:]

		if containsName(stopNames, name) {
			c.advance()
			return nodes, name, rest, elem.Pos, nil
		}

		node, nerr := c.dispatchTag(name, rest, elem.Pos)
		if nerr != nil {
			return nil, "", nil, token.Position{}, nerr
		}
		nodes = append(nodes, node)
	}
	return nodes, "", nil, token.Position{}, nil
}

func containsName(names []string, n string) bool {
	for _, s := range names {
		if s == n {
			return true
		}
	}
	return false
}

// parseOutputBody parses `{{ ... }}`'s body as a FilterChain, also
// recognizing the bare `super()` call.
func parseOutputBody(ep *exprParser) (*ast.FilterChain, error) {
	if ep.peek().Kind == token.Ident && ep.peek().Text == "super" && ep.peekAt(1).Kind == token.LParen {
		ep.next()
		ep.next()
		if _, err := ep.expect(token.RParen, "')'"); err != nil {
			return nil, err
		}
		chain := &ast.FilterChain{Head: &ast.Super{}}
		for ep.peek().Kind == token.Pipe {
			ep.next()
			nameTok, err := ep.expect(token.Ident, "filter name")
			if err != nil {
				return nil, err
			}
			call := ast.FilterCall{Name: nameTok.Text}
			if ep.peek().Kind == token.Colon {
				ep.next()
				args, err := ep.parseArgList()
				if err != nil {
					return nil, err
				}
				call.Args = args
			}
			chain.Filters = append(chain.Filters, call)
		}
		return chain, nil
	}
	return ep.parseFilterChain()
}

// dispatchTag routes a tag element's name to its built-in, or registered
// custom, parser.
func (c *cursor) dispatchTag(name string, rest []token.Token, pos token.Position) (ast.Node, error) {
	switch name {
	case "if":
		c.advance()
		return c.parseIf(rest, false)
	case "unless":
		c.advance()
		return c.parseIf(rest, true)
	case "for":
		c.advance()
		return c.parseFor(rest, pos)
	case "case":
		c.advance()
		return c.parseCase(rest)
	case "capture":
		c.advance()
		return c.parseCapture(rest)
	case "raw":
		c.advance()
		return c.parseRaw()
	case "comment":
		c.advance()
		return c.parseComment()
	case "ifchanged":
		c.advance()
		return c.parseIfChanged()
	case "tablerow":
		c.advance()
		return c.parseTableRow(rest, pos)
	case "block":
		c.advance()
		return c.parseBlockTag(rest)
	case "assign":
		c.advance()
		return parseAssign(rest, pos)
	case "cycle":
		c.advance()
		return parseCycle(rest, pos)
	case "break":
		c.advance()
		return &ast.Interrupt{Kind: ast.InterruptBreak}, nil
	case "continue":
		c.advance()
		return &ast.Interrupt{Kind: ast.InterruptContinue}, nil
	case "include":
		c.advance()
		return parseIncludeLike(rest, pos, false)
	case "render":
		c.advance()
		return parseIncludeLike(rest, pos, true)
	case "increment":
		c.advance()
		return parseIncDec(rest, pos, false)
	case "decrement":
		c.advance()
		return parseIncDec(rest, pos, true)
	case "extends":
		c.advance()
		return parseExtends(rest, pos)
	}

	if c.reg.IsBlock(name) {
		c.advance()
		args, err := newExprParser(rest).parseArgList()
		if err != nil {
			return nil, err
		}
		body, _, _, _, err := c.parseNodes([]string{"end" + name})
		if err != nil {
			return nil, err
		}
		return &ast.CustomBlock{Name: name, Args: args, Body: body}, nil
	}
	if c.reg.IsTag(name) {
		c.advance()
		args, err := newExprParser(rest).parseArgList()
		if err != nil {
			return nil, err
		}
		return &ast.CustomTag{Name: name, Args: args}, nil
	}

	return nil, liquiderror.New(liquiderror.KindUnknownTag, pos, "unknown tag or block %q", name).WithContext("name", name)
}
