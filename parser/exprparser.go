package parser

import (
	"strconv"
	"strings"

	"github.com/codingersid/liquidgo/ast"
	"github.com/codingersid/liquidgo/liquiderror"
	"github.com/codingersid/liquidgo/token"
)

// exprParser consumes a fixed slice of already-lexed inner-phase tokens
// to build Expression/FilterChain/CondChain
// nodes.
type exprParser struct {
	toks []token.Token
	pos  int
}

func newExprParser(toks []token.Token) *exprParser {
	return &exprParser{toks: toks}
}

func (p *exprParser) peek() token.Token  { return p.peekAt(0) }
func (p *exprParser) peekAt(n int) token.Token {
	i := p.pos + n
	if i >= len(p.toks) {
		return token.Token{Kind: token.EOF}
	}
	return p.toks[i]
}

func (p *exprParser) next() token.Token {
	t := p.peek()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *exprParser) atEOF() bool { return p.peek().Kind == token.EOF }

func (p *exprParser) expect(k token.Kind, what string) (token.Token, error) {
	t := p.peek()
	if t.Kind != k {
		return t, perr(t.Pos, "expected %s", what)
	}
	return p.next(), nil
}

func perr(pos token.Position, format string, args ...interface{}) error {
	return liquiderror.New(liquiderror.KindParser, pos, format, args...)
}

// parsePrimary parses a literal, range, or variable path.
func (p *exprParser) parsePrimary() (ast.Expression, error) {
	t := p.peek()
	switch t.Kind {
	case token.StringLiteral:
		p.next()
		return &ast.Literal{Kind: token.StringLiteral, Text: t.Text}, nil
	case token.IntegerLiteral:
		p.next()
		return &ast.Literal{Kind: token.IntegerLiteral, Int: t.Int}, nil
	case token.FloatLiteral:
		p.next()
		return &ast.Literal{Kind: token.FloatLiteral, Float: t.Float}, nil
	case token.BoolLiteral:
		p.next()
		return &ast.Literal{Kind: token.BoolLiteral, Bool: t.Bool}, nil
	case token.LParen:
		p.next()
		start, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.DotDot, "'..'"); err != nil {
			return nil, err
		}
		stop, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RParen, "')'"); err != nil {
			return nil, err
		}
		return &ast.Range{Start: start, Stop: stop}, nil
	case token.Ident, token.DottedIdent:
		return p.parseVariable()
	}
	return nil, perr(t.Pos, "unexpected token %q in expression", t.Text)
}

func (p *exprParser) parseVariable() (ast.Expression, error) {
	t := p.next()
	parts := strings.Split(t.Text, ".")
	root := parts[0]

	if root == "super" && p.peek().Kind == token.LParen && len(parts) == 1 {
		p.next()
		if _, err := p.expect(token.RParen, "')'"); err != nil {
			return nil, err
		}
		return &ast.Super{}, nil
	}

	var indexes []ast.Index
	for _, seg := range parts[1:] {
		indexes = append(indexes, ast.Index{Kind: ast.IndexKey, Key: seg})
	}

	for {
		switch p.peek().Kind {
		case token.Dot:
			p.next()
			id, err := p.expect(token.Ident, "identifier after '.'")
			if err != nil {
				return nil, err
			}
			indexes = append(indexes, ast.Index{Kind: ast.IndexKey, Key: id.Text})
		case token.LBracket:
			p.next()
			inner, err := p.parsePrimary()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RBracket, "']'"); err != nil {
				return nil, err
			}
			indexes = append(indexes, ast.Index{Kind: ast.IndexBracketExpr, Expr: inner})
		default:
			return &ast.Variable{Root: root, Indexes: indexes}, nil
		}
	}
}

// parseFilterArg parses a positional or `key: value` keyword argument.
func (p *exprParser) parseFilterArg() (ast.FilterArg, error) {
	if (p.peek().Kind == token.Ident) && p.peekAt(1).Kind == token.Colon {
		key := p.next().Text
		p.next() // colon
		val, err := p.parsePrimary()
		if err != nil {
			return ast.FilterArg{}, err
		}
		return ast.FilterArg{Keyword: key, Value: val}, nil
	}
	val, err := p.parsePrimary()
	if err != nil {
		return ast.FilterArg{}, err
	}
	return ast.FilterArg{Value: val}, nil
}

// parseArgList parses zero or more comma-separated FilterArgs (used by
// custom tag/block argument parsing and by cycle's value list).
func (p *exprParser) parseArgList() ([]ast.FilterArg, error) {
	var args []ast.FilterArg
	if p.atEOF() {
		return args, nil
	}
	for {
		arg, err := p.parseFilterArg()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.peek().Kind == token.Comma {
			p.next()
			continue
		}
		break
	}
	return args, nil
}

// parseFilterChain parses an Expression followed by zero or more `| name:
// args` filter invocations.
func (p *exprParser) parseFilterChain() (*ast.FilterChain, error) {
	head, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	chain := &ast.FilterChain{Head: head}
	for p.peek().Kind == token.Pipe {
		p.next()
		nameTok, err := p.expect(token.Ident, "filter name")
		if err != nil {
			return nil, err
		}
		call := ast.FilterCall{Name: nameTok.Text, Pos: nameTok.Pos}
		if p.peek().Kind == token.Colon {
			p.next()
			args, err := p.parseArgList()
			if err != nil {
				return nil, err
			}
			call.Args = args
		}
		chain.Filters = append(chain.Filters, call)
	}
	return chain, nil
}

// opFromToken maps a comparison token kind to a CompareOp, ok=false if
// the token is not a comparison operator.
func opFromToken(k token.Kind) (ast.CompareOp, bool) {
	switch k {
	case token.Eq:
		return ast.OpEq, true
	case token.Ne, token.Ne2:
		return ast.OpNe, true
	case token.Lt:
		return ast.OpLt, true
	case token.Gt:
		return ast.OpGt, true
	case token.Le:
		return ast.OpLe, true
	case token.Ge:
		return ast.OpGe, true
	case token.Contains:
		return ast.OpContains, true
	}
	return ast.OpNone, false
}

func (p *exprParser) parseAtom() (ast.Atom, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return ast.Atom{}, err
	}
	op, ok := opFromToken(p.peek().Kind)
	if !ok {
		return ast.Atom{Left: left}, nil
	}
	p.next()
	right, err := p.parsePrimary()
	if err != nil {
		return ast.Atom{}, err
	}
	return ast.Atom{Left: left, Op: op, Right: right}, nil
}

func (p *exprParser) parseAndGroup() ([]ast.Atom, error) {
	atom, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	atoms := []ast.Atom{atom}
	for p.peek().Kind == token.And {
		p.next()
		atom, err = p.parseAtom()
		if err != nil {
			return nil, err
		}
		atoms = append(atoms, atom)
	}
	return atoms, nil
}

// parseCondChain implements `atom (("and"|"or") atom)*`
// with and binding tighter than or.
func (p *exprParser) parseCondChain() (*ast.CondChain, error) {
	group, err := p.parseAndGroup()
	if err != nil {
		return nil, err
	}
	cc := &ast.CondChain{AndGroups: [][]ast.Atom{group}}
	for p.peek().Kind == token.Or {
		p.next()
		group, err = p.parseAndGroup()
		if err != nil {
			return nil, err
		}
		cc.AndGroups = append(cc.AndGroups, group)
	}
	return cc, nil
}

// parseIntLiteralToken is a small helper used by tag parsers that accept a
// bare integer (e.g. cols:) without going through the full expression
// grammar's literal wrapping.
func parseIntLiteralToken(s string) (int32, error) {
	i, err := strconv.ParseInt(s, 10, 32)
	return int32(i), err
}
