package parser

import (
	"github.com/codingersid/liquidgo/ast"
	"github.com/codingersid/liquidgo/liquiderror"
	"github.com/codingersid/liquidgo/token"
)

// ---- single-line tags ----

func parseAssign(rest []token.Token, pos token.Position) (ast.Node, error) {
	ep := newExprParser(rest)
	nameTok, err := ep.expect(token.Ident, "variable name")
	if err != nil {
		return nil, err
	}
	if _, err := ep.expect(token.Assign, "'='"); err != nil {
		return nil, err
	}
	chain, err := ep.parseFilterChain()
	if err != nil {
		return nil, err
	}
	return &ast.Assign{Name: nameTok.Text, Chain: chain}, nil
}

func parseCycle(rest []token.Token, pos token.Position) (ast.Node, error) {
	ep := newExprParser(rest)
	group := ""
	if (ep.peek().Kind == token.StringLiteral || ep.peek().Kind == token.Ident) && ep.peekAt(1).Kind == token.Colon {
		g := ep.next()
		group = g.Text
		ep.next()
	}
	var values []ast.Expression
	for {
		v, err := ep.parsePrimary()
		if err != nil {
			return nil, err
		}
		values = append(values, v)
		if ep.peek().Kind == token.Comma {
			ep.next()
			continue
		}
		break
	}
	return &ast.Cycle{Group: group, Values: values}, nil
}

func parseIncludeLike(rest []token.Token, pos token.Position, sandboxed bool) (ast.Node, error) {
	ep := newExprParser(rest)
	nameExpr, err := ep.parsePrimary()
	if err != nil {
		return nil, err
	}

	var withExpr, forExpr ast.Expression
	var withAs, forAs string
	var kwargs []ast.KeywordArg

	for !ep.atEOF() {
		if ep.peek().Kind == token.Comma {
			ep.next()
			continue
		}
		if ep.peek().Kind == token.Ident && ep.peek().Text == "with" {
			ep.next()
			withExpr, err = ep.parsePrimary()
			if err != nil {
				return nil, err
			}
			if ep.peek().Kind == token.Ident && ep.peek().Text == "as" {
				ep.next()
				as, err := ep.expect(token.Ident, "identifier after 'as'")
				if err != nil {
					return nil, err
				}
				withAs = as.Text
			}
			continue
		}
		if ep.peek().Kind == token.Ident && ep.peek().Text == "for" {
			ep.next()
			forExpr, err = ep.parsePrimary()
			if err != nil {
				return nil, err
			}
			if ep.peek().Kind == token.Ident && ep.peek().Text == "as" {
				ep.next()
				as, err := ep.expect(token.Ident, "identifier after 'as'")
				if err != nil {
					return nil, err
				}
				forAs = as.Text
			}
			continue
		}
		if ep.peek().Kind == token.Ident && ep.peekAt(1).Kind == token.Colon {
			key := ep.next().Text
			ep.next()
			val, err := ep.parsePrimary()
			if err != nil {
				return nil, err
			}
			kwargs = append(kwargs, ast.KeywordArg{Key: key, Value: val})
			continue
		}
		return nil, perr(ep.peek().Pos, "unexpected token %q in %s arguments", ep.peek().Text, tagWord(sandboxed))
	}

	if sandboxed {
		return &ast.Render{Name: nameExpr, With: withExpr, WithAs: withAs, ForColl: forExpr, ForAs: forAs, Keywords: kwargs}, nil
	}
	return &ast.Include{Name: nameExpr, With: withExpr, WithAs: withAs, ForColl: forExpr, ForAs: forAs, Keywords: kwargs}, nil
}

func tagWord(sandboxed bool) string {
	if sandboxed {
		return "render"
	}
	return "include"
}

func parseIncDec(rest []token.Token, pos token.Position, decrement bool) (ast.Node, error) {
	ep := newExprParser(rest)
	name, err := ep.expect(token.Ident, "counter name")
	if err != nil {
		return nil, err
	}
	return &ast.IncDec{Name: name.Text, Decrement: decrement}, nil
}

func parseExtends(rest []token.Token, pos token.Position) (ast.Node, error) {
	ep := newExprParser(rest)
	parent, err := ep.parsePrimary()
	if err != nil {
		return nil, err
	}
	return &ast.Extends{Parent: parent}, nil
}

// ---- blocks ----

func (c *cursor) parseIf(rest []token.Token, negate bool) (ast.Node, error) {
	endName := "endif"
	if negate {
		endName = "endunless"
	}
	cond, err := newExprParser(rest).parseCondChain()
	if err != nil {
		return nil, err
	}

	var arms []ast.IfArm
	body, stop, stopToks, _, err := c.parseNodes([]string{"elsif", "else", endName})
	if err != nil {
		return nil, err
	}
	arms = append(arms, ast.IfArm{Cond: cond, Body: body})

	for stop == "elsif" {
		cond2, err := newExprParser(stopToks).parseCondChain()
		if err != nil {
			return nil, err
		}
		body2, stop2, stopToks2, _, err := c.parseNodes([]string{"elsif", "else", endName})
		if err != nil {
			return nil, err
		}
		arms = append(arms, ast.IfArm{Cond: cond2, Body: body2})
		stop, stopToks = stop2, stopToks2
	}

	if stop == "else" {
		elseBody, _, _, _, err := c.parseNodes([]string{endName})
		if err != nil {
			return nil, err
		}
		arms = append(arms, ast.IfArm{Cond: nil, Body: elseBody})
	}

	return &ast.If{Negate: negate, Arms: arms}, nil
}

func (c *cursor) parseFor(rest []token.Token, pos token.Position) (ast.Node, error) {
	ep := newExprParser(rest)
	varTok, err := ep.expect(token.Ident, "loop variable")
	if err != nil {
		return nil, err
	}
	inTok, err := ep.expect(token.Ident, "'in'")
	if err != nil {
		return nil, err
	}
	if inTok.Text != "in" {
		return nil, perr(inTok.Pos, "expected 'in', got %q", inTok.Text)
	}
	source, err := ep.parsePrimary()
	if err != nil {
		return nil, err
	}

	f := &ast.For{Var: varTok.Text, Source: source, RangeSrc: exprSourceText(source)}

	for !ep.atEOF() {
		if ep.peek().Kind == token.Ident && ep.peek().Text == "limit" && ep.peekAt(1).Kind == token.Colon {
			ep.next()
			ep.next()
			v, err := ep.parsePrimary()
			if err != nil {
				return nil, err
			}
			f.Limit = v
			continue
		}
		if ep.peek().Kind == token.Ident && ep.peek().Text == "offset" && ep.peekAt(1).Kind == token.Colon {
			ep.next()
			ep.next()
			if ep.peek().Kind == token.Ident && ep.peek().Text == "continue" {
				ep.next()
				f.OffsetContinue = true
			} else {
				v, err := ep.parsePrimary()
				if err != nil {
					return nil, err
				}
				f.Offset = v
			}
			continue
		}
		if ep.peek().Kind == token.Ident && ep.peek().Text == "reversed" {
			ep.next()
			f.Reversed = true
			continue
		}
		return nil, perr(ep.peek().Pos, "unexpected token %q in for arguments", ep.peek().Text)
	}

	body, stop, _, _, err := c.parseNodes([]string{"else", "endfor"})
	if err != nil {
		return nil, err
	}
	f.Body = body
	if stop == "else" {
		elseBody, _, _, _, err := c.parseNodes([]string{"endfor"})
		if err != nil {
			return nil, err
		}
		f.Else = elseBody
	}
	return f, nil
}

func (c *cursor) parseCase(rest []token.Token) (ast.Node, error) {
	subject, err := newExprParser(rest).parsePrimary()
	if err != nil {
		return nil, err
	}

	// discard any stray content before the first `when`/`else`.
	_, stop, stopToks, _, err := c.parseNodes([]string{"when", "else", "endcase"})
	if err != nil {
		return nil, err
	}

	cs := &ast.Case{Subject: subject}
	for stop == "when" {
		values, err := parseCommaExprs(stopToks)
		if err != nil {
			return nil, err
		}
		body, stop2, stopToks2, _, err := c.parseNodes([]string{"when", "else", "endcase"})
		if err != nil {
			return nil, err
		}
		cs.Whens = append(cs.Whens, ast.CaseWhen{Values: values, Body: body})
		stop, stopToks = stop2, stopToks2
	}
	if stop == "else" {
		elseBody, _, _, _, err := c.parseNodes([]string{"endcase"})
		if err != nil {
			return nil, err
		}
		cs.Else = elseBody
	}
	return cs, nil
}

func parseCommaExprs(toks []token.Token) ([]ast.Expression, error) {
	ep := newExprParser(toks)
	var out []ast.Expression
	for {
		v, err := ep.parsePrimary()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
		if ep.peek().Kind == token.Comma {
			ep.next()
			continue
		}
		break
	}
	return out, nil
}

func (c *cursor) parseCapture(rest []token.Token) (ast.Node, error) {
	ep := newExprParser(rest)
	name, err := ep.expect(token.Ident, "capture variable name")
	if err != nil {
		return nil, err
	}
	body, _, _, _, err := c.parseNodes([]string{"endcapture"})
	if err != nil {
		return nil, err
	}
	return &ast.Capture{Name: name.Text, Body: body}, nil
}

func (c *cursor) parseComment() (ast.Node, error) {
	_, _, _, _, err := c.parseNodes([]string{"endcomment"})
	if err != nil {
		return nil, err
	}
	return &ast.Comment{}, nil
}

func (c *cursor) parseIfChanged() (ast.Node, error) {
	body, _, _, _, err := c.parseNodes([]string{"endifchanged"})
	if err != nil {
		return nil, err
	}
	return &ast.IfChanged{Body: body}, nil
}

func (c *cursor) parseBlockTag(rest []token.Token) (ast.Node, error) {
	ep := newExprParser(rest)
	name, err := ep.expect(token.Ident, "block name")
	if err != nil {
		return nil, err
	}
	body, _, _, _, err := c.parseNodes([]string{"endblock"})
	if err != nil {
		return nil, err
	}
	return &ast.Block{Name: name.Text, Body: body}, nil
}

func (c *cursor) parseTableRow(rest []token.Token, pos token.Position) (ast.Node, error) {
	ep := newExprParser(rest)
	varTok, err := ep.expect(token.Ident, "loop variable")
	if err != nil {
		return nil, err
	}
	inTok, err := ep.expect(token.Ident, "'in'")
	if err != nil {
		return nil, err
	}
	if inTok.Text != "in" {
		return nil, perr(inTok.Pos, "expected 'in', got %q", inTok.Text)
	}
	source, err := ep.parsePrimary()
	if err != nil {
		return nil, err
	}
	tr := &ast.TableRow{Var: varTok.Text, Source: source, RangeSrc: exprSourceText(source)}

	for !ep.atEOF() {
		switch {
		case ep.peek().Kind == token.Ident && ep.peek().Text == "cols" && ep.peekAt(1).Kind == token.Colon:
			ep.next()
			ep.next()
			v, err := ep.parsePrimary()
			if err != nil {
				return nil, err
			}
			tr.Cols = v
		case ep.peek().Kind == token.Ident && ep.peek().Text == "limit" && ep.peekAt(1).Kind == token.Colon:
			ep.next()
			ep.next()
			v, err := ep.parsePrimary()
			if err != nil {
				return nil, err
			}
			tr.Limit = v
		case ep.peek().Kind == token.Ident && ep.peek().Text == "offset" && ep.peekAt(1).Kind == token.Colon:
			ep.next()
			ep.next()
			v, err := ep.parsePrimary()
			if err != nil {
				return nil, err
			}
			tr.Offset = v
		default:
			return nil, perr(ep.peek().Pos, "unexpected token %q in tablerow arguments", ep.peek().Text)
		}
	}

	body, _, _, _, err := c.parseNodes([]string{"endtablerow"})
	if err != nil {
		return nil, err
	}
	tr.Body = body
	return tr, nil
}

// parseRaw reconstructs its body from the element stream the outer phase
// already produced, without running the inner lexer on it: text is kept
// as is, and each Output/Tag element is re-emitted as `{{ body }}` /
// `{% body %}`, so trim markers and the original spacing inside the
// delimiters are not preserved. Only the matching `endraw` tag ends it.
func (c *cursor) parseRaw() (ast.Node, error) {
	var b rawBuilder
	for !c.atEnd() {
		elem := c.peek()
		if elem.Kind == token.ElementTag {
			toks, err := rawTagTokens(elem.Body)
			if err == nil && len(toks) > 0 && toks[0] == "endraw" {
				c.advance()
				return &ast.Raw{Content: b.String()}, nil
			}
		}
		c.advance()
		b.add(elem)
	}
	return nil, liquiderror.New(liquiderror.KindParser, token.Position{}, "unclosed raw block")
}

type rawBuilder struct{ s string }

func (b *rawBuilder) add(e token.Element) {
	switch e.Kind {
	case token.ElementText:
		b.s += e.Text
	case token.ElementOutput:
		b.s += "{{ " + e.Body + " }}"
	case token.ElementTag:
		b.s += "{% " + e.Body + " %}"
	}
}

func (b *rawBuilder) String() string { return b.s }

// rawTagTokens splits a tag body's first whitespace-delimited word, enough
// to recognize `endraw` without running the full inner lexer.
func rawTagTokens(body string) ([]string, error) {
	for i := 0; i < len(body); i++ {
		if body[i] == ' ' || body[i] == '\t' || body[i] == '\n' {
			return []string{body[:i]}, nil
		}
	}
	return []string{body}, nil
}
