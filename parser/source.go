package parser

import (
	"fmt"
	"strings"

	"github.com/codingersid/liquidgo/ast"
	"github.com/codingersid/liquidgo/token"
)

// exprSourceText reconstructs a canonical source form of an Expression.
// Used to key `for`'s `offset: continue` continuation state on the exact
// range-expression source text.
func exprSourceText(e ast.Expression) string {
	switch n := e.(type) {
	case *ast.Literal:
		switch n.Kind {
		case token.StringLiteral:
			return fmt.Sprintf("%q", n.Text)
		case token.IntegerLiteral:
			return fmt.Sprintf("%d", n.Int)
		case token.FloatLiteral:
			return fmt.Sprintf("%g", n.Float)
		case token.BoolLiteral:
			if n.Bool {
				return "true"
			}
			return "false"
		}
	case *ast.Variable:
		var b strings.Builder
		b.WriteString(n.Root)
		for _, idx := range n.Indexes {
			if idx.Kind == ast.IndexKey {
				b.WriteByte('.')
				b.WriteString(idx.Key)
			} else {
				b.WriteByte('[')
				b.WriteString(exprSourceText(idx.Expr))
				b.WriteByte(']')
			}
		}
		return b.String()
	case *ast.Range:
		return "(" + exprSourceText(n.Start) + ".." + exprSourceText(n.Stop) + ")"
	}
	return ""
}
