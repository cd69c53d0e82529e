package render

import (
	"github.com/codingersid/liquidgo/ast"
	"github.com/codingersid/liquidgo/liquiderror"
	"github.com/codingersid/liquidgo/token"
	"github.com/codingersid/liquidgo/value"
)

// evalExpr evaluates any Expression node to a Value.
func (c *Context) evalExpr(e ast.Expression) (value.Value, error) {
	switch n := e.(type) {
	case *ast.Literal:
		return evalLiteral(n), nil
	case *ast.Range:
		return c.evalRange(n)
	case *ast.Variable:
		return c.evalVariable(n)
	case *ast.Super:
		return value.String(c.renderCurrentSuper()), nil
	}
	return value.Nil(), liquiderror.New(liquiderror.KindRender, liquiderror.Position{}, "unevaluable expression")
}

func evalLiteral(n *ast.Literal) value.Value {
	switch n.Kind {
	case token.StringLiteral:
		return value.String(n.Text)
	case token.IntegerLiteral:
		return value.Int(n.Int)
	case token.FloatLiteral:
		return value.Float(n.Float)
	case token.BoolLiteral:
		return value.Bool(n.Bool)
	}
	return value.Nil()
}

func (c *Context) evalRange(n *ast.Range) (value.Value, error) {
	start, err := c.evalExpr(n.Start)
	if err != nil {
		return value.Nil(), err
	}
	stop, err := c.evalExpr(n.Stop)
	if err != nil {
		return value.Nil(), err
	}
	si, ok := value.ToInteger(start)
	if !ok {
		return value.Nil(), liquiderror.New(liquiderror.KindRender, n.Pos(), "range start does not coerce to integer")
	}
	ei, ok := value.ToInteger(stop)
	if !ok {
		return value.Nil(), liquiderror.New(liquiderror.KindRender, n.Pos(), "range stop does not coerce to integer")
	}
	var out []value.Value
	if si <= ei {
		for i := si; i <= ei; i++ {
			out = append(out, value.Int(i))
		}
	} else {
		for i := si; i >= ei; i-- {
			out = append(out, value.Int(i))
		}
	}
	return value.ArrayOf(out...), nil
}

func (c *Context) evalVariable(n *ast.Variable) (value.Value, error) {
	var path []string
	for _, idx := range n.Indexes {
		if idx.Kind == ast.IndexKey {
			path = append(path, idx.Key)
			continue
		}
		key, err := c.evalExpr(idx.Expr)
		if err != nil {
			return value.Nil(), err
		}
		path = append(path, value.ToStringCow(key))
	}

	root, ok := c.Lookup(n.Root, nil)
	if !ok {
		return c.unknownVariable(n.Pos(), n.Root)
	}
	cur := root
	for i, seg := range path {
		next, ok := value.Get(cur, value.String(seg))
		if !ok {
			if c.strict {
				full := n.Root
				for _, p := range path[:i+1] {
					full += "." + p
				}
				return value.Nil(), liquiderror.New(liquiderror.KindUnknownIndex, n.Pos(), "undefined index %q", full).WithContext("name", full)
			}
			return value.Nil(), nil
		}
		cur = next
	}
	return cur, nil
}

// evalFilterChain evaluates the head expression, then threads the result
// through each filter invocation. In strict mode, an unresolved root
// variable or index normally errors, but when the chain has at least
// one filter the head is treated as Nil instead: otherwise a filter
// like `default` could never recover from the exact case it exists
// for.
func (c *Context) evalFilterChain(fc *ast.FilterChain) (value.Value, error) {
	v, err := c.evalExpr(fc.Head)
	if err != nil {
		if len(fc.Filters) > 0 && (liquiderror.IsKind(err, liquiderror.KindUnknownVariable) || liquiderror.IsKind(err, liquiderror.KindUnknownIndex)) {
			v, err = value.Nil(), nil
		} else {
			return value.Nil(), err
		}
	}
	for _, call := range fc.Filters {
		v, err = c.applyFilter(call, v)
		if err != nil {
			return value.Nil(), err
		}
	}
	return v, nil
}

func (c *Context) applyFilter(call ast.FilterCall, input value.Value) (value.Value, error) {
	fn, ok := c.reg.Filter(call.Name)
	if !ok {
		return value.Nil(), liquiderror.New(liquiderror.KindUnknownFilter, call.Pos, "unknown filter %q", call.Name).WithContext("name", call.Name)
	}

	var args []value.Value
	kwargs := map[string]value.Value{}
	for _, a := range call.Args {
		v, err := c.evalExpr(a.Value)
		if err != nil {
			return value.Nil(), err
		}
		if a.Keyword != "" {
			kwargs[a.Keyword] = v
		} else {
			args = append(args, v)
		}
	}

	out, err := fn(input, args, kwargs, c)
	if err != nil {
		return value.Nil(), liquiderror.Wrap(liquiderror.KindFilterError, call.Pos, err, "filter %q failed: %v", call.Name, err).WithContext("name", call.Name)
	}
	return out, nil
}

// evalCondChain evaluates `atom (("and"|"or") atom)*`, and-binds-tighter
//.
func (c *Context) evalCondChain(cc *ast.CondChain) (bool, error) {
	for _, group := range cc.AndGroups {
		all := true
		for _, atom := range group {
			ok, err := c.evalAtom(atom)
			if err != nil {
				return false, err
			}
			if !ok {
				all = false
				break
			}
		}
		if all {
			return true, nil
		}
	}
	return false, nil
}

func (c *Context) evalAtom(a ast.Atom) (bool, error) {
	left, err := c.evalExpr(a.Left)
	if err != nil {
		return false, err
	}
	if a.Op == ast.OpNone {
		return left.IsTruthy(), nil
	}
	right, err := c.evalExpr(a.Right)
	if err != nil {
		return false, err
	}
	switch a.Op {
	case ast.OpEq:
		return value.Eq(left, right), nil
	case ast.OpNe:
		return !value.Eq(left, right), nil
	case ast.OpContains:
		ok, valid := value.Contains(left, right)
		if !valid {
			return false, liquiderror.New(liquiderror.KindRender, a.Left.Pos(), "contains is not defined for %s and %s", left.TypeName(), right.TypeName())
		}
		return ok, nil
	}
	cmp, ok := value.Cmp(left, right)
	if !ok {
		return false, nil
	}
	switch a.Op {
	case ast.OpLt:
		return cmp < 0, nil
	case ast.OpGt:
		return cmp > 0, nil
	case ast.OpLe:
		return cmp <= 0, nil
	case ast.OpGe:
		return cmp >= 0, nil
	}
	return false, nil
}
