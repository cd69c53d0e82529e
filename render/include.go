package render

import (
	"github.com/codingersid/liquidgo/ast"
	"github.com/codingersid/liquidgo/liquiderror"
	"github.com/codingersid/liquidgo/value"
)

// renderIncludeLike implements both `include` (current scope visible,
// assigns leak out) and `render` (sandbox: only the passed bindings are
// visible, and assigns stay inside the partial),
// sharing the with/for/keyword-argument grammar.
func (c *Context) renderIncludeLike(nameExpr, withExpr ast.Expression, withAs string, forColl ast.Expression, forAs string, kwargs []ast.KeywordArg, sandbox bool, pos liquiderror.Position) error {
	nameV, err := c.evalExpr(nameExpr)
	if err != nil {
		return err
	}
	name := value.ToStringCow(nameV)

	nodes, err := c.partials.Resolve(name)
	if err != nil {
		if le, ok := err.(*liquiderror.Error); ok {
			return le.Trace(liquiderror.Trace(name))
		}
		return liquiderror.Wrap(liquiderror.KindUnknownPartial, pos, err, "resolving partial %q", name).WithContext("name", name)
	}

	baseLocals := value.NewObject()
	for _, kw := range kwargs {
		v, err := c.evalExpr(kw.Value)
		if err != nil {
			return err
		}
		baseLocals.Set(kw.Key, v)
	}

	if withExpr != nil {
		v, err := c.evalExpr(withExpr)
		if err != nil {
			return err
		}
		key := withAs
		if key == "" {
			key = name
		}
		baseLocals.Set(key, v)
	}

	if forColl != nil {
		coll, err := c.evalExpr(forColl)
		if err != nil {
			return err
		}
		items := coll.AsArray()
		key := forAs
		if key == "" {
			key = name
		}
		length := len(items)
		for i, item := range items {
			locals := cloneObject(baseLocals)
			locals.Set(key, item)
			locals.Set("forloop", forloopObject(i, length))
			if err := c.withPartialScope(sandbox, locals, func() error {
				return c.Render(nodes)
			}); err != nil {
				if le, ok := err.(*liquiderror.Error); ok {
					return le.Trace(liquiderror.Trace(name))
				}
				return err
			}
		}
		return nil
	}

	if err := c.withPartialScope(sandbox, baseLocals, func() error {
		return c.Render(nodes)
	}); err != nil {
		if le, ok := err.(*liquiderror.Error); ok {
			return le.Trace(liquiderror.Trace(name))
		}
		return err
	}
	return nil
}

func cloneObject(o *value.Object) *value.Object {
	cp := value.NewObject()
	for _, k := range o.Keys() {
		v, _ := o.Get(k)
		cp.Set(k, v)
	}
	return cp
}
