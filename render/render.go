package render

import (
	"fmt"

	"github.com/codingersid/liquidgo/ast"
	"github.com/codingersid/liquidgo/liquiderror"
	"github.com/codingersid/liquidgo/value"
)

// Render interprets nodes in order, writing to c's output, honoring the
// interrupt register between statements.
func (c *Context) Render(nodes []ast.Node) error {
	for _, n := range nodes {
		if c.interrupt != InterruptNone {
			return nil
		}
		if err := c.renderNode(n); err != nil {
			return err
		}
	}
	return nil
}

func (c *Context) renderNode(n ast.Node) error {
	switch node := n.(type) {
	case *ast.Text:
		c.Write(node.Content)
		return nil
	case *ast.Output:
		v, err := c.evalFilterChain(node.Chain)
		if err != nil {
			return err
		}
		c.Write(value.RenderString(v))
		return nil
	case *ast.Assign:
		v, err := c.evalFilterChain(node.Chain)
		if err != nil {
			return err
		}
		c.Assign(node.Name, v)
		return nil
	case *ast.Capture:
		return c.renderCapture(node)
	case *ast.If:
		return c.renderIf(node)
	case *ast.For:
		return c.renderFor(node)
	case *ast.Case:
		return c.renderCase(node)
	case *ast.Cycle:
		return c.renderCycle(node)
	case *ast.Interrupt:
		if node.Kind == ast.InterruptBreak {
			c.interrupt = InterruptBreak
		} else {
			c.interrupt = InterruptContinue
		}
		return nil
	case *ast.Include:
		return c.renderIncludeLike(node.Name, node.With, node.WithAs, node.ForColl, node.ForAs, node.Keywords, false, node.Pos())
	case *ast.Render:
		return c.renderIncludeLike(node.Name, node.With, node.WithAs, node.ForColl, node.ForAs, node.Keywords, true, node.Pos())
	case *ast.IncDec:
		return c.renderIncDec(node)
	case *ast.IfChanged:
		return c.renderIfChanged(node)
	case *ast.TableRow:
		return c.renderTableRow(node)
	case *ast.Raw:
		c.Write(node.Content)
		return nil
	case *ast.Comment:
		return nil
	case *ast.Block:
		// A bare Block outside of extends resolution just renders its body;
		// the inheritance chain builder (package partials) substitutes the
		// overriding child body before Render ever sees this node when a
		// template participates in `extends`.
		return c.Render(node.Body)
	case *ast.ResolvedBlock:
		return c.renderResolvedBlock(node)
	case *ast.Extends:
		// Package partials flattens extends chains only for templates
		// resolved through its store (include/render). An Extends node
		// rendered directly, including one at the top of a template
		// passed to Parser.Parse and then rendered, ends here as an error.
		return liquiderror.New(liquiderror.KindRender, node.Pos(), "extends must be the only top-level directive")
	case *ast.CustomTag:
		return c.renderCustomTag(node)
	case *ast.CustomBlock:
		return c.renderCustomBlock(node)
	}
	return liquiderror.New(liquiderror.KindRender, n.Pos(), "unhandled node %T", n)
}

func (c *Context) renderCapture(n *ast.Capture) error {
	saved := c.out
	c.out.Reset()
	err := c.Render(n.Body)
	captured := c.out.String()
	c.out = saved
	if err != nil {
		return err
	}
	c.Assign(n.Name, value.String(captured))
	return nil
}

func (c *Context) renderIf(n *ast.If) error {
	for _, arm := range n.Arms {
		if arm.Cond == nil {
			return c.Render(arm.Body)
		}
		ok, err := c.evalCondChain(arm.Cond)
		if err != nil {
			return err
		}
		if n.Negate {
			ok = !ok
		}
		if ok {
			return c.Render(arm.Body)
		}
	}
	return nil
}

func (c *Context) renderCase(n *ast.Case) error {
	subject, err := c.evalExpr(n.Subject)
	if err != nil {
		return err
	}
	for _, w := range n.Whens {
		for _, ve := range w.Values {
			v, err := c.evalExpr(ve)
			if err != nil {
				return err
			}
			if value.Eq(subject, v) {
				return c.Render(w.Body)
			}
		}
	}
	if n.Else != nil {
		return c.Render(n.Else)
	}
	return nil
}

func (c *Context) renderCycle(n *ast.Cycle) error {
	key := n.Group
	if key == "" {
		for _, ve := range n.Values {
			key += exprKeyPart(ve)
		}
	}
	c.mu.Lock()
	idx := c.cycles[key]
	c.cycles[key] = (idx + 1) % len(n.Values)
	c.mu.Unlock()

	v, err := c.evalExpr(n.Values[idx])
	if err != nil {
		return err
	}
	c.Write(value.RenderString(v))
	return nil
}

func exprKeyPart(e ast.Expression) string {
	if lit, ok := e.(*ast.Literal); ok {
		return lit.Text
	}
	if v, ok := e.(*ast.Variable); ok {
		return v.Root
	}
	return "?"
}

// renderIncDec implements the well-known Shopify Liquid quirk that
// `increment`/`decrement` share one counter per name: increment outputs
// the pre-increment value then adds one; decrement subtracts one then
// outputs the result, so the first decrement of a fresh counter prints
// -1 — the well-known increment/decrement asymmetric-start quirk.
func (c *Context) renderIncDec(n *ast.IncDec) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n.Decrement {
		c.counters[n.Name]--
		c.Write(fmt.Sprintf("%d", c.counters[n.Name]))
		return nil
	}
	v := c.counters[n.Name]
	c.counters[n.Name] = v + 1
	c.Write(fmt.Sprintf("%d", v))
	return nil
}

func (c *Context) renderIfChanged(n *ast.IfChanged) error {
	saved := c.out
	c.out.Reset()
	err := c.Render(n.Body)
	rendered := c.out.String()
	c.out = saved
	if err != nil {
		return err
	}
	key := fmt.Sprintf("%p", n)
	c.mu.Lock()
	prev, seen := c.changed[key]
	changed := !seen || prev != rendered
	c.changed[key] = rendered
	c.mu.Unlock()
	if changed {
		c.Write(rendered)
	}
	return nil
}

// loopSlice resolves a For/TableRow's source into a materialized slice,
// honoring limit/offset/reversed and (for For only) the offset:continue
// continuation state keyed by the range expression's source text
//.
func (c *Context) loopSlice(source value.Value, limit, offset ast.Expression, offsetContinue bool, rangeKey string, reversed bool) ([]value.Value, error) {
	var items []value.Value
	switch source.Kind() {
	case value.KindArray:
		items = source.AsArray()
	case value.KindObject:
		obj := source.AsObject()
		for _, k := range obj.Keys() {
			v, _ := obj.Get(k)
			pair := value.NewObject()
			pair.Set("0", value.String(k))
			pair.Set("1", v)
			items = append(items, value.ObjectOf(pair))
		}
	default:
		return nil, nil
	}

	start := 0
	if offsetContinue {
		c.mu.Lock()
		start = c.forOffsets[rangeKey]
		c.mu.Unlock()
	} else if offset != nil {
		ov, err := c.evalExpr(offset)
		if err != nil {
			return nil, err
		}
		if oi, ok := value.ToInteger(ov); ok {
			start = int(oi)
		}
	}
	if start > len(items) {
		start = len(items)
	}
	items = items[start:]

	if limit != nil {
		lv, err := c.evalExpr(limit)
		if err != nil {
			return nil, err
		}
		if li, ok := value.ToInteger(lv); ok && int(li) < len(items) {
			items = items[:li]
		}
	}

	if offsetContinue {
		c.mu.Lock()
		c.forOffsets[rangeKey] = start + len(items)
		c.mu.Unlock()
	}

	if reversed {
		out := make([]value.Value, len(items))
		for i, v := range items {
			out[len(items)-1-i] = v
		}
		return out, nil
	}
	return items, nil
}

func (c *Context) renderFor(n *ast.For) error {
	source, err := c.evalExpr(n.Source)
	if err != nil {
		return err
	}
	items, err := c.loopSlice(source, n.Limit, n.Offset, n.OffsetContinue, n.RangeSrc, n.Reversed)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		if n.Else != nil {
			return c.Render(n.Else)
		}
		return nil
	}

	parentLoop, hasParent := c.Lookup("forloop", nil)

	c.pushScope()
	defer c.popScope()

	for i, item := range items {
		c.topScope().Set(n.Var, item)
		fl := forloopObject(i, len(items))
		if hasParent {
			fl.AsObject().Set("parentloop", parentLoop)
		}
		c.topScope().Set("forloop", fl)

		if err := c.Render(n.Body); err != nil {
			return err
		}
		if c.interrupt == InterruptBreak {
			c.interrupt = InterruptNone
			break
		}
		if c.interrupt == InterruptContinue {
			c.interrupt = InterruptNone
		}
	}
	return nil
}

func forloopObject(i, length int) value.Value {
	o := value.NewObject()
	o.Set("length", value.Int(int32(length)))
	o.Set("index", value.Int(int32(i+1)))
	o.Set("index0", value.Int(int32(i)))
	o.Set("rindex", value.Int(int32(length-i)))
	o.Set("rindex0", value.Int(int32(length-i-1)))
	o.Set("first", value.Bool(i == 0))
	o.Set("last", value.Bool(i == length-1))
	return value.ObjectOf(o)
}

// tablerowloopObject is forloopObject's field set plus the column
// position within the current <tr>.
func tablerowloopObject(i, length, col, cols int) value.Value {
	o := value.NewObject()
	base := forloopObject(i, length).AsObject()
	for _, k := range base.Keys() {
		v, _ := base.Get(k)
		o.Set(k, v)
	}
	o.Set("col", value.Int(int32(col+1)))
	o.Set("col0", value.Int(int32(col)))
	o.Set("col_first", value.Bool(col == 0))
	o.Set("col_last", value.Bool(col == cols-1))
	return value.ObjectOf(o)
}

func (c *Context) renderTableRow(n *ast.TableRow) error {
	source, err := c.evalExpr(n.Source)
	if err != nil {
		return err
	}
	items, err := c.loopSlice(source, n.Limit, n.Offset, false, "", false)
	if err != nil {
		return err
	}

	cols := len(items)
	if n.Cols != nil {
		cv, err := c.evalExpr(n.Cols)
		if err != nil {
			return err
		}
		if ci, ok := value.ToInteger(cv); ok && ci > 0 {
			cols = int(ci)
		}
	}
	if cols <= 0 {
		cols = 1
	}

	c.pushScope()
	defer c.popScope()

	c.Write("<tr class=\"row1\">")
	row := 1
	for i, item := range items {
		col := i % cols
		if i > 0 && col == 0 {
			row++
			c.Write("</tr>")
			c.Write(fmt.Sprintf("<tr class=\"row%d\">", row))
		}
		c.topScope().Set(n.Var, item)
		c.topScope().Set("tablerowloop", tablerowloopObject(i, len(items), col, cols))
		c.Write("<td class=\"col" + fmt.Sprintf("%d", col+1) + "\">")
		if err := c.Render(n.Body); err != nil {
			return err
		}
		c.Write("</td>")
		if c.interrupt != InterruptNone {
			c.interrupt = InterruptNone
			break
		}
	}
	c.Write("</tr>")
	return nil
}

// renderResolvedBlock renders the most-derived body in node.Chain, with
// every less-derived ancestor body pushed onto the super stack so that
// `{{ super() }}` resolves one level at a time.
func (c *Context) renderResolvedBlock(n *ast.ResolvedBlock) error {
	for i := 0; i < len(n.Chain)-1; i++ {
		c.PushSuper(n.Name, n.Chain[i])
	}
	err := c.Render(n.Chain[len(n.Chain)-1])
	for i := 0; i < len(n.Chain)-1; i++ {
		c.PopSuper()
	}
	return err
}

func (c *Context) renderCustomTag(n *ast.CustomTag) error {
	fn, ok := c.reg.CustomTag(n.Name)
	if !ok {
		return liquiderror.New(liquiderror.KindUnknownTag, n.Pos(), "unregistered custom tag %q", n.Name)
	}
	args, kwargs, err := c.evalFilterArgs(n.Args)
	if err != nil {
		return err
	}
	return fn(c, args, kwargs)
}

func (c *Context) renderCustomBlock(n *ast.CustomBlock) error {
	fn, ok := c.reg.CustomBlock(n.Name)
	if !ok {
		return liquiderror.New(liquiderror.KindUnknownBlock, n.Pos(), "unregistered custom block %q", n.Name)
	}
	args, kwargs, err := c.evalFilterArgs(n.Args)
	if err != nil {
		return err
	}
	return fn(c, args, kwargs, func() error { return c.Render(n.Body) })
}

func (c *Context) evalFilterArgs(fargs []ast.FilterArg) ([]value.Value, map[string]value.Value, error) {
	var args []value.Value
	kwargs := map[string]value.Value{}
	for _, a := range fargs {
		v, err := c.evalExpr(a.Value)
		if err != nil {
			return nil, nil, err
		}
		if a.Keyword != "" {
			kwargs[a.Keyword] = v
		} else {
			args = append(args, v)
		}
	}
	return args, kwargs, nil
}

// renderCurrentSuper returns the nearest enclosing block's parent-body
// rendering, for `{{ super() }}`.
func (c *Context) renderCurrentSuper() string {
	if len(c.supers) == 0 {
		return ""
	}
	top := c.supers[len(c.supers)-1]
	saved := c.out
	c.out.Reset()
	c.supers = c.supers[:len(c.supers)-1]
	_ = c.Render(top.body)
	rendered := c.out.String()
	c.supers = append(c.supers, top)
	c.out = saved
	return rendered
}

// PushSuper makes body available to a `{{ super() }}` call within the
// node list about to be rendered — used by renderResolvedBlock for each
// ancestor body in a ResolvedBlock chain built by package partials.
func (c *Context) PushSuper(name string, body []ast.Node) {
	c.supers = append(c.supers, superFrame{name: name, body: body})
}

// PopSuper removes the most recently pushed super frame.
func (c *Context) PopSuper() {
	if len(c.supers) > 0 {
		c.supers = c.supers[:len(c.supers)-1]
	}
}
