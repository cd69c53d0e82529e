// Package render tree-walks a parsed node list (package ast) against a
// runtime Context, producing output text. Unlike codingersid-legit-template's
// compiler.Compiler, which transpiles its directive tree into Go
// html/template source and lets that package's own evaluator do the
// work, Liquid's dynamic Value typing, forloop/interrupt registers and
// sandboxed include/render scoping have no text/template equivalent, so
// this package interprets the tree directly — the frame/stack/section
// shape of Context is nonetheless grounded on codingersid-legit-template's
// runtime.Context (codingersid-legit-template/runtime/context.go), whose
// mutex-guarded data map becomes the global frame here and whose
// sections map is the direct ancestor of the inheritance block registry.
package render

import (
	"strings"
	"sync"

	"github.com/codingersid/liquidgo/ast"
	"github.com/codingersid/liquidgo/liquiderror"
	"github.com/codingersid/liquidgo/registry"
	"github.com/codingersid/liquidgo/value"
)

// Interrupt is the single-slot break/continue register.
type Interrupt int

const (
	InterruptNone Interrupt = iota
	InterruptBreak
	InterruptContinue
)

// PartialStore resolves a named partial's parsed node list for
// include/render/extends (package partials supplies the eager and lazy
// implementations).
type PartialStore interface {
	Resolve(name string) ([]ast.Node, error)
}

// Context is the render-time state threaded through one Render call: the
// global frame, a stack of scope frames pushed by for/tablerow/include,
// a sandboxed frame used by `render`, the index registers for
// cycle/increment/decrement/ifchanged/offset-continue, the interrupt
// register, and the strict/lax mode flag.
type Context struct {
	global *value.Object
	scopes []*value.Object

	sandboxed   bool
	overrideTop bool // never set; withPartialScope swaps global/scopes directly

	reg      *registry.Registry
	partials PartialStore
	strict   bool

	out strings.Builder

	mu         sync.Mutex
	cycles     map[string]int
	counters   map[string]int32 // shared increment/decrement namespace per name
	changed    map[string]string
	forOffsets map[string]int

	interrupt Interrupt

	blocks map[string][]ast.Node // unused: extends/super resolution goes through ResolvedBlock and supers
	supers []superFrame
}

type superFrame struct {
	name string
	body []ast.Node
}

// New returns a Context seeded with globals, ready to render a
// top-level node list against a fresh scope stack.
func New(globals *value.Object, reg *registry.Registry, partials PartialStore, strict bool) *Context {
	if globals == nil {
		globals = value.NewObject()
	}
	return &Context{
		global:     globals,
		reg:        reg,
		partials:   partials,
		strict:     strict,
		cycles:     map[string]int{},
		counters:   map[string]int32{},
		changed:    map[string]string{},
		forOffsets: map[string]int{},
		blocks:     map[string][]ast.Node{},
	}
}

// Strict reports whether unresolved lookups are errors (true) or render
// as empty (false) — implements registry.Runtime.
func (c *Context) Strict() bool { return c.strict }

// Write appends to the accumulated output — implements registry.Runtime.
func (c *Context) Write(s string) { c.out.WriteString(s) }

// Output returns everything written so far.
func (c *Context) Output() string { return c.out.String() }

// pushScope opens a new innermost variable frame (for's and tablerow's
// loop variable).
func (c *Context) pushScope() {
	c.scopes = append(c.scopes, value.NewObject())
}

func (c *Context) popScope() {
	c.scopes = c.scopes[:len(c.scopes)-1]
}

func (c *Context) topScope() *value.Object {
	return c.scopes[len(c.scopes)-1]
}

// setLocal binds name in the innermost scope frame if any scope is open,
// else in the global frame. No render path calls it: loops set their
// variables on topScope, capture uses Assign, and include/render build
// their locals object before calling withPartialScope.
func (c *Context) setLocal(name string, v value.Value) {
	if len(c.scopes) > 0 {
		c.topScope().Set(name, v)
		return
	}
	c.global.Set(name, v)
}

// Assign implements `{% assign %}`: it always writes into the global
// frame, so the binding outlives the block it was made in.
func (c *Context) Assign(name string, v value.Value) {
	c.global.Set(name, v)
}

// Lookup resolves root, then walks path segments against it — implements
// registry.Runtime and backs Variable evaluation. Scope frames are
// searched innermost-first, falling back to the global frame.
func (c *Context) Lookup(root string, path []string) (value.Value, bool) {
	var cur value.Value
	found := false
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if v, ok := c.scopes[i].Get(root); ok {
			cur, found = v, true
			break
		}
	}
	if !found {
		cur, found = c.global.Get(root)
	}
	if !found {
		return value.Nil(), false
	}
	for _, seg := range path {
		next, ok := value.Get(cur, value.String(seg))
		if !ok {
			return value.Nil(), false
		}
		cur = next
	}
	return cur, true
}

// withPartialScope pushes a fresh locals frame for `include`/`render`,
// running fn with it active, then pops it. sandbox additionally hides
// all outer scope frames and the global frame.
func (c *Context) withPartialScope(sandbox bool, locals *value.Object, fn func() error) error {
	if sandbox {
		savedGlobal, savedScopes := c.global, c.scopes
		c.global = locals
		c.scopes = nil
		defer func() {
			c.global, c.scopes = savedGlobal, savedScopes
		}()
		return fn()
	}
	c.scopes = append(c.scopes, locals)
	defer c.popScope()
	return fn()
}

// unknownVariable reports an UnknownVariable error for an unresolved
// root identifier in strict mode, or silently returns Nil in lax mode.
func (c *Context) unknownVariable(pos liquiderror.Position, name string) (value.Value, error) {
	if c.strict {
		return value.Nil(), liquiderror.New(liquiderror.KindUnknownVariable, pos, "undefined variable %q", name).WithContext("name", name)
	}
	return value.Nil(), nil
}
