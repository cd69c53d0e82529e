// Package registry implements the language registry: the case-sensitive
// tag/block/filter tables keyed by name, plus the reflection records
// embedders can enumerate, and the extension point custom tags/blocks/
// filters register against.
//
// New relative to codingersid-legit-template, which hard-codes its directive set as the
// Directives/Functions string slices in legit.go rather than a queryable
// registry object — grounded on that same "what constructs exist" idea,
// generalized into a table a parser can consult at dispatch time.
package registry

import "github.com/codingersid/liquidgo/value"

// Entry is a parser's reflection record: name, short description, and a
// free-form description of its argument shape.
type Entry struct {
	Name        string
	Description string
	ArgShape    string
}

// Runtime is the minimal surface a custom filter or tag needs against the
// render-time context, kept here (rather than in package render) so that
// registry has no dependency on render and render can depend on registry
// without a cycle.
type Runtime interface {
	// Lookup resolves a root identifier plus index path against the
	// current frame stack.
	Lookup(root string, path []string) (value.Value, bool)
	// Write appends to the current render output.
	Write(s string)
	// Strict reports whether the runtime is in strict (vs lax) mode.
	Strict() bool
}

// FilterFunc is the signature every filter, built-in or user-registered,
// implements: current value, evaluated positional args, evaluated keyword
// args, and the runtime for context-aware filters.
type FilterFunc func(input value.Value, args []value.Value, kwargs map[string]value.Value, rt Runtime) (value.Value, error)

// TagRenderFunc is the render-time behavior of a custom single-line tag.
type TagRenderFunc func(rt Runtime, args []value.Value, kwargs map[string]value.Value) error

// BlockRenderFunc is the render-time behavior of a custom block; renderBody
// renders the block's already-parsed body against the current scope.
type BlockRenderFunc func(rt Runtime, args []value.Value, kwargs map[string]value.Value, renderBody func() error) error

// Registry is the triple of tables described by 
type Registry struct {
	tagEntries   map[string]Entry
	blockEntries map[string]Entry

	filters      map[string]FilterFunc
	filterEntry  map[string]Entry

	customTags   map[string]TagRenderFunc
	customBlocks map[string]BlockRenderFunc
}

// New returns a Registry with the built-in tag/block names pre-populated
// as reflection entries (their parse/render behavior lives in packages
// parser and render; this table only records what exists and its shape,
// and is what the parser driver consults to decide tag-mode vs
// block-mode per ).
func New() *Registry {
	r := &Registry{
		tagEntries:   map[string]Entry{},
		blockEntries: map[string]Entry{},
		filters:      map[string]FilterFunc{},
		filterEntry:  map[string]Entry{},
		customTags:   map[string]TagRenderFunc{},
		customBlocks: map[string]BlockRenderFunc{},
	}
	for _, e := range builtinTags {
		r.tagEntries[e.Name] = e
	}
	for _, e := range builtinBlocks {
		r.blockEntries[e.Name] = e
	}
	return r
}

var builtinTags = []Entry{
	{"assign", "bind a variable in the global frame", "name = filter_chain"},
	{"cycle", "advance a per-group round-robin counter", "(group:)? v1, v2, ..."},
	{"break", "exit the nearest enclosing loop", ""},
	{"continue", "proceed to the next loop iteration", ""},
	{"include", "render a partial against the current scope", `"name" (with|for|key: value)*`},
	{"render", "render a partial against a sandboxed scope", `"name" (with|for|key: value)*`},
	{"increment", "output and post-increment a named counter", "name"},
	{"decrement", "decrement a named counter and output the result", "name"},
	{"extends", "mark this template as a child of a parent template", `"parent"`},
}

var builtinBlocks = []Entry{
	{"capture", "render body into a buffer and assign it", "name"},
	{"if", "conditional rendering", "condition"},
	{"unless", "negated conditional rendering", "condition"},
	{"case", "multi-way branch on equality", "subject"},
	{"for", "iterate over an array or counted range", "var in range (limit:|offset:|reversed)*"},
	{"raw", "pass body through unlexed", ""},
	{"comment", "discard body", ""},
	{"ifchanged", "render body only if different from the previous render", ""},
	{"tablerow", "iterate emitting <tr>/<td> markup", "var in range cols: N"},
	{"block", "inheritance placeholder overridden by child templates", "name"},
}

// Tags returns the reflection table for single-line tags.
func (r *Registry) Tags() map[string]Entry { return r.tagEntries }

// Blocks returns the reflection table for body-carrying blocks.
func (r *Registry) Blocks() map[string]Entry { return r.blockEntries }

// Filters returns the reflection table for filters.
func (r *Registry) Filters() map[string]Entry { return r.filterEntry }

// IsTag reports whether name is in the tags table.
func (r *Registry) IsTag(name string) bool {
	_, ok := r.tagEntries[name]
	return ok
}

// IsBlock reports whether name is in the blocks table.
func (r *Registry) IsBlock(name string) bool {
	_, ok := r.blockEntries[name]
	return ok
}

// RegisterFilter adds a named filter, with reflection metadata.
func (r *Registry) RegisterFilter(name, description, argShape string, fn FilterFunc) {
	r.filters[name] = fn
	r.filterEntry[name] = Entry{Name: name, Description: description, ArgShape: argShape}
}

// Filter looks up a filter by name.
func (r *Registry) Filter(name string) (FilterFunc, bool) {
	fn, ok := r.filters[name]
	return fn, ok
}

// RegisterTag adds a custom single-line tag.
func (r *Registry) RegisterTag(name, description, argShape string, fn TagRenderFunc) {
	r.tagEntries[name] = Entry{Name: name, Description: description, ArgShape: argShape}
	r.customTags[name] = fn
}

// RegisterBlock adds a custom block.
func (r *Registry) RegisterBlock(name, description, argShape string, fn BlockRenderFunc) {
	r.blockEntries[name] = Entry{Name: name, Description: description, ArgShape: argShape}
	r.customBlocks[name] = fn
}

// CustomTag looks up a registered custom tag's render function; ok=false
// for built-in names (those are dispatched directly by package render).
func (r *Registry) CustomTag(name string) (TagRenderFunc, bool) {
	fn, ok := r.customTags[name]
	return fn, ok
}

// CustomBlock looks up a registered custom block's render function.
func (r *Registry) CustomBlock(name string) (BlockRenderFunc, bool) {
	fn, ok := r.customBlocks[name]
	return fn, ok
}

// IsBuiltinTagName reports whether name is one of the always-present built-in
// tags (as opposed to a later-registered custom one).
func IsBuiltinTagName(name string) bool {
	for _, e := range builtinTags {
		if e.Name == name {
			return true
		}
	}
	return false
}

// IsBuiltinBlockName reports whether name is a built-in block name.
func IsBuiltinBlockName(name string) bool {
	for _, e := range builtinBlocks {
		if e.Name == name {
			return true
		}
	}
	return false
}
