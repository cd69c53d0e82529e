// Package liquidgo is the embedding surface: a Builder assembles a
// language registry (with any custom tags/blocks/filters) and a partial
// store, Parser.Parse compiles source text into a Template, and
// Template.Render/RenderTo execute it against a globals map.
//
// Generalized from codingersid-legit-template's package legitview (legit.go): New(...)
// plus functional Option values remains the shape callers see, but the
// options now configure a registry.Registry and a partials.PartialStore
// instead of an html/template.FuncMap and a views directory, since this
// core has no filesystem or html/template dependency of its own.
package liquidgo

import (
	"io"
	"os"

	"github.com/codingersid/liquidgo/ast"
	"github.com/codingersid/liquidgo/filters"
	"github.com/codingersid/liquidgo/parser"
	"github.com/codingersid/liquidgo/partials"
	"github.com/codingersid/liquidgo/registry"
	"github.com/codingersid/liquidgo/render"
	"github.com/codingersid/liquidgo/value"
)

// Version is the current module version.
const Version = "0.1.0"

// Source is a named template's raw text, re-exported so callers building
// an eager partial store need not import package partials directly.
type Source = partials.Source

// Builder assembles a language registry and partial store, then
// produces a Parser from them via Build.
type Builder struct {
	reg     *registry.Registry
	strict  bool
	sources []partials.Source
	loader  partials.SourceLoader
	lazy    bool
}

// Option configures a Builder.
type Option func(*Builder)

// NewBuilder returns a Builder with the starter filter catalog
// (package filters) already registered.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{reg: registry.New()}
	filters.Register(b.reg)
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// WithStrict switches unresolved-variable/index lookups from silently
// rendering empty (lax, the default) to a returned UnknownVariable /
// UnknownIndex error.
func WithStrict(strict bool) Option {
	return func(b *Builder) { b.strict = strict }
}

// WithFilter registers a custom filter.
func WithFilter(name, description, argShape string, fn registry.FilterFunc) Option {
	return func(b *Builder) { b.reg.RegisterFilter(name, description, argShape, fn) }
}

// WithTag registers a custom single-line tag.
func WithTag(name, description, argShape string, fn registry.TagRenderFunc) Option {
	return func(b *Builder) { b.reg.RegisterTag(name, description, argShape, fn) }
}

// WithBlock registers a custom block.
func WithBlock(name, description, argShape string, fn registry.BlockRenderFunc) Option {
	return func(b *Builder) { b.reg.RegisterBlock(name, description, argShape, fn) }
}

// WithPartials seeds an eager partial store from named sources, used for
// `include`/`render`/`extends` lookups.
func WithPartials(sources ...partials.Source) Option {
	return func(b *Builder) { b.sources = append(b.sources, sources...) }
}

// WithLazyPartials switches to a lazy, compile-on-first-access partial
// store backed by load instead of an eager, up-front one.
func WithLazyPartials(load partials.SourceLoader) Option {
	return func(b *Builder) {
		b.lazy = true
		b.loader = load
	}
}

// DirectoryLoader returns a SourceLoader that reads "<dir>/<name><ext>"
// from the filesystem on first access, for use with WithLazyPartials.
func DirectoryLoader(dir, ext string) partials.SourceLoader {
	return func(name string) (string, bool) {
		data, err := os.ReadFile(dir + string(os.PathSeparator) + name + ext)
		if err != nil {
			return "", false
		}
		return string(data), true
	}
}

// Registry exposes the builder's language registry, e.g. for reflection
// (Registry().Tags()/.Blocks()/.Filters()).
func (b *Builder) Registry() *registry.Registry { return b.reg }

// Build finalizes the registry/partial-store configuration into a
// Parser.
func (b *Builder) Build() (*Parser, error) {
	p := parser.New(b.reg)

	var raw partials.RawResolver
	if b.lazy {
		raw = partials.NewLazyStore(p, b.loader)
	} else {
		store, err := partials.NewEagerStore(p, b.sources)
		if err != nil {
			return nil, err
		}
		raw = store
	}

	return &Parser{
		reg:    b.reg,
		parser: p,
		store:  partials.NewInheritingStore(raw),
		strict: b.strict,
	}, nil
}

// Parser compiles template source into a Template.
type Parser struct {
	reg    *registry.Registry
	parser *parser.Parser
	store  render.PartialStore
	strict bool
}

// Parse compiles source into a renderable Template.
func (p *Parser) Parse(source string) (*Template, error) {
	nodes, err := p.parser.Parse(source)
	if err != nil {
		return nil, err
	}
	return &Template{nodes: nodes, reg: p.reg, store: p.store, strict: p.strict}, nil
}

// ParseFile reads path and parses its contents.
func (p *Parser) ParseFile(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return p.Parse(string(data))
}

// Template is a parsed, immutable node list ready to render against any
// number of distinct globals maps.
type Template struct {
	nodes  []ast.Node
	reg    *registry.Registry
	store  render.PartialStore
	strict bool
}

// Render executes the template against globals and returns the output
// as a string.
func (t *Template) Render(globals map[string]interface{}) (string, error) {
	ctx := render.New(value.NewObject(), t.reg, t.store, t.strict)
	for k, v := range globals {
		ctx.Assign(k, value.FromAny(v))
	}
	if err := ctx.Render(t.nodes); err != nil {
		return "", err
	}
	return ctx.Output(), nil
}

// RenderTo executes the template and streams the output to w.
func (t *Template) RenderTo(w io.Writer, globals map[string]interface{}) error {
	out, err := t.Render(globals)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}
