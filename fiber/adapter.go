// Package fiber adapts the liquidgo core to the gofiber/fiber
// `fiber.Views` interface (Load/Render), so an HTTP server can point its
// view engine straight at a directory of `.liquid` files.
//
// Adapted from codingersid-legit-template's fiber.Engine
// (codingersid-legit-template/fiber/adapter.go): the directory-walking
// Load(), the Render(w, name, data, layouts...) signature, and the
// Reload/Debug/Layout builder-style setters all carry over; what changes
// underneath is the compiled-template type (liquidgo.Template instead of
// an html/template-backed engine.Engine) and the binding type (globals
// map[string]interface{} straight into Template.Render instead of a
// FuncMap-driven html/template Execute).
package fiber

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/codingersid/liquidgo"
)

// Engine wraps a liquidgo Parser plus a directory of compiled Templates
// for Fiber's `fiber.Views` interface.
type Engine struct {
	directory string
	extension string
	layout    string
	reload    bool
	debug     bool

	mutex     sync.RWMutex
	builder   *liquidgo.Builder
	parser    *liquidgo.Parser
	templates map[string]*liquidgo.Template
}

// New creates a Fiber-compatible view engine reading `.liquid` files
// (or the given extension) from directory.
func New(directory string, extension ...string) *Engine {
	ext := ".liquid"
	if len(extension) > 0 {
		ext = extension[0]
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
	}
	return &Engine{
		directory: directory,
		extension: ext,
		templates: map[string]*liquidgo.Template{},
	}
}

// Layout sets the default layout template name.
func (e *Engine) Layout(layout string) *Engine {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.layout = layout
	return e
}

// Reload enables re-reading every template from disk on each Render
// call, for development.
func (e *Engine) Reload(reload bool) *Engine {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.reload = reload
	return e
}

// Debug enables warning output for templates that fail to precompile.
func (e *Engine) Debug(debug bool) *Engine {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.debug = debug
	return e
}

// Load walks directory, parsing every matching file into the builder's
// partial store and compiling each into a Template — this implements
// `fiber.Views`.
func (e *Engine) Load() error {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	var sources []liquidgo.Source
	names := []string{}
	err := filepath.Walk(e.directory, func(path string, info os.FileInfo, werr error) error {
		if werr != nil {
			return werr
		}
		if info.IsDir() || !strings.HasSuffix(path, e.extension) {
			return nil
		}
		name := strings.TrimPrefix(path, e.directory+string(filepath.Separator))
		name = strings.TrimSuffix(name, e.extension)
		name = strings.ReplaceAll(name, string(filepath.Separator), "/")

		data, rerr := os.ReadFile(path)
		if rerr != nil {
			return rerr
		}
		sources = append(sources, liquidgo.Source{Name: name, Text: string(data)})
		names = append(names, name)
		return nil
	})
	if err != nil {
		return err
	}

	e.builder = liquidgo.NewBuilder(liquidgo.WithPartials(sources...))
	e.parser, err = e.builder.Build()
	if err != nil {
		return err
	}

	e.templates = map[string]*liquidgo.Template{}
	for _, src := range sources {
		tmpl, perr := e.parser.Parse(src.Text)
		if perr != nil {
			if e.debug {
				fmt.Printf("warning: failed to precompile template %s: %v\n", src.Name, perr)
			}
			continue
		}
		e.templates[src.Name] = tmpl
	}
	_ = names
	return nil
}

// Render renders the named template, optionally wrapped in a layout —
// this implements `fiber.Views`.
func (e *Engine) Render(w io.Writer, name string, data interface{}, layouts ...string) error {
	if e.reload {
		if err := e.Load(); err != nil {
			return err
		}
	}

	binding := prepareBinding(data)
	layout := e.getLayout(layouts...)

	if layout == "" {
		return e.renderTo(w, name, binding)
	}

	var buf strings.Builder
	if err := e.renderTo(&buf, name, binding); err != nil {
		return err
	}
	binding["content"] = buf.String()
	return e.renderTo(w, layout, binding)
}

func (e *Engine) renderTo(w io.Writer, name string, binding map[string]interface{}) error {
	e.mutex.RLock()
	tmpl, ok := e.templates[name]
	e.mutex.RUnlock()
	if !ok {
		return fmt.Errorf("fiber: template %q not loaded", name)
	}
	return tmpl.RenderTo(w, binding)
}

func (e *Engine) getLayout(layouts ...string) string {
	if len(layouts) > 0 && layouts[0] != "" {
		return layouts[0]
	}
	e.mutex.RLock()
	defer e.mutex.RUnlock()
	return e.layout
}

func prepareBinding(data interface{}) map[string]interface{} {
	if data == nil {
		return map[string]interface{}{}
	}
	switch d := data.(type) {
	case map[string]interface{}:
		return d
	default:
		return map[string]interface{}{"data": data}
	}
}
