// Package partials implements the partial store: a
// name-keyed lookup for `include`/`render`/`extends`, with eager
// (parse-all-up-front) and lazy (parse-on-first-access,
// compile-once-under-concurrency) strategies, plus the inheritance chain
// builder that resolves `extends`/`block`/`super`.
//
// Grounded on codingersid-legit-template's engine.TemplateCache
// (codingersid-legit-template/engine/cache.go): a sync.RWMutex-guarded
// map from name to compiled result plus an md5 Checksum helper. That
// cache is keyed on file mtime because its templates live on disk; this
// core is not filesystem-aware, so LazyStore keeps each compiled result
// by name until Invalidate drops it (the md5 checksum of the source is
// recorded with the entry but not compared on later lookups), and adds
// golang.org/x/sync/singleflight to collapse
// concurrent first-time compiles of the same name into one, which the
// codingersid-legit-template's cache does not need since html/template.New parses
// synchronously under its own lock.
package partials

import (
	"crypto/md5"
	"encoding/hex"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/codingersid/liquidgo/ast"
	"github.com/codingersid/liquidgo/liquiderror"
)

// Source is a named template's raw text, as supplied by the embedder.
type Source struct {
	Name string
	Text string
}

// Parser is the minimal surface LazyStore/EagerStore need to turn source
// text into a node list — satisfied by *parser.Parser.
type Parser interface {
	Parse(source string) ([]ast.Node, error)
}

// EagerStore parses every supplied source up front.
type EagerStore struct {
	mu    sync.RWMutex
	nodes map[string][]ast.Node
}

// NewEagerStore parses all sources immediately, returning the first
// parse error encountered (if any) alongside the partially built store.
func NewEagerStore(p Parser, sources []Source) (*EagerStore, error) {
	s := &EagerStore{nodes: map[string][]ast.Node{}}
	for _, src := range sources {
		n, err := p.Parse(src.Text)
		if err != nil {
			return s, err
		}
		s.nodes[src.Name] = n
	}
	return s, nil
}

// Resolve returns the named partial's parsed nodes.
func (s *EagerStore) Resolve(name string) ([]ast.Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.nodes[name]
	if !ok {
		return nil, liquiderror.New(liquiderror.KindUnknownPartial, liquiderror.Position{}, "unknown partial %q", name).WithContext("name", name)
	}
	return n, nil
}

// SourceLoader fetches a named partial's raw text on demand (e.g. from a
// filesystem, embed.FS, or remote store); ok is false if no such partial
// exists.
type SourceLoader func(name string) (text string, ok bool)

type lazyEntry struct {
	nodes    []ast.Node
	checksum string
	err      error
}

// LazyStore parses a partial's source the first time it is requested,
// and guarantees at-most-one compile per name even when multiple
// renders request the same uncompiled partial concurrently.
type LazyStore struct {
	parser Parser
	load   SourceLoader

	group singleflight.Group

	mu      sync.RWMutex
	entries map[string]lazyEntry
}

// NewLazyStore returns a store that compiles partials on first use via
// load, using p to parse them.
func NewLazyStore(p Parser, load SourceLoader) *LazyStore {
	return &LazyStore{parser: p, load: load, entries: map[string]lazyEntry{}}
}

// Resolve returns the named partial's parsed nodes, compiling it on
// first access.
func (s *LazyStore) Resolve(name string) ([]ast.Node, error) {
	s.mu.RLock()
	e, ok := s.entries[name]
	s.mu.RUnlock()
	if ok {
		return e.nodes, e.err
	}

	v, err, _ := s.group.Do(name, func() (interface{}, error) {
		s.mu.RLock()
		e, ok := s.entries[name]
		s.mu.RUnlock()
		if ok {
			return e, nil
		}

		text, found := s.load(name)
		if !found {
			notFound := lazyEntry{err: liquiderror.New(liquiderror.KindUnknownPartial, liquiderror.Position{}, "unknown partial %q", name).WithContext("name", name)}
			s.mu.Lock()
			s.entries[name] = notFound
			s.mu.Unlock()
			return notFound, nil
		}

		nodes, perr := s.parser.Parse(text)
		entry := lazyEntry{nodes: nodes, checksum: Checksum([]byte(text)), err: perr}
		s.mu.Lock()
		s.entries[name] = entry
		s.mu.Unlock()
		return entry, nil
	})
	if err != nil {
		return nil, err
	}
	entry := v.(lazyEntry)
	return entry.nodes, entry.err
}

// Invalidate drops a cached compile so the next Resolve recompiles it,
// e.g. after the embedder observes the backing source changed.
func (s *LazyStore) Invalidate(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, name)
}

// Checksum hashes content, in codingersid-legit-template's own md5-hex idiom
// (engine.Checksum), repointed at source text instead of file bytes.
func Checksum(content []byte) string {
	h := md5.Sum(content)
	return hex.EncodeToString(h[:])
}
