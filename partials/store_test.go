package partials_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codingersid/liquidgo/liquiderror"
	"github.com/codingersid/liquidgo/parser"
	"github.com/codingersid/liquidgo/partials"
	"github.com/codingersid/liquidgo/registry"
)

func newParser() *parser.Parser {
	return parser.New(registry.New())
}

func TestEagerStoreResolvesKnownName(t *testing.T) {
	p := newParser()
	store, err := partials.NewEagerStore(p, []partials.Source{{Name: "greeting", Text: "hi {{ name }}"}})
	require.NoError(t, err)

	nodes, err := store.Resolve("greeting")
	require.NoError(t, err)
	require.NotEmpty(t, nodes)
}

func TestEagerStoreUnknownNameErrors(t *testing.T) {
	p := newParser()
	store, err := partials.NewEagerStore(p, nil)
	require.NoError(t, err)

	_, err = store.Resolve("missing")
	require.Error(t, err)
	require.True(t, liquiderror.IsKind(err, liquiderror.KindUnknownPartial))
}

func TestEagerStorePropagatesParseError(t *testing.T) {
	p := newParser()
	_, err := partials.NewEagerStore(p, []partials.Source{{Name: "broken", Text: "{% if %}"}})
	require.Error(t, err)
}

func TestLazyStoreCompilesOnFirstAccessThenCaches(t *testing.T) {
	p := newParser()
	calls := 0
	loader := func(name string) (string, bool) {
		calls++
		if name == "header" {
			return "Header {{ title }}", true
		}
		return "", false
	}
	store := partials.NewLazyStore(p, loader)

	nodes1, err := store.Resolve("header")
	require.NoError(t, err)
	require.NotEmpty(t, nodes1)

	nodes2, err := store.Resolve("header")
	require.NoError(t, err)
	require.Equal(t, nodes1, nodes2)
	require.Equal(t, 1, calls)
}

func TestLazyStoreUnknownNameErrors(t *testing.T) {
	p := newParser()
	store := partials.NewLazyStore(p, func(string) (string, bool) { return "", false })

	_, err := store.Resolve("missing")
	require.Error(t, err)
	require.True(t, liquiderror.IsKind(err, liquiderror.KindUnknownPartial))
}

func TestLazyStoreInvalidateForcesRecompile(t *testing.T) {
	p := newParser()
	text := "v1"
	loader := func(name string) (string, bool) { return text, true }
	store := partials.NewLazyStore(p, loader)

	_, err := store.Resolve("x")
	require.NoError(t, err)

	text = "v2"
	store.Invalidate("x")

	nodes, err := store.Resolve("x")
	require.NoError(t, err)
	require.NotEmpty(t, nodes)
}

func TestChecksumIsStableAndContentSensitive(t *testing.T) {
	a := partials.Checksum([]byte("hello"))
	b := partials.Checksum([]byte("hello"))
	c := partials.Checksum([]byte("world"))
	require.Equal(t, a, b)
	require.NotEqual(t, a, c)
}
