package partials_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codingersid/liquidgo/ast"
	"github.com/codingersid/liquidgo/liquiderror"
	"github.com/codingersid/liquidgo/parser"
	"github.com/codingersid/liquidgo/partials"
	"github.com/codingersid/liquidgo/registry"
)

func newInheritParser() *parser.Parser {
	return parser.New(registry.New())
}

func TestInheritingStorePassesThroughNonExtendingTemplate(t *testing.T) {
	p := newInheritParser()
	eager, err := partials.NewEagerStore(p, []partials.Source{{Name: "plain", Text: "hello"}})
	require.NoError(t, err)

	store := partials.NewInheritingStore(eager)
	nodes, err := store.Resolve("plain")
	require.NoError(t, err)
	require.Len(t, nodes, 1)
}

func TestInheritingStoreFlattensSingleLevelExtends(t *testing.T) {
	p := newInheritParser()
	eager, err := partials.NewEagerStore(p, []partials.Source{
		{Name: "parent", Text: `A{% block b %}x{% endblock %}B`},
		{Name: "child", Text: `{% extends "parent" %}{% block b %}y{% endblock %}`},
	})
	require.NoError(t, err)

	store := partials.NewInheritingStore(eager)
	nodes, err := store.Resolve("child")
	require.NoError(t, err)

	var resolved *ast.ResolvedBlock
	for _, n := range nodes {
		if rb, ok := n.(*ast.ResolvedBlock); ok {
			resolved = rb
		}
	}
	require.NotNil(t, resolved, "expected a ResolvedBlock in the flattened node list")
	require.Equal(t, "b", resolved.Name)
	require.Len(t, resolved.Chain, 2)
}

func TestInheritingStoreDetectsCycle(t *testing.T) {
	p := newInheritParser()
	eager, err := partials.NewEagerStore(p, []partials.Source{
		{Name: "a", Text: `{% extends "b" %}`},
		{Name: "b", Text: `{% extends "a" %}`},
	})
	require.NoError(t, err)

	store := partials.NewInheritingStore(eager)
	_, err = store.Resolve("a")
	require.Error(t, err)
	require.True(t, liquiderror.IsKind(err, liquiderror.KindInheritanceCycle))
}

func TestInheritingStoreMissingParentErrors(t *testing.T) {
	p := newInheritParser()
	eager, err := partials.NewEagerStore(p, []partials.Source{
		{Name: "child", Text: `{% extends "ghost" %}`},
	})
	require.NoError(t, err)

	store := partials.NewInheritingStore(eager)
	_, err = store.Resolve("child")
	require.Error(t, err)
	require.True(t, liquiderror.IsKind(err, liquiderror.KindUnknownPartial))
}
