package liquidgo_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codingersid/liquidgo"
	"github.com/codingersid/liquidgo/registry"
	"github.com/codingersid/liquidgo/value"
)

func TestBuildAndRenderFilterChain(t *testing.T) {
	b := liquidgo.NewBuilder()
	p, err := b.Build()
	require.NoError(t, err)

	tmpl, err := p.Parse(`{{ n | minus: 2 }}`)
	require.NoError(t, err)

	out, err := tmpl.Render(map[string]interface{}{"n": 4})
	require.NoError(t, err)
	require.Equal(t, "2", out)
}

func TestRenderToWritesOutput(t *testing.T) {
	b := liquidgo.NewBuilder()
	p, err := b.Build()
	require.NoError(t, err)

	tmpl, err := p.Parse(`hi {{ name }}`)
	require.NoError(t, err)

	var buf strings.Builder
	require.NoError(t, tmpl.RenderTo(&buf, map[string]interface{}{"name": "sam"}))
	require.Equal(t, "hi sam", buf.String())
}

func TestWithStrictErrorsOnUndefinedVariable(t *testing.T) {
	b := liquidgo.NewBuilder(liquidgo.WithStrict(true))
	p, err := b.Build()
	require.NoError(t, err)

	tmpl, err := p.Parse(`{{ missing }}`)
	require.NoError(t, err)

	_, err = tmpl.Render(nil)
	require.Error(t, err)
}

func TestWithFilterRegistersCustomFilter(t *testing.T) {
	shout := func(input value.Value, args []value.Value, kwargs map[string]value.Value, rt registry.Runtime) (value.Value, error) {
		s, _ := input.AsString()
		return value.String(strings.ToUpper(s) + "!"), nil
	}
	b := liquidgo.NewBuilder(liquidgo.WithFilter("shout", "yell", "", shout))
	p, err := b.Build()
	require.NoError(t, err)

	tmpl, err := p.Parse(`{{ "hi" | shout }}`)
	require.NoError(t, err)

	out, err := tmpl.Render(nil)
	require.NoError(t, err)
	require.Equal(t, "HI!", out)
}

func TestWithTagRegistersCustomTag(t *testing.T) {
	pinged := false
	ping := func(rt registry.Runtime, args []value.Value, kwargs map[string]value.Value) error {
		pinged = true
		rt.Write("pong")
		return nil
	}
	b := liquidgo.NewBuilder(liquidgo.WithTag("ping", "writes pong", "", ping))
	p, err := b.Build()
	require.NoError(t, err)

	tmpl, err := p.Parse(`{% ping %}`)
	require.NoError(t, err)

	out, err := tmpl.Render(nil)
	require.NoError(t, err)
	require.Equal(t, "pong", out)
	require.True(t, pinged)
}

func TestWithPartialsResolvesInclude(t *testing.T) {
	b := liquidgo.NewBuilder(liquidgo.WithPartials(liquidgo.Source{Name: "greeting", Text: "hi {{ name }}"}))
	p, err := b.Build()
	require.NoError(t, err)

	tmpl, err := p.Parse(`{% include "greeting" %}`)
	require.NoError(t, err)

	out, err := tmpl.Render(map[string]interface{}{"name": "sam"})
	require.NoError(t, err)
	require.Equal(t, "hi sam", out)
}

func TestWithLazyPartialsCompilesOnDemand(t *testing.T) {
	loader := func(name string) (string, bool) {
		if name == "footer" {
			return "bye", true
		}
		return "", false
	}
	b := liquidgo.NewBuilder(liquidgo.WithLazyPartials(loader))
	p, err := b.Build()
	require.NoError(t, err)

	tmpl, err := p.Parse(`{% render "footer" %}`)
	require.NoError(t, err)

	out, err := tmpl.Render(nil)
	require.NoError(t, err)
	require.Equal(t, "bye", out)
}

func TestRegistryExposesBuiltinsAndCustomEntries(t *testing.T) {
	b := liquidgo.NewBuilder()
	reg := b.Registry()
	_, ok := reg.Filter("minus")
	require.True(t, ok)
	require.True(t, reg.IsBlock("if"))
	require.True(t, reg.IsTag("assign"))
}
