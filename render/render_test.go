package render_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codingersid/liquidgo/ast"
	"github.com/codingersid/liquidgo/filters"
	"github.com/codingersid/liquidgo/liquiderror"
	"github.com/codingersid/liquidgo/parser"
	"github.com/codingersid/liquidgo/partials"
	"github.com/codingersid/liquidgo/registry"
	"github.com/codingersid/liquidgo/render"
	"github.com/codingersid/liquidgo/value"
)

func newTestParser() (*parser.Parser, *registry.Registry) {
	reg := registry.New()
	filters.Register(reg)
	return parser.New(reg), reg
}

// emptyRawResolver backs the partial store in tests that never exercise
// include/render/extends.
type emptyRawResolver struct{}

func (emptyRawResolver) Resolve(name string) ([]ast.Node, error) {
	return nil, liquiderror.New(liquiderror.KindUnknownPartial, liquiderror.Position{}, "no partials registered, looked up %q", name)
}

func renderSource(t *testing.T, src string, globals map[string]value.Value) string {
	t.Helper()
	p, reg := newTestParser()
	nodes, err := p.Parse(src)
	require.NoError(t, err)

	obj := value.NewObject()
	for k, v := range globals {
		obj.Set(k, v)
	}
	store := partials.NewInheritingStore(emptyRawResolver{})
	ctx := render.New(obj, reg, store, false)
	require.NoError(t, ctx.Render(nodes))
	return ctx.Output()
}

func TestScenario1FilterChain(t *testing.T) {
	out := renderSource(t, `Liquid! {{ n | minus: 2 }}`, map[string]value.Value{"n": value.Int(4)})
	require.Equal(t, "Liquid! 2", out)
}

func TestScenario2ForRange(t *testing.T) {
	out := renderSource(t, `{% for i in (1..4) %}{{ i }}{% endfor %}`, nil)
	// inclusive range, consistent with scenario 3's offset/limit semantics
	// (see DESIGN.md: "Scenario 2 range inclusivity").
	require.Equal(t, "1234", out)
}

func TestScenario3ForOffsetLimit(t *testing.T) {
	out := renderSource(t, `{% for i in (1..10) offset:4 limit:2 %}{{ i }} {% endfor %}`, nil)
	require.Equal(t, "5 6 ", out)
}

func TestScenario4ConditionContains(t *testing.T) {
	out := renderSource(t, `{% if "Star Wars" contains "Star" %}yes{% else %}no{% endif %}`, nil)
	require.Equal(t, "yes", out)
}

func TestScenario5AssignAndAndOr(t *testing.T) {
	out := renderSource(t, `{% assign x = 1 %}{% if x == 1 and 2 == 2 %}T{% else %}F{% endif %}`, nil)
	require.Equal(t, "T", out)
}

func TestUnlessNegation(t *testing.T) {
	out := renderSource(t, `{% unless false %}shown{% endunless %}`, nil)
	require.Equal(t, "shown", out)
}

func TestCaseWhen(t *testing.T) {
	out := renderSource(t, `{% case x %}{% when 1 %}one{% when 2 %}two{% else %}other{% endcase %}`, map[string]value.Value{"x": value.Int(2)})
	require.Equal(t, "two", out)
}

func TestCaptureThenOutput(t *testing.T) {
	out := renderSource(t, `{% capture greeting %}hi {{ name }}{% endcapture %}{{ greeting | upcase }}`, map[string]value.Value{"name": value.String("sam")})
	require.Equal(t, "HI SAM", out)
}

func TestCycleAdvancesRoundRobin(t *testing.T) {
	out := renderSource(t, `{% cycle "a","b" %}{% cycle "a","b" %}{% cycle "a","b" %}`, nil)
	require.Equal(t, "aba", out)
}

func TestBreakStopsLoop(t *testing.T) {
	out := renderSource(t, `{% for i in (1..5) %}{% if i == 3 %}{% break %}{% endif %}{{ i }}{% endfor %}`, nil)
	require.Equal(t, "12", out)
}

func TestContinueSkipsIteration(t *testing.T) {
	out := renderSource(t, `{% for i in (1..3) %}{% if i == 2 %}{% continue %}{% endif %}{{ i }}{% endfor %}`, nil)
	require.Equal(t, "13", out)
}

func TestForElseOnEmpty(t *testing.T) {
	out := renderSource(t, `{% for i in empty %}x{% else %}none{% endfor %}`, map[string]value.Value{"empty": value.ArrayOf()})
	require.Equal(t, "none", out)
}

func TestIncrementAndDecrement(t *testing.T) {
	// increment/decrement share one counter per name: 0, 1, then
	// decrement subtracts from 2 down to 1.
	out := renderSource(t, `{% increment n %}{% increment n %}{% decrement n %}`, nil)
	require.Equal(t, "011", out)
}

func TestDecrementFirstCallStartsAtMinusOne(t *testing.T) {
	out := renderSource(t, `{% decrement n %}`, nil)
	require.Equal(t, "-1", out)
}

func TestRawPassesThroughUnlexed(t *testing.T) {
	out := renderSource(t, `{% raw %}{{ not evaluated }}{% endraw %}`, nil)
	require.Equal(t, "{{ not evaluated }}", out)
}

func TestCommentDiscardsBody(t *testing.T) {
	out := renderSource(t, `before{% comment %}{{ boom }}{% endcomment %}after`, nil)
	require.Equal(t, "beforeafter", out)
}

func TestLaxModeUndefinedVariableRendersEmpty(t *testing.T) {
	out := renderSource(t, `[{{ missing }}]`, nil)
	require.Equal(t, "[]", out)
}

func TestStrictModeUndefinedVariableErrors(t *testing.T) {
	p, reg := newTestParser()
	nodes, err := p.Parse(`{{ missing }}`)
	require.NoError(t, err)
	store := partials.NewInheritingStore(emptyRawResolver{})
	ctx := render.New(value.NewObject(), reg, store, true)
	err = ctx.Render(nodes)
	require.Error(t, err)
	require.True(t, liquiderror.IsKind(err, liquiderror.KindUnknownVariable))
}

func TestStrictModeUndefinedVariableWithFilterSubstitutesNil(t *testing.T) {
	p, reg := newTestParser()
	nodes, err := p.Parse(`{{ user.name | default: "Anonymous" }}`)
	require.NoError(t, err)
	store := partials.NewInheritingStore(emptyRawResolver{})
	ctx := render.New(value.NewObject(), reg, store, true)
	require.NoError(t, ctx.Render(nodes))
	require.Equal(t, "Anonymous", ctx.Output())
}
