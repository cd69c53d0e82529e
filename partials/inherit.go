package partials

import (
	"github.com/codingersid/liquidgo/ast"
	"github.com/codingersid/liquidgo/liquiderror"
)

// RawResolver returns a template's freshly parsed node list, including
// any top-level Extends node — unlike render.PartialStore.Resolve, whose
// job is to hand the renderer an already inheritance-flattened result.
type RawResolver interface {
	Resolve(name string) ([]ast.Node, error)
}

// InheritingStore wraps a RawResolver and flattens any `extends` chain
// each time a name is looked up, implementing render.PartialStore. The
// flattened result is not cached; every Resolve rebuilds it.
// Plain (non-extending) partials pass through unchanged.
type InheritingStore struct {
	raw RawResolver
}

// NewInheritingStore wraps raw with inheritance-chain flattening.
func NewInheritingStore(raw RawResolver) *InheritingStore {
	return &InheritingStore{raw: raw}
}

// Resolve returns name's fully flattened node list.
func (s *InheritingStore) Resolve(name string) ([]ast.Node, error) {
	nodes, err := s.raw.Resolve(name)
	if err != nil {
		return nil, err
	}
	if parent, ok := findExtends(nodes); ok {
		return s.flatten(name, parent, nodes, map[string]bool{name: true})
	}
	return nodes, nil
}

func findExtends(nodes []ast.Node) (string, bool) {
	for _, n := range nodes {
		if ex, ok := n.(*ast.Extends); ok {
			if lit, ok := ex.Parent.(*ast.Literal); ok {
				return lit.Text, true
			}
			return "", false
		}
	}
	return "", false
}

// childLevel is what  says survives from a non-root
// template in the chain: its top-level Block nodes (by name) and
// top-level Assign nodes, in source order.
type childLevel struct {
	blocks  map[string][]ast.Node
	assigns []ast.Node
}

func extractChildLevel(nodes []ast.Node) childLevel {
	cl := childLevel{blocks: map[string][]ast.Node{}}
	for _, n := range nodes {
		switch b := n.(type) {
		case *ast.Block:
			cl.blocks[b.Name] = b.Body
		case *ast.Assign:
			cl.assigns = append(cl.assigns, n)
		}
	}
	return cl
}

// flatten walks up the parent chain from name (whose nodes/ and declared
// parent are already known) to the root ancestor, then rebuilds the
// root's skeleton with each Block replaced by an ast.ResolvedBlock
// carrying the full root-to-leaf override chain for that name.
func (s *InheritingStore) flatten(leafName, parentName string, leafNodes []ast.Node, visited map[string]bool) ([]ast.Node, error) {
	type level struct {
		name  string
		nodes []ast.Node
	}
	chain := []level{{leafName, leafNodes}}

	cur := parentName
	for {
		if visited[cur] {
			return nil, liquiderror.New(liquiderror.KindInheritanceCycle, liquiderror.Position{}, "inheritance cycle involving %q", cur).WithContext("name", cur)
		}
		visited[cur] = true

		nodes, err := s.raw.Resolve(cur)
		if err != nil {
			return nil, err
		}
		chain = append(chain, level{cur, nodes})

		next, ok := findExtends(nodes)
		if !ok {
			break
		}
		cur = next
	}

	// chain is leaf-first; reverse to root-first.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}

	root := chain[0].nodes
	blockChains := map[string][][]ast.Node{}
	var extraAssigns []ast.Node

	// Seed each block name defined anywhere in the chain (including the
	// root's own Block bodies) with its root-level body first.
	for _, n := range root {
		if b, ok := n.(*ast.Block); ok {
			blockChains[b.Name] = [][]ast.Node{b.Body}
		}
	}
	for _, lvl := range chain[1:] {
		cl := extractChildLevel(lvl.nodes)
		extraAssigns = append(extraAssigns, cl.assigns...)
		for name, body := range cl.blocks {
			blockChains[name] = append(blockChains[name], body)
		}
	}

	out := make([]ast.Node, 0, len(root)+len(extraAssigns))
	out = append(out, extraAssigns...)
	for _, n := range root {
		if b, ok := n.(*ast.Block); ok {
			out = append(out, &ast.ResolvedBlock{Name: b.Name, Chain: blockChains[b.Name]})
			continue
		}
		out = append(out, n)
	}
	return out, nil
}
