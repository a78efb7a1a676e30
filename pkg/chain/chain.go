package chain

import (
	"github.com/unleex/simchain/pkg/errors"
)

// =============================================================================
// Graph - Production Chain Model
// =============================================================================

// Graph is an ordered layer of a production chain. Each node's resource
// feeds the resources below it: a node either expands into a nested
// sublayer of intermediate products or ends in a flat list of terminal
// products that cannot be used as further inputs.
//
// Sibling order is significant: the layout engine assigns vertical slots
// in slice order, so a Graph preserves the order nodes were declared in
// (a map would not).
//
// A Graph is immutable once validated; all layout calls treat it as
// read-only input.
type Graph struct {
	Nodes []Node
}

// Node is a single resource in a production chain. Exactly one of Sub or
// Terminals must be set, and neither may be empty:
//
//   - Sub: this resource is itself composed of further inputs (a sublayer)
//   - Terminals: this resource's end products, not further expandable
//
// IDs are in-game resource identifiers, opaque to the layout algorithm.
type Node struct {
	ID        int
	Sub       *Graph
	Terminals []int
}

// IsTerminal reports whether the node ends in a terminal product list.
func (n *Node) IsTerminal() bool { return n.Sub == nil }

// New builds a validated Graph from the given nodes.
// It returns a structural error for an empty graph, a node with both or
// neither of Sub/Terminals, an empty sublayer or terminal list, or a
// resource ID that appears more than once anywhere in the structure.
func New(nodes ...Node) (*Graph, error) {
	g := &Graph{Nodes: nodes}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// Validate checks the structural invariants of the graph:
// every layer is non-empty, every node is exactly one of
// {sublayer, terminal list}, and no resource ID repeats.
//
// Duplicate IDs are rejected rather than silently overwritten: the
// position map produced by Layout is keyed by ID, so a collision would
// make its coverage ambiguous.
func (g *Graph) Validate() error {
	seen := make(map[int]bool)
	return g.validate(seen)
}

func (g *Graph) validate(seen map[int]bool) error {
	if len(g.Nodes) == 0 {
		return errors.New(errors.ErrCodeEmptyLayer, "graph layer has no nodes")
	}
	for i := range g.Nodes {
		n := &g.Nodes[i]
		if seen[n.ID] {
			return errors.New(errors.ErrCodeDuplicateID, "resource %d appears more than once", n.ID)
		}
		seen[n.ID] = true

		switch {
		case n.Sub != nil && n.Terminals != nil:
			return errors.New(errors.ErrCodeInvalidNode, "resource %d has both a sublayer and terminal products", n.ID)
		case n.Sub != nil:
			if err := n.Sub.validate(seen); err != nil {
				return err
			}
		case len(n.Terminals) > 0:
			for _, id := range n.Terminals {
				if seen[id] {
					return errors.New(errors.ErrCodeDuplicateID, "resource %d appears more than once", id)
				}
				seen[id] = true
			}
		default:
			return errors.New(errors.ErrCodeInvalidNode, "resource %d has neither a sublayer nor terminal products", n.ID)
		}
	}
	return nil
}

// IDs returns every resource ID in the graph in pre-order: each node
// followed by its sublayer or terminal products.
func (g *Graph) IDs() []int {
	var ids []int
	for i := range g.Nodes {
		n := &g.Nodes[i]
		ids = append(ids, n.ID)
		if n.Sub != nil {
			ids = append(ids, n.Sub.IDs()...)
		} else {
			ids = append(ids, n.Terminals...)
		}
	}
	return ids
}

// =============================================================================
// DepthAnalyzer
// =============================================================================

// MaxDepth returns the length of the longest chain of sublayer nesting,
// counting the top layer as 1. A graph whose every node ends in a
// terminal list has depth 1.
//
// Terminal lists contribute no depth. They still occupy one horizontal
// step in the layout; that step is baked into the layout formula rather
// than this count, so a chain of d sublayers renders across d+1 columns.
// This asymmetry is a fixed, tested contract.
//
// The zero-value (empty) graph returns 0; New never produces one.
func (g *Graph) MaxDepth() int {
	if len(g.Nodes) == 0 {
		return 0
	}
	depth := 1
	for i := range g.Nodes {
		if sub := g.Nodes[i].Sub; sub != nil {
			if d := sub.MaxDepth() + 1; d > depth {
				depth = d
			}
		}
	}
	return depth
}
