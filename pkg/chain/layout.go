package chain

import (
	"math"

	"github.com/unleex/simchain/pkg/errors"
)

// =============================================================================
// LayoutEngine - Recursive Space Partitioning
// =============================================================================

// Size is a canvas extent in abstract screen units.
type Size struct {
	Width  int `json:"width" bson:"width"`
	Height int `json:"height" bson:"height"`
}

// Position is a screen coordinate for a single resource.
type Position struct {
	X int `json:"x" bson:"x"`
	Y int `json:"y" bson:"y"`
}

// PositionMap maps every resource ID in a graph to its screen coordinate.
// It is a pure function output of Layout with no lifecycle of its own:
// recomputed per render request, never shared before completion.
type PositionMap map[int]Position

// Layout computes non-overlapping screen coordinates for every resource
// in the graph within the given canvas.
//
// Depth maps to horizontal position: the horizontal pitch is
// width/MaxDepth, computed once and shared by all layers so the whole
// diagram uses one consistent horizontal scale. Sibling order maps to
// vertical position: each layer of n siblings divides its vertical
// extent into n slots and centers one sibling per slot. A sublayer or
// terminal list is confined to its parent's slot, with the slot's top
// edge threaded down the recursion as an alignment offset so descendants
// stay visually attached under their ancestor instead of collapsing
// toward the canvas top.
//
// Terminal products are placed one horizontal step past their parent
// without recursing further; that step is not reflected in MaxDepth
// (see the MaxDepth contract).
//
// Layout is pure and idempotent: identical inputs yield identical
// outputs, and the graph is never mutated. Each recursion level returns
// its own accumulator which the caller merges.
//
// It returns a domain error for a canvas with non-positive dimensions
// and a structural error for an invalid graph.
func Layout(g *Graph, canvas Size) (PositionMap, error) {
	if canvas.Width <= 0 || canvas.Height <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidCanvas, "canvas %dx%d has non-positive dimensions", canvas.Width, canvas.Height)
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}

	xStep := float64(canvas.Width) / float64(g.MaxDepth())
	return layoutLayer(g, float64(canvas.Height), 0, 0, xStep)
}

// layoutLayer positions one layer of siblings within a vertical extent
// and merges in the positions of everything beneath them.
//
// yAlign is the absolute top edge of the band this layer occupies. Each
// sibling i owns the band [yAlign + i*yStep, yAlign + (i+1)*yStep) and
// its descendants are laid out inside that band.
func layoutLayer(g *Graph, height float64, depth int, yAlign float64, xStep float64) (PositionMap, error) {
	n := len(g.Nodes)
	if n == 0 {
		// Validate rejects this up front; guard the division anyway.
		return nil, errors.New(errors.ErrCodeEmptyLayer, "graph layer has no nodes")
	}

	yStep := height / float64(n)
	yShift := height / (2 * float64(n))
	x := xStep * float64(depth)

	positions := make(PositionMap, n)
	for i := range g.Nodes {
		node := &g.Nodes[i]
		y := yStep*float64(i) + yShift + yAlign
		positions[node.ID] = Position{X: round(x), Y: round(y)}

		childAlign := yAlign + yStep*float64(i)
		var (
			sub PositionMap
			err error
		)
		if node.Sub != nil {
			sub, err = layoutLayer(node.Sub, yStep, depth+1, childAlign, xStep)
		} else {
			sub, err = layoutTerminals(node.Terminals, yStep, depth+1, childAlign, xStep)
		}
		if err != nil {
			return nil, err
		}
		for id, p := range sub {
			positions[id] = p
		}
	}
	return positions, nil
}

// layoutTerminals places a terminal product list as a single extra layer
// one depth step past its parent, subdividing the parent's slot the same
// way a sublayer would. Terminals never recurse.
func layoutTerminals(ids []int, height float64, depth int, yAlign float64, xStep float64) (PositionMap, error) {
	m := len(ids)
	if m == 0 {
		return nil, errors.New(errors.ErrCodeEmptyLayer, "terminal list has no products")
	}

	yStep := height / float64(m)
	yShift := height / (2 * float64(m))
	x := xStep * float64(depth)

	positions := make(PositionMap, m)
	for j, id := range ids {
		y := yStep*float64(j) + yShift + yAlign
		positions[id] = Position{X: round(x), Y: round(y)}
	}
	return positions, nil
}

func round(v float64) int {
	return int(math.Round(v))
}
