package render

import (
	"strconv"
	"strings"
	"testing"

	"github.com/unleex/simchain/pkg/chain"
	"github.com/unleex/simchain/pkg/style"
)

func testChain() *chain.Graph {
	return &chain.Graph{Nodes: []chain.Node{
		{ID: 115, Sub: &chain.Graph{Nodes: []chain.Node{
			{ID: 46, Terminals: []int{63, 64}},
			{ID: 7, Terminals: []int{130}},
		}}},
	}}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(testChain(), Options{
		Names: map[int]string{115: "electronics", 46: "processors"},
		Styles: map[int]style.Style{
			115: {Foreground: style.RGB{}, Background: style.RGB{R: 255, G: 255}},
		},
	})

	wantFragments := []string{
		"digraph chain {",
		"rankdir=LR;",
		`115 [label="electronics", fillcolor="#ffff00", fontcolor="#000000"];`,
		`46 [label="processors"];`,
		`7 [label="7"];`, // no name falls back to the ID
		"115 -> 46;",
		"115 -> 7;",
		"46 -> 63;",
		"46 -> 64;",
		"7 -> 130;",
	}
	for _, frag := range wantFragments {
		if !strings.Contains(dot, frag) {
			t.Errorf("DOT output missing %q\n%s", frag, dot)
		}
	}
}

func TestToDOTEveryNodeDeclared(t *testing.T) {
	g := testChain()
	dot := ToDOT(g, Options{})

	for _, id := range g.IDs() {
		if !strings.Contains(dot, "  "+strconv.Itoa(id)+" [") {
			t.Errorf("node %d not declared in DOT output", id)
		}
	}
}
