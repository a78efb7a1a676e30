// Package pkg provides the core libraries for Simchain production chain
// visualization.
//
// # Overview
//
// Simchain lays out Sim Companies production chains on a canvas and
// colors each product by its profitability. The pkg directory is
// organized into six areas:
//
//  1. [chain] - Chain model, validation, layout, and serialization
//  2. [simco] - Market data clients (game API, SimcoTools API) and PPHPL
//  3. [style] - Profitability color gradient
//  4. [cache] - Response cache backends (file, Redis, null)
//  5. [store] - Snapshot archive (MongoDB, memory)
//  6. [render] - Graphviz diagram export
//
// # Architecture
//
// The typical data flow:
//
//	chain JSON file
//	         ↓
//	    [chain] package (parse + validate + layout)
//	         ↓
//	    [simco] package (names + PPHPL lookups)
//	         ↓
//	    [style] package (profit → color)
//	         ↓
//	    terminal viewer / HTTP API / [render] export
//
// # Quick Start
//
// Lay out a chain and color it:
//
//	import (
//	    "context"
//	    "github.com/unleex/simchain/pkg/cache"
//	    "github.com/unleex/simchain/pkg/chain"
//	    "github.com/unleex/simchain/pkg/simco"
//	    "github.com/unleex/simchain/pkg/style"
//	)
//
//	// 1. Parse and lay out the chain
//	g, _ := chain.ReadGraphFile("chain.json")
//	positions, _ := chain.Layout(g, chain.Size{Width: 480, Height: 360})
//
//	// 2. Fetch profitability
//	client := simco.NewClient(cache.NewNullCache(), 0)
//	pphpls, _ := client.PPHPLs(context.Background(), simco.Magnates, g.IDs(), 0, false)
//
//	// 3. Color a product
//	st, _ := style.ForProfit(pphpls[115], -50, 50)
//
// [chain]: https://pkg.go.dev/github.com/unleex/simchain/pkg/chain
// [simco]: https://pkg.go.dev/github.com/unleex/simchain/pkg/simco
// [style]: https://pkg.go.dev/github.com/unleex/simchain/pkg/style
// [cache]: https://pkg.go.dev/github.com/unleex/simchain/pkg/cache
// [store]: https://pkg.go.dev/github.com/unleex/simchain/pkg/store
// [render]: https://pkg.go.dev/github.com/unleex/simchain/pkg/render
package pkg
