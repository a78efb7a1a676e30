package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/unleex/simchain/pkg/chain"
	apperrors "github.com/unleex/simchain/pkg/errors"
	"github.com/unleex/simchain/pkg/simco"
	"github.com/unleex/simchain/pkg/style"
)

// =============================================================================
// View Command
// =============================================================================

// viewCommand creates the interactive chain viewer command.
func (c *CLI) viewCommand() *cobra.Command {
	var (
		realm    int
		overhead float64
		width    int
		height   int
		refresh  bool
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "view [graph.json]",
		Short: "View a production chain colored by profitability",
		Long: `View renders the production chain in an interactive terminal canvas.
Each product is placed by the chain layout and colored on a red-to-green
gradient by its profit per hour per labor.

Keys: arrows/hjkl pan, +/- zoom, mouse drag pans, wheel zooms, q quits.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			applyOverrides(cmd, &cfg, args, realm, overhead, width, height)

			data, err := c.loadChainData(cmd, cfg, refresh, noCache)
			if err != nil {
				return err
			}

			canvas := chain.Size{Width: cfg.Canvas.Width, Height: cfg.Canvas.Height}
			positions, err := chain.Layout(data.Graph, canvas)
			if err != nil {
				return err
			}

			c.Logger.Debug("starting viewer",
				"products", len(positions), "tiers", data.Graph.MaxDepth())

			model := newCanvasModel(canvas, buildWidgets(positions, data))
			p := tea.NewProgram(model,
				tea.WithAltScreen(),
				tea.WithMouseCellMotion(),
				tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().IntVar(&realm, "realm", 0, "game realm (0 magnates, 1 entrepreneurs)")
	cmd.Flags().Float64Var(&overhead, "admin-overhead", 0, "administration overhead factor applied to wages")
	cmd.Flags().IntVar(&width, "width", 0, "layout canvas width")
	cmd.Flags().IntVar(&height, "height", 0, "layout canvas height")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass cached market data")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the response cache")

	return cmd
}

// applyOverrides layers command-line flags over the config file.
func applyOverrides(cmd *cobra.Command, cfg *Config, args []string, realm int, overhead float64, width, height int) {
	if len(args) > 0 {
		cfg.Graph = args[0]
	}
	if cmd.Flags().Changed("realm") {
		cfg.Realm = realm
	}
	if cmd.Flags().Changed("admin-overhead") {
		cfg.AdminOverhead = overhead
	}
	if cmd.Flags().Changed("width") {
		cfg.Canvas.Width = width
	}
	if cmd.Flags().Changed("height") {
		cfg.Canvas.Height = height
	}
}

// =============================================================================
// Chain Data Assembly
// =============================================================================

// chainData bundles a parsed graph with the market lookups needed to
// label and color it.
type chainData struct {
	Graph  *chain.Graph
	Names  map[int]string
	PPHPLs map[int]float64
	Styles map[int]style.Style
}

// loadChainData reads the graph file, fetches name and profitability
// lookups, and derives a color style per product. Every product in the
// graph must resolve in both lookups.
func (c *CLI) loadChainData(cmd *cobra.Command, cfg Config, refresh, noCache bool) (*chainData, error) {
	g, err := chain.ReadGraphFile(cfg.Graph)
	if err != nil {
		return nil, err
	}

	client, closeCache, err := c.newClient(cmd, cfg, noCache)
	if err != nil {
		return nil, err
	}
	defer closeCache()

	ctx := cmd.Context()
	realm := simco.Realm(cfg.Realm)
	ids := g.IDs()

	sp := newSpinner(ctx, "Fetching market data")
	sp.Start()

	names, err := client.ProductNames(ctx, realm, refresh)
	if err != nil {
		sp.StopWithError("Fetching product names failed")
		return nil, err
	}
	pphpls, err := client.PPHPLs(ctx, realm, ids, cfg.AdminOverhead, refresh)
	if err != nil {
		sp.StopWithError("Fetching profitability failed")
		return nil, err
	}
	sp.Stop()

	for _, id := range ids {
		if _, ok := names[id]; !ok {
			return nil, apperrors.New(apperrors.ErrCodeMissingName, "no product name for ID %d", id)
		}
		if _, ok := pphpls[id]; !ok {
			return nil, apperrors.New(apperrors.ErrCodeMissingProfit, "no profitability for ID %d", id)
		}
	}

	minV, maxV := profitRange(pphpls, ids)
	styles := make(map[int]style.Style, len(ids))
	for _, id := range ids {
		st, err := style.ForProfit(pphpls[id], minV, maxV)
		if err != nil {
			return nil, err
		}
		styles[id] = st
	}

	return &chainData{Graph: g, Names: names, PPHPLs: pphpls, Styles: styles}, nil
}

// profitRange returns the observed profit bounds over the graph's
// products, widened to include zero so break-even stays mid-gradient
// on all-positive or all-negative chains.
func profitRange(pphpls map[int]float64, ids []int) (float64, float64) {
	minV, maxV := 0.0, 0.0
	for _, id := range ids {
		v := pphpls[id]
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	return minV, maxV
}

// buildWidgets turns positions plus lookups into renderable widgets.
func buildWidgets(positions chain.PositionMap, data *chainData) []nodeWidget {
	widgets := make([]nodeWidget, 0, len(positions))
	for id, pos := range positions {
		label := data.Names[id]
		if label == "" {
			label = fmt.Sprintf("#%d", id)
		}
		widgets = append(widgets, nodeWidget{
			ID:     id,
			Label:  label,
			PPHPL:  data.PPHPLs[id],
			Pos:    pos,
			Colors: data.Styles[id],
		})
	}
	return widgets
}
