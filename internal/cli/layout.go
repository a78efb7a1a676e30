package cli

import (
	"github.com/spf13/cobra"

	"github.com/unleex/simchain/pkg/chain"
)

// layoutCommand creates the offline layout command. It computes node
// positions without touching the network, for scripting and debugging.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		width  int
		height int
	)

	cmd := &cobra.Command{
		Use:   "layout [graph.json]",
		Short: "Compute chain node positions and write them as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			applyOverrides(cmd, &cfg, args, 0, 0, width, height)

			g, err := chain.ReadGraphFile(cfg.Graph)
			if err != nil {
				return err
			}

			canvas := chain.Size{Width: cfg.Canvas.Width, Height: cfg.Canvas.Height}
			positions, err := chain.Layout(g, canvas)
			if err != nil {
				return err
			}

			doc := chain.Document{Canvas: canvas, Positions: positions}
			if err := chain.WriteDocumentFile(doc, output); err != nil {
				return err
			}

			printSuccess("Layout written")
			printStats(len(positions), g.MaxDepth(), false)
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "layout.json", "output file")
	cmd.Flags().IntVar(&width, "width", 0, "layout canvas width")
	cmd.Flags().IntVar(&height, "height", 0, "layout canvas height")

	return cmd
}
