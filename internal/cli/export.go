package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/unleex/simchain/pkg/chain"
	"github.com/unleex/simchain/pkg/render"
)

// Supported export formats.
const (
	formatDOT = "dot"
	formatSVG = "svg"
	formatPNG = "png"
)

// exportCommand creates the diagram export command. The chain is
// rendered as a Graphviz diagram with the same profitability colors the
// interactive viewer uses.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		output  string
		formats string
		plain   bool
		refresh bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "export [graph.json]",
		Short: "Export the chain as a DOT, SVG, or PNG diagram",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			applyOverrides(cmd, &cfg, args, 0, 0, 0, 0)

			opts := render.Options{}
			data, err := c.loadExportData(cmd, cfg, plain, refresh, noCache)
			if err != nil {
				return err
			}
			if !plain {
				opts.Names = data.Names
				opts.Styles = data.Styles
			}

			dot := render.ToDOT(data.Graph, opts)

			for _, format := range strings.Split(formats, ",") {
				path := output + "." + format
				var content []byte

				switch format {
				case formatDOT:
					content = []byte(dot)
				case formatSVG:
					content, err = render.RenderSVG(cmd.Context(), dot)
				case formatPNG:
					content, err = render.RenderPNG(cmd.Context(), dot)
				default:
					return fmt.Errorf("unknown format %q (want dot, svg, or png)", format)
				}
				if err != nil {
					return err
				}

				if err := os.WriteFile(path, content, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", path, err)
				}
				printFile(path)
			}

			printSuccess("Export complete")
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "chain", "output file base name")
	cmd.Flags().StringVarP(&formats, "format", "f", formatSVG, "comma-separated formats: dot,svg,png")
	cmd.Flags().BoolVar(&plain, "plain", false, "skip market data, export structure only")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass cached market data")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the response cache")

	return cmd
}

// loadExportData loads the graph, with market lookups unless plain.
func (c *CLI) loadExportData(cmd *cobra.Command, cfg Config, plain, refresh, noCache bool) (*chainData, error) {
	if !plain {
		return c.loadChainData(cmd, cfg, refresh, noCache)
	}

	g, err := chain.ReadGraphFile(cfg.Graph)
	if err != nil {
		return nil, err
	}
	return &chainData{Graph: g}, nil
}
