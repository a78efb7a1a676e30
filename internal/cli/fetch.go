package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/unleex/simchain/pkg/simco"
	"github.com/unleex/simchain/pkg/store"
)

// fetchCommand creates the market data refresh command. It re-fetches
// names and profitability for a realm and, when a MongoDB archive is
// configured, saves the result as a snapshot.
func (c *CLI) fetchCommand() *cobra.Command {
	var (
		realm   int
		archive bool
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Refresh cached market data for a realm",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("realm") {
				cfg.Realm = realm
			}

			client, closeCache, err := c.newClient(cmd, cfg, false)
			if err != nil {
				return err
			}
			defer closeCache()

			ctx := cmd.Context()
			r := simco.Realm(cfg.Realm)

			sp := newSpinner(ctx, "Refreshing market data")
			sp.Start()

			names, err := client.ProductNames(ctx, r, true)
			if err != nil {
				sp.StopWithError("Refreshing product names failed")
				return err
			}
			pphpls, err := client.PPHPLs(ctx, r, nil, cfg.AdminOverhead, true)
			if err != nil {
				sp.StopWithError("Refreshing profitability failed")
				return err
			}
			sp.StopWithSuccess(fmt.Sprintf("Fetched %d names, %d profitability entries", len(names), len(pphpls)))

			if !archive {
				return nil
			}
			if cfg.Store.MongoURI == "" {
				printWarning("No store configured, snapshot not archived")
				return nil
			}

			db, err := store.NewMongo(ctx, cfg.Store.MongoURI, cfg.Store.Database)
			if err != nil {
				return err
			}
			defer db.Close(ctx)

			snap := store.NewSnapshot(cfg.Realm, stringKeyed(pphpls), stringKeyedNames(names))
			if err := db.Save(ctx, snap); err != nil {
				return err
			}
			printSuccess("Snapshot %s archived", snap.ID)
			return nil
		},
	}

	cmd.Flags().IntVar(&realm, "realm", 0, "game realm (0 magnates, 1 entrepreneurs)")
	cmd.Flags().BoolVar(&archive, "archive", false, "save a snapshot to the configured store")

	return cmd
}

// Snapshots key lookups by stringified resource ID to match the wire
// format; see store.Snapshot.

func stringKeyed(m map[int]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[strconv.Itoa(k)] = v
	}
	return out
}

func stringKeyedNames(m map[int]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[strconv.Itoa(k)] = v
	}
	return out
}
