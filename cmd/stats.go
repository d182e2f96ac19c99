package cmd

import (
	"craft-catalog/feature/catalog"

	"github.com/spf13/cobra"
)

// statsCmd prints catalog totals. It does not take the store lock, so it can run next
// to a live server.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print catalog totals",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logg, err := bootstrap()
		if err != nil {
			return err
		}
		defer logg.Sync()

		svc, err := catalog.NewReadOnlyService(cfg.Catalog, nil, cfg.Storage.Bucket, logg)
		if err != nil {
			return err
		}
		defer svc.Close()

		return printJSON(cmd.OutOrStdout(), svc.Summary())
	},
}

func init() {
	RootCmd.AddCommand(statsCmd)
}
