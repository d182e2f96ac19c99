package cmd

import (
	"fmt"

	"craft-catalog/core/database"
	"craft-catalog/feature/catalog"
	"craft-catalog/feature/catalog/export"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// exportCmd mirrors the catalog into the export database.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Mirror the catalog into the export database",
	Long: `Creates or migrates the catalog_items and catalog_crafts tables, upserts every stored
record by content key and deletes rows whose records no longer exist.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logg, err := bootstrap()
		if err != nil {
			return err
		}
		defer logg.Sync()

		db, err := database.Connect(cfg.Database)
		if err != nil {
			return fmt.Errorf("database connection required: %w", err)
		}
		if err := export.Migrate(db); err != nil {
			return err
		}

		svc, err := catalog.NewReadOnlyService(cfg.Catalog, nil, cfg.Storage.Bucket, logg)
		if err != nil {
			return err
		}
		defer svc.Close()

		result, err := export.Export(cmd.Context(), db, svc.Items(""), svc.Crafts(""))
		if err != nil {
			return err
		}

		logg.Info("Catalog exported",
			zap.String("driver", cfg.Database.Driver),
			zap.Int("items", result.Items),
			zap.Int("crafts", result.Crafts),
			zap.Int("removed_items", result.RemovedItems),
			zap.Int("removed_crafts", result.RemovedCrafts),
		)
		return printJSON(cmd.OutOrStdout(), result)
	},
}

func init() {
	RootCmd.AddCommand(exportCmd)
}
