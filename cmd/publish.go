package cmd

import (
	"fmt"

	"craft-catalog/feature/catalog"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// publishCmd uploads the saved documents to object storage.
var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Upload items.json and crafts.json to object storage",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logg, err := bootstrap()
		if err != nil {
			return err
		}
		defer logg.Sync()

		client := optionalStorage(cfg, logg)
		if client == nil {
			return catalog.ErrNoStorage
		}
		svc, err := catalog.NewReadOnlyService(cfg.Catalog, client, cfg.Storage.Bucket, logg)
		if err != nil {
			return err
		}
		defer svc.Close()

		if err := svc.PublishSnapshots(cmd.Context()); err != nil {
			return fmt.Errorf("failed to publish snapshots: %w", err)
		}
		logg.Info("Snapshots published", zap.String("bucket", cfg.Storage.Bucket), zap.String("prefix", cfg.Catalog.SnapshotPrefix))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(publishCmd)
}
