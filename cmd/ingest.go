package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"craft-catalog/feature/catalog"
	"craft-catalog/feature/catalog/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var ingestDryRun bool

// ingestCmd merges batch files into the catalog without running the server.
var ingestCmd = &cobra.Command{
	Use:   "ingest [batch.json ...]",
	Short: "Merge extraction batches into the catalog",
	Long: `Reads one or more batch files ({"itemsFound": [...], "craftsFound": [...]}) and merges
them in order. Use "-" to read a batch from stdin. Prints one report per batch.

With --dry-run the catalog is opened read-only: batches are merged in memory and the
reports show what would change, but nothing is saved.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logg, err := bootstrap()
		if err != nil {
			return err
		}
		defer logg.Sync()

		client := optionalStorage(cfg, logg)
		open := catalog.NewService
		if ingestDryRun {
			open = catalog.NewReadOnlyService
		}
		svc, err := open(cfg.Catalog, client, cfg.Storage.Bucket, logg)
		if err != nil {
			return err
		}
		defer svc.Close()

		reports := make([]*models.IngestReport, 0, len(args))
		for _, name := range args {
			batch, err := readBatch(cmd.InOrStdin(), name)
			if err != nil {
				return err
			}
			report := svc.Ingest(cmd.Context(), batch)
			if !report.Stats.Persisted && !ingestDryRun {
				logg.Error("Batch merged but not persisted", zap.String("file", name))
			}
			reports = append(reports, report)
		}
		return printJSON(cmd.OutOrStdout(), reports)
	},
}

func readBatch(stdin io.Reader, name string) (models.Batch, error) {
	var (
		data []byte
		err  error
	)
	if name == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return models.Batch{}, fmt.Errorf("failed to read batch %s: %w", name, err)
	}

	var batch models.Batch
	if err := json.Unmarshal(data, &batch); err != nil {
		return models.Batch{}, fmt.Errorf("invalid batch %s: %w", name, err)
	}
	return batch, nil
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestDryRun, "dry-run", false, "Merge in memory only, never save")
	RootCmd.AddCommand(ingestCmd)
}
