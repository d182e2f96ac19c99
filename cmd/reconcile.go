package cmd

import (
	"fmt"
	"os"
	"time"

	"craft-catalog/core/reconcile"
	"craft-catalog/feature/catalog"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	reconcileID   string
	reconcileName string
	reconcileJSON bool
)

// reconcileCmd compares the local catalog with the canonical dataset in object storage.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Compare the catalog with the canonical dataset",
	Long: `Compares every local item and recipe with the canonical dataset stored at
catalog.canonical_object and reports records missing on either side and field mismatches.

Examples:
  # Metrics only
  reconcile

  # A single record by canonical ID, content key or name
  reconcile --name "Iron Ingot"

  # Save every record with an issue to reconcile_<unix>.json
  reconcile --json`,
	RunE: runReconcile,
}

func init() {
	reconcileCmd.Flags().StringVar(&reconcileID, "id", "", "Canonical ID or content key of a single record")
	reconcileCmd.Flags().StringVar(&reconcileName, "name", "", "Name of a single record")
	reconcileCmd.Flags().BoolVar(&reconcileJSON, "json", false, "Save records with issues as JSON")
	RootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	startTime := time.Now()

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

	if reconcileID != "" || reconcileName != "" {
		result, err := svc.ReconcileOne(ctx, reconcile.Query{ID: reconcileID, Name: reconcileName})
		if err != nil {
			return fmt.Errorf("reconciliation failed: %w", err)
		}
		return printJSON(cmd.OutOrStdout(), result)
	}

	report, err := svc.Reconcile(ctx)
	if err != nil {
		return fmt.Errorf("reconciliation failed: %w", err)
	}

	if reconcileJSON {
		issues := make([]reconcile.Result, 0, len(report.Results))
		for _, r := range report.Results {
			if !r.Matched() {
				issues = append(issues, r)
			}
		}
		filename := fmt.Sprintf("reconcile_%d.json", time.Now().Unix())
		f, err := os.Create(filename)
		if err != nil {
			return fmt.Errorf("failed to save JSON file: %w", err)
		}
		defer f.Close()
		if err := printJSON(f, issues); err != nil {
			return fmt.Errorf("failed to save JSON file: %w", err)
		}
		logg.Info("Detailed JSON report saved", zap.String("file", filename), zap.Int("records_with_issues", len(issues)))
	}

	s := report.Summary
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "\n=== Catalog Reconciliation ===")
	fmt.Fprintf(out, "Total Records: %d\n", s.Total)
	fmt.Fprintf(out, "Matched: %d\n", s.Matched)
	fmt.Fprintf(out, "Canonical Missing: %d\n", s.MissingCanonical)
	fmt.Fprintf(out, "Local Missing: %d\n", s.MissingLocal)
	fmt.Fprintf(out, "Mismatch: %d\n", s.Mismatches)
	fmt.Fprintf(out, "Execution Time: %s\n", time.Since(startTime))

	logg.Info("Reconciliation completed",
		zap.Int("total", s.Total),
		zap.Int("missing_canonical", s.MissingCanonical),
		zap.Int("missing_local", s.MissingLocal),
		zap.Int("mismatch", s.Mismatches),
	)
	return nil
}
