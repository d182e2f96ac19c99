package cmd

import (
	"context"

	"craft-catalog/feature/integrity"
	"craft-catalog/feature/integrity/checks"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var fixFlag bool

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Perform integrity checks on the catalog and its storage",
	Long:  `Checks the storage prefixes, the persisted catalog documents and the export database schema.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), true, true, true)
	},
}

// structureCmd represents the integrity structure command
var structureCmd = &cobra.Command{
	Use:   "structure",
	Short: "Check and fix storage prefixes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), true, false, false)
	},
}

// documentsCmd represents the integrity documents command
var documentsCmd = &cobra.Command{
	Use:   "documents",
	Short: "Check items.json and crafts.json",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), false, true, false)
	},
}

// schemaCmd represents the integrity schema command
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Check the export database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), false, false, true)
	},
}

func init() {
	RootCmd.AddCommand(integrityCmd)
	integrityCmd.AddCommand(structureCmd, documentsCmd, schemaCmd)

	structureCmd.Flags().BoolVar(&fixFlag, "fix", false, "Create missing prefixes")
}

func runIntegrityChecks(ctx context.Context, runStructure, runDocuments, runSchema bool) error {
	cfg, logg, err := bootstrap()
	if err != nil {
		return err
	}
	defer logg.Sync()

	var db *gorm.DB
	if runSchema {
		db = optionalDatabase(cfg, logg)
	}
	svc := integrity.NewService(optionalStorage(cfg, logg), cfg.Storage.Bucket, logg, db, cfg.Catalog)

	if runStructure {
		logg.Info("Checking storage prefixes...")
		missing, err := svc.CheckStructure(ctx)
		if err != nil {
			logg.Error("Structure check failed", zap.Error(err))
		} else if len(missing) == 0 {
			logg.Info("Structure is intact.")
		} else {
			logg.Warn("Missing prefixes detected", zap.Strings("missing", missing))
			if fixFlag {
				logg.Info("Fixing missing prefixes...")
				if err := svc.FixStructure(ctx, missing); err != nil {
					return err
				}
				logg.Info("Structure fixed successfully.")
			} else {
				logg.Info("Run with --fix to create missing prefixes.")
			}
		}
	}

	if runDocuments {
		logg.Info("Checking catalog documents...", zap.String("data_dir", cfg.Catalog.DataDir))
		report, err := svc.CheckDocuments()
		if err != nil {
			return err
		}
		if report.Matched {
			logg.Info("Catalog documents are consistent.",
				zap.Int("items", report.Items.Records),
				zap.Int("crafts", report.Crafts.Records))
		} else {
			logDocumentStatus(logg, "items", report.Items)
			logDocumentStatus(logg, "crafts", report.Crafts)
			if len(report.DuplicateCraftNames) > 0 {
				logg.Warn("Duplicate craft names", zap.Strings("names", report.DuplicateCraftNames))
			}
		}
		if len(report.UnknownMaterials) > 0 {
			logg.Info("Materials without item records", zap.Int("count", len(report.UnknownMaterials)))
		}
	}

	if runSchema {
		logg.Info("Checking export schema...", zap.String("driver", cfg.Database.Driver))
		report, err := svc.CheckSchema()
		if err != nil {
			logg.Error("Export schema check failed", zap.Error(err))
		} else if report.Matched {
			logg.Info("Export schema matches the export models.")
		} else {
			logg.Warn("Export schema mismatches found")
			for table, tbl := range report.Tables {
				if tbl.Status == "ok" {
					continue
				}
				if tbl.Status == "missing" {
					logg.Warn("Missing table, run export to create it", zap.String("table", table))
				}
				if len(tbl.MissingColumns) > 0 {
					logg.Warn("Missing Columns", zap.String("table", table), zap.Strings("columns", tbl.MissingColumns))
				}
				if len(tbl.TypeMismatches) > 0 {
					logg.Warn("Type Mismatches", zap.String("table", table), zap.Strings("mismatches", tbl.TypeMismatches))
				}
			}
			for _, e := range report.Errors {
				logg.Error("Inspection Error", zap.String("error", e))
			}
		}
	}

	return nil
}

func logDocumentStatus(logg *zap.Logger, name string, st checks.DocumentStatus) {
	l := logg.With(zap.String("document", name))
	if st.Error != "" {
		l.Error("Unreadable document", zap.String("error", st.Error))
		return
	}
	if st.CountDrift {
		l.Warn("Declared count differs", zap.Int("declared", st.DeclaredCount), zap.Int("records", st.Records))
	}
	if len(st.KeyDrift) > 0 {
		l.Warn("Stale content keys", zap.Strings("keys", st.KeyDrift))
	}
	if len(st.DuplicateKeys) > 0 {
		l.Warn("Duplicate content keys", zap.Strings("keys", st.DuplicateKeys))
	}
	if st.Nameless > 0 {
		l.Warn("Records without a name", zap.Int("count", st.Nameless))
	}
}
