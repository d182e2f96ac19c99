// Package database handles the optional SQL connection used to export the catalog.
//
// It wraps GORM and selects the MySQL or SQLite dialector from configuration. The
// downstream reconciliation tool reads the exported tables; the catalog itself never
// depends on the database being reachable.
//
// # Schema Inspection
//
// GetTableColumns returns the live column definitions of a table so the integrity
// feature can compare them against the export models.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    logger.Warn("export database unavailable", zap.Error(err))
//	}
//
//	columns, err := database.GetTableColumns(db, "catalog_items")
package database
