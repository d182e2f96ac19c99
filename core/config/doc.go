// Package config loads the craft-catalog configuration.
//
// Defaults come from the `default` struct tags of every section and are registered with
// Viper so that environment variables can override them (CATALOG_DATA_DIR ->
// catalog.data_dir). A .env file in the working directory is loaded first.
//
// # Configuration Structure
//
//   - Server: HTTP port, API key, ingestion body limit
//   - Storage: S3/MinIO credentials and bucket for snapshots and the canonical dataset
//   - Database: export database driver and connection details
//   - Log: level and format
//   - Catalog: data directory, confidence threshold, publishing and reconciliation
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Catalog.DataDir)
package config
