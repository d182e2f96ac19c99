package integrity

import (
	"context"
	"fmt"

	"craft-catalog/core/storage"
	"craft-catalog/feature/catalog"
	"craft-catalog/feature/integrity/checks"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service handles integrity checks.
type Service struct {
	client  storage.Client
	bucket  string
	logger  *zap.Logger
	db      *gorm.DB
	catalog catalog.Config
}

// NewService creates a new integrity service. client and db may be nil; the checks that
// need them then report an error instead of running.
func NewService(client storage.Client, bucket string, logger *zap.Logger, db *gorm.DB, cfg catalog.Config) *Service {
	return &Service{
		client:  client,
		bucket:  bucket,
		logger:  logger,
		db:      db,
		catalog: cfg,
	}
}

// Prefixes returns the object prefixes the structure check expects.
func (s *Service) Prefixes() []string {
	return checks.RequiredPrefixes(s.catalog.SnapshotPrefix, s.catalog.CanonicalObject)
}

// CheckStructure returns a list of missing prefixes.
func (s *Service) CheckStructure(ctx context.Context) ([]string, error) {
	if s.client == nil {
		return nil, fmt.Errorf("storage client is not configured")
	}
	return checks.CheckStructure(ctx, s.client, s.bucket, s.Prefixes())
}

// FixStructure creates the missing prefixes.
func (s *Service) FixStructure(ctx context.Context, missing []string) error {
	if s.client == nil {
		return fmt.Errorf("storage client is not configured")
	}
	return checks.FixStructure(ctx, s.client, s.bucket, s.logger, missing)
}

// CheckDocuments inspects the persisted catalog documents.
func (s *Service) CheckDocuments() (*checks.DocumentReport, error) {
	return checks.CheckDocuments(s.catalog.DataDir)
}

// CheckSchema compares the export tables with the export models.
func (s *Service) CheckSchema() (*checks.SchemaReport, error) {
	return checks.CheckExportSchema(s.db)
}

// CheckAll runs every check and collects the results per check name. Failing checks
// report {"status": "error"} and do not stop the others.
func (s *Service) CheckAll(ctx context.Context) map[string]any {
	report := make(map[string]any)

	if missing, err := s.CheckStructure(ctx); err != nil {
		report["structure"] = map[string]any{"status": "error", "error": err.Error()}
	} else {
		report["structure"] = map[string]any{"status": "ok", "missing": missing}
	}

	if docs, err := s.CheckDocuments(); err != nil {
		report["documents"] = map[string]any{"status": "error", "error": err.Error()}
	} else {
		report["documents"] = docs
	}

	if schema, err := s.CheckSchema(); err != nil {
		report["schema"] = map[string]any{"status": "error", "error": err.Error()}
	} else {
		report["schema"] = schema
	}

	return report
}
