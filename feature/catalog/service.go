package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"sync"
	"time"

	corelogger "craft-catalog/core/logger"
	corereconcile "craft-catalog/core/reconcile"
	"craft-catalog/core/storage"
	"craft-catalog/feature/catalog/merge"
	"craft-catalog/feature/catalog/models"
	catalogreconcile "craft-catalog/feature/catalog/reconcile"
	"craft-catalog/feature/catalog/store"
	"craft-catalog/feature/catalog/validation"

	"go.uber.org/zap"
)

// ErrNoStorage is returned when publishing without a storage client.
var ErrNoStorage = errors.New("no storage client configured")

// Service serializes access to one catalog store and its merge engine.
type Service struct {
	mu     sync.Mutex
	cfg    Config
	store  *store.Store
	engine *merge.Engine
	client storage.Client
	bucket string
	logger *zap.Logger
	spec   *corereconcile.Spec

	lastBatch *models.IngestStats
}

// Summary describes the catalog as a whole.
type Summary struct {
	TotalItems             int                 `json:"totalItems"`
	TotalCrafts            int                 `json:"totalCrafts"`
	MinConfidenceThreshold float64             `json:"minConfidenceThreshold"`
	ItemsLastUpdated       time.Time           `json:"itemsLastUpdated"`
	CraftsLastUpdated      time.Time           `json:"craftsLastUpdated"`
	Unsaved                bool                `json:"unsaved"`
	SessionRunID           string              `json:"sessionRunId"`
	SessionItems           int                 `json:"sessionItems"`
	SessionCrafts          int                 `json:"sessionCrafts"`
	LastBatch              *models.IngestStats `json:"lastBatch,omitempty"`
}

// NewService opens the catalog store in cfg.DataDir for writing. client may be nil, in
// which case snapshots are never published.
func NewService(cfg Config, client storage.Client, bucket string, logger *zap.Logger) (*Service, error) {
	return newService(cfg, client, bucket, logger, false)
}

// NewReadOnlyService opens the catalog store without taking the writer lock. Ingest
// still merges in memory but never saves.
func NewReadOnlyService(cfg Config, client storage.Client, bucket string, logger *zap.Logger) (*Service, error) {
	return newService(cfg, client, bucket, logger, true)
}

func newService(cfg Config, client storage.Client, bucket string, logger *zap.Logger, readOnly bool) (*Service, error) {
	log := corelogger.Component(logger, "catalog")

	st, err := store.Open(store.Options{Dir: cfg.DataDir, Source: cfg.Source, ReadOnly: readOnly}, log, time.Now)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog store: %w", err)
	}
	v := validation.New(cfg.MinConfidence)
	svc := &Service{
		cfg:    cfg,
		store:  st,
		engine: merge.NewEngine(st, v, cfg.Source, log, time.Now),
		client: client,
		bucket: bucket,
		logger: log,
	}
	svc.spec = &corereconcile.Spec{
		Adapter:         catalogreconcile.NewAdapter(svc),
		CacheTTL:        time.Duration(cfg.ReconcileCacheSeconds) * time.Second,
		CanonicalObject: cfg.CanonicalObject,
	}
	return svc, nil
}

// Ingest merges one batch. It only returns after the batch is saved (or the save failed)
// and, when enabled, the snapshots were published.
func (s *Service) Ingest(ctx context.Context, batch models.Batch) *models.IngestReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	report := s.engine.Ingest(batch)
	stats := report.Stats
	s.lastBatch = &stats

	changed := stats.NewItemsAdded+stats.ItemsUpdated+stats.NewCraftsAdded+stats.CraftsUpdated+stats.CraftsRenamed > 0
	if changed {
		corereconcile.InvalidateCache(s.spec)
	}
	if changed && stats.Persisted && s.cfg.PublishSnapshots && s.client != nil {
		if err := s.publish(ctx); err != nil {
			s.logger.Warn("Snapshot publish failed", zap.Error(err))
		}
	}
	return report
}

// PublishSnapshots uploads the persisted documents to object storage.
func (s *Service) PublishSnapshots(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client == nil {
		return ErrNoStorage
	}
	return s.publish(ctx)
}

// publish uploads what is on disk, so a snapshot never shows unsaved state.
func (s *Service) publish(ctx context.Context) error {
	for _, doc := range []struct{ file, local string }{
		{store.ItemsFile, s.store.ItemsPath()},
		{store.CraftsFile, s.store.CraftsPath()},
	} {
		data, err := os.ReadFile(doc.local)
		if err != nil {
			return fmt.Errorf("read %s: %w", doc.file, err)
		}
		object := path.Join(s.cfg.SnapshotPrefix, doc.file)
		if err := storage.PutBytes(ctx, s.client, s.bucket, object, data, "application/json"); err != nil {
			return err
		}
		s.logger.Debug("Published snapshot", zap.String("object", object), zap.Int("bytes", len(data)))
	}
	return nil
}

// Reconcile compares the whole catalog against the canonical dataset.
func (s *Service) Reconcile(ctx context.Context) (*corereconcile.Report, error) {
	if s.client == nil {
		return nil, ErrNoStorage
	}
	return corereconcile.Run(ctx, s.spec, s.client, s.bucket)
}

// ReconcileOne compares the record selected by query (canonical ID, content key or name).
func (s *Service) ReconcileOne(ctx context.Context, query corereconcile.Query) (*corereconcile.Result, error) {
	if s.client == nil {
		return nil, ErrNoStorage
	}
	return corereconcile.ReconcileOne(ctx, s.spec, s.client, s.bucket, query)
}

// Summary returns catalog totals and session counters.
func (s *Service) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, crafts := s.store.Counts()
	itemsAt, craftsAt := s.store.LastUpdated()
	session := s.engine.Session()
	return Summary{
		TotalItems:             items,
		TotalCrafts:            crafts,
		MinConfidenceThreshold: s.engine.Validator().MinConfidence,
		ItemsLastUpdated:       itemsAt,
		CraftsLastUpdated:      craftsAt,
		Unsaved:                s.store.Dirty(),
		SessionRunID:           session.RunID(),
		SessionItems:           len(session.Items()),
		SessionCrafts:          len(session.Crafts()),
		LastBatch:              s.lastBatch,
	}
}

// Items returns stored items, optionally only those whose normalized name equals name.
func (s *Service) Items(name string) []models.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	if name != "" {
		return s.store.ItemsByName(name)
	}
	return s.store.Items()
}

// Crafts returns stored crafts, optionally only those sharing the base name of name.
func (s *Service) Crafts(name string) []models.Craft {
	s.mu.Lock()
	defer s.mu.Unlock()
	if name != "" {
		return s.store.CraftsByBaseName(name)
	}
	return s.store.Crafts()
}

// Session returns the records added or updated since start or the last reset.
func (s *Service) Session() merge.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Session().Snapshot()
}

// ResetSession clears the session tracker.
func (s *Service) ResetSession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.Session().Reset()
}

// Close flushes unsaved changes and releases the store.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Close()
}
