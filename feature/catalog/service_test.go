package catalog_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	corereconcile "craft-catalog/core/reconcile"
	"craft-catalog/core/storage/mocks"
	"craft-catalog/feature/catalog"
	"craft-catalog/feature/catalog/models"
	"craft-catalog/feature/catalog/store"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	mossJSON = `{"name":"Moss","rarity":"common","confidence":0.9}`
	ropeJSON = `{"name":"Make Rope","materials":[{"item":"Fiber","qty":3}],"outputs":[{"item":"Rope","qty":1}],"requirements":{"profession":"tailoring"},"confidence":0.85}`
)

func testConfig(t *testing.T) catalog.Config {
	return catalog.Config{
		DataDir:        t.TempDir(),
		MinConfidence:  0.7,
		Source:         "vision",
		SnapshotPrefix: "catalog/",
	}
}

func batch(items, crafts []string) models.Batch {
	var b models.Batch
	for _, s := range items {
		b.ItemsFound = append(b.ItemsFound, json.RawMessage(s))
	}
	for _, s := range crafts {
		b.CraftsFound = append(b.CraftsFound, json.RawMessage(s))
	}
	return b
}

func TestServiceIngestAndRead(t *testing.T) {
	svc, err := catalog.NewService(testConfig(t), nil, "catalog", zap.NewNop())
	require.NoError(t, err)
	defer svc.Close()

	report := svc.Ingest(context.Background(), batch([]string{mossJSON}, []string{ropeJSON}))
	assert.Equal(t, 1, report.Stats.NewItemsAdded)
	assert.Equal(t, 1, report.Stats.NewCraftsAdded)
	assert.True(t, report.Stats.Persisted)

	summary := svc.Summary()
	assert.Equal(t, 1, summary.TotalItems)
	assert.Equal(t, 1, summary.TotalCrafts)
	assert.Equal(t, 1, summary.SessionItems)
	assert.False(t, summary.Unsaved)
	require.NotNil(t, summary.LastBatch)
	assert.Equal(t, 1, summary.LastBatch.NewCraftsAdded)

	assert.Len(t, svc.Items("MOSS"), 1)
	assert.Empty(t, svc.Items("stone"))
	assert.Len(t, svc.Crafts("2. Make Rope"), 1)
	assert.Len(t, svc.Session().Crafts, 1)

	svc.ResetSession()
	assert.Empty(t, svc.Session().Items)
}

func TestServiceHoldsStoreLock(t *testing.T) {
	cfg := testConfig(t)
	svc, err := catalog.NewService(cfg, nil, "catalog", zap.NewNop())
	require.NoError(t, err)

	_, err = catalog.NewService(cfg, nil, "catalog", zap.NewNop())
	assert.ErrorIs(t, err, store.ErrLocked)

	ro, err := catalog.NewReadOnlyService(cfg, nil, "catalog", zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, ro.Close())

	require.NoError(t, svc.Close())
}

func TestServicePublishesSnapshots(t *testing.T) {
	cfg := testConfig(t)
	cfg.PublishSnapshots = true

	mockClient := new(mocks.Client)
	var uploaded []string
	mockClient.On("PutObject", mock.Anything, "catalog", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			uploaded = append(uploaded, args.String(2))
			data, err := io.ReadAll(args.Get(3).(io.Reader))
			require.NoError(t, err)
			assert.True(t, json.Valid(data))
		}).
		Return(minio.UploadInfo{}, nil)

	svc, err := catalog.NewService(cfg, mockClient, "catalog", zap.NewNop())
	require.NoError(t, err)
	defer svc.Close()

	svc.Ingest(context.Background(), batch([]string{mossJSON}, nil))
	assert.Equal(t, []string{"catalog/items.json", "catalog/crafts.json"}, uploaded)

	// Nothing changed, nothing published.
	svc.Ingest(context.Background(), batch([]string{mossJSON}, nil))
	assert.Len(t, uploaded, 2)
	mockClient.AssertNumberOfCalls(t, "PutObject", 2)
}

func TestServicePublishFailureIsNotFatal(t *testing.T) {
	cfg := testConfig(t)
	cfg.PublishSnapshots = true

	mockClient := new(mocks.Client)
	mockClient.On("PutObject", mock.Anything, "catalog", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, errors.New("connection refused"))

	svc, err := catalog.NewService(cfg, mockClient, "catalog", zap.NewNop())
	require.NoError(t, err)
	defer svc.Close()

	report := svc.Ingest(context.Background(), batch([]string{mossJSON}, nil))
	assert.True(t, report.Stats.Persisted)
	assert.Equal(t, 1, report.Stats.TotalItems)

	assert.Error(t, svc.PublishSnapshots(context.Background()))
}

func TestPublishSnapshotsWithoutClient(t *testing.T) {
	svc, err := catalog.NewService(testConfig(t), nil, "catalog", zap.NewNop())
	require.NoError(t, err)
	defer svc.Close()

	assert.ErrorIs(t, svc.PublishSnapshots(context.Background()), catalog.ErrNoStorage)
}

func TestServiceReconcile(t *testing.T) {
	canonical := `{"items":[{"name":"Moss","rarity":"uncommon"},{"name":"Stone"}],` +
		`"crafts":[{"name":"Make Rope","profession":"tailoring","materials":[{"item":"Fiber","qty":3}],"outputs":[{"item":"Rope","qty":1}]}]}`

	mockClient := new(mocks.Client)
	for i := 0; i < 2; i++ {
		mockClient.On("GetObject", mock.Anything, "catalog", "canonical/catalog.json", mock.Anything).
			Return(io.NopCloser(bytes.NewReader([]byte(canonical))), nil).Once()
	}

	cfg := testConfig(t)
	cfg.CanonicalObject = "canonical/catalog.json"
	svc, err := catalog.NewService(cfg, mockClient, "catalog", zap.NewNop())
	require.NoError(t, err)
	defer svc.Close()

	svc.Ingest(context.Background(), batch([]string{mossJSON}, []string{ropeJSON}))

	report, err := svc.Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, corereconcile.Summary{Total: 3, Matched: 1, MissingLocal: 1, Mismatches: 1}, report.Summary)

	result, err := svc.ReconcileOne(context.Background(), corereconcile.Query{Name: "moss"})
	require.NoError(t, err)
	assert.Equal(t, "item:general:moss", result.ID)
	assert.Equal(t, []string{`rarity: local="common" canonical="uncommon"`}, result.Mismatch)
}

func TestServiceReconcileWithoutClient(t *testing.T) {
	svc, err := catalog.NewService(testConfig(t), nil, "catalog", zap.NewNop())
	require.NoError(t, err)
	defer svc.Close()

	_, err = svc.Reconcile(context.Background())
	assert.ErrorIs(t, err, catalog.ErrNoStorage)
}
