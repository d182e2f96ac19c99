package catalog_test

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"craft-catalog/core/loader"
	"craft-catalog/feature/catalog"
	"craft-catalog/feature/catalog/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	svc, err := catalog.NewService(testConfig(t), nil, "catalog", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })

	app := fiber.New()
	mgr := loader.NewManager()
	mgr.Register(catalog.NewFeature(svc))
	require.NoError(t, mgr.LoadAll(app))
	return app
}

func TestHandleIngest(t *testing.T) {
	app := newTestApp(t)

	body := `{"itemsFound":[` + mossJSON + `,"junk"],"craftsFound":[` + ropeJSON + `]}`
	req := httptest.NewRequest("POST", "/catalog/ingest", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var report models.IngestReport
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.Equal(t, 1, report.Stats.NewItemsAdded)
	assert.Equal(t, 1, report.Stats.InvalidItemsFiltered)
	assert.Equal(t, 1, report.Stats.NewCraftsAdded)
	assert.Equal(t, 2, report.Stats.ItemsFoundTotal)

	t.Run("Stats", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/catalog/stats", nil))
		require.NoError(t, err)
		var summary catalog.Summary
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&summary))
		assert.Equal(t, 1, summary.TotalItems)
		assert.Equal(t, 1, summary.TotalCrafts)
	})

	t.Run("Items", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/catalog/items?name=moss", nil))
		require.NoError(t, err)
		var out struct {
			Count   int           `json:"count"`
			Records []models.Item `json:"records"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.Equal(t, 1, out.Count)
		assert.Equal(t, "Moss", out.Records[0].Name)
	})

	t.Run("Crafts", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/catalog/crafts", nil))
		require.NoError(t, err)
		data, _ := io.ReadAll(resp.Body)
		assert.Contains(t, string(data), `"Make Rope"`)
	})

	t.Run("SessionReset", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("DELETE", "/catalog/session", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

		resp, err = app.Test(httptest.NewRequest("GET", "/catalog/session", nil))
		require.NoError(t, err)
		var session struct {
			RunID string        `json:"runId"`
			Items []models.Item `json:"items"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&session))
		assert.NotEmpty(t, session.RunID)
		assert.Empty(t, session.Items)
	})
}

func TestHandleIngestBadBody(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest("POST", "/catalog/ingest", strings.NewReader(`{"itemsFound":`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	data, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(data), "invalid batch")
}

func TestHandleReconcileWithoutStorage(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/catalog/reconcile", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}
