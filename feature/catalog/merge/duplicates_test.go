package merge

import (
	"testing"

	"craft-catalog/feature/catalog/intake"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAnalyzeDoesNotMutate(t *testing.T) {
	e, _ := newTestEngine(t, t.TempDir())
	e.Ingest(batchOf([]string{threadJSON}, []string{berryCraftJSON}))
	require.False(t, e.Store().Dirty())

	parsed := intake.ParseBatch(batchOf(
		[]string{threadJSON, `{"name":"Moss","confidence":0.9}`, `7`},
		[]string{berryCraftJSON, fishCraftJSON},
	), zap.NewNop())
	report := Analyze(parsed, e.Store())

	assert.Equal(t, 3, report.ItemsTotal)
	assert.Equal(t, 1, report.ItemsDuplicate)
	assert.Equal(t, 2, report.ItemsNew)
	assert.Equal(t, 2, report.CraftsTotal)
	assert.Equal(t, 1, report.CraftsDuplicate)
	assert.Equal(t, 1, report.CraftsNew)
	require.Len(t, report.Entries, 5)
	assert.True(t, report.Entries[2].Malformed)
	assert.NotEmpty(t, report.Entries[2].Key)

	items, crafts := e.Store().Counts()
	assert.Equal(t, 1, items)
	assert.Equal(t, 1, crafts)
	assert.False(t, e.Store().Dirty())
}
