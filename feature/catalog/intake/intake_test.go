package intake

import (
	"encoding/json"
	"testing"

	"craft-catalog/feature/catalog/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func raw(s string) json.RawMessage { return json.RawMessage(s) }

func TestParseItem(t *testing.T) {
	t.Run("Full", func(t *testing.T) {
		rec := ParseItem(raw(`{"name":" Rough Spool of Thread ","description":"Thread","tier":1,"rarity":"common","confidence":0.85}`))
		require.Equal(t, KindItem, rec.Kind)
		assert.Equal(t, "Rough Spool of Thread", rec.Item.Name)
		assert.Equal(t, "Thread", rec.Item.Description)
		require.NotNil(t, rec.Item.Tier)
		assert.Equal(t, 1, *rec.Item.Tier)
		assert.Equal(t, "common", rec.Item.Rarity)
		assert.Equal(t, 0.85, rec.Item.Confidence)
	})

	t.Run("LooseTypes", func(t *testing.T) {
		rec := ParseItem(raw(`{"name":"Thread","tier":"Tier 2","rank":"Rare","confidence":"0.9"}`))
		require.Equal(t, KindItem, rec.Kind)
		require.NotNil(t, rec.Item.Tier)
		assert.Equal(t, 2, *rec.Item.Tier)
		assert.Equal(t, "Rare", rec.Item.Rarity)
		assert.Equal(t, 0.9, rec.Item.Confidence)
	})

	t.Run("OutOfRangeTierIsMissing", func(t *testing.T) {
		for _, in := range []string{`1e20`, `"Tier 123456789012345678901"`, `-3`, `101`} {
			rec := ParseItem(raw(`{"name":"Thread","confidence":0.9,"tier":` + in + `}`))
			require.Equal(t, KindItem, rec.Kind, in)
			assert.Nil(t, rec.Item.Tier, in)
		}
	})

	t.Run("MissingFieldsStillParse", func(t *testing.T) {
		rec := ParseItem(raw(`{"tier":null}`))
		require.Equal(t, KindItem, rec.Kind)
		assert.Empty(t, rec.Item.Name)
		assert.Nil(t, rec.Item.Tier)
		assert.Zero(t, rec.Item.Confidence)
	})

	malformedInputs := map[string]string{
		"String":        `"Rough Spool of Thread"`,
		"List":          `[1,2]`,
		"InvalidJSON":   `{"name":`,
		"NameNotScalar": `{"name":{"en":"Thread"}}`,
	}
	for name, input := range malformedInputs {
		t.Run(name, func(t *testing.T) {
			rec := ParseItem(raw(input))
			require.Equal(t, KindMalformed, rec.Kind)
			assert.Nil(t, rec.Item)
			assert.Equal(t, models.KindItem, rec.Malformed.Kind)
			assert.Equal(t, input, rec.Malformed.Raw)
			assert.NotEmpty(t, rec.Malformed.Reason)
			assert.Len(t, rec.Malformed.Key, 16)
		})
	}
}

func TestParseCraft(t *testing.T) {
	t.Run("Full", func(t *testing.T) {
		rec := ParseCraft(raw(`{
			"name":"Make Basic Fertilizer",
			"materials":[{"item":"Berry","qty":"0-1"},{"name":"Water","quantity":2.0},"Ash"],
			"outputs":[{"item":"Basic Fertilizer","qty":1}],
			"requirements":{"profession":"farming","tool":null,"building":3},
			"confidence":0.8}`))
		require.Equal(t, KindCraft, rec.Kind)
		c := rec.Craft
		assert.Equal(t, "Make Basic Fertilizer", c.Name)
		assert.Equal(t, []models.Material{
			{Item: "Berry", Qty: "0-1"},
			{Item: "Water", Qty: "2"},
			{Item: "Ash"},
		}, c.Materials)
		assert.Equal(t, []models.Material{{Item: "Basic Fertilizer", Qty: "1"}}, c.Outputs)
		assert.Equal(t, models.Requirements{Profession: "farming", Building: "3"}, c.Requirements)
		assert.Equal(t, 0.8, c.Confidence)
	})

	t.Run("MissingListsAreEmpty", func(t *testing.T) {
		rec := ParseCraft(raw(`{"name":"Tooltip","confidence":0.9}`))
		require.Equal(t, KindCraft, rec.Kind)
		assert.Empty(t, rec.Craft.Materials)
		assert.Empty(t, rec.Craft.Outputs)
		assert.True(t, rec.Craft.Requirements.IsEmpty())
	})

	malformedInputs := map[string]string{
		"Number":            `42`,
		"MaterialsObject":   `{"name":"A","materials":{"item":"B"}}`,
		"MaterialEntryList": `{"name":"A","materials":[[1]]}`,
		"OutputItemObject":  `{"name":"A","outputs":[{"item":{"x":1}}]}`,
		"RequirementsText":  `{"name":"A","requirements":"farming"}`,
		"ToolList":          `{"name":"A","requirements":{"tool":["hoe"]}}`,
	}
	for name, input := range malformedInputs {
		t.Run(name, func(t *testing.T) {
			rec := ParseCraft(raw(input))
			require.Equal(t, KindMalformed, rec.Kind)
			assert.Nil(t, rec.Craft)
			assert.Equal(t, models.KindCraft, rec.Malformed.Kind)
		})
	}
}

func TestParseBatch(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	batch := models.Batch{
		ItemsFound:  []json.RawMessage{raw(`{"name":"A","confidence":0.9}`), raw(`"junk"`), raw(`{"name":"B"}`)},
		CraftsFound: []json.RawMessage{raw(`null`)},
	}

	parsed := ParseBatch(batch, zap.New(core))

	require.Len(t, parsed.Items, 3)
	assert.Equal(t, KindItem, parsed.Items[0].Kind)
	assert.Equal(t, KindMalformed, parsed.Items[1].Kind)
	assert.Equal(t, "B", parsed.Items[2].Item.Name)
	require.Len(t, parsed.Crafts, 1)
	assert.Equal(t, KindMalformed, parsed.Crafts[0].Kind)
	assert.Equal(t, 2, logs.FilterMessage("Malformed batch entry").Len())

	t.Run("NilLogger", func(t *testing.T) {
		assert.NotPanics(t, func() { ParseBatch(batch, nil) })
	})
}
