package identity

import (
	"testing"

	"craft-catalog/feature/catalog/models"

	"github.com/stretchr/testify/assert"
)

func intPtr(i int) *int { return &i }

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Rough Spool of Thread", "rough spool of thread"},
		{"  Rough   Spool\tof Thread ", "rough spool of thread"},
		{"Rough-Spool of Thread", "rough spool of thread"},
		{"Rough – Spool", "rough spool"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeName(tt.in))
		})
	}
}

func TestBaseName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Make Basic Fertilizer", "make basic fertilizer"},
		{"1/2 Make Basic Fertilizer", "make basic fertilizer"},
		{"2 / 3 Make Basic Fertilizer", "make basic fertilizer"},
		{"3. Make Basic Fertilizer", "make basic fertilizer"},
		{"Make Basic Fertilizer (Berry)", "make basic fertilizer"},
		{"1/2 Make Basic Fertilizer (Fish)", "make basic fertilizer"},
		{"10 Planks", "10 planks"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, BaseName(tt.in))
		})
	}
}

func TestQualifier(t *testing.T) {
	assert.Equal(t, " (Berry)", Qualifier("berry"))
	assert.Equal(t, " (Rough Spool Of Thread)", Qualifier("rough  spool of thread"))
	assert.Equal(t, "", Qualifier("  "))
	assert.True(t, HasQualifier("Make Basic Fertilizer (Berry)"))
	assert.False(t, HasQualifier("Make Basic Fertilizer"))
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "make-basic-fertilizer-berry", Slug("Make Basic Fertilizer (Berry)"))
	assert.Equal(t, "rough-spool-of-thread", Slug("  Rough Spool of Thread!"))
}

func TestItemKey(t *testing.T) {
	base := models.Item{Name: "Rough Spool of Thread", Tier: intPtr(1), Rarity: "common", Confidence: 0.85}

	t.Run("Deterministic", func(t *testing.T) {
		assert.Equal(t, ItemKey(base), ItemKey(base))
		assert.Len(t, ItemKey(base), KeyLength)
	})

	t.Run("IgnoresNonIdentityFields", func(t *testing.T) {
		other := base
		other.Confidence = 0.99
		other.Description = "Thread for tailoring"
		other.Key = "stale"
		assert.Equal(t, ItemKey(base), ItemKey(other))
	})

	t.Run("NormalizesName", func(t *testing.T) {
		other := base
		other.Name = "rough-spool  OF thread"
		other.Rarity = "Common"
		assert.Equal(t, ItemKey(base), ItemKey(other))
	})

	t.Run("TierAndRarityDistinguish", func(t *testing.T) {
		tier2 := base
		tier2.Tier = intPtr(2)
		noTier := base
		noTier.Tier = nil
		rare := base
		rare.Rarity = "rare"

		assert.NotEqual(t, ItemKey(base), ItemKey(tier2))
		assert.NotEqual(t, ItemKey(base), ItemKey(noTier))
		assert.NotEqual(t, ItemKey(base), ItemKey(rare))
	})

	t.Run("FieldBoundaries", func(t *testing.T) {
		assert.Equal(t, ItemKey(models.Item{Name: "x"}), ItemKey(models.Item{Name: " X "}))
		assert.NotEqual(t, ItemKey(models.Item{Name: "x"}), ItemKey(models.Item{Name: "x", Rarity: "|"}))
	})
}

func TestCraftKey(t *testing.T) {
	base := models.Craft{
		Name:         "Make Basic Fertilizer",
		Materials:    []models.Material{{Item: "Berry", Qty: "0-1"}, {Item: "Water", Qty: "1"}},
		Outputs:      []models.Material{{Item: "Basic Fertilizer", Qty: "1"}},
		Requirements: models.Requirements{Profession: "Farming"},
		Confidence:   0.8,
	}

	t.Run("OrderIndependent", func(t *testing.T) {
		other := base
		other.Materials = []models.Material{{Item: "water", Qty: " 1 "}, {Item: "BERRY", Qty: "0-1"}}
		assert.Equal(t, CraftKey(base), CraftKey(other))
	})

	t.Run("RequirementsDistinguish", func(t *testing.T) {
		other := base
		other.Requirements = models.Requirements{Profession: "Farming", Tool: "Hoe"}
		assert.NotEqual(t, CraftKey(base), CraftKey(other))
	})

	t.Run("RequirementCaseIgnored", func(t *testing.T) {
		other := base
		other.Requirements = models.Requirements{Profession: "  farming "}
		assert.Equal(t, CraftKey(base), CraftKey(other))
	})

	t.Run("MaterialsDistinguish", func(t *testing.T) {
		other := base
		other.Materials = []models.Material{{Item: "Fish", Qty: "1"}}
		assert.NotEqual(t, CraftKey(base), CraftKey(other))
	})

	t.Run("QualifierFromOwnMaterialKeepsKey", func(t *testing.T) {
		renamed := base
		renamed.Name = "Make Basic Fertilizer (Berry)"
		assert.Equal(t, CraftKey(base), CraftKey(renamed))

		foreign := base
		foreign.Name = "Make Basic Fertilizer (Fish)"
		assert.NotEqual(t, CraftKey(base), CraftKey(foreign))
	})

	t.Run("OrdinalPrefixIsPartOfName", func(t *testing.T) {
		other := base
		other.Name = "1/2 Make Basic Fertilizer"
		assert.NotEqual(t, CraftKey(base), CraftKey(other))
	})
}

func TestRawKey(t *testing.T) {
	assert.Equal(t, RawKey([]byte(`"just text"`)), RawKey(`"just text"`))
	assert.NotEqual(t, RawKey("a"), RawKey("b"))
	assert.Len(t, RawKey(42), KeyLength)
}

func TestSignatures(t *testing.T) {
	mats := []models.Material{{Item: "Berry", Qty: "2"}, {Item: "berry", Qty: "1"}, {Item: "", Qty: "3"}}
	assert.Equal(t, "berry:1,berry:2", MaterialSignature(mats))
	assert.Equal(t, "berry", MaterialNames(mats))
	assert.Equal(t, "building:old mill,profession:farming",
		RequirementsSignature(models.Requirements{Profession: "Farming", Building: "Old-Mill"}))
	assert.Equal(t, "", RequirementsSignature(models.Requirements{}))
}

func TestCanonicalIDs(t *testing.T) {
	assert.Equal(t, "item:general:rough-spool-of-thread", CanonicalItemID(models.Item{Name: "Rough Spool of Thread"}))
	assert.Equal(t, "craft:farming:make-basic-fertilizer-berry", CanonicalCraftID(models.Craft{
		Name:         "1/2 Make Basic Fertilizer (Berry)",
		Requirements: models.Requirements{Profession: "Farming"},
	}))
	assert.Equal(t, "craft:general:make-rope", CanonicalCraftID(models.Craft{Name: "Make Rope"}))
	assert.Equal(t, "craft:light-armor:stitch", CanonicalID("craft", "Light Armor", "Stitch"))
}
