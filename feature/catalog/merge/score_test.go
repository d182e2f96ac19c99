package merge

import (
	"testing"

	"craft-catalog/feature/catalog/models"

	"github.com/stretchr/testify/assert"
)

func TestItemRule(t *testing.T) {
	tests := []struct {
		name      string
		stored    Score
		candidate Score
		replace   bool
	}{
		{"EqualScores", Score{Confidence: 0.8}, Score{Confidence: 0.8}, false},
		{"MarginNotExceeded", Score{Confidence: 0.85}, Score{Confidence: 0.90}, false},
		{"MarginExceeded", Score{Confidence: 0.85}, Score{Confidence: 0.91}, true},
		{"LowerConfidence", Score{Confidence: 0.95}, Score{Confidence: 0.80}, false},
		{"DescriptionTwentyPercent", Score{Confidence: 0.8, Completeness: 100}, Score{Confidence: 0.8, Completeness: 120}, false},
		{"DescriptionLonger", Score{Confidence: 0.8, Completeness: 100}, Score{Confidence: 0.8, Completeness: 121}, true},
		{"DescriptionFromNothing", Score{Confidence: 0.8}, Score{Confidence: 0.8, Completeness: 3}, true},
		{"AddsTier", Score{Confidence: 0.8}, Score{Confidence: 0.8, Specificity: 1}, true},
		{"BothTiered", Score{Confidence: 0.8, Specificity: 1}, Score{Confidence: 0.8, Specificity: 1}, false},
		{"DropsTier", Score{Confidence: 0.8, Specificity: 1}, Score{Confidence: 0.82}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			replace, why := DefaultItemRule.Replace(tt.stored, tt.candidate)
			assert.Equal(t, tt.replace, replace)
			if replace {
				assert.NotEmpty(t, why)
			}
		})
	}
}

func TestCraftRule(t *testing.T) {
	tests := []struct {
		name      string
		stored    Score
		candidate Score
		replace   bool
	}{
		{"EqualScores", Score{Confidence: 0.8, Completeness: 2, Specificity: 1}, Score{Confidence: 0.8, Completeness: 2, Specificity: 1}, false},
		{"MarginNotExceeded", Score{Confidence: 0.8}, Score{Confidence: 0.9}, false},
		{"MarginExceeded", Score{Confidence: 0.8}, Score{Confidence: 0.95}, true},
		{"MoreRequirements", Score{Confidence: 0.9, Specificity: 1}, Score{Confidence: 0.8, Specificity: 2}, true},
		{"MoreEntries", Score{Confidence: 0.9, Completeness: 2}, Score{Confidence: 0.8, Completeness: 3}, true},
		{"FewerEverything", Score{Confidence: 0.9, Completeness: 3, Specificity: 2}, Score{Confidence: 0.9, Completeness: 2, Specificity: 1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			replace, _ := DefaultCraftRule.Replace(tt.stored, tt.candidate)
			assert.Equal(t, tt.replace, replace)
		})
	}
}

func TestScores(t *testing.T) {
	tier := 2
	assert.Equal(t, Score{Confidence: 0.9, Completeness: 5, Specificity: 1},
		ScoreItem(models.Item{Description: "héllo", Tier: &tier, Confidence: 0.9}))
	assert.Equal(t, Score{Confidence: 0.7, Completeness: 3, Specificity: 2},
		ScoreCraft(models.Craft{
			Materials:    []models.Material{{Item: "a"}, {Item: "b"}},
			Outputs:      []models.Material{{Item: "c"}},
			Requirements: models.Requirements{Profession: "p", Building: "b"},
			Confidence:   0.7,
		}))
}
