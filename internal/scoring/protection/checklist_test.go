// internal/scoring/protection/checklist_test.go
package protection

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthverse/arthverse/internal/models"
)

func TestChecklistFor(t *testing.T) {
	tests := []struct {
		category           models.PolicyCategory
		expectedInclusions int
		expectedExclusions int
	}{
		{models.CategoryLife, 6, 5},
		{models.CategoryHealth, 10, 8},
		{models.CategoryVehicle, 10, 6},
		{models.CategoryCards, 8, 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			checklist, err := ChecklistFor(tt.category)

			require.NoError(t, err)
			assert.Equal(t, tt.category, checklist.Category)
			assert.Len(t, checklist.Inclusions, tt.expectedInclusions)
			assert.Len(t, checklist.Exclusions, tt.expectedExclusions)
			assert.NotNil(t, checklist.Exclusions)
			for _, it := range checklist.Inclusions {
				assert.Equal(t, it.Default, it.Checked, it.Key)
			}
		})
	}
}

func TestChecklistFor_UnknownCategory(t *testing.T) {
	checklist, err := ChecklistFor(models.PolicyCategory("pets"))

	assert.Nil(t, checklist)
	assert.True(t, errors.Is(err, models.ErrUnknownCategory))
}

func TestChecklistFor_ReturnsCopies(t *testing.T) {
	first, err := ChecklistFor(models.CategoryHealth)
	require.NoError(t, err)
	first.Inclusions[0].Checked = false
	first.Inclusions[0].Label = "changed"

	second, err := ChecklistFor(models.CategoryHealth)
	require.NoError(t, err)

	assert.Equal(t, "Hospitalization covered", second.Inclusions[0].Label)
	assert.True(t, second.Inclusions[0].Checked)
}

func TestChecklist_ApplyCoverage(t *testing.T) {
	checklist, err := ChecklistFor(models.CategoryHealth)
	require.NoError(t, err)

	unknown := checklist.ApplyCoverage(&models.PolicyCoverage{
		PolicyID:   "policy-1",
		Inclusions: map[string]bool{"opd": true, "hospitalization": false, "spa": true},
		Exclusions: map[string]bool{"dental": false, "astrology": true},
	})

	assert.Equal(t, []string{"astrology", "spa"}, unknown)

	gaps := checklist.Gaps()
	assert.Contains(t, gaps, "Hospitalization covered")
	assert.NotContains(t, gaps, "OPD coverage")
	assert.Contains(t, gaps, "Maternity coverage")

	for _, it := range checklist.Exclusions {
		if it.Key == "dental" {
			assert.False(t, it.Checked)
		}
	}
}

func TestChecklist_ApplyNilCoverage(t *testing.T) {
	checklist, err := ChecklistFor(models.CategoryLife)
	require.NoError(t, err)

	assert.Nil(t, checklist.ApplyCoverage(nil))
	assert.Equal(t, []string{
		"Accidental disability rider",
		"Critical illness rider",
		"Waiver of premium",
		"Terminal illness benefit",
	}, checklist.Gaps())
}
