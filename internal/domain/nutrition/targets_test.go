package nutrition

import (
	"testing"

	"github.com/google/uuid"
	"github.com/nutriplan/v1/internal/domain/profile"
	"github.com/stretchr/testify/assert"
)

func baseProfile() *profile.ClientProfile {
	p := profile.NewClientProfile(uuid.New())
	p.Age = 30
	p.Gender = profile.GenderMale
	p.HeightCm = 180
	p.WeightKg = 80
	p.ActivityLevel = profile.ActivitySedentary
	return p
}

func TestBMRMifflinStJeor(t *testing.T) {
	p := baseProfile()
	// 10*80 + 6.25*180 - 5*30 + 5
	assert.InDelta(t, 1780, BMR(p), 0.01)

	p.Gender = profile.GenderFemale
	// male offset +5 swaps to -161
	assert.InDelta(t, 1614, BMR(p), 0.01)
}

func TestBMRIncompleteProfileFallsBack(t *testing.T) {
	p := profile.NewClientProfile(uuid.New())
	assert.Equal(t, DefaultBMR, BMR(p))

	p = baseProfile()
	p.WeightKg = 0
	assert.Equal(t, DefaultBMR, BMR(p))
}

func TestActivityMultiplier(t *testing.T) {
	assert.Equal(t, 1.2, ActivityMultiplier(profile.ActivitySedentary))
	assert.Equal(t, 1.55, ActivityMultiplier(profile.ActivityModeratelyActive))
	assert.Equal(t, 1.9, ActivityMultiplier(profile.ActivityExtremelyActive))
	// unknown levels behave as sedentary
	assert.Equal(t, 1.2, ActivityMultiplier(profile.ActivityLevel("couch")))
}

func TestComputeTargetsWeightLoss(t *testing.T) {
	p := baseProfile()
	p.DietType = profile.DietOmnivore

	targets := ComputeTargets(p, "weight_loss")

	assert.Equal(t, 2136, targets.DailyCalories)
	// 30/45/25 split at 2136 kcal
	assert.Equal(t, 160, targets.ProteinGrams)
	assert.Equal(t, 240, targets.CarbsGrams)
	assert.Equal(t, 59, targets.FatsGrams)
}

func TestComputeTargetsDefaultSplit(t *testing.T) {
	p := baseProfile()
	p.DietType = profile.DietOmnivore

	// goals without a split table entry use 30/40/30
	targets := ComputeTargets(p, "energy")

	assert.Equal(t, 2136, targets.DailyCalories)
	assert.Equal(t, 160, targets.ProteinGrams)
	assert.Equal(t, 214, targets.CarbsGrams)
	assert.Equal(t, 71, targets.FatsGrams)
}

func TestDietSplitOverridesGoal(t *testing.T) {
	p := baseProfile()
	p.DietType = profile.DietKeto

	targets := ComputeTargets(p, "weight_loss")

	// keto 25/5/70 wins over the weight_loss goal split
	assert.Equal(t, 134, targets.ProteinGrams)
	assert.Equal(t, 27, targets.CarbsGrams)
	assert.Equal(t, 166, targets.FatsGrams)
}

func TestResolveSplitPrecedence(t *testing.T) {
	split := ResolveSplit(profile.DietHighProtein, "maintenance")
	assert.Equal(t, MacroSplit{ProteinPct: 40, CarbsPct: 30, FatPct: 30}, split)

	split = ResolveSplit(profile.DietVegan, "muscle_gain")
	assert.Equal(t, MacroSplit{ProteinPct: 35, CarbsPct: 45, FatPct: 20}, split)

	split = ResolveSplit(profile.DietVegan, "unknown_goal")
	assert.Equal(t, defaultSplit, split)
}

func TestComputeTargetsIsPure(t *testing.T) {
	p := baseProfile()
	first := ComputeTargets(p, "maintenance")
	second := ComputeTargets(p, "maintenance")
	assert.Equal(t, first, second)
}
