package scoring

import (
	"context"
	"errors"
	"testing"

	"dish-impact/internal/core/lexicon"
	"dish-impact/internal/core/prefs"
	"dish-impact/internal/infrastructure/config"
	"dish-impact/internal/infrastructure/refdata"
	"dish-impact/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingLexicon 模擬詞典服務故障
type failingLexicon struct{}

func (failingLexicon) ResolveHits(ctx context.Context, text string) ([]lexicon.Hit, error) {
	return nil, errors.New("lexicon down")
}

func testConfig() *config.Config {
	return &config.Config{
		Scoring: config.ScoringConfig{
			DefaultGrams:    100,
			DefaultWeightKg: 70,
			TopDrivers:      2,
			MaxLexiconHits:  25,
		},
	}
}

func serviceSeed() *refdata.Seed {
	return &refdata.Seed{
		Aliases: []refdata.AliasRule{
			{Pattern: "garlic", Slug: "garlic", Priority: 20},
			{Pattern: "parmesan", Slug: "parmesan", Priority: 10},
			{Pattern: "cream", Slug: "cream", Priority: 20},
			{Pattern: "onion", Slug: "onion", Priority: 20},
		},
		Yields: []refdata.CompoundYield{
			{Ingredient: "garlic", Slug: "garlic", CompoundID: "allicin", MgPer100g: 5},
			{Ingredient: "parmesan", Slug: "parmesan", CompoundID: "histamine", MgPer100g: 50},
			{Ingredient: "cream", Slug: "cream", CompoundID: "lactose", MgPer100g: 3000},
			{Ingredient: "onion", Slug: "onion", CompoundID: "fructan", MgPer100g: 2000},
		},
		Factors: map[string][]refdata.CookingFactor{
			"roast": {{CompoundID: "allicin", Factor: 0.3}},
		},
		Edges: []refdata.OrganEdge{
			{CompoundID: "allicin", OrganID: "gut", Sign: 1, Strength: 2},
			{CompoundID: "histamine", OrganID: "gut", Sign: -1, Strength: 3},
			{CompoundID: "lactose", OrganID: "gut", Sign: -1, Strength: 1.5},
			{CompoundID: "fructan", OrganID: "gut", Sign: -1, Strength: 2},
		},
		Organs: []string{"gut", "heart", "liver", "kidney", "brain", "skin"},
		CompoundNames: map[string]string{
			"allicin":   "Allicin",
			"histamine": "Histamine",
			"lactose":   "Lactose",
		},
		Lexicon: []lexicon.Entry{
			{Canonical: "parmesan", Terms: []string{"parmesan"}, Classes: []string{"dairy"}, Allergens: []string{"milk"}, Fodmap: lexicon.FodmapLow, Weight: 6, Source: "curated"},
			{Canonical: "cream", Terms: []string{"cream"}, Classes: []string{"dairy"}, Allergens: []string{"milk"}, Fodmap: lexicon.FodmapMedium, Weight: 4},
			{Canonical: "garlic", Terms: []string{"garlic"}, Classes: []string{"allium"}, Fodmap: lexicon.FodmapHigh, Weight: 6, Source: "curated"},
		},
		Prefs: map[string]*prefs.UserPrefs{},
	}
}

func newTestService(seed *refdata.Seed) *Service {
	return NewService(testConfig(), refdata.NewMemoryStores(seed))
}

func TestScoreSmallGarlicDose(t *testing.T) {
	svc := newTestService(serviceSeed())

	result, err := svc.Score(context.Background(), &common.ScoreRequest{
		Ingredients: []common.IngredientInput{{Name: "garlic", Grams: 10}},
		Method:      "saute",
		WeightKg:    70,
	}, nil, nil)
	require.NoError(t, err)

	// (0.5/70)×2 ≈ 0.0143 → normalized 0 → Neutral
	assert.Equal(t, 0, result.OrgansNormalized["gut"])
	assert.Equal(t, common.LevelNeutral, result.OrganLevels["gut"])
	assert.InDelta(t, 0.5, result.CompoundsMg["allicin"], 1e-9)
}

func TestScoreParmesan(t *testing.T) {
	svc := newTestService(serviceSeed())

	result, err := svc.Score(context.Background(), &common.ScoreRequest{
		Ingredients: []common.IngredientInput{{Name: "parmesan", Grams: 100}},
		WeightKg:    50,
	}, nil, nil)
	require.NoError(t, err)

	// (50/50)×3×−1 = −3 → round(100·tanh(−0.06)) = −6 → Neutral
	assert.InDelta(t, -3, result.OrgansRaw["gut"], 1e-9)
	assert.Equal(t, -6, result.OrgansNormalized["gut"])
	assert.Equal(t, common.LevelNeutral, result.OrganLevels["gut"])

	// 詞典路徑：milk 過敏原，低 FODMAP 折減 → 18×0.6 + 3 = 13.8 → 14 → Avoid
	assert.Equal(t, []string{"milk"}, result.Flags.Allergens)
	assert.Equal(t, lexicon.FodmapLow, result.Flags.Fodmap.Level)
	assert.Equal(t, 14, result.RiskScore.Score)
	assert.Equal(t, common.RiskLabelAvoid, result.RiskScore.Label)
}

func TestScoreEmptyIngredients(t *testing.T) {
	svc := newTestService(serviceSeed())

	result, err := svc.Score(context.Background(), &common.ScoreRequest{}, nil, nil)
	require.Nil(t, result)
	require.Error(t, err)

	ce, ok := common.AsCustomError(err)
	require.True(t, ok)
	assert.Equal(t, common.ErrKindInvalidInput, ce.Kind)
}

func TestScoreDairyOverride(t *testing.T) {
	svc := newTestService(serviceSeed())
	tolerant := false

	result, err := svc.Score(context.Background(), &common.ScoreRequest{
		Ingredients: []common.IngredientInput{{Name: "cream", Grams: 200}},
	}, &prefs.UserPrefs{DairyTolerant: &tolerant}, nil)
	require.NoError(t, err)

	assert.Equal(t, common.LevelHighCaution, result.OrganLevels["gut"])
	assert.LessOrEqual(t, result.OrgansNormalized["gut"], -40)

	found := false
	for _, d := range result.OrganTopDrivers["gut"] {
		if d.CompoundID == "pref_dairy" {
			found = true
		}
	}
	assert.True(t, found, "dairy preference note missing from gut drivers")
	assert.Contains(t, result.RiskScore.Reasons, "preference override: dairy")
}

func TestScoreDeterministic(t *testing.T) {
	svc := newTestService(serviceSeed())

	a, err := svc.Score(context.Background(), &common.ScoreRequest{
		Ingredients: []common.IngredientInput{
			{Name: "onion", Grams: 50},
			{Name: "garlic", Grams: 10},
		},
	}, nil, nil)
	require.NoError(t, err)

	b, err := svc.Score(context.Background(), &common.ScoreRequest{
		Ingredients: []common.IngredientInput{
			{Name: "garlic", Grams: 10},
			{Name: "onion", Grams: 50},
		},
	}, nil, nil)
	require.NoError(t, err)

	// 相同組成，不同輸入順序 → 相同輸出
	assert.Equal(t, a.OrgansRaw, b.OrgansRaw)
	assert.Equal(t, a.OrgansNormalized, b.OrgansNormalized)
	assert.Equal(t, a.OrganTopDrivers, b.OrganTopDrivers)
	assert.Equal(t, a.CompoundsMg, b.CompoundsMg)
	assert.Equal(t, a.RiskScore, b.RiskScore)
}

func TestScoreAllLookupsFailed(t *testing.T) {
	svc := newTestService(serviceSeed())
	svc.stores.Yields = failingYields{}

	result, err := svc.Score(context.Background(), &common.ScoreRequest{
		Ingredients: []common.IngredientInput{{Name: "garlic", Grams: 10}},
	}, nil, nil)
	require.Nil(t, result)
	require.Error(t, err)

	ce, ok := common.AsCustomError(err)
	require.True(t, ok)
	assert.Equal(t, common.ErrKindUpstreamData, ce.Kind)
}

func TestScoreDegenerateIsNotAnError(t *testing.T) {
	svc := newTestService(serviceSeed())

	// 可解析但查無產率的食材：不是錯誤，回傳全 Neutral、空驅動的結果
	result, err := svc.Score(context.Background(), &common.ScoreRequest{
		Ingredients: []common.IngredientInput{{Name: "mystery_root", Grams: 100}},
	}, nil, nil)
	require.NoError(t, err)

	assert.Empty(t, result.CompoundsMg)
	for _, organ := range []string{"gut", "heart", "liver", "kidney", "brain", "skin"} {
		assert.Equal(t, 0, result.OrgansNormalized[organ])
		assert.Equal(t, common.LevelNeutral, result.OrganLevels[organ])
		assert.Empty(t, result.OrganTopDrivers[organ])
	}
}

func TestScoreLexiconFailureDegrades(t *testing.T) {
	svc := newTestService(serviceSeed())
	svc.stores.Lexicon = failingLexicon{}

	result, err := svc.Score(context.Background(), &common.ScoreRequest{
		Ingredients: []common.IngredientInput{{Name: "garlic", Grams: 10}},
	}, nil, nil)
	require.NoError(t, err)

	// 詞典故障降級為無命中，計分照常
	assert.Empty(t, result.Flags.Allergens)
	assert.Equal(t, lexicon.FodmapUnknown, result.Flags.Fodmap.Level)
}

func TestScorePrecomputedHits(t *testing.T) {
	svc := newTestService(serviceSeed())
	svc.stores.Lexicon = failingLexicon{}

	hits := []lexicon.Hit{
		{Term: "whole milk", Canonical: "whole milk", Classes: []string{"dairy"}, Allergens: []string{"milk"}, Fodmap: lexicon.FodmapLow, Weight: 5},
	}
	result, err := svc.Score(context.Background(), &common.ScoreRequest{
		Ingredients: []common.IngredientInput{{Name: "garlic", Grams: 10}},
	}, nil, hits)
	require.NoError(t, err)

	// 預先計算的命中跳過詞典解析
	assert.Equal(t, []string{"milk"}, result.Flags.Allergens)
	assert.Equal(t, 14, result.RiskScore.Score)
}

func TestScoreDevDebug(t *testing.T) {
	svc := newTestService(serviceSeed())

	result, err := svc.Score(context.Background(), &common.ScoreRequest{
		DishName:    "Garlic Pasta",
		Ingredients: []common.IngredientInput{{Name: "garlic", Grams: 10}, {Name: "unknown thing"}},
		Method:      "Roast",
		Dev:         true,
	}, nil, nil)
	require.NoError(t, err)

	require.NotNil(t, result.Debug)
	assert.Equal(t, []common.ResolvedIngredient{{Slug: "garlic", Grams: 10}}, result.Debug.Resolved)
	assert.Equal(t, []string{"unknown thing"}, result.Debug.DroppedIngredients)
	assert.Equal(t, 70.0, result.Debug.WeightKg)
	assert.Equal(t, "roast", result.Debug.Method)
	assert.Contains(t, result.Debug.LexiconCorpus, "Garlic Pasta")
}

func TestScoreDebugAbsentByDefault(t *testing.T) {
	svc := newTestService(serviceSeed())

	result, err := svc.Score(context.Background(), &common.ScoreRequest{
		Ingredients: []common.IngredientInput{{Name: "garlic", Grams: 10}},
	}, nil, nil)
	require.NoError(t, err)
	assert.Nil(t, result.Debug)
}

func TestScorePrefsFromStore(t *testing.T) {
	seed := serviceSeed()
	sensitive := true
	seed.Prefs["user-1"] = &prefs.UserPrefs{FodmapSensitive: sensitive}
	svc := newTestService(seed)

	result, err := svc.Score(context.Background(), &common.ScoreRequest{
		Ingredients: []common.IngredientInput{{Name: "garlic", Grams: 10}},
		UserID:      "user-1",
	}, nil, nil)
	require.NoError(t, err)

	// 偏好來自儲存層：allium 規則觸發
	assert.Equal(t, common.LevelHighCaution, result.OrganLevels["gut"])
	assert.Contains(t, result.RiskScore.Reasons, "preference override: allium")
}

func TestClassifyOnly(t *testing.T) {
	svc := newTestService(serviceSeed())

	flags, risk, err := svc.ClassifyOnly(context.Background(), "pasta with parmesan and garlic", nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"milk"}, flags.Allergens)
	assert.Equal(t, lexicon.FodmapHigh, flags.Fodmap.Level)
	assert.Equal(t, "garlic", flags.Fodmap.Reason)
	assert.Equal(t, common.RiskLabelAvoid, risk.Label)
}

func TestClassifyOnlyEmptyText(t *testing.T) {
	svc := newTestService(serviceSeed())

	_, _, err := svc.ClassifyOnly(context.Background(), "   ", nil)
	require.Error(t, err)
	ce, ok := common.AsCustomError(err)
	require.True(t, ok)
	assert.Equal(t, common.ErrKindInvalidInput, ce.Kind)
}
