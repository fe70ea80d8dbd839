package scoring

import (
	"context"
	"errors"
	"testing"

	"dish-impact/internal/infrastructure/refdata"
	"dish-impact/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingYields 模擬產率儲存故障
type failingYields struct{}

func (failingYields) LookupYields(ctx context.Context, key string) ([]refdata.CompoundYield, error) {
	return nil, errors.New("yield store down")
}

func doseStores() *refdata.Stores {
	return refdata.NewMemoryStores(&refdata.Seed{
		Yields: []refdata.CompoundYield{
			{Ingredient: "garlic", Slug: "garlic", CompoundID: "allicin", MgPer100g: 5},
			{Ingredient: "garlic", Slug: "garlic", CompoundID: "fructan", MgPer100g: 1700},
			{Ingredient: "onion", Slug: "onion", CompoundID: "fructan", MgPer100g: 2000},
		},
		Factors: map[string][]refdata.CookingFactor{
			"roast": {{CompoundID: "allicin", Factor: 0.3}},
			"burnt": {{CompoundID: "allicin", Factor: -1}},
		},
	})
}

func TestComputeDoses(t *testing.T) {
	stores := doseStores()
	resolved := []common.ResolvedIngredient{
		{Slug: "garlic", Grams: 10},
		{Slug: "onion", Grams: 50},
	}

	result := ComputeDoses(context.Background(), resolved, "", stores.Yields, stores.Factors)
	require.Empty(t, result.Degraded)

	// mg_per_100g × grams/100，跨食材累加
	assert.InDelta(t, 0.5, result.Doses["allicin"], 1e-9)
	assert.InDelta(t, 170+1000, result.Doses["fructan"], 1e-9)
	// 首次出現順序
	assert.Equal(t, []string{"allicin", "fructan"}, result.Order)
}

func TestComputeDosesCookingFactor(t *testing.T) {
	stores := doseStores()
	resolved := []common.ResolvedIngredient{{Slug: "garlic", Grams: 10}}

	result := ComputeDoses(context.Background(), resolved, "Roast", stores.Yields, stores.Factors)
	// 高溫分解：allicin ×0.3，fructan 查無配對 → 1
	assert.InDelta(t, 0.15, result.Doses["allicin"], 1e-9)
	assert.InDelta(t, 170, result.Doses["fructan"], 1e-9)
}

func TestComputeDosesUnknownMethod(t *testing.T) {
	stores := doseStores()
	resolved := []common.ResolvedIngredient{{Slug: "garlic", Grams: 10}}

	result := ComputeDoses(context.Background(), resolved, "saute", stores.Yields, stores.Factors)
	// 未知烹調方式全部視為 1
	assert.InDelta(t, 0.5, result.Doses["allicin"], 1e-9)
	assert.InDelta(t, 170, result.Doses["fructan"], 1e-9)
}

func TestComputeDosesNegativeFactorClamped(t *testing.T) {
	stores := doseStores()
	resolved := []common.ResolvedIngredient{{Slug: "garlic", Grams: 10}}

	result := ComputeDoses(context.Background(), resolved, "burnt", stores.Yields, stores.Factors)
	// 劑量不可為負
	assert.Equal(t, 0.0, result.Doses["allicin"])
}

func TestComputeDosesDegradesFailedLookup(t *testing.T) {
	stores := doseStores()
	resolved := []common.ResolvedIngredient{{Slug: "garlic", Grams: 10}}

	result := ComputeDoses(context.Background(), resolved, "", failingYields{}, stores.Factors)
	assert.Empty(t, result.Doses)
	assert.Equal(t, []string{"garlic"}, result.Degraded)
}

func TestComputeDosesUnknownIngredientContributesNothing(t *testing.T) {
	stores := doseStores()
	resolved := []common.ResolvedIngredient{
		{Slug: "garlic", Grams: 10},
		{Slug: "mystery", Grams: 100},
	}

	result := ComputeDoses(context.Background(), resolved, "", stores.Yields, stores.Factors)
	// 查無產率是空結果，不是錯誤，也不算降級
	assert.Empty(t, result.Degraded)
	assert.Len(t, result.Doses, 2)
}
