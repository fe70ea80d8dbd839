package lexicon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFoldText(t *testing.T) {
	assert.Equal(t, "creme fraiche", FoldText("Crème Fraîche"))
	assert.Equal(t, "jalapeno", FoldText("Jalapeño"))
	assert.Equal(t, "garlic", FoldText("garlic"))
}

func TestContainsWordBoundary(t *testing.T) {
	// 詞邊界：egg 不可命中 eggplant
	assert.True(t, containsWord("scrambled egg on toast", "egg"))
	assert.False(t, containsWord("grilled eggplant", "egg"))
	assert.True(t, containsWord("egg", "egg"))
	assert.True(t, containsWord("salt, egg, pepper", "egg"))
	assert.False(t, containsWord("anything", ""))
}

func TestClassifyMatchesFoldedVariants(t *testing.T) {
	entries := []Entry{
		{Canonical: "cream", Terms: []string{"heavy cream", "cream"}, Classes: []string{"dairy"}, Allergens: []string{"milk"}, Fodmap: FodmapMedium, Weight: 4},
		{Canonical: "garlic", Terms: []string{"garlic"}, Classes: []string{"allium"}, Fodmap: FodmapHigh, Weight: 6},
	}

	hits := Classify("Pasta with Heavy Cream and garlíc", entries, 10)
	require.Len(t, hits, 2)

	byCanonical := make(map[string]Hit, len(hits))
	for _, h := range hits {
		byCanonical[h.Canonical] = h
	}
	// 每個條目以第一個命中的變體為準
	assert.Equal(t, "heavy cream", byCanonical["cream"].Term)
	assert.Equal(t, "garlic", byCanonical["garlic"].Term)
}

func TestClassifyNoHits(t *testing.T) {
	entries := []Entry{
		{Canonical: "garlic", Terms: []string{"garlic"}},
	}
	hits := Classify("plain rice", entries, 10)
	assert.Empty(t, hits)
}

func TestDedupKeepsMostSpecific(t *testing.T) {
	hits := []Hit{
		{Term: "milk", Canonical: "Whole Milk", Weight: 2},
		{Term: "whole milk", Canonical: "whole milk", Classes: []string{"dairy"}, Weight: 5, Source: "curated"},
		{Term: "garlic", Canonical: "garlic", Classes: []string{"allium"}, Weight: 6},
	}

	out := Dedup(hits, 10)
	require.Len(t, out, 2)

	// 正規名稱不分大小寫去重，保留特異度最高者
	seen := make(map[string]int)
	for _, h := range out {
		seen[FoldText(h.Canonical)]++
	}
	for canonical, count := range seen {
		assert.Equal(t, 1, count, "canonical %q appears more than once", canonical)
	}

	var milk Hit
	for _, h := range out {
		if FoldText(h.Canonical) == "whole milk" {
			milk = h
		}
	}
	assert.Equal(t, "whole milk", milk.Term)
	assert.Equal(t, "curated", milk.Source)
}

func TestDedupOrderAndCap(t *testing.T) {
	hits := []Hit{
		{Term: "a", Canonical: "a", Weight: 1},
		{Term: "garlic", Canonical: "garlic", Classes: []string{"allium"}, Weight: 6, Source: "curated"},
		{Term: "b", Canonical: "b", Weight: 2},
	}

	out := Dedup(hits, 2)
	require.Len(t, out, 2)
	// 特異度降冪
	assert.Equal(t, "garlic", out[0].Canonical)
	assert.Equal(t, "b", out[1].Canonical)
}

func TestInferAllergens(t *testing.T) {
	hits := []Hit{
		{Canonical: "parmesan", Classes: []string{"dairy"}, Allergens: []string{"milk"}},
		{Canonical: "wheat flour", Classes: []string{"gluten"}, Allergens: []string{"wheat"}},
		{Canonical: "shrimp", Classes: []string{"shellfish"}},
	}

	allergens := InferAllergens(hits)
	// 宣告 ∪ 規則推導，升冪排序
	assert.Equal(t, []string{"gluten", "milk", "shellfish", "wheat"}, allergens)
}

func TestInferAllergensBySubstring(t *testing.T) {
	hits := []Hit{
		{Canonical: "goat cheese"},
		{Canonical: "tahini"},
	}
	allergens := InferAllergens(hits)
	assert.Equal(t, []string{"milk", "sesame"}, allergens)
}

func TestWorstFodmap(t *testing.T) {
	hits := []Hit{
		{Canonical: "butter", Fodmap: FodmapLow, Source: "curated"},
		{Canonical: "garlic", Fodmap: FodmapHigh},
		{Canonical: "cream", Fodmap: FodmapMedium},
	}

	flag := WorstFodmap(hits)
	assert.Equal(t, FodmapHigh, flag.Level)
	assert.Equal(t, "garlic", flag.Reason)
	assert.Equal(t, "lexicon", flag.Source)
}

func TestWorstFodmapEmpty(t *testing.T) {
	flag := WorstFodmap(nil)
	assert.Equal(t, FodmapUnknown, flag.Level)
	assert.Empty(t, flag.Reason)
}
