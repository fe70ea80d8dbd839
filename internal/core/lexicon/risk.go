package lexicon

import (
	"fmt"
	"math"

	"dish-impact/internal/pkg/common"
)

// 各過敏原的固定風險權重，順序即 reasons 的輸出順序
var allergenWeights = []struct {
	name   string
	weight float64
}{
	{"milk", 18},
	{"egg", 12},
	{"fish", 16},
	{"shellfish", 20},
	{"tree_nut", 20},
	{"peanut", 22},
	{"wheat", 15},
	{"soy", 12},
	{"sesame", 15},
	{"mustard", 8},
	{"celery", 8},
	{"lupin", 10},
	{"sulphite", 6},
	{"mollusc", 16},
	{"gluten", 15},
}

// 各 FODMAP 等級的風險權重
var fodmapWeights = map[string]float64{
	FodmapHigh:    20,
	FodmapMedium:  12,
	FodmapLow:     3,
	FodmapUnknown: 5,
}

// ScoreRisk 將過敏原集合與 FODMAP 等級轉換為 0–100 的風險分數與標籤。
// 權重總和經 clamp 後即為分數，因此新增過敏原絕不會降低分數。
func ScoreRisk(allergens []string, fodmap common.FodmapFlag) common.RiskScore {
	present := make(map[string]bool, len(allergens))
	for _, a := range allergens {
		present[a] = true
	}

	var weight float64
	reasons := make([]string, 0, len(allergens)+1)
	for _, aw := range allergenWeights {
		if !present[aw.name] {
			continue
		}
		w := aw.weight
		// 低 FODMAP 的乳製品風險折減
		if aw.name == "milk" && fodmap.Level == FodmapLow {
			w *= 0.6
		}
		weight += w
		reasons = append(reasons, fmt.Sprintf("allergen %s (+%.1f)", aw.name, w))
	}

	level := fodmap.Level
	if level == "" {
		level = FodmapUnknown
	}
	fw := fodmapWeights[level]
	weight += fw
	if fodmap.Reason != "" {
		reasons = append(reasons, fmt.Sprintf("fodmap %s via %s (+%.1f)", level, fodmap.Reason, fw))
	} else {
		reasons = append(reasons, fmt.Sprintf("fodmap %s (+%.1f)", level, fw))
	}

	score := int(math.Round(100 * clamp01(weight/100)))
	return common.RiskScore{
		Score:   score,
		Label:   LabelFor(score),
		Reasons: reasons,
		Summary: buildSummary(allergens, fodmap, score),
	}
}

// LabelFor 分數到標籤的對應：分數越低，風險越高
func LabelFor(score int) string {
	switch {
	case score <= 39:
		return common.RiskLabelAvoid
	case score <= 69:
		return common.RiskLabelCaution
	default:
		return common.RiskLabelLikelyOK
	}
}

// buildSummary 產生最多 4 句摘要
func buildSummary(allergens []string, fodmap common.FodmapFlag, score int) []string {
	summary := make([]string, 0, 4)
	if len(allergens) > 0 {
		summary = append(summary, fmt.Sprintf("Contains %d flagged allergen(s).", len(allergens)))
	}
	if fodmap.Level != "" && fodmap.Level != FodmapUnknown {
		summary = append(summary, fmt.Sprintf("FODMAP level is %s.", fodmap.Level))
	}
	if fodmap.Reason != "" {
		summary = append(summary, fmt.Sprintf("Main trigger: %s.", fodmap.Reason))
	}
	summary = append(summary, fmt.Sprintf("Risk score %d, label %s.", score, LabelFor(score)))
	if len(summary) > 4 {
		summary = summary[:4]
	}
	return summary
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
