package common

import (
	"fmt"
	"strings"
)

// IngredientInput 請求中的單一食材
type IngredientInput struct {
	Name  string  `json:"name"`
	Grams float64 `json:"grams,omitempty"` // 省略或非正值時預設 100g
}

// ResolvedIngredient 解析後以 slug 聚合的食材
type ResolvedIngredient struct {
	Slug  string  `json:"slug"`
	Grams float64 `json:"grams"`
}

// OrganLevel 器官影響等級
type OrganLevel string

const (
	LevelHighBenefit OrganLevel = "High Benefit"
	LevelBenefit     OrganLevel = "Benefit"
	LevelNeutral     OrganLevel = "Neutral"
	LevelCaution     OrganLevel = "Caution"
	LevelHighCaution OrganLevel = "High Caution"
)

// Driver 單一化合物對某器官的貢獻
type Driver struct {
	CompoundID   string  `json:"compound_id"`
	Name         string  `json:"name,omitempty"`
	Sign         int     `json:"sign"`
	Contribution float64 `json:"contribution"`
}

// FodmapFlag FODMAP 判定結果
type FodmapFlag struct {
	Level  string `json:"level"` // unknown / low / medium / high
	Reason string `json:"reason,omitempty"`
	Source string `json:"source,omitempty"`
}

// DishFlags 過敏原與 FODMAP 標記
type DishFlags struct {
	Allergens []string   `json:"allergens"`
	Fodmap    FodmapFlag `json:"fodmap"`
}

// RiskScore 菜餚整體飲食風險分數
type RiskScore struct {
	Score   int      `json:"score"` // 0–100
	Label   string   `json:"label"` // Avoid / Caution / Likely OK
	Reasons []string `json:"reasons"`
	Summary []string `json:"summary,omitempty"`
}

// 風險標籤
const (
	RiskLabelAvoid    = "Avoid"
	RiskLabelCaution  = "Caution"
	RiskLabelLikelyOK = "Likely OK"
)

// ScoreRequest 計分請求
type ScoreRequest struct {
	DishName    string            `json:"dish_name,omitempty"`
	Description string            `json:"description,omitempty"`
	Ingredients []IngredientInput `json:"ingredients"`
	Method      string            `json:"method,omitempty"`
	WeightKg    float64           `json:"weight_kg,omitempty"`
	UserID      string            `json:"user_id,omitempty"`
	Dev         bool              `json:"dev,omitempty"`
}

// ScoringDebug dev 模式附帶的診斷資訊，絕不影響計分
type ScoringDebug struct {
	Resolved            []ResolvedIngredient `json:"resolved"`
	DroppedIngredients  []string             `json:"dropped_ingredients,omitempty"`
	DegradedIngredients []string             `json:"degraded_ingredients,omitempty"`
	WeightKg            float64              `json:"weight_kg"`
	Method              string               `json:"method,omitempty"`
	LexiconCorpus       string               `json:"lexicon_corpus,omitempty"`
}

// ScoringResult 完整計分結果
type ScoringResult struct {
	Inputs           []IngredientInput     `json:"inputs"`
	OrgansRaw        map[string]float64    `json:"organs_raw"`
	OrgansNormalized map[string]int        `json:"organs_normalized"`
	OrganLevels      map[string]OrganLevel `json:"organ_levels"`
	OrganTopDrivers  map[string][]Driver   `json:"organ_top_drivers"`
	CompoundsMg      map[string]float64    `json:"compounds_mg"`
	Flags            DishFlags             `json:"flags"`
	RiskScore        RiskScore             `json:"risk_score"`
	Debug            *ScoringDebug         `json:"debug,omitempty"`
}

// FormatIngredientInputs 格式化食材列表（日誌用）
func FormatIngredientInputs(inputs []IngredientInput) string {
	parts := make([]string, 0, len(inputs))
	for _, in := range inputs {
		parts = append(parts, fmt.Sprintf("%s(%.0fg)", in.Name, in.Grams))
	}
	return strings.Join(parts, "、")
}
