package prefs

import (
	"strings"

	"dish-impact/internal/core/lexicon"
	"dish-impact/internal/pkg/common"
)

// 強制覆寫後的器官分數上限與風險分數上限
const (
	overrideOrganScoreCap = -40
	overrideRiskScoreCap  = 30 // 器官 -40 映射到 0–100 風險尺度
)

// Rule 偏好覆寫規則：觸發詞 → 器官 → 效果。
// 新規則加一列即可，不需要新增分支邏輯。
type Rule struct {
	Name      string
	Terms     []string
	Organ     string
	NoteID    string
	Note      string
	Triggered func(p *UserPrefs) bool
}

// Rules 內建規則表
var Rules = []Rule{
	{
		Name:   "dairy",
		Terms:  []string{"cream", "butter", "parmesan", "cheese", "milk", "yogurt"},
		Organ:  "gut",
		NoteID: "pref_dairy",
		Note:   "user is not dairy tolerant and dish contains a dairy ingredient",
		Triggered: func(p *UserPrefs) bool {
			return !p.ToleratesDairy()
		},
	},
	{
		Name:   "allium",
		Terms:  []string{"garlic", "onion", "shallot", "scallion", "chive"},
		Organ:  "gut",
		NoteID: "pref_allium",
		Note:   "user is FODMAP/allium sensitive and dish contains an allium ingredient",
		Triggered: func(p *UserPrefs) bool {
			return p.SensitiveToAllium()
		},
	},
}

// ApplyOverrides 將偏好規則套用到計分結果。
// 冪等：重複套用不會追加重覆備註，也不會讓分數再往下掉。
// 回傳實際觸發的規則名稱。
func ApplyOverrides(result *common.ScoringResult, p *UserPrefs, ingredientNames []string) []string {
	if result == nil {
		return nil
	}

	folded := make([]string, 0, len(ingredientNames))
	for _, name := range ingredientNames {
		folded = append(folded, lexicon.FoldText(name))
	}

	applied := make([]string, 0, len(Rules))
	for _, rule := range Rules {
		if !rule.Triggered(p) {
			continue
		}
		if !matchesAny(folded, rule.Terms) {
			continue
		}
		applyRule(result, rule)
		applied = append(applied, rule.Name)
	}
	return applied
}

// matchesAny 任一食材名稱含任一觸發詞即成立
func matchesAny(names []string, terms []string) bool {
	for _, name := range names {
		for _, term := range terms {
			if strings.Contains(name, term) {
				return true
			}
		}
	}
	return false
}

// applyRule 套用單一規則的效果
func applyRule(result *common.ScoringResult, rule Rule) {
	organ := rule.Organ

	// 強制器官等級與分數上限
	if result.OrganLevels == nil {
		result.OrganLevels = make(map[string]common.OrganLevel)
	}
	result.OrganLevels[organ] = common.LevelHighCaution
	if result.OrgansNormalized == nil {
		result.OrgansNormalized = make(map[string]int)
	}
	if cur, ok := result.OrgansNormalized[organ]; !ok || cur > overrideOrganScoreCap {
		result.OrgansNormalized[organ] = overrideOrganScoreCap
	}

	// 追加去重後的驅動備註
	if result.OrganTopDrivers == nil {
		result.OrganTopDrivers = make(map[string][]common.Driver)
	}
	drivers := result.OrganTopDrivers[organ]
	exists := false
	for _, d := range drivers {
		if d.CompoundID == rule.NoteID {
			exists = true
			break
		}
	}
	if !exists {
		result.OrganTopDrivers[organ] = append(drivers, common.Driver{
			CompoundID: rule.NoteID,
			Name:       rule.Note,
			Sign:       -1,
		})
	}

	// 風險分數上限，標籤隨之重算
	if result.RiskScore.Score > overrideRiskScoreCap {
		result.RiskScore.Score = overrideRiskScoreCap
	}
	result.RiskScore.Label = lexicon.LabelFor(result.RiskScore.Score)
	reason := "preference override: " + rule.Name
	if !hasReason(result.RiskScore.Reasons, reason) {
		result.RiskScore.Reasons = append(result.RiskScore.Reasons, reason)
	}
}

func hasReason(reasons []string, target string) bool {
	for _, r := range reasons {
		if r == target {
			return true
		}
	}
	return false
}
