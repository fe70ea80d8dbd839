package scoring

import (
	"context"
	"math"
	"sort"

	"dish-impact/internal/infrastructure/refdata"
	"dish-impact/internal/pkg/common"

	"go.uber.org/zap"
)

// OrganScores 各器官的計分輸出
type OrganScores struct {
	Raw        map[string]float64
	Normalized map[string]int
	Levels     map[string]common.OrganLevel
	TopDrivers map[string][]common.Driver
}

// AggregateOrgans 將化合物劑量經 compound→organ 邊表轉為各器官的帶號貢獻。
// contribution = dose_mg / max(1, weight_kg) × strength × sign，每器官加總。
// 註冊表上的每個器官都會出現在輸出，無貢獻者為 0 / Neutral。
func AggregateOrgans(ctx context.Context, doses map[string]float64, order []string, weightKg float64, topN int,
	edgeStore refdata.OrganEdgeStore, registry refdata.OrganRegistry, compounds refdata.CompoundRegistry,
	defaultWeightKg float64) *OrganScores {

	if weightKg <= 0 {
		weightKg = defaultWeightKg
	}
	if weightKg <= 0 {
		weightKg = 70
	}
	denom := math.Max(1, weightKg)
	if topN <= 0 {
		topN = 2
	}

	// 只查有劑量的化合物，維持首次出現順序
	active := make([]string, 0, len(order))
	for _, compound := range order {
		if doses[compound] != 0 {
			active = append(active, compound)
		}
	}

	var edges []refdata.OrganEdge
	if len(active) > 0 {
		var err error
		edges, err = edgeStore.LookupEdges(ctx, active)
		if err != nil {
			// 邊表查詢失敗降級為無貢獻，不中止請求
			common.LogWarn("器官邊表查詢失敗，降級為無貢獻", zap.Error(err))
			edges = nil
		}
	}

	scores := &OrganScores{
		Raw:        make(map[string]float64),
		Normalized: make(map[string]int),
		Levels:     make(map[string]common.OrganLevel),
		TopDrivers: make(map[string][]common.Driver),
	}

	// 每器官保留全部 (compound, sign, contribution)，供排名與解釋
	contributions := make(map[string][]common.Driver)
	organOrder := make([]string, 0)
	for _, edge := range edges {
		dose := doses[edge.CompoundID]
		if dose == 0 || edge.Strength < 0 {
			continue
		}
		contribution := dose / denom * edge.Strength * float64(edge.Sign)
		if _, seen := contributions[edge.OrganID]; !seen {
			organOrder = append(organOrder, edge.OrganID)
		}
		contributions[edge.OrganID] = append(contributions[edge.OrganID], common.Driver{
			CompoundID:   edge.CompoundID,
			Sign:         edge.Sign,
			Contribution: contribution,
		})
		scores.Raw[edge.OrganID] += contribution
	}

	// 註冊表器官一律出現；失敗時採用靜態後備清單
	organs, err := registry.List(ctx)
	if err != nil || len(organs) == 0 {
		if err != nil {
			common.LogWarn("器官註冊表查詢失敗，採用靜態後備清單", zap.Error(err))
		}
		organs = refdata.DefaultOrgans
	}
	listed := make(map[string]bool, len(organs))
	for _, organ := range organs {
		listed[organ] = true
	}
	// 有貢獻但不在註冊表上的器官也要保留
	for _, organ := range organOrder {
		if !listed[organ] {
			organs = append(organs, organ)
			listed[organ] = true
		}
	}

	for _, organ := range organs {
		raw := scores.Raw[organ]
		scores.Raw[organ] = raw
		score := Normalize(raw)
		scores.Normalized[organ] = score
		scores.Levels[organ] = LevelFor(score)
		scores.TopDrivers[organ] = topDrivers(ctx, contributions[organ], topN, compounds)
	}

	return scores
}

// topDrivers 依絕對貢獻取前 n 名；並列時保留插入順序，再比 compound id 升冪
func topDrivers(ctx context.Context, drivers []common.Driver, n int, compounds refdata.CompoundRegistry) []common.Driver {
	if len(drivers) == 0 {
		return []common.Driver{}
	}

	ranked := make([]common.Driver, len(drivers))
	copy(ranked, drivers)
	sort.SliceStable(ranked, func(i, j int) bool {
		ai, aj := math.Abs(ranked[i].Contribution), math.Abs(ranked[j].Contribution)
		if ai != aj {
			return ai > aj
		}
		return false // 並列維持插入順序
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	for i := range ranked {
		if compounds != nil {
			ranked[i].Name = compounds.NameOf(ctx, ranked[i].CompoundID)
		}
	}
	return ranked
}

// Normalize 將原始貢獻飽和到 [-100, 100]：round(100·tanh(0.02·raw))
func Normalize(raw float64) int {
	return int(math.Round(100 * math.Tanh(0.02*raw)))
}

// LevelFor 分數到等級的對應，窮舉且單調
func LevelFor(score int) common.OrganLevel {
	switch {
	case score >= 30:
		return common.LevelHighBenefit
	case score >= 10:
		return common.LevelBenefit
	case score > -10:
		return common.LevelNeutral
	case score > -30:
		return common.LevelCaution
	default:
		return common.LevelHighCaution
	}
}
