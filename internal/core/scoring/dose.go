package scoring

import (
	"context"

	"dish-impact/internal/infrastructure/refdata"
	"dish-impact/internal/pkg/common"

	"go.uber.org/zap"
)

// DoseResult 化合物劑量計算結果
type DoseResult struct {
	Doses    map[string]float64 // compound_id → 總毫克數（烹調調整後）
	Order    []string           // 化合物首次出現順序，之後的並列裁決用
	Degraded []string           // 查詢失敗、降級為零貢獻的食材
}

// ComputeDoses 由解析後的食材計算各化合物的總劑量。
// 每筆產率記錄貢獻 mg_per_100g × grams/100，跨食材累加；
// 最後乘上 (method, compound) 的烹調係數，查無者視為 1。
// 單一食材的產率查詢失敗只降級該食材，不中止整筆請求。
func ComputeDoses(ctx context.Context, resolved []common.ResolvedIngredient, method string,
	yields refdata.CompoundYieldStore, factors refdata.CookingFactorStore) *DoseResult {

	result := &DoseResult{
		Doses: make(map[string]float64),
	}

	for _, ing := range resolved {
		rows, err := yields.LookupYields(ctx, ing.Slug)
		if err != nil {
			common.LogWarn("產率查詢失敗，該食材降級為零貢獻",
				zap.String("slug", ing.Slug),
				zap.Error(err),
			)
			result.Degraded = append(result.Degraded, ing.Slug)
			continue
		}
		for _, row := range rows {
			if row.MgPer100g <= 0 {
				continue
			}
			if _, seen := result.Doses[row.CompoundID]; !seen {
				result.Order = append(result.Order, row.CompoundID)
			}
			result.Doses[row.CompoundID] += row.MgPer100g * ing.Grams / 100
		}
	}

	applyCookingFactors(ctx, result, method, factors)
	return result
}

// applyCookingFactors 套用烹調方式乘數；查詢失敗時全部視為 1
func applyCookingFactors(ctx context.Context, result *DoseResult, method string, factors refdata.CookingFactorStore) {
	if method == "" || len(result.Doses) == 0 {
		return
	}

	rows, err := factors.LookupFactors(ctx, method)
	if err != nil {
		common.LogWarn("烹調係數查詢失敗，全部視為 1",
			zap.String("method", method),
			zap.Error(err),
		)
		return
	}

	byCompound := make(map[string]float64, len(rows))
	for _, row := range rows {
		byCompound[row.CompoundID] = row.Factor
	}
	for compound, dose := range result.Doses {
		factor, ok := byCompound[compound]
		if !ok {
			continue // 未知配對預設 1
		}
		adjusted := dose * factor
		if adjusted < 0 {
			adjusted = 0 // 劑量不可為負
		}
		result.Doses[compound] = adjusted
	}
}
