package scoring

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"dish-impact/internal/infrastructure/refdata"
	"dish-impact/internal/pkg/common"

	"go.uber.org/zap"
)

// 名稱本身可直接當 slug 的形式
var slugPattern = regexp.MustCompile(`^[a-z0-9_]+$`)

// Resolution 食材解析結果
type Resolution struct {
	Inputs   []common.IngredientInput    // 正規化後的輸入回聲，含未解析者
	Resolved []common.ResolvedIngredient // 以 slug 聚合，slug 升冪
	Dropped  []string                    // 無法解析、不進入劑量計算的名稱
}

// ResolveIngredients 將原始食材列表正規化並解析為 slug 聚合質量。
// 先以原始名稱（不分大小寫）聚合克數，再逐一解析 slug，最後以 slug 再聚合。
// 解析順序：別名表（priority 最小者勝）→ 已是 slug 形式的名稱自用 → 捨棄。
func ResolveIngredients(ctx context.Context, inputs []common.IngredientInput, aliases refdata.AliasResolver, defaultGrams float64) *Resolution {
	if defaultGrams <= 0 {
		defaultGrams = 100
	}

	// 第一次聚合：原始名稱
	type rawEntry struct {
		name  string
		grams float64
	}
	order := make([]string, 0, len(inputs))
	byName := make(map[string]*rawEntry, len(inputs))
	for _, in := range inputs {
		name := strings.ToLower(strings.TrimSpace(in.Name))
		if name == "" {
			continue
		}
		grams := in.Grams
		if grams <= 0 {
			grams = defaultGrams
		}
		if entry, ok := byName[name]; ok {
			entry.grams += grams
		} else {
			byName[name] = &rawEntry{name: name, grams: grams}
			order = append(order, name)
		}
	}

	res := &Resolution{
		Inputs: make([]common.IngredientInput, 0, len(order)),
	}

	// 逐一解析 slug，第二次聚合
	slugOrder := make([]string, 0, len(order))
	bySlug := make(map[string]float64, len(order))
	for _, name := range order {
		entry := byName[name]
		res.Inputs = append(res.Inputs, common.IngredientInput{Name: entry.name, Grams: entry.grams})

		slug, ok := resolveSlug(ctx, aliases, entry.name)
		if !ok {
			res.Dropped = append(res.Dropped, entry.name)
			continue
		}
		if _, exists := bySlug[slug]; !exists {
			slugOrder = append(slugOrder, slug)
		}
		bySlug[slug] += entry.grams
	}

	// slug 升冪，讓相同組成無論輸入順序都得到相同輸出
	sort.Strings(slugOrder)
	res.Resolved = make([]common.ResolvedIngredient, 0, len(slugOrder))
	for _, slug := range slugOrder {
		res.Resolved = append(res.Resolved, common.ResolvedIngredient{Slug: slug, Grams: bySlug[slug]})
	}

	return res
}

// resolveSlug 解析單一名稱；別名查詢失敗時退回 slug 形式檢查
func resolveSlug(ctx context.Context, aliases refdata.AliasResolver, name string) (string, bool) {
	if aliases != nil {
		slug, ok, err := aliases.Resolve(ctx, name)
		if err != nil {
			common.LogWarn("別名解析失敗，退回 slug 形式檢查",
				zap.String("ingredient", name),
				zap.Error(err),
			)
		} else if ok {
			return slug, true
		}
	}
	if slugPattern.MatchString(name) {
		return name, true
	}
	return "", false
}
