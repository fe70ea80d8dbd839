package refdata

import (
	"context"
	"sort"
	"strings"

	"dish-impact/internal/core/lexicon"
	"dish-impact/internal/core/prefs"
)

// Seed 一組完整的參考資料，供記憶體實作使用
type Seed struct {
	Aliases       []AliasRule
	Yields        []CompoundYield
	Factors       map[string][]CookingFactor // method（小寫）→ 乘數列表
	Edges         []OrganEdge
	Organs        []string
	CompoundNames map[string]string
	Lexicon       []lexicon.Entry
	Prefs         map[string]*prefs.UserPrefs
}

// MemoryStores 以記憶體資料實作全部參考資料介面，測試與獨立運行用
type MemoryStores struct {
	seed         *Seed
	yieldsBySlug map[string][]CompoundYield
	yieldsByName map[string][]CompoundYield
	edgesByComp  map[string][]OrganEdge
}

// NewMemoryStores 以給定的種子資料建立儲存集合
func NewMemoryStores(seed *Seed) *Stores {
	m := &MemoryStores{
		seed:         seed,
		yieldsBySlug: make(map[string][]CompoundYield),
		yieldsByName: make(map[string][]CompoundYield),
		edgesByComp:  make(map[string][]OrganEdge),
	}

	// 別名表維持 priority 升冪
	sort.SliceStable(seed.Aliases, func(i, j int) bool {
		return seed.Aliases[i].Priority < seed.Aliases[j].Priority
	})

	for _, y := range seed.Yields {
		if y.Slug != "" {
			m.yieldsBySlug[y.Slug] = append(m.yieldsBySlug[y.Slug], y)
		}
		if y.Ingredient != "" {
			key := strings.ToLower(y.Ingredient)
			m.yieldsByName[key] = append(m.yieldsByName[key], y)
		}
	}
	for _, e := range seed.Edges {
		m.edgesByComp[e.CompoundID] = append(m.edgesByComp[e.CompoundID], e)
	}

	return &Stores{
		Aliases:   m,
		Yields:    m,
		Factors:   m,
		Edges:     m,
		Organs:    m,
		Compounds: m,
		Lexicon:   m,
		Prefs:     m,
	}
}

// Resolve 依序比對別名規則，priority 最小的命中勝出
func (m *MemoryStores) Resolve(ctx context.Context, rawName string) (string, bool, error) {
	name := strings.ToLower(strings.TrimSpace(rawName))
	for _, rule := range m.seed.Aliases {
		if strings.Contains(name, strings.ToLower(rule.Pattern)) {
			return rule.Slug, true, nil
		}
	}
	return "", false, nil
}

// LookupYields 先以 slug 比對，查無時退回原始食材名稱
func (m *MemoryStores) LookupYields(ctx context.Context, key string) ([]CompoundYield, error) {
	if rows, ok := m.yieldsBySlug[key]; ok {
		return rows, nil
	}
	return m.yieldsByName[strings.ToLower(key)], nil
}

// LookupFactors 依烹調方式查詢乘數
func (m *MemoryStores) LookupFactors(ctx context.Context, method string) ([]CookingFactor, error) {
	return m.seed.Factors[strings.ToLower(method)], nil
}

// LookupEdges 依化合物集合查詢影響邊，維持輸入順序
func (m *MemoryStores) LookupEdges(ctx context.Context, compoundIDs []string) ([]OrganEdge, error) {
	var out []OrganEdge
	for _, id := range compoundIDs {
		out = append(out, m.edgesByComp[id]...)
	}
	return out, nil
}

// List 回傳正規器官清單
func (m *MemoryStores) List(ctx context.Context) ([]string, error) {
	if len(m.seed.Organs) == 0 {
		return DefaultOrgans, nil
	}
	return m.seed.Organs, nil
}

// NameOf 回傳化合物顯示名稱，查無時回傳 id 本身
func (m *MemoryStores) NameOf(ctx context.Context, compoundID string) string {
	if name, ok := m.seed.CompoundNames[compoundID]; ok {
		return name
	}
	return compoundID
}

// ResolveHits 以內建詞典分類文字
func (m *MemoryStores) ResolveHits(ctx context.Context, text string) ([]lexicon.Hit, error) {
	return lexicon.Classify(text, m.seed.Lexicon, lexicon.DefaultMaxHits), nil
}

// Get 讀取使用者偏好，查無時回傳預設值
func (m *MemoryStores) Get(ctx context.Context, userID string) (*prefs.UserPrefs, error) {
	if p, ok := m.seed.Prefs[userID]; ok {
		return p, nil
	}
	return prefs.Defaults(), nil
}
