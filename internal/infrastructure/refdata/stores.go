package refdata

import (
	"context"

	"dish-impact/internal/core/lexicon"
	"dish-impact/internal/core/prefs"
)

// AliasRule 別名規則：pattern 以子字串比對原始名稱，priority 小者優先
type AliasRule struct {
	Pattern  string `json:"pattern"`
	Slug     string `json:"slug"`
	Priority int    `json:"priority"`
}

// CompoundYield 食材到化合物的產率（每 100g 食材的化合物毫克數）
type CompoundYield struct {
	Ingredient string  `json:"ingredient"`
	Slug       string  `json:"slug"`
	CompoundID string  `json:"compound_id"`
	MgPer100g  float64 `json:"mg_per_100g"`
}

// CookingFactor 烹調方式對化合物劑量的乘數
type CookingFactor struct {
	CompoundID string  `json:"compound_id"`
	Factor     float64 `json:"factor"`
}

// OrganEdge 化合物對器官的影響邊
type OrganEdge struct {
	CompoundID string  `json:"compound_id"`
	OrganID    string  `json:"organ_id"`
	Sign       int     `json:"sign"`     // ±1
	Strength   float64 `json:"strength"` // ≥0
	Evidence   string  `json:"evidence,omitempty"`
}

// AliasResolver 將原始食材名稱解析為正規 slug
type AliasResolver interface {
	Resolve(ctx context.Context, rawName string) (slug string, ok bool, err error)
}

// CompoundYieldStore 依 slug（或原始名稱）查詢產率記錄
type CompoundYieldStore interface {
	LookupYields(ctx context.Context, key string) ([]CompoundYield, error)
}

// CookingFactorStore 依烹調方式查詢化合物乘數
type CookingFactorStore interface {
	LookupFactors(ctx context.Context, method string) ([]CookingFactor, error)
}

// OrganEdgeStore 依化合物集合查詢器官影響邊
type OrganEdgeStore interface {
	LookupEdges(ctx context.Context, compoundIDs []string) ([]OrganEdge, error)
}

// OrganRegistry 正規器官清單
type OrganRegistry interface {
	List(ctx context.Context) ([]string, error)
}

// CompoundRegistry 化合物顯示名稱
type CompoundRegistry interface {
	NameOf(ctx context.Context, compoundID string) string
}

// LexiconService 由自由文字解析詞典命中
type LexiconService interface {
	ResolveHits(ctx context.Context, text string) ([]lexicon.Hit, error)
}

// UserPreferenceStore 讀取使用者偏好；查無資料時回傳預設值
type UserPreferenceStore interface {
	Get(ctx context.Context, userID string) (*prefs.UserPrefs, error)
}

// Stores 計分引擎需要的全部只讀參考資料
type Stores struct {
	Aliases   AliasResolver
	Yields    CompoundYieldStore
	Factors   CookingFactorStore
	Edges     OrganEdgeStore
	Organs    OrganRegistry
	Compounds CompoundRegistry
	Lexicon   LexiconService
	Prefs     UserPreferenceStore
}

// DefaultOrgans 器官註冊表無法取得時的靜態後備清單
var DefaultOrgans = []string{"gut", "heart", "liver", "kidney", "brain", "skin"}
