package lexicon

// Entry 詞典條目：一個正規名稱加上它的詞彙變體與分類標記
type Entry struct {
	Canonical string   `json:"canonical"`
	Terms     []string `json:"terms"`
	Classes   []string `json:"classes,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	Allergens []string `json:"allergens,omitempty"`
	Fodmap    string   `json:"fodmap,omitempty"` // unknown / low / medium / high
	Weight    float64  `json:"weight,omitempty"`
	Source    string   `json:"source,omitempty"` // lexicon / curated
}

// Hit 命中的詞典條目
type Hit struct {
	Term      string   `json:"term"` // 實際命中的詞彙變體
	Canonical string   `json:"canonical"`
	Classes   []string `json:"classes,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	Allergens []string `json:"allergens,omitempty"`
	Fodmap    string   `json:"fodmap,omitempty"`
	Weight    float64  `json:"weight,omitempty"`
	Source    string   `json:"source,omitempty"`
}

// FODMAP 等級，順序代表嚴重度
const (
	FodmapUnknown = "unknown"
	FodmapLow     = "low"
	FodmapMedium  = "medium"
	FodmapHigh    = "high"
)

var fodmapRank = map[string]int{
	FodmapUnknown: 0,
	FodmapLow:     1,
	FodmapMedium:  2,
	FodmapHigh:    3,
}

// FodmapRank 回傳 FODMAP 等級的嚴重度排名，未知字串視為 unknown
func FodmapRank(level string) int {
	return fodmapRank[level]
}
