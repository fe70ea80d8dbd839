package lexicon

import (
	"sort"
	"strings"
	"unicode"

	"dish-impact/internal/pkg/common"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultMaxHits 命中數上限
const DefaultMaxHits = 25

// 去除變音符號用的轉換器
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// FoldText 轉小寫並去除變音符號，供比對使用
func FoldText(s string) string {
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

// containsWord 以詞邊界檢查 term 是否出現在已折疊的語料中
func containsWord(corpus, term string) bool {
	if term == "" {
		return false
	}
	for start := 0; ; {
		idx := strings.Index(corpus[start:], term)
		if idx < 0 {
			return false
		}
		idx += start
		end := idx + len(term)
		// 前後相鄰字符不可為字母或數字
		boundaryBefore := idx == 0 || !isWordByte(corpus[idx-1])
		boundaryAfter := end == len(corpus) || !isWordByte(corpus[end])
		if boundaryBefore && boundaryAfter {
			return true
		}
		start = idx + 1
	}
}

func isWordByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9') || b >= 0x80
}

// specificity 命中的特異度：類別加成、來源加成、詞長與宣告權重
func specificity(h Hit) float64 {
	score := h.Weight + float64(len(h.Term))
	for _, class := range h.Classes {
		switch class {
		case "dairy", "gluten", "allium":
			score += 8
		}
	}
	if h.Source == "curated" {
		score += 4
	}
	return score
}

// Classify 以詞邊界、大小寫與變音折疊後的子字串比對，找出語料命中的詞典條目。
// 每個條目以第一個命中的詞彙變體為準；以正規名稱去重，保留特異度最高者。
func Classify(corpus string, entries []Entry, maxHits int) []Hit {
	if maxHits <= 0 {
		maxHits = DefaultMaxHits
	}
	folded := FoldText(corpus)

	// 逐條目比對，第一個命中的變體勝出
	hits := make([]Hit, 0, len(entries))
	for _, entry := range entries {
		for _, term := range entry.Terms {
			if containsWord(folded, FoldText(term)) {
				hits = append(hits, Hit{
					Term:      term,
					Canonical: entry.Canonical,
					Classes:   entry.Classes,
					Tags:      entry.Tags,
					Allergens: entry.Allergens,
					Fodmap:    entry.Fodmap,
					Weight:    entry.Weight,
					Source:    entry.Source,
				})
				break
			}
		}
	}

	return Dedup(hits, maxHits)
}

// Dedup 以小寫正規名稱為鍵去重，留下特異度最高的命中，
// 平手時比較詞長，再比較正規名稱，最後截斷至 maxHits。
func Dedup(hits []Hit, maxHits int) []Hit {
	if maxHits <= 0 {
		maxHits = DefaultMaxHits
	}
	byKey := make(map[string]Hit)
	for _, h := range hits {
		key := strings.ToLower(h.Canonical)
		kept, exists := byKey[key]
		if !exists || betterHit(h, kept) {
			byKey[key] = h
		}
	}

	out := make([]Hit, 0, len(byKey))
	for _, h := range byKey {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool {
		si, sj := specificity(out[i]), specificity(out[j])
		if si != sj {
			return si > sj
		}
		if len(out[i].Term) != len(out[j].Term) {
			return len(out[i].Term) > len(out[j].Term)
		}
		return out[i].Canonical < out[j].Canonical
	})
	if len(out) > maxHits {
		out = out[:maxHits]
	}
	return out
}

// betterHit 判斷 a 是否應取代 b
func betterHit(a, b Hit) bool {
	sa, sb := specificity(a), specificity(b)
	if sa != sb {
		return sa > sb
	}
	if len(a.Term) != len(b.Term) {
		return len(a.Term) > len(b.Term)
	}
	return a.Canonical < b.Canonical
}

// 由類別、標籤或名稱子字串推導過敏原的規則表
var allergenRules = []struct {
	allergen string
	classes  []string
	substrs  []string
}{
	{"milk", []string{"dairy"}, []string{"milk", "cheese", "butter", "cream", "yogurt"}},
	{"gluten", []string{"gluten"}, []string{"gluten", "barley", "rye"}},
	{"wheat", nil, []string{"wheat", "flour"}},
	{"shellfish", []string{"shellfish"}, []string{"shrimp", "prawn", "crab", "lobster"}},
	{"fish", []string{"fish"}, []string{"salmon", "tuna", "cod", "anchovy", "mackerel", "sardine"}},
	{"soy", []string{"soy"}, []string{"soy", "tofu", "edamame"}},
	{"egg", []string{"egg"}, []string{"egg"}},
	{"sesame", nil, []string{"sesame", "tahini"}},
}

// InferAllergens 合併宣告的過敏原與由類別/標籤/名稱規則推導的過敏原
func InferAllergens(hits []Hit) []string {
	set := make(map[string]bool)
	for _, h := range hits {
		for _, a := range h.Allergens {
			set[strings.ToLower(a)] = true
		}
		name := FoldText(h.Canonical)
		for _, rule := range allergenRules {
			if set[rule.allergen] {
				continue
			}
			for _, class := range rule.classes {
				if hasString(h.Classes, class) || hasString(h.Tags, class) {
					set[rule.allergen] = true
					break
				}
			}
			if !set[rule.allergen] {
				for _, sub := range rule.substrs {
					if strings.Contains(name, sub) {
						set[rule.allergen] = true
						break
					}
				}
			}
		}
	}

	out := make([]string, 0, len(set))
	for a := range set {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

func hasString(values []string, target string) bool {
	for _, v := range values {
		if strings.EqualFold(v, target) {
			return true
		}
	}
	return false
}

// WorstFodmap 回傳所有命中裡最嚴重的 FODMAP 等級（unknown < low < medium < high）
func WorstFodmap(hits []Hit) common.FodmapFlag {
	flag := common.FodmapFlag{Level: FodmapUnknown}
	worst := -1
	for _, h := range hits {
		level := h.Fodmap
		if level == "" {
			continue
		}
		if rank := FodmapRank(level); rank > worst {
			worst = rank
			flag.Level = level
			flag.Reason = h.Canonical
			flag.Source = h.Source
			if flag.Source == "" {
				flag.Source = "lexicon"
			}
		}
	}
	return flag
}
