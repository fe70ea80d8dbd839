package scoring

import (
	"context"
	"net/http"
	"strings"

	"dish-impact/internal/core/lexicon"
	"dish-impact/internal/core/prefs"
	"dish-impact/internal/infrastructure/config"
	"dish-impact/internal/infrastructure/refdata"
	"dish-impact/internal/pkg/common"

	"go.uber.org/zap"
)

// Service 計分協調器：resolve → dose → aggregate → normalize → classify → override。
// 全部參考資料只讀，單次請求內循序執行，無共享可變狀態，併發呼叫彼此獨立。
type Service struct {
	cfg    *config.Config
	stores *refdata.Stores
}

// NewService 創建計分服務
func NewService(cfg *config.Config, stores *refdata.Stores) *Service {
	if cfg == nil || stores == nil {
		return nil
	}
	return &Service{cfg: cfg, stores: stores}
}

// Score 執行完整計分管線。
// overridePrefs 非 nil 時優先於偏好儲存；precomputedHits 非空時跳過詞典解析。
func (s *Service) Score(ctx context.Context, req *common.ScoreRequest,
	overridePrefs *prefs.UserPrefs, precomputedHits []lexicon.Hit) (*common.ScoringResult, error) {

	// 輸入驗證：正規化後食材列表不可為空
	resolution := ResolveIngredients(ctx, req.Ingredients, s.stores.Aliases, s.cfg.Scoring.DefaultGrams)
	if len(resolution.Inputs) == 0 {
		return nil, common.ErrInvalidInput
	}

	// 劑量與器官貢獻
	doses := ComputeDoses(ctx, resolution.Resolved, req.Method, s.stores.Yields, s.stores.Factors)
	if len(resolution.Resolved) > 0 && len(doses.Degraded) == len(resolution.Resolved) && len(doses.Doses) == 0 {
		// 每個食材的查詢都失敗：產率儲存整體不可用
		return nil, common.NewError(common.ErrKindUpstreamData, "產率資料暫時無法取得", http.StatusServiceUnavailable, nil)
	}
	organs := AggregateOrgans(ctx, doses.Doses, doses.Order, req.WeightKg, s.cfg.Scoring.TopDrivers,
		s.stores.Edges, s.stores.Organs, s.stores.Compounds, s.cfg.Scoring.DefaultWeightKg)

	// 詞典分類與風險分數
	corpus := buildCorpus(req, resolution)
	hits := precomputedHits
	if len(hits) == 0 {
		var err error
		hits, err = s.stores.Lexicon.ResolveHits(ctx, corpus)
		if err != nil {
			// 詞典不可用時降級為無命中，不中止請求
			common.LogWarn("詞典解析失敗，降級為無命中", zap.Error(err))
			hits = nil
		}
	}
	hits = lexicon.Dedup(hits, s.cfg.Scoring.MaxLexiconHits)
	allergens := lexicon.InferAllergens(hits)
	fodmap := lexicon.WorstFodmap(hits)
	risk := lexicon.ScoreRisk(allergens, fodmap)

	result := &common.ScoringResult{
		Inputs:           resolution.Inputs,
		OrgansRaw:        organs.Raw,
		OrgansNormalized: organs.Normalized,
		OrganLevels:      organs.Levels,
		OrganTopDrivers:  organs.TopDrivers,
		CompoundsMg:      doses.Doses,
		Flags: common.DishFlags{
			Allergens: allergens,
			Fodmap:    fodmap,
		},
		RiskScore: risk,
	}

	// 偏好覆寫
	userPrefs := s.loadPrefs(ctx, req.UserID, overridePrefs)
	ingredientNames := make([]string, 0, len(resolution.Resolved))
	for _, ing := range resolution.Resolved {
		ingredientNames = append(ingredientNames, ing.Slug)
	}
	applied := prefs.ApplyOverrides(result, userPrefs, ingredientNames)
	if len(applied) > 0 {
		common.LogInfo("偏好覆寫已套用", zap.Strings("rules", applied))
	}

	// dev 模式診斷，絕不影響計分
	if req.Dev {
		result.Debug = &common.ScoringDebug{
			Resolved:            resolution.Resolved,
			DroppedIngredients:  resolution.Dropped,
			DegradedIngredients: doses.Degraded,
			WeightKg:            effectiveWeight(req.WeightKg, s.cfg.Scoring.DefaultWeightKg),
			Method:              strings.ToLower(req.Method),
			LexiconCorpus:       corpus,
		}
	}

	return result, nil
}

// ClassifyOnly 只跑詞典/風險路徑，供無結構化食材資料的呼叫端使用
func (s *Service) ClassifyOnly(ctx context.Context, text string, precomputedHits []lexicon.Hit) (*common.DishFlags, *common.RiskScore, error) {
	hits := precomputedHits
	if len(hits) == 0 {
		if strings.TrimSpace(text) == "" {
			return nil, nil, common.NewError(common.ErrKindInvalidInput, "缺少分類文字", http.StatusBadRequest, nil)
		}
		var err error
		hits, err = s.stores.Lexicon.ResolveHits(ctx, text)
		if err != nil {
			return nil, nil, common.NewError(common.ErrKindUpstreamData, "詞典暫時無法取得", http.StatusServiceUnavailable, err)
		}
	}
	hits = lexicon.Dedup(hits, s.cfg.Scoring.MaxLexiconHits)
	allergens := lexicon.InferAllergens(hits)
	fodmap := lexicon.WorstFodmap(hits)
	risk := lexicon.ScoreRisk(allergens, fodmap)
	flags := &common.DishFlags{Allergens: allergens, Fodmap: fodmap}
	return flags, &risk, nil
}

// loadPrefs 取得使用者偏好：請求內嵌 → 偏好儲存 → 預設值
func (s *Service) loadPrefs(ctx context.Context, userID string, override *prefs.UserPrefs) *prefs.UserPrefs {
	if override != nil {
		return override
	}
	if userID != "" && s.stores.Prefs != nil {
		p, err := s.stores.Prefs.Get(ctx, userID)
		if err != nil {
			common.LogWarn("偏好讀取失敗，採用預設值",
				zap.String("user_id", userID),
				zap.Error(err),
			)
		} else if p != nil {
			return p
		}
	}
	return prefs.Defaults()
}

// buildCorpus 組合詞典比對語料：菜名 + 描述 + 食材名稱
func buildCorpus(req *common.ScoreRequest, resolution *Resolution) string {
	parts := make([]string, 0, len(resolution.Inputs)+2)
	if req.DishName != "" {
		parts = append(parts, req.DishName)
	}
	if req.Description != "" {
		parts = append(parts, req.Description)
	}
	for _, in := range resolution.Inputs {
		parts = append(parts, in.Name)
	}
	return strings.Join(parts, " ")
}

func effectiveWeight(weightKg, defaultWeightKg float64) float64 {
	if weightKg > 0 {
		return weightKg
	}
	if defaultWeightKg > 0 {
		return defaultWeightKg
	}
	return 70
}
