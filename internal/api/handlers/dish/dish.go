package dish

import (
	"net/http"

	"dish-impact/internal/core/lexicon"
	"dish-impact/internal/core/prefs"
	"dish-impact/internal/core/scoring"
	"dish-impact/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ScoreRequest 菜餚計分請求
type ScoreRequest struct {
	DishName    string                   `json:"dish_name,omitempty"`
	Description string                   `json:"description,omitempty"`
	Ingredients []common.IngredientInput `json:"ingredients" binding:"required"`
	Method      string                   `json:"method,omitempty"`
	WeightKg    float64                  `json:"weight_kg,omitempty"`
	UserID      string                   `json:"user_id,omitempty"`
	UserPrefs   *prefs.UserPrefs         `json:"user_prefs,omitempty"` // 提供時優先於偏好儲存
	Hits        []lexicon.Hit            `json:"hits,omitempty"`       // 呼叫端預先算好的詞典命中
	Dev         bool                     `json:"dev,omitempty"`
}

// ClassifyRequest 純文字分類請求
type ClassifyRequest struct {
	Text string        `json:"text,omitempty"`
	Hits []lexicon.Hit `json:"hits,omitempty"`
}

// ClassifyResponse 純文字分類響應
type ClassifyResponse struct {
	Flags     common.DishFlags `json:"flags"`
	RiskScore common.RiskScore `json:"risk_score"`
}

// Handler 菜餚計分處理程序
type Handler struct {
	scoringService *scoring.Service
}

// NewHandler 創建新的計分處理程序
func NewHandler(scoringService *scoring.Service) *Handler {
	return &Handler{scoringService: scoringService}
}

// HandleScore 計算菜餚的器官影響分數與飲食風險
func (h *Handler) HandleScore(c *gin.Context) {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.New().String()
		c.Header("X-Request-ID", requestID)
	}

	common.LogInfo("開始處理菜餚計分請求",
		zap.String("request_id", requestID),
		zap.String("client_ip", c.ClientIP()),
	)

	var req ScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogError("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, common.ErrorBody{
			Kind: common.ErrKindInvalidInput,
			Hint: "請求格式無效",
		})
		return
	}

	serviceReq := &common.ScoreRequest{
		DishName:    req.DishName,
		Description: req.Description,
		Ingredients: req.Ingredients,
		Method:      req.Method,
		WeightKg:    req.WeightKg,
		UserID:      req.UserID,
		Dev:         req.Dev,
	}

	result, err := h.scoringService.Score(c.Request.Context(), serviceReq, req.UserPrefs, req.Hits)
	if err != nil {
		writeError(c, requestID, "菜餚計分失敗", err)
		return
	}

	common.LogInfo("菜餚計分成功",
		zap.String("request_id", requestID),
		zap.Int("ingredients", len(result.Inputs)),
		zap.Int("risk_score", result.RiskScore.Score),
	)

	c.JSON(http.StatusOK, result)
}

// HandleClassify 只跑詞典分類與風險分數，不需要結構化食材
func (h *Handler) HandleClassify(c *gin.Context) {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.New().String()
		c.Header("X-Request-ID", requestID)
	}

	var req ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogError("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, common.ErrorBody{
			Kind: common.ErrKindInvalidInput,
			Hint: "請求格式無效",
		})
		return
	}

	flags, risk, err := h.scoringService.ClassifyOnly(c.Request.Context(), req.Text, req.Hits)
	if err != nil {
		writeError(c, requestID, "菜餚分類失敗", err)
		return
	}

	common.LogInfo("菜餚分類成功",
		zap.String("request_id", requestID),
		zap.Int("allergens", len(flags.Allergens)),
	)

	c.JSON(http.StatusOK, ClassifyResponse{Flags: *flags, RiskScore: *risk})
}

// writeError 記錄錯誤並回傳結構化的 {kind, hint}，不外洩底層錯誤
func writeError(c *gin.Context, requestID, msg string, err error) {
	common.LogError(msg,
		zap.Error(err),
		zap.String("request_id", requestID),
	)
	if ce, ok := common.AsCustomError(err); ok {
		c.JSON(ce.Status, ce.Body())
		return
	}
	c.JSON(http.StatusInternalServerError, common.ErrInternalError.Body())
}
