package dish

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"dish-impact/internal/core/scoring"
	"dish-impact/internal/infrastructure/config"
	"dish-impact/internal/infrastructure/refdata"
	"dish-impact/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Scoring: config.ScoringConfig{
			DefaultGrams:    100,
			DefaultWeightKg: 70,
			TopDrivers:      2,
			MaxLexiconHits:  25,
		},
	}
	svc := scoring.NewService(cfg, refdata.NewMemoryStores(refdata.DefaultSeed()))
	h := NewHandler(svc)

	router := gin.New()
	router.POST("/api/v1/dish/score", h.HandleScore)
	router.POST("/api/v1/dish/classify", h.HandleClassify)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleScore(t *testing.T) {
	router := testRouter()

	w := postJSON(t, router, "/api/v1/dish/score",
		`{"dish_name":"Garlic Butter Pasta","ingredients":[{"name":"garlic","grams":10},{"name":"butter","grams":20}],"method":"fry","weight_kg":70}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	var result common.ScoringResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))

	// 每個註冊表器官都有等級
	for _, organ := range []string{"gut", "heart", "liver", "kidney", "brain", "skin"} {
		assert.Contains(t, result.OrganLevels, organ)
	}
	assert.Contains(t, result.Flags.Allergens, "milk")
	assert.NotEmpty(t, result.RiskScore.Label)
	assert.Nil(t, result.Debug)
}

func TestHandleScoreMalformedBody(t *testing.T) {
	router := testRouter()

	w := postJSON(t, router, "/api/v1/dish/score", `{"ingredients":`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body common.ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, common.ErrKindInvalidInput, body.Kind)
}

func TestHandleScoreEmptyIngredients(t *testing.T) {
	router := testRouter()

	w := postJSON(t, router, "/api/v1/dish/score", `{"ingredients":[]}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body common.ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, common.ErrKindInvalidInput, body.Kind)
}

func TestHandleScoreWithUserPrefs(t *testing.T) {
	router := testRouter()

	w := postJSON(t, router, "/api/v1/dish/score",
		`{"ingredients":[{"name":"cream","grams":200}],"user_prefs":{"dairy_tolerant":false}}`)
	require.Equal(t, http.StatusOK, w.Code)

	var result common.ScoringResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, common.LevelHighCaution, result.OrganLevels["gut"])
	assert.LessOrEqual(t, result.OrgansNormalized["gut"], -40)
	assert.Contains(t, result.RiskScore.Reasons, "preference override: dairy")
}

func TestHandleClassify(t *testing.T) {
	router := testRouter()

	w := postJSON(t, router, "/api/v1/dish/classify", `{"text":"shrimp fried rice with garlic"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp ClassifyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Flags.Allergens, "shellfish")
	assert.Equal(t, "high", resp.Flags.Fodmap.Level)
	assert.NotEmpty(t, resp.RiskScore.Reasons)
}

func TestHandleClassifyMissingText(t *testing.T) {
	router := testRouter()

	w := postJSON(t, router, "/api/v1/dish/classify", `{}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body common.ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, common.ErrKindInvalidInput, body.Kind)
}
