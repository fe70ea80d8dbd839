package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"dish-impact/internal/api/handlers/dish"
	"dish-impact/internal/api/handlers/health"
	"dish-impact/internal/api/middleware"
	"dish-impact/internal/core/scoring"
	"dish-impact/internal/infrastructure/config"
	"dish-impact/internal/infrastructure/refdata"
	"dish-impact/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// 超時設置
	timeoutDuration = 30 * time.Second
	// 請求體大小限制 (1MB)，計分請求只有食材列表，不需要更大
	maxBodySize = 1 << 20
)

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, cache *refdata.Cache, stores *refdata.Stores) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 創建路由引擎
	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New()) // 自動生成請求 ID

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(maxBodySize))

	// 請求限流與去重
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	router.Use(middleware.Deduplication(cfg))

	common.LogInfo("Initializing services",
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.Bool("remote_refdata", cfg.RefData.Remote),
		zap.Duration("timeout", timeoutDuration),
	)

	// 初始化計分服務
	if stores == nil {
		common.LogError("Reference data stores not initialized")
		return nil, fmt.Errorf("reference data stores not initialized")
	}
	scoringSvc := scoring.NewService(cfg, stores)
	if scoringSvc == nil {
		common.LogError("Failed to initialize scoring service")
		return nil, fmt.Errorf("failed to initialize scoring service")
	}

	// 全局中間件：設置超時和服務
	router.Use(func(c *gin.Context) {
		// 設置請求超時
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)

		// 設置配置與快取，供健康檢查使用
		c.Set("config", cfg)
		c.Set("refdata_cache", cache)

		// 處理請求
		c.Next()

		// 檢查是否超時
		if ctx.Err() == context.DeadlineExceeded {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetHeader("X-Request-ID")),
				zap.Duration("timeout", timeoutDuration),
			)
			c.AbortWithStatusJSON(http.StatusGatewayTimeout, common.ErrRequestTimeout.Body())
			return
		}
	})

	// 健康檢查路由
	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	// API 路由組
	api := router.Group("/api/v1")
	{
		dishHandler := dish.NewHandler(scoringSvc)

		// 註冊料理計分相關路由
		dishGroup := api.Group("/dish")
		{
			// 料理計分：食材列表 → 器官分數與風險分數
			dishGroup.POST("/score", dishHandler.HandleScore)

			// 文字分類：只跑過敏原 / FODMAP 標註，不計分
			dishGroup.POST("/classify", dishHandler.HandleClassify)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, nil
}
