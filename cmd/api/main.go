package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dish-impact/internal/api"
	"dish-impact/internal/infrastructure/config"
	"dish-impact/internal/infrastructure/refdata"
	"dish-impact/internal/pkg/common"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 載入 .env
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}

	// 載入設定
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	// 使用 logger 記錄啟動信息
	common.LogInfo("載入設定",
		zap.Bool("refdata_remote", cfg.RefData.Remote),
		zap.Bool("redis_enabled", cfg.Redis.Enabled),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
	)

	// 初始化參考資料快取
	cache := refdata.NewCache(&cfg.Cache)
	// 只在快取開啟但初始化失敗時才 Fatal
	if cfg.Cache.Enabled && cache == nil {
		common.LogFatal("Failed to initialize refdata cache")
	}
	defer cache.Close()

	// 建立參考資料儲存：預設使用內建種子，可切換為遠端服務
	var stores *refdata.Stores
	if cfg.RefData.Remote {
		// 遠端模式下，使用者偏好另由 Redis 提供（未開啟時退回預設偏好）
		var prefsStore refdata.UserPreferenceStore
		if cfg.Redis.Enabled {
			redisPrefs, err := refdata.NewRedisPrefsStore(&cfg.Redis)
			if err != nil {
				common.LogFatal("Failed to connect to Redis", zap.Error(err))
			}
			defer redisPrefs.Close()
			prefsStore = redisPrefs
		}
		stores = refdata.NewRemoteStores(&cfg.RefData, cache, prefsStore)
	} else {
		stores = refdata.NewMemoryStores(refdata.DefaultSeed())
		if cfg.Redis.Enabled {
			redisPrefs, err := refdata.NewRedisPrefsStore(&cfg.Redis)
			if err != nil {
				common.LogFatal("Failed to connect to Redis", zap.Error(err))
			}
			defer redisPrefs.Close()
			stores.Prefs = redisPrefs
		}
	}

	// 設置路由
	router, err := api.SetupRouter(cfg, cache, stores)
	if err != nil {
		common.LogError("Failed to setup router", zap.Error(err))
		os.Exit(1)
	}

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Bool("debug", cfg.App.Debug),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			common.LogError("Failed to start server",
				zap.Error(err),
			)
			os.Exit(1)
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	// 設置關閉超時
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown",
			zap.Error(err),
		)
		os.Exit(1)
	}

	common.LogInfo("Server exited")
}
