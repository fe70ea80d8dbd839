package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 應用配置
type Config struct {
	App         AppConfig       `mapstructure:"app"`
	Server      ServerConfig    `mapstructure:"server"`
	RefData     RefDataConfig   `mapstructure:"refdata"`
	Redis       RedisConfig     `mapstructure:"redis"`
	Scoring     ScoringConfig   `mapstructure:"scoring"`
	Cache       CacheConfig     `mapstructure:"cache"`
	RateLimit   RateLimitConfig `mapstructure:"rate_limit"`
	DedupWindow time.Duration   `mapstructure:"dedup_window"`
	LogLevel    string          `mapstructure:"log_level"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env      string `mapstructure:"env"`
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
	Version  string `mapstructure:"version"`
	Name     string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// RefDataConfig 參考資料來源配置（別名、產率、烹調係數、器官邊表、詞典）
type RefDataConfig struct {
	Remote        bool          `mapstructure:"remote"`   // false 時使用內建種子資料
	BaseURL       string        `mapstructure:"base_url"` // 遠端參考資料服務
	APIKey        string        `mapstructure:"api_key"`
	LookupTimeout time.Duration `mapstructure:"lookup_timeout"` // 單次查詢的時間上限
}

// RedisConfig 使用者偏好儲存配置
type RedisConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
	DB      int    `mapstructure:"db"`
}

// ScoringConfig 計分引擎預設值
type ScoringConfig struct {
	DefaultGrams    float64 `mapstructure:"default_grams"`     // 食材未給克數時的預設
	DefaultWeightKg float64 `mapstructure:"default_weight_kg"` // 未給體重時的預設
	TopDrivers      int     `mapstructure:"top_drivers"`       // 每器官保留的主要貢獻數
	MaxLexiconHits  int     `mapstructure:"max_lexicon_hits"`  // 詞典命中上限
}

// CacheConfig 參考資料查詢快取配置
type CacheConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	MaxSize         int           `mapstructure:"max_size"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// LoadConfig 載入設定
func LoadConfig() (*Config, error) {
	// 加載 .env 文件
	if err := godotenv.Load(); err != nil {
		return nil, err
	}

	// 設定預設值
	setDefaults()

	// 設定環境變數前綴
	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// 綁定環境變量
	viper.BindEnv("refdata.remote", "REFDATA_REMOTE")
	viper.BindEnv("refdata.base_url", "REFDATA_BASE_URL")
	viper.BindEnv("refdata.api_key", "REFDATA_API_KEY")
	viper.BindEnv("redis.enabled", "REDIS_ENABLED")
	viper.BindEnv("redis.addr", "REDIS_ADDR")
	viper.BindEnv("cache.enabled", "CACHE_ENABLED")
	viper.BindEnv("rate_limit.enabled", "RATE_LIMIT_ENABLED")
	viper.BindEnv("rate_limit.requests", "RATE_LIMIT_REQUESTS")
	viper.BindEnv("rate_limit.window", "RATE_LIMIT_WINDOW")
	viper.BindEnv("dedup_window", "DEDUP_WINDOW")
	viper.BindEnv("log_level", "LOG_LEVEL")

	// 設定設定檔名稱和路徑
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	// 讀取設定檔
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// 解析設定
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 驗證必要設定
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// setDefaults 設定預設值
func setDefaults() {
	// 應用程式設定
	viper.SetDefault("app.env", "development")
	viper.SetDefault("app.debug", true)
	viper.SetDefault("app.log_level", "info")
	viper.SetDefault("app.version", "1.0.0")
	viper.SetDefault("app.name", "dish-impact")

	// 伺服器設定
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "120s")

	// 參考資料設定
	viper.SetDefault("refdata.remote", false)
	viper.SetDefault("refdata.base_url", "")
	viper.SetDefault("refdata.lookup_timeout", "3s")

	// Redis 設定
	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.db", 0)

	// 計分設定
	viper.SetDefault("scoring.default_grams", 100.0)
	viper.SetDefault("scoring.default_weight_kg", 70.0)
	viper.SetDefault("scoring.top_drivers", 2)
	viper.SetDefault("scoring.max_lexicon_hits", 25)

	// 快取設定
	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.max_size", 1000)
	viper.SetDefault("cache.ttl", "24h")
	viper.SetDefault("cache.cleanup_interval", "10m")

	// 限流設定
	viper.SetDefault("rate_limit.enabled", true)
	viper.SetDefault("rate_limit.requests", 100)
	viper.SetDefault("rate_limit.window", "1m")

	// dedup window 預設
	viper.SetDefault("dedup_window", "1s")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	// 驗證伺服器設定
	if config.Server.Port == 0 {
		return fmt.Errorf("server port is required")
	}

	// 驗證參考資料設定
	if config.RefData.Remote && config.RefData.BaseURL == "" {
		return fmt.Errorf("refdata base url is required in remote mode")
	}
	if config.RefData.LookupTimeout <= 0 {
		return fmt.Errorf("invalid refdata lookup timeout")
	}

	// 驗證計分設定
	if config.Scoring.DefaultGrams <= 0 {
		return fmt.Errorf("invalid default grams")
	}
	if config.Scoring.DefaultWeightKg <= 0 {
		return fmt.Errorf("invalid default weight")
	}
	if config.Scoring.TopDrivers <= 0 {
		return fmt.Errorf("invalid top drivers count")
	}
	if config.Scoring.MaxLexiconHits <= 0 {
		return fmt.Errorf("invalid lexicon hit cap")
	}

	// 驗證快取設定
	if config.Cache.Enabled {
		if config.Cache.MaxSize <= 0 {
			return fmt.Errorf("invalid cache max size")
		}
		if config.Cache.TTL <= 0 {
			return fmt.Errorf("invalid cache ttl")
		}
		if config.Cache.CleanupInterval <= 0 {
			return fmt.Errorf("invalid cache cleanup interval")
		}
	}

	return nil
}
