package refdata

import (
	"context"
	"fmt"

	"dish-impact/internal/core/prefs"
	"dish-impact/internal/infrastructure/config"
	"dish-impact/internal/pkg/common"

	"github.com/go-redis/redis/v8"
)

// RedisPrefsStore Redis 上的使用者偏好儲存（只讀）
type RedisPrefsStore struct {
	client *redis.Client
}

// NewRedisPrefsStore 建立偏好儲存並測試連接
func NewRedisPrefsStore(cfg *config.RedisConfig) (*RedisPrefsStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	// 測試連接
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisPrefsStore{client: client}, nil
}

// Get 讀取使用者偏好；查無資料或未給 user id 時回傳預設值
func (s *RedisPrefsStore) Get(ctx context.Context, userID string) (*prefs.UserPrefs, error) {
	if userID == "" {
		return prefs.Defaults(), nil
	}

	data, err := s.client.Get(ctx, s.key(userID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return prefs.Defaults(), nil
		}
		return nil, fmt.Errorf("failed to get user prefs: %w", err)
	}

	var p prefs.UserPrefs
	if err := common.ParseJSONBytes(data, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user prefs: %w", err)
	}
	if p.Units == "" {
		p.Units = "metric"
	}
	return &p, nil
}

// Close 關閉連接
func (s *RedisPrefsStore) Close() error {
	return s.client.Close()
}

// key 生成偏好儲存鍵
func (s *RedisPrefsStore) key(userID string) string {
	return fmt.Sprintf("prefs:user:%s", userID)
}
