package refdata

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"dish-impact/internal/infrastructure/config"
	"dish-impact/internal/pkg/common"

	"go.uber.org/zap"
)

// ErrCacheMiss 快取未命中或已停用
var ErrCacheMiss = errors.New("cache miss")

// Cache 參考資料查詢快取。
// 只是查詢層的最佳化：有沒有快取，計分結果必須完全相同。
type Cache struct {
	config *config.CacheConfig
	mu     sync.Mutex
	store  map[string]cacheEntry
	stats  cacheStats
	done   chan struct{}
}

// cacheEntry 快取條目
type cacheEntry struct {
	value       string
	expiresAt   time.Time
	lastAccess  time.Time
	accessCount int
}

// cacheStats 快取統計
type cacheStats struct {
	hits      int64
	misses    int64
	evictions int64
}

// NewCache 創建查詢快取；停用時回傳 nil
func NewCache(cfg *config.CacheConfig) *Cache {
	if cfg == nil || !cfg.Enabled {
		common.LogInfo("參考資料快取停用")
		return nil
	}

	c := &Cache{
		config: cfg,
		store:  make(map[string]cacheEntry),
		done:   make(chan struct{}),
	}

	// 啟動清理過期條目的協程
	go c.startCleanup()

	common.LogInfo("參考資料快取已初始化",
		zap.Int("最大容量", cfg.MaxSize),
		zap.Duration("存活時間", cfg.TTL),
		zap.Duration("清理間隔", cfg.CleanupInterval),
	)

	return c
}

// CacheKey 由儲存名稱與查詢參數生成快取鍵
func CacheKey(store, query string) string {
	hash := sha256.Sum256([]byte(store + ":" + query))
	return store + ":" + hex.EncodeToString(hash[:])
}

// Get 獲取快取值
func (c *Cache) Get(key string) (string, error) {
	if c == nil {
		return "", ErrCacheMiss
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.store[key]
	if !exists {
		c.stats.misses++
		return "", ErrCacheMiss
	}
	if time.Now().After(entry.expiresAt) {
		delete(c.store, key)
		c.stats.evictions++
		c.stats.misses++
		return "", ErrCacheMiss
	}

	// 更新訪問統計
	entry.lastAccess = time.Now()
	entry.accessCount++
	c.store[key] = entry
	c.stats.hits++
	return entry.value, nil
}

// Set 設置快取值
func (c *Cache) Set(key, value string) {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// 容量已滿時先清過期，再做 LRU 淘汰
	if len(c.store) >= c.config.MaxSize {
		c.cleanupLocked()
		for len(c.store) >= c.config.MaxSize {
			c.evictLRULocked()
		}
	}

	now := time.Now()
	c.store[key] = cacheEntry{
		value:      value,
		expiresAt:  now.Add(c.config.TTL),
		lastAccess: now,
	}
}

// startCleanup 啟動清理過期條目的協程
func (c *Cache) startCleanup() {
	ticker := time.NewTicker(c.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.mu.Lock()
			c.cleanupLocked()
			c.mu.Unlock()
		case <-c.done:
			return
		}
	}
}

// cleanupLocked 清理過期條目，呼叫者需持鎖
func (c *Cache) cleanupLocked() {
	now := time.Now()
	count := 0
	for key, entry := range c.store {
		if now.After(entry.expiresAt) {
			delete(c.store, key)
			count++
			c.stats.evictions++
		}
	}
	if count > 0 {
		common.LogDebug("快取清理執行",
			zap.Int("清理數量", count),
			zap.Int("剩餘容量", len(c.store)),
		)
	}
}

// evictLRULocked 淘汰最少使用的條目，呼叫者需持鎖
func (c *Cache) evictLRULocked() {
	var oldestKey string
	var oldestAccess time.Time
	var lowestCount int

	for key, entry := range c.store {
		if oldestKey == "" ||
			entry.accessCount < lowestCount ||
			(entry.accessCount == lowestCount && entry.lastAccess.Before(oldestAccess)) {
			oldestKey = key
			oldestAccess = entry.lastAccess
			lowestCount = entry.accessCount
		}
	}

	if oldestKey == "" {
		return
	}
	delete(c.store, oldestKey)
	c.stats.evictions++
}

// Stats 獲取快取統計信息
func (c *Cache) Stats() map[string]interface{} {
	if c == nil {
		return map[string]interface{}{"enabled": false}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	total := c.stats.hits + c.stats.misses
	ratio := 0.0
	if total > 0 {
		ratio = float64(c.stats.hits) / float64(total)
	}
	return map[string]interface{}{
		"enabled":   true,
		"size":      len(c.store),
		"max_size":  c.config.MaxSize,
		"hits":      c.stats.hits,
		"misses":    c.stats.misses,
		"evictions": c.stats.evictions,
		"hit_ratio": ratio,
	}
}

// Close 關閉快取
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}

	close(c.done)
	c.mu.Lock()
	defer c.mu.Unlock()

	c.store = make(map[string]cacheEntry)
	common.LogInfo("參考資料快取已關閉",
		zap.Int64("命中次數", c.stats.hits),
		zap.Int64("未命中次數", c.stats.misses),
		zap.Int64("淘汰次數", c.stats.evictions),
	)
	return nil
}
