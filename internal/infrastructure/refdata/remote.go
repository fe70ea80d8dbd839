package refdata

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"dish-impact/internal/core/lexicon"
	"dish-impact/internal/infrastructure/config"
	"dish-impact/internal/pkg/common"

	"github.com/go-resty/resty/v2"
)

// RemoteClient 遠端參考資料服務的 HTTP 客戶端。
// 每次查詢各自受 LookupTimeout 限制；失敗由呼叫端決定如何降級。
type RemoteClient struct {
	client *resty.Client
	cfg    *config.RefDataConfig
	cache  *Cache
}

// NewRemoteStores 建立遠端參考資料儲存集合；使用者偏好另由 prefsStore 提供
func NewRemoteStores(cfg *config.RefDataConfig, cache *Cache, prefsStore UserPreferenceStore) *Stores {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.LookupTimeout).
		SetHeader("Accept", "application/json")
	if cfg.APIKey != "" {
		client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	}

	rc := &RemoteClient{
		client: client,
		cfg:    cfg,
		cache:  cache,
	}
	return &Stores{
		Aliases:   rc,
		Yields:    rc,
		Factors:   rc,
		Edges:     rc,
		Organs:    rc,
		Compounds: rc,
		Lexicon:   rc,
		Prefs:     prefsStore,
	}
}

// get 帶快取與時間上限的單次查詢
func (rc *RemoteClient) get(ctx context.Context, store, path string, query url.Values) (string, error) {
	key := CacheKey(store, path+"?"+query.Encode())
	if cached, err := rc.cache.Get(key); err == nil {
		common.LogCacheHit(store, key)
		return cached, nil
	}

	lookupCtx, cancel := context.WithTimeout(ctx, rc.cfg.LookupTimeout)
	defer cancel()

	start := time.Now()
	resp, err := rc.client.R().
		SetContext(lookupCtx).
		SetQueryParamsFromValues(query).
		Get(path)
	common.LogRefLookup(store, time.Since(start), err)
	if err != nil {
		return "", fmt.Errorf("%s lookup failed: %w", store, err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("%s lookup failed: status %d", store, resp.StatusCode())
	}

	body := string(resp.Body())
	rc.cache.Set(key, body)
	return body, nil
}

// Resolve 別名解析；404 視為查無規則
func (rc *RemoteClient) Resolve(ctx context.Context, rawName string) (string, bool, error) {
	body, err := rc.get(ctx, "aliases", "/v1/aliases/resolve", url.Values{"name": {rawName}})
	if err != nil {
		return "", false, err
	}
	var out struct {
		Slug  string `json:"slug"`
		Found bool   `json:"found"`
	}
	if err := common.ParseJSON(body, &out); err != nil {
		return "", false, fmt.Errorf("aliases response malformed: %w", err)
	}
	return out.Slug, out.Found, nil
}

// LookupYields 產率查詢
func (rc *RemoteClient) LookupYields(ctx context.Context, key string) ([]CompoundYield, error) {
	body, err := rc.get(ctx, "yields", "/v1/yields", url.Values{"key": {key}})
	if err != nil {
		return nil, err
	}
	var out []CompoundYield
	if err := common.ParseJSON(body, &out); err != nil {
		return nil, fmt.Errorf("yields response malformed: %w", err)
	}
	return out, nil
}

// LookupFactors 烹調乘數查詢
func (rc *RemoteClient) LookupFactors(ctx context.Context, method string) ([]CookingFactor, error) {
	body, err := rc.get(ctx, "factors", "/v1/factors", url.Values{"method": {strings.ToLower(method)}})
	if err != nil {
		return nil, err
	}
	var out []CookingFactor
	if err := common.ParseJSON(body, &out); err != nil {
		return nil, fmt.Errorf("factors response malformed: %w", err)
	}
	return out, nil
}

// LookupEdges 器官影響邊查詢
func (rc *RemoteClient) LookupEdges(ctx context.Context, compoundIDs []string) ([]OrganEdge, error) {
	body, err := rc.get(ctx, "edges", "/v1/edges", url.Values{"compounds": {strings.Join(compoundIDs, ",")}})
	if err != nil {
		return nil, err
	}
	var out []OrganEdge
	if err := common.ParseJSON(body, &out); err != nil {
		return nil, fmt.Errorf("edges response malformed: %w", err)
	}
	return out, nil
}

// List 器官註冊表查詢
func (rc *RemoteClient) List(ctx context.Context) ([]string, error) {
	body, err := rc.get(ctx, "organs", "/v1/organs", url.Values{})
	if err != nil {
		return nil, err
	}
	var out []string
	if err := common.ParseJSON(body, &out); err != nil {
		return nil, fmt.Errorf("organs response malformed: %w", err)
	}
	return out, nil
}

// NameOf 化合物顯示名稱；查詢失敗時退回 id 本身
func (rc *RemoteClient) NameOf(ctx context.Context, compoundID string) string {
	body, err := rc.get(ctx, "compounds", "/v1/compounds/"+url.PathEscape(compoundID), url.Values{})
	if err != nil {
		return compoundID
	}
	var out struct {
		Name string `json:"name"`
	}
	if err := common.ParseJSON(body, &out); err != nil || out.Name == "" {
		return compoundID
	}
	return out.Name
}

// ResolveHits 詞典解析
func (rc *RemoteClient) ResolveHits(ctx context.Context, text string) ([]lexicon.Hit, error) {
	body, err := rc.get(ctx, "lexicon", "/v1/lexicon/resolve", url.Values{"text": {text}})
	if err != nil {
		return nil, err
	}
	var out []lexicon.Hit
	if err := common.ParseJSON(body, &out); err != nil {
		return nil, fmt.Errorf("lexicon response malformed: %w", err)
	}
	return out, nil
}
