package common

import (
	"errors"
	"net/http"
)

// ErrorBody 定義 API 錯誤響應結構（只回傳 kind 與 hint，不外洩底層錯誤）
type ErrorBody struct {
	Kind string `json:"kind"` // 錯誤種類
	Hint string `json:"hint"` // 給呼叫端的提示
}

// CustomError 定義自定義錯誤類型
type CustomError struct {
	Kind   string // 錯誤種類
	Hint   string // 提示信息
	Err    error  // 原始錯誤（只記錄在日誌）
	Status int    // HTTP 狀態碼
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Hint
}

// Unwrap 支援 errors.Is / errors.As
func (e *CustomError) Unwrap() error {
	return e.Err
}

// Body 轉換為 API 響應結構
func (e *CustomError) Body() ErrorBody {
	return ErrorBody{Kind: e.Kind, Hint: e.Hint}
}

// NewError 創建新的自定義錯誤
func NewError(kind string, hint string, status int, err error) *CustomError {
	return &CustomError{
		Kind:   kind,
		Hint:   hint,
		Status: status,
		Err:    err,
	}
}

// AsCustomError 檢查是否為自定義錯誤
func AsCustomError(err error) (*CustomError, bool) {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// 預定義錯誤種類
const (
	// 計分引擎錯誤
	ErrKindInvalidInput    = "INVALID_INPUT"             // 400
	ErrKindUpstreamData    = "UPSTREAM_DATA_UNAVAILABLE" // 503
	ErrKindInternalError   = "INTERNAL_ERROR"            // 500
	ErrKindRequestTimeout  = "REQUEST_TIMEOUT"           // 408
	ErrKindTooManyRequests = "TOO_MANY_REQUESTS"         // 429
)

// 預定義錯誤
var (
	// 輸入驗證失敗：正規化後食材列表為空或格式錯誤
	ErrInvalidInput = NewError(ErrKindInvalidInput, "正規化後食材列表為空", http.StatusBadRequest, nil)

	// 參考資料存取失敗：註冊表層級的查詢失敗才會回傳給呼叫端
	ErrUpstreamData = NewError(ErrKindUpstreamData, "參考資料暫時無法取得", http.StatusServiceUnavailable, nil)

	// 其他
	ErrInternalError   = NewError(ErrKindInternalError, "服務器內部錯誤", http.StatusInternalServerError, nil)
	ErrRequestTimeout  = NewError(ErrKindRequestTimeout, "請求超時", http.StatusRequestTimeout, nil)
	ErrTooManyRequests = NewError(ErrKindTooManyRequests, "請求過於頻繁", http.StatusTooManyRequests, nil)
)
