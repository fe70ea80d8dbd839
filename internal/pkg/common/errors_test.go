package common

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomErrorBody(t *testing.T) {
	err := NewError(ErrKindUpstreamData, "產率資料暫時無法取得", http.StatusServiceUnavailable, errors.New("dial tcp: refused"))

	body := err.Body()
	assert.Equal(t, ErrKindUpstreamData, body.Kind)
	assert.Equal(t, "產率資料暫時無法取得", body.Hint)
	// 底層錯誤只進日誌，不進響應
	assert.NotContains(t, body.Hint, "dial tcp")
	assert.Equal(t, "dial tcp: refused", err.Error())
}

func TestCustomErrorWithoutCause(t *testing.T) {
	assert.Equal(t, "正規化後食材列表為空", ErrInvalidInput.Error())
}

func TestAsCustomErrorUnwraps(t *testing.T) {
	wrapped := fmt.Errorf("score failed: %w", ErrInvalidInput)

	ce, ok := AsCustomError(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrKindInvalidInput, ce.Kind)
	assert.Equal(t, http.StatusBadRequest, ce.Status)

	_, ok = AsCustomError(errors.New("plain"))
	assert.False(t, ok)
}

func TestErrorsIsThroughUnwrap(t *testing.T) {
	cause := errors.New("redis down")
	err := NewError(ErrKindInternalError, "服務器內部錯誤", http.StatusInternalServerError, cause)
	assert.True(t, errors.Is(err, cause))
}
