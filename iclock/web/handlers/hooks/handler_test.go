package hooks

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"axiapac.com/adms/iclock/model"
	"axiapac.com/adms/iclock/store/storetest"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	Register(r.Group("/api"), storetest.New(t), zap.NewNop())
	return r
}

func call(r *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHookLifecycle(t *testing.T) {
	r := newRouter(t)

	w := call(r, http.MethodPost, "/api/hooks", `{"url":"https://hooks.example.com/attendance"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Data model.Webhook `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.True(t, created.Data.IsActive)
	assert.NotZero(t, created.Data.ID)

	w = call(r, http.MethodPut, "/api/hooks/1", `{"url":"https://hooks.example.com/v2","isActive":false}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"isActive":false`)

	w = call(r, http.MethodGet, "/api/hooks", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Data       []model.Webhook `json:"data"`
		Pagination struct {
			Total int64 `json:"total"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Data, 1)
	assert.Equal(t, int64(1), list.Pagination.Total)
	assert.Equal(t, "https://hooks.example.com/v2", list.Data[0].URL)

	w = call(r, http.MethodDelete, "/api/hooks/1", "")
	assert.Equal(t, http.StatusOK, w.Code)
	w = call(r, http.MethodDelete, "/api/hooks/1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHookValidation(t *testing.T) {
	r := newRouter(t)

	tests := []struct {
		name    string
		method  string
		target  string
		body    string
		status  int
		message string
	}{
		{"Missing url", http.MethodPost, "/api/hooks", `{}`, http.StatusBadRequest, "Field 'url' is required"},
		{"Invalid url", http.MethodPost, "/api/hooks", `{"url":"not a url"}`, http.StatusBadRequest, "Field 'url' must be a valid URL"},
		{"Empty body", http.MethodPost, "/api/hooks", ``, http.StatusBadRequest, "Request body is empty"},
		{"Missing isActive", http.MethodPut, "/api/hooks/1", `{"url":"https://a.example"}`, http.StatusBadRequest, "Field 'isActive' is required"},
		{"Bad id", http.MethodPut, "/api/hooks/abc", `{"url":"https://a.example","isActive":true}`, http.StatusBadRequest, "Invalid id"},
		{"Unknown id", http.MethodPut, "/api/hooks/42", `{"url":"https://a.example","isActive":true}`, http.StatusNotFound, "Not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := call(r, tt.method, tt.target, tt.body)
			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.message)
		})
	}
}
