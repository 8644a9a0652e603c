package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"axiapac.com/adms/security"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var secret = []byte("0123456789abcdef0123456789abcdef")

func newRouter(logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Logger(logger))
	protected := r.Group("/api")
	protected.Use(Authentication(secret))
	protected.GET("/whoami", func(c *gin.Context) {
		claims := c.MustGet(ClaimsKey).(*security.AdminClaims)
		c.String(http.StatusOK, claims.Subject)
	})
	return r
}

func TestAuthentication(t *testing.T) {
	r := newRouter(zap.NewNop())
	token, err := security.CreateAdminToken("ops", secret, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"Missing header", "", http.StatusUnauthorized},
		{"Wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"Garbage token", "Bearer abc.def.ghi", http.StatusUnauthorized},
		{"Valid token", "Bearer " + token, http.StatusOK},
		{"Lowercase scheme", "bearer " + token, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, "ops", w.Body.String())
			}
		})
	}
}

func TestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	r := newRouter(zap.New(core))

	req := httptest.NewRequest(http.MethodGet, "/api/whoami?SN=1", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.FilterMessage("HTTP request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/api/whoami", fields["path"])
	assert.Equal(t, "SN=1", fields["query"])
	assert.Equal(t, int64(http.StatusUnauthorized), fields["status"])
}
