package machines

import (
	"context"
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

func TestMachines(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := storetest.New(t)
	require.NoError(t, s.RegisterMachine(context.Background(), &model.Machine{
		SerialNumber: "SN001",
		Name:         model.DefaultMachineName("SN001"),
		Timezone:     7,
	}))

	r := gin.New()
	Register(r.Group("/api"), s, zap.NewNop())

	do := func(method, target, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := do(http.MethodGet, "/api/machines", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"serialNumber":"SN001"`)
	assert.Contains(t, w.Body.String(), `"total":1`)

	w = do(http.MethodPut, "/api/machines/1", `{"name":"Front gate"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Front gate"`)

	m, err := s.FindMachine(context.Background(), "SN001")
	require.NoError(t, err)
	assert.Equal(t, "Front gate", m.Name)

	w = do(http.MethodPut, "/api/machines/1", `{"name":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(http.MethodPut, "/api/machines/7", `{"name":"Ghost"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
