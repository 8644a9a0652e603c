package common

import (
	"errors"
	"net/http"
	"strconv"

	"axiapac.com/adms/iclock/store"
	web "axiapac.com/adms/web/common"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler carries the dependencies shared by the admin endpoints.
type Handler struct {
	Store store.Store
	Log   *zap.Logger
}

// ParseID reads the :id path parameter, answering 400 when it is not a
// positive integer.
func (h *Handler) ParseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse("Invalid id"))
		return 0, false
	}
	return uint(id), true
}

// Fail maps a store error onto a JSON error response.
func (h *Handler) Fail(c *gin.Context, err error) {
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, web.NewErrorResponse("Not found"))
		return
	}
	h.Log.Error("admin request failed", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
}
