package users

import (
	"net/http"
	"strconv"

	"axiapac.com/adms/iclock/store"
	common "axiapac.com/adms/iclock/web/common"
	web "axiapac.com/adms/web/common"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Endpoint exposes the users and fingerprints enrolled on the terminals.
type Endpoint struct {
	base common.Handler
}

func Register(r gin.IRouter, s store.Store, log *zap.Logger) {
	endpoint := &Endpoint{base: common.Handler{Store: s, Log: log}}
	r.GET("/users", endpoint.List)
	r.GET("/users/:pin/fingerprints", endpoint.ListFingerprints)
}

func (ep *Endpoint) List(c *gin.Context) {
	users, err := ep.base.Store.ListUsers(c.Request.Context())
	if err != nil {
		ep.base.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, web.NewSearchResponse(users, int64(len(users))))
}

func (ep *Endpoint) ListFingerprints(c *gin.Context) {
	pin, err := strconv.Atoi(c.Param("pin"))
	if err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse("Invalid pin"))
		return
	}
	fps, err := ep.base.Store.ListFingerprints(c.Request.Context(), pin)
	if err != nil {
		ep.base.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, web.NewSearchResponse(fps, int64(len(fps))))
}
