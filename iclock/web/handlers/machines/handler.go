package machines

import (
	"net/http"

	"axiapac.com/adms/iclock/store"
	common "axiapac.com/adms/iclock/web/common"
	web "axiapac.com/adms/web/common"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Endpoint struct {
	base common.Handler
}

func Register(r gin.IRouter, s store.Store, log *zap.Logger) {
	endpoint := &Endpoint{base: common.Handler{Store: s, Log: log}}
	r.GET("/machines", endpoint.List)
	r.PUT("/machines/:id", endpoint.Rename)
}

type RenameMachineDTO struct {
	Name string `json:"name" binding:"required,max=120"`
}

func (ep *Endpoint) List(c *gin.Context) {
	machines, err := ep.base.Store.ListMachines(c.Request.Context())
	if err != nil {
		ep.base.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, web.NewSearchResponse(machines, int64(len(machines))))
}

// Rename changes the display name sent to webhook subscribers.
func (ep *Endpoint) Rename(c *gin.Context) {
	id, ok := ep.base.ParseID(c)
	if !ok {
		return
	}

	var dto RenameMachineDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(web.FormatBindingError(err)))
		return
	}

	machine, err := ep.base.Store.RenameMachine(c.Request.Context(), id, dto.Name)
	if err != nil {
		ep.base.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, web.NewSuccessResponse(machine))
}
