package hooks

import (
	"net/http"

	"axiapac.com/adms/iclock/model"
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
	r.GET("/hooks", endpoint.List)
	r.POST("/hooks", endpoint.Create)
	r.PUT("/hooks/:id", endpoint.Update)
	r.DELETE("/hooks/:id", endpoint.Delete)
}

type CreateHookDTO struct {
	URL string `json:"url" binding:"required,url"`
}

type UpdateHookDTO struct {
	URL      string `json:"url" binding:"required,url"`
	IsActive *bool  `json:"isActive" binding:"required"`
}

func (ep *Endpoint) List(c *gin.Context) {
	hooks, err := ep.base.Store.ListWebhooks(c.Request.Context())
	if err != nil {
		ep.base.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, web.NewSearchResponse(hooks, int64(len(hooks))))
}

// Create registers a new endpoint. New endpoints start active.
func (ep *Endpoint) Create(c *gin.Context) {
	var dto CreateHookDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(web.FormatBindingError(err)))
		return
	}

	hook := &model.Webhook{URL: dto.URL, IsActive: true}
	if err := ep.base.Store.CreateWebhook(c.Request.Context(), hook); err != nil {
		ep.base.Fail(c, err)
		return
	}
	ep.base.Log.Info("webhook created", zap.Uint("id", hook.ID), zap.String("url", hook.URL))
	c.JSON(http.StatusCreated, web.NewSuccessResponse(hook))
}

func (ep *Endpoint) Update(c *gin.Context) {
	id, ok := ep.base.ParseID(c)
	if !ok {
		return
	}

	var dto UpdateHookDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(web.FormatBindingError(err)))
		return
	}

	hook, err := ep.base.Store.UpdateWebhook(c.Request.Context(), id, dto.URL, *dto.IsActive)
	if err != nil {
		ep.base.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, web.NewSuccessResponse(hook))
}

func (ep *Endpoint) Delete(c *gin.Context) {
	id, ok := ep.base.ParseID(c)
	if !ok {
		return
	}
	if err := ep.base.Store.DeleteWebhook(c.Request.Context(), id); err != nil {
		ep.base.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, web.NewSuccessResponse(gin.H{}))
}
