// Package controller maps the HTTP surface onto the files service.
package controller

import (
	"net/http"

	"github.com/Laisky/errors/v2"
	logSDK "github.com/Laisky/go-utils/v6/log"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"

	"github.com/Laisky/laisky-files-api/internal/web/files/model"
	"github.com/Laisky/laisky-files-api/internal/web/files/service"
	"github.com/Laisky/laisky-files-api/library/log"
)

// HeaderToken carries the opaque session token on authenticated calls.
const HeaderToken = "X-Token"

// Controller holds the handlers of the files API.
type Controller struct {
	svc    *service.Service
	logger logSDK.Logger
}

// New constructs the controller.
func New(svc *service.Service, logger logSDK.Logger) *Controller {
	if logger == nil {
		logger = log.Logger.Named("files_controller")
	}

	return &Controller{
		svc:    svc,
		logger: logger,
	}
}

// RegisterRoutes binds every route of the API onto r.
func (c *Controller) RegisterRoutes(r gin.IRouter) {
	r.GET("/status", c.Status)
	r.GET("/stats", c.Stats)

	r.POST("/users", c.Register)
	r.GET("/connect", c.Connect)
	r.GET("/disconnect", c.Disconnect)
	r.GET("/users/me", c.Me)

	r.POST("/files", c.Upload)
	r.GET("/files", c.List)
	r.GET("/files/:id", c.Get)
	r.PUT("/files/:id/publish", c.Publish)
	r.PUT("/files/:id/unpublish", c.Unpublish)
	r.GET("/files/:id/data", c.Data)
}

// authenticate resolves the token header to a user, aborting with 401 otherwise.
func (c *Controller) authenticate(ctx *gin.Context) (*model.User, bool) {
	user, err := c.svc.Authenticate(ctx.Request.Context(), ctx.GetHeader(HeaderToken))
	if err != nil {
		c.abortErr(ctx, err)
		return nil, false
	}

	return user, true
}

// abortBadBody reports an unparseable request body. Field-level errors
// stay with the service, this only covers bodies that never bound.
func (c *Controller) abortBadBody(ctx *gin.Context) {
	ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
}

// abortErr translates a domain error into its status code and error body.
func (c *Controller) abortErr(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": service.ErrUnauthorized.Error()})
	case errors.Is(err, service.ErrNotFound):
		ctx.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": service.ErrNotFound.Error()})
	case errors.Is(err, service.ErrForbidden):
		ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": service.ErrForbidden.Error()})
	case service.IsValidation(err):
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.logger.Error("request failed",
			zap.Error(err),
			zap.String("path", ctx.Request.URL.Path))
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}
