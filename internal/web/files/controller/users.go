package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Laisky/laisky-files-api/internal/web/files/dto"
	"github.com/Laisky/laisky-files-api/internal/web/files/service"
)

// Status reports backing store reachability, no auth required.
func (c *Controller) Status(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, c.svc.Status(ctx.Request.Context()))
}

// Stats reports entity counts, no auth required.
func (c *Controller) Stats(ctx *gin.Context) {
	stats, err := c.svc.Stats(ctx.Request.Context())
	if err != nil {
		c.abortErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, stats)
}

// Register creates a new account from an email/password body.
func (c *Controller) Register(ctx *gin.Context) {
	req := new(dto.RegisterRequest)
	if err := ctx.ShouldBindJSON(req); err != nil {
		c.abortBadBody(ctx)
		return
	}

	user, err := c.svc.Register(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.abortErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewUser(user))
}

// Connect exchanges Basic credentials for a session token.
func (c *Controller) Connect(ctx *gin.Context) {
	email, password, ok := ctx.Request.BasicAuth()
	if !ok {
		c.abortErr(ctx, service.ErrUnauthorized)
		return
	}

	token, err := c.svc.Login(ctx.Request.Context(), email, password)
	if err != nil {
		c.abortErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.Token{Token: token})
}

// Disconnect destroys the presented session.
func (c *Controller) Disconnect(ctx *gin.Context) {
	if err := c.svc.Logout(ctx.Request.Context(), ctx.GetHeader(HeaderToken)); err != nil {
		c.abortErr(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// Me returns the authenticated user's own projection.
func (c *Controller) Me(ctx *gin.Context) {
	user, ok := c.authenticate(ctx)
	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, dto.NewUser(user))
}
