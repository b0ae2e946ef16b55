package controller

import (
	"mime"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Laisky/laisky-files-api/internal/web/files/dto"
	"github.com/Laisky/laisky-files-api/internal/web/files/service"
)

// Upload stores a new folder, file, or image node.
func (c *Controller) Upload(ctx *gin.Context) {
	user, ok := c.authenticate(ctx)
	if !ok {
		return
	}

	req := new(dto.UploadRequest)
	if err := ctx.ShouldBindJSON(req); err != nil {
		c.abortBadBody(ctx)
		return
	}

	file, err := c.svc.Upload(ctx.Request.Context(), user, req)
	if err != nil {
		c.abortErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, file)
}

// Get returns one readable node projection.
func (c *Controller) Get(ctx *gin.Context) {
	user, ok := c.authenticate(ctx)
	if !ok {
		return
	}

	file, err := c.svc.Get(ctx.Request.Context(), user, ctx.Param("id"))
	if err != nil {
		c.abortErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, file)
}

// List returns one page of the user's nodes.
func (c *Controller) List(ctx *gin.Context) {
	user, ok := c.authenticate(ctx)
	if !ok {
		return
	}

	page, _ := strconv.ParseInt(ctx.Query("page"), 10, 64)
	files, err := c.svc.List(ctx.Request.Context(), user, ctx.Query("parentId"), page)
	if err != nil {
		c.abortErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, files)
}

// Publish makes an owned node readable by everyone.
func (c *Controller) Publish(ctx *gin.Context) {
	c.setPublic(ctx, true)
}

// Unpublish reverts an owned node to owner-only reads.
func (c *Controller) Unpublish(ctx *gin.Context) {
	c.setPublic(ctx, false)
}

func (c *Controller) setPublic(ctx *gin.Context, public bool) {
	user, ok := c.authenticate(ctx)
	if !ok {
		return
	}

	file, err := c.svc.SetPublic(ctx.Request.Context(), user, ctx.Param("id"), public)
	if err != nil {
		c.abortErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, file)
}

// Data streams the raw payload, or a thumbnail rendition when size is given.
func (c *Controller) Data(ctx *gin.Context) {
	user, ok := c.authenticate(ctx)
	if !ok {
		return
	}

	var size uint
	if raw := ctx.Query("size"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.abortErr(ctx, service.ErrInvalidSize)
			return
		}
		size = uint(parsed)
	}

	data, name, err := c.svc.Content(ctx.Request.Context(), user, ctx.Param("id"), size)
	if err != nil {
		c.abortErr(ctx, err)
		return
	}

	ctx.Data(http.StatusOK, contentTypeForName(name), data)
}

// contentTypeForName infers the response content type from the node name.
func contentTypeForName(name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}

	return "application/octet-stream"
}
