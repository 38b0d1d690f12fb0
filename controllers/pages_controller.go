package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/blogicum/blogicum/utils"
)

// PagesController exposes the error pages as handlers of their own, so
// the router can invoke them directly or mount them on dedicated routes.
type PagesController struct{}

// NewPagesController creates a PagesController.
func NewPagesController() *PagesController {
	return &PagesController{}
}

// Forbidden renders the 403 page.
func (p *PagesController) Forbidden(ctx *gin.Context) {
	utils.Error(ctx, http.StatusForbidden, 40300, "forbidden")
}

// NotFound renders the 404 page; also the NoRoute fallback.
func (p *PagesController) NotFound(ctx *gin.Context) {
	utils.Error(ctx, http.StatusNotFound, 40400, "page not found")
}

// ServerError renders the 500 page.
func (p *PagesController) ServerError(ctx *gin.Context) {
	utils.Error(ctx, http.StatusInternalServerError, 50000, "internal server error")
}
