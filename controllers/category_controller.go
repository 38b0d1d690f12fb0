package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/blogicum/blogicum/models"
	"github.com/blogicum/blogicum/utils"
)

// CategoryController serves category pages. Categories themselves are
// administered outside this surface; here they are read-only.
type CategoryController struct {
	db *gorm.DB
}

// NewCategoryController creates a new CategoryController instance.
func NewCategoryController(db *gorm.DB) *CategoryController {
	return &CategoryController{db: db}
}

// ListCategories returns the published categories.
func (c *CategoryController) ListCategories(ctx *gin.Context) {
	var categories []models.Category
	if err := c.db.Where("is_published = ?", true).Order("title ASC").Find(&categories).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to list categories")
		return
	}
	utils.Success(ctx, gin.H{"items": categories})
}

// CategoryPosts lists the visible posts of one published category. An
// unpublished or unknown slug is a 404, never an empty page.
func (c *CategoryController) CategoryPosts(ctx *gin.Context) {
	var category models.Category
	err := c.db.Where("slug = ? AND is_published = ?", ctx.Param("slug"), true).First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40404, "category not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to load category")
		return
	}

	now := time.Now()
	base := c.db.Model(&models.Post{}).
		Scopes(models.VisibleScope(now)).
		Where("posts.category_id = ?", category.ID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50042, "failed to count posts")
		return
	}

	page := utils.PageFor(ctx.Query("page"), total)

	var posts []models.Post
	err = c.db.Model(&models.Post{}).
		Scopes(models.VisibleScope(now)).
		Where("posts.category_id = ?", category.ID).
		Preload("Author").Preload("Category").Preload("Location").
		Order("posts.pub_date DESC").
		Offset(page.Offset()).Limit(page.Size).
		Find(&posts).Error
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50043, "failed to list posts")
		return
	}

	utils.Success(ctx, gin.H{
		"category":   category,
		"items":      posts,
		"pagination": page,
	})
}
