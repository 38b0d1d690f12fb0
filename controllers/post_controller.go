package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/blogicum/blogicum/middleware"
	"github.com/blogicum/blogicum/models"
	"github.com/blogicum/blogicum/utils"
)

// PostController handles post browsing and the post lifecycle. Mutations
// answer with navigational redirects; reads answer JSON.
type PostController struct {
	db *gorm.DB
}

// NewPostController creates a new PostController instance.
func NewPostController(db *gorm.DB) *PostController {
	return &PostController{db: db}
}

func postDetailPath(id uint) string {
	return fmt.Sprintf("/posts/%d", id)
}

// postInput is the submitted post form, accepted as form data or JSON.
type postInput struct {
	Title       string `form:"title" json:"title"`
	Text        string `form:"text" json:"text"`
	PubDate     string `form:"pub_date" json:"pub_date"`
	CategoryID  uint   `form:"category_id" json:"category_id"`
	LocationID  *uint  `form:"location_id" json:"location_id"`
	ImageURL    string `form:"image_url" json:"image_url"`
	IsPublished *bool  `form:"is_published" json:"is_published"`
}

// Index lists publicly visible posts, newest publication first, ten per
// page. Hidden and scheduled posts never appear here, whoever asks.
func (p *PostController) Index(ctx *gin.Context) {
	now := time.Now()

	var total int64
	if err := p.db.Model(&models.Post{}).Scopes(models.VisibleScope(now)).Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to count posts")
		return
	}

	page := utils.PageFor(ctx.Query("page"), total)

	var posts []models.Post
	err := p.db.Model(&models.Post{}).
		Scopes(models.VisibleScope(now)).
		Preload("Author").Preload("Category").Preload("Location").
		Order("posts.pub_date DESC").
		Offset(page.Offset()).Limit(page.Size).
		Find(&posts).Error
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to list posts")
		return
	}

	payload := gin.H{
		"items":      posts,
		"pagination": page,
	}
	if warning := utils.PopFlashWarning(ctx); warning != "" {
		payload["warning"] = warning
	}
	utils.Success(ctx, payload)
}

// GetPost returns a single post with its comments. The author may preview
// their own unpublished or scheduled post; for everyone else a post that
// fails the visibility rule does not exist.
func (p *PostController) GetPost(ctx *gin.Context) {
	var post models.Post
	err := p.db.
		Preload("Author").Preload("Category").Preload("Location").
		First(&post, "posts.id = ?", ctx.Param("id")).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40401, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to load post")
		return
	}

	actor := middleware.CurrentActor(ctx)
	if !post.VisibleTo(actor, time.Now()) {
		utils.Error(ctx, http.StatusNotFound, 40401, "post not found")
		return
	}

	var comments []models.Comment
	if err := p.db.Preload("Author").
		Where("post_id = ?", post.ID).
		Order("created_at ASC").
		Find(&comments).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to load comments")
		return
	}
	post.Comments = comments

	utils.Success(ctx, gin.H{
		"post":          post,
		"comment_count": len(comments),
	})
}

// CreatePost stores a new post owned by the acting user and redirects to
// their profile. When no published category exists at all the post is
// still accepted, with an informational warning attached for the actor.
func (p *PostController) CreatePost(ctx *gin.Context) {
	actor := middleware.CurrentActor(ctx)

	var req postInput
	if err := ctx.ShouldBind(&req); err != nil {
		utils.ValidationError(ctx, 40020, map[string]string{"form": "invalid request payload"})
		return
	}

	fields, pubDate, category := p.validatePostInput(&req)
	if len(fields) > 0 {
		utils.ValidationError(ctx, 40021, fields)
		return
	}

	published := true
	if req.IsPublished != nil {
		published = *req.IsPublished
	}

	post := models.Post{
		AuthorID:    actor.ID,
		CategoryID:  category.ID,
		LocationID:  req.LocationID,
		Title:       utils.SanitizeStrict(strings.TrimSpace(req.Title)),
		Text:        utils.Sanitize(req.Text),
		PubDate:     pubDate,
		IsPublished: published,
		ImageURL:    strings.TrimSpace(req.ImageURL),
	}
	if err := p.db.Create(&post).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50024, "failed to create post")
		return
	}

	var publishedCategories int64
	if err := p.db.Model(&models.Category{}).Where("is_published = ?", true).Count(&publishedCategories).Error; err == nil && publishedCategories == 0 {
		utils.SetFlashWarning(ctx, "No categories are currently available for publication.")
	}

	ctx.Redirect(http.StatusSeeOther, "/profile/"+actor.Username)
}

// UpdatePost lets the author edit their post. Anyone else who tries is
// bounced to the post's detail page rather than shown an error.
func (p *PostController) UpdatePost(ctx *gin.Context) {
	var post models.Post
	if err := p.db.First(&post, "id = ?", ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40401, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to load post")
		return
	}

	actor := middleware.CurrentActor(ctx)
	if !models.CanMutate(actor, &post) {
		ctx.Redirect(http.StatusSeeOther, postDetailPath(post.ID))
		return
	}

	var req postInput
	if err := ctx.ShouldBind(&req); err != nil {
		utils.ValidationError(ctx, 40020, map[string]string{"form": "invalid request payload"})
		return
	}

	fields, pubDate, category := p.validatePostInput(&req)
	if len(fields) > 0 {
		utils.ValidationError(ctx, 40021, fields)
		return
	}

	// author binding is immutable after creation
	post.Title = utils.SanitizeStrict(strings.TrimSpace(req.Title))
	post.Text = utils.Sanitize(req.Text)
	post.PubDate = pubDate
	post.CategoryID = category.ID
	post.LocationID = req.LocationID
	post.ImageURL = strings.TrimSpace(req.ImageURL)
	if req.IsPublished != nil {
		post.IsPublished = *req.IsPublished
	}

	if err := p.db.Save(&post).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50025, "failed to update post")
		return
	}

	ctx.Redirect(http.StatusSeeOther, postDetailPath(post.ID))
}

// DeletePost removes the author's post together with its comments in one
// transaction, then redirects to the index.
func (p *PostController) DeletePost(ctx *gin.Context) {
	var post models.Post
	if err := p.db.First(&post, "id = ?", ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40401, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to load post")
		return
	}

	actor := middleware.CurrentActor(ctx)
	if !models.CanMutate(actor, &post) {
		ctx.Redirect(http.StatusSeeOther, postDetailPath(post.ID))
		return
	}

	err := p.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50026, "failed to delete post")
		return
	}

	ctx.Redirect(http.StatusSeeOther, "/")
}

// validatePostInput checks the submitted fields and resolves the target
// category. A category that does not exist is a field error, not a 404:
// the post form re-renders with the problem attached.
func (p *PostController) validatePostInput(req *postInput) (map[string]string, time.Time, *models.Category) {
	fields := map[string]string{}

	if strings.TrimSpace(req.Title) == "" {
		fields["title"] = "title cannot be empty"
	}
	if strings.TrimSpace(req.Text) == "" {
		fields["text"] = "text cannot be empty"
	}

	pubDate := time.Now()
	if s := strings.TrimSpace(req.PubDate); s != "" {
		parsed, err := parsePubDate(s)
		if err != nil {
			fields["pub_date"] = "invalid publication date"
		} else {
			pubDate = parsed
		}
	}

	var category models.Category
	if req.CategoryID == 0 {
		fields["category_id"] = "category is required"
	} else if err := p.db.First(&category, req.CategoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fields["category_id"] = "category does not exist"
		} else {
			fields["category_id"] = "failed to resolve category"
		}
	}

	if req.LocationID != nil {
		var location models.Location
		if err := p.db.First(&location, *req.LocationID).Error; err != nil {
			fields["location_id"] = "location does not exist"
		}
	}

	return fields, pubDate, &category
}

// parsePubDate accepts RFC 3339 as well as the datetime-local form format.
func parsePubDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02T15:04", s, time.Local)
}
