package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/blogicum/blogicum/middleware"
	"github.com/blogicum/blogicum/models"
	"github.com/blogicum/blogicum/utils"
)

// CommentController handles the comment lifecycle. Creation always lands
// back on the post's detail page; ownership violations on edit and delete
// are hard 403 failures, unlike the redirect posts use.
type CommentController struct {
	db *gorm.DB
}

// NewCommentController creates a new CommentController instance.
func NewCommentController(db *gorm.DB) *CommentController {
	return &CommentController{db: db}
}

type commentInput struct {
	Text string `form:"text" json:"text"`
}

// CreateComment attaches a comment by the acting user to an existing post.
// Whatever the validation outcome, the response is a redirect to the post
// detail page; invalid text simply never persists.
func (c *CommentController) CreateComment(ctx *gin.Context) {
	var post models.Post
	if err := c.db.First(&post, "id = ?", ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40402, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to load post")
		return
	}

	actor := middleware.CurrentActor(ctx)

	var req commentInput
	_ = ctx.ShouldBind(&req)
	text := utils.Sanitize(strings.TrimSpace(req.Text))
	if text != "" {
		comment := models.Comment{
			PostID:   post.ID,
			AuthorID: actor.ID,
			Text:     text,
		}
		if err := c.db.Create(&comment).Error; err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to create comment")
			return
		}
	}

	ctx.Redirect(http.StatusSeeOther, postDetailPath(post.ID))
}

// UpdateComment lets the comment's author change its text.
func (c *CommentController) UpdateComment(ctx *gin.Context) {
	comment, ok := c.loadComment(ctx)
	if !ok {
		return
	}

	actor := middleware.CurrentActor(ctx)
	if !models.CanMutate(actor, comment) {
		utils.Error(ctx, http.StatusForbidden, 40330, "you can only edit your own comment")
		return
	}

	var req commentInput
	_ = ctx.ShouldBind(&req)
	text := utils.Sanitize(strings.TrimSpace(req.Text))
	if text != "" {
		comment.Text = text
		if err := c.db.Save(comment).Error; err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to update comment")
			return
		}
	}

	ctx.Redirect(http.StatusSeeOther, postDetailPath(comment.PostID))
}

// DeleteComment removes the author's own comment.
func (c *CommentController) DeleteComment(ctx *gin.Context) {
	comment, ok := c.loadComment(ctx)
	if !ok {
		return
	}

	actor := middleware.CurrentActor(ctx)
	if !models.CanMutate(actor, comment) {
		utils.Error(ctx, http.StatusForbidden, 40331, "you can only delete your own comment")
		return
	}

	if err := c.db.Delete(comment).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50033, "failed to delete comment")
		return
	}

	ctx.Redirect(http.StatusSeeOther, postDetailPath(comment.PostID))
}

// loadComment resolves the addressed comment within its post, answering
// 404 when either is missing or they do not belong together.
func (c *CommentController) loadComment(ctx *gin.Context) (*models.Comment, bool) {
	var comment models.Comment
	err := c.db.
		Where("id = ? AND post_id = ?", ctx.Param("comment_id"), ctx.Param("id")).
		First(&comment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40403, "comment not found")
			return nil, false
		}
		utils.Error(ctx, http.StatusInternalServerError, 50034, "failed to load comment")
		return nil, false
	}
	return &comment, true
}
