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

// ProfileController serves public author pages and profile editing.
type ProfileController struct {
	db *gorm.DB
}

// NewProfileController creates a new ProfileController instance.
func NewProfileController(db *gorm.DB) *ProfileController {
	return &ProfileController{db: db}
}

// GetProfile shows a user's page with their posts, ten per page, newest
// publication first. The page lists every post of the user including
// drafts and scheduled ones; only the detail view enforces visibility.
func (p *ProfileController) GetProfile(ctx *gin.Context) {
	var user models.User
	err := p.db.Where("username = ?", ctx.Param("username")).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40405, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to load user")
		return
	}

	var total int64
	if err := p.db.Model(&models.Post{}).Where("author_id = ?", user.ID).Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50051, "failed to count posts")
		return
	}

	page := utils.PageFor(ctx.Query("page"), total)

	var posts []models.Post
	err = p.db.Where("author_id = ?", user.ID).
		Preload("Category").Preload("Location").
		Order("pub_date DESC").
		Offset(page.Offset()).Limit(page.Size).
		Find(&posts).Error
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50052, "failed to list posts")
		return
	}

	payload := gin.H{
		"profile":    publicProfile(user),
		"items":      posts,
		"pagination": page,
	}
	if warning := utils.PopFlashWarning(ctx); warning != "" {
		payload["warning"] = warning
	}
	utils.Success(ctx, payload)
}

type profileInput struct {
	Username  string `form:"username" json:"username"`
	Email     string `form:"email" json:"email"`
	FirstName string `form:"first_name" json:"first_name"`
	LastName  string `form:"last_name" json:"last_name"`
}

// UpdateProfile lets the acting user edit their own account fields, then
// redirects back to the profile page.
func (p *ProfileController) UpdateProfile(ctx *gin.Context) {
	actor := middleware.CurrentActor(ctx)

	var user models.User
	if err := p.db.First(&user, actor.ID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40405, "user not found")
		return
	}

	var req profileInput
	if err := ctx.ShouldBind(&req); err != nil {
		utils.ValidationError(ctx, 40050, map[string]string{"form": "invalid request payload"})
		return
	}

	if username := strings.TrimSpace(req.Username); username != "" && username != user.Username {
		// renames obey the same rules registration enforces
		if l := len(username); l < 2 || l > 64 {
			utils.ValidationError(ctx, 40051, map[string]string{"username": "username must be 2-64 characters"})
			return
		}
		if !usernameRe.MatchString(username) {
			utils.ValidationError(ctx, 40051, map[string]string{"username": "username may contain letters, digits and -_. only"})
			return
		}
		var existing models.User
		if err := p.db.Where("username = ?", username).First(&existing).Error; err == nil {
			utils.ValidationError(ctx, 40051, map[string]string{"username": "username already taken"})
			return
		}
		user.Username = username
	}
	if email := strings.TrimSpace(req.Email); email != "" {
		user.Email = email
	}
	user.FirstName = utils.SanitizeStrict(strings.TrimSpace(req.FirstName))
	user.LastName = utils.SanitizeStrict(strings.TrimSpace(req.LastName))

	if err := p.db.Save(&user).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50053, "failed to update profile")
		return
	}

	ctx.Redirect(http.StatusSeeOther, "/profile/"+user.Username)
}

// publicProfile strips account-private fields from a user for display on
// their public page.
func publicProfile(u models.User) gin.H {
	return gin.H{
		"id":         u.ID,
		"username":   u.Username,
		"first_name": u.FirstName,
		"last_name":  u.LastName,
		"created_at": u.CreatedAt,
	}
}
