package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/blogicum/blogicum/middleware"
	"github.com/blogicum/blogicum/models"
	"github.com/blogicum/blogicum/utils"
)

const tokenLifetime = 72 * time.Hour

// AuthController handles registration, login/logout and password flows.
type AuthController struct {
	db *gorm.DB
}

// NewAuthController creates an AuthController.
func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{db: db}
}

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// Register creates a local account and sends the new user to the login
// entry point, mirroring the submit-then-sign-in flow.
func (a *AuthController) Register(ctx *gin.Context) {
	var req struct {
		Username string `form:"username" json:"username"`
		Email    string `form:"email" json:"email"`
		Password string `form:"password" json:"password"`
		Confirm  string `form:"confirm" json:"confirm"`
	}
	if err := ctx.ShouldBind(&req); err != nil {
		utils.ValidationError(ctx, 40001, map[string]string{"form": "invalid request payload"})
		return
	}

	fields := map[string]string{}
	req.Username = strings.TrimSpace(req.Username)
	if l := len(req.Username); l < 2 || l > 64 {
		fields["username"] = "username must be 2-64 characters"
	} else if !usernameRe.MatchString(req.Username) {
		fields["username"] = "username may contain letters, digits and -_. only"
	}
	if len(req.Password) < 6 || len(req.Password) > 64 {
		fields["password"] = "password must be 6-64 characters"
	}
	if req.Password != req.Confirm {
		fields["confirm"] = "passwords do not match"
	}
	if len(fields) > 0 {
		utils.ValidationError(ctx, 40002, fields)
		return
	}

	var existing models.User
	if err := a.db.Where("username = ?", req.Username).First(&existing).Error; err == nil {
		utils.Error(ctx, http.StatusConflict, 40901, "username already exists")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to hash password")
		return
	}

	user := models.User{
		Username:     req.Username,
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: hash,
	}
	if err := a.db.Create(&user).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50011, "failed to create user")
		return
	}

	ctx.Redirect(http.StatusSeeOther, middleware.LoginPath)
}

// LoginEntry is the authentication entry point anonymous mutation
// attempts get redirected to.
func (a *AuthController) LoginEntry(ctx *gin.Context) {
	utils.Respond(ctx, http.StatusUnauthorized, 40102, "authentication required, POST credentials to /auth/login", nil)
}

// Login verifies credentials and issues a JWT, also set as a cookie so
// form-driven flows stay authenticated across redirects.
func (a *AuthController) Login(ctx *gin.Context) {
	var req struct {
		Username string `form:"username" json:"username" binding:"required"`
		Password string `form:"password" json:"password" binding:"required"`
	}
	if err := ctx.ShouldBind(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid request payload")
		return
	}

	var user models.User
	if err := a.db.Where("username = ?", req.Username).First(&user).Error; err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40103, "invalid username or password")
		return
	}
	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		utils.Error(ctx, http.StatusUnauthorized, 40103, "invalid username or password")
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Username, tokenLifetime)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50012, "failed to generate token")
		return
	}

	ctx.SetCookie("auth_token", token, int(tokenLifetime.Seconds()), "/", "", false, true)
	utils.Success(ctx, gin.H{
		"token": token,
		"user":  accountResponse(user),
	})
}

// Logout revokes the current token and returns to the index.
func (a *AuthController) Logout(ctx *gin.Context) {
	token := middleware.TokenFromRequest(ctx)
	if token != "" {
		expiresAt := time.Now().Add(tokenLifetime)
		if claims, err := utils.ParseToken(token); err == nil && claims.ExpiresAt != nil {
			expiresAt = claims.ExpiresAt.Time
		}
		utils.BlacklistToken(token, expiresAt)
	}
	ctx.SetCookie("auth_token", "", -1, "/", "", false, true)
	ctx.Redirect(http.StatusSeeOther, "/")
}

// Me returns the authenticated account.
func (a *AuthController) Me(ctx *gin.Context) {
	actor := middleware.CurrentActor(ctx)

	var user models.User
	if err := a.db.First(&user, actor.ID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40405, "user not found")
		return
	}
	utils.Success(ctx, accountResponse(user))
}

// ChangePassword sets a new password after verifying the old one.
func (a *AuthController) ChangePassword(ctx *gin.Context) {
	actor := middleware.CurrentActor(ctx)

	var req struct {
		OldPassword string `form:"old_password" json:"old_password" binding:"required"`
		NewPassword string `form:"new_password" json:"new_password" binding:"required"`
		Confirm     string `form:"confirm" json:"confirm"`
	}
	if err := ctx.ShouldBind(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40004, "invalid request payload")
		return
	}

	var user models.User
	if err := a.db.First(&user, actor.ID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40405, "user not found")
		return
	}
	if !utils.CheckPassword(user.PasswordHash, req.OldPassword) {
		utils.Error(ctx, http.StatusUnauthorized, 40104, "old password is incorrect")
		return
	}
	if len(req.NewPassword) < 6 || len(req.NewPassword) > 64 {
		utils.ValidationError(ctx, 40005, map[string]string{"new_password": "password must be 6-64 characters"})
		return
	}
	if req.Confirm != "" && req.Confirm != req.NewPassword {
		utils.ValidationError(ctx, 40005, map[string]string{"confirm": "passwords do not match"})
		return
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to hash password")
		return
	}
	user.PasswordHash = hash
	if err := a.db.Save(&user).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50013, "failed to update password")
		return
	}

	utils.Success(ctx, gin.H{"message": "password changed"})
}

// SendResetCode emails a one-time verification code for password reset.
func (a *AuthController) SendResetCode(ctx *gin.Context) {
	var req struct {
		Email string `form:"email" json:"email" binding:"required"`
	}
	if err := ctx.ShouldBind(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40006, "invalid request payload")
		return
	}

	email := strings.TrimSpace(req.Email)
	var user models.User
	if err := a.db.Where("email = ?", email).First(&user).Error; err != nil {
		// Answer identically for unknown addresses so the endpoint does
		// not leak which emails have accounts.
		utils.Success(ctx, gin.H{"message": "reset code sent if the address is registered"})
		return
	}

	if !utils.ResetCooldownTrySet(email, time.Minute) {
		utils.Error(ctx, http.StatusTooManyRequests, 42902, "reset code was sent recently, try again later")
		return
	}

	code := utils.GenerateResetCode(6)
	utils.SaveResetCode(email, code, 15*time.Minute)

	body := fmt.Sprintf("Your password reset code is %s. It expires in 15 minutes.", code)
	if err := utils.SendMail(email, "Password reset", body); err != nil {
		utils.Sugar.Warnf("failed to send reset code to %s: %v", email, err)
		utils.Error(ctx, http.StatusInternalServerError, 50014, "failed to send reset code")
		return
	}

	utils.Success(ctx, gin.H{"message": "reset code sent if the address is registered"})
}

// ResetPassword consumes a reset code and sets a new password.
func (a *AuthController) ResetPassword(ctx *gin.Context) {
	var req struct {
		Email       string `form:"email" json:"email" binding:"required"`
		Code        string `form:"code" json:"code" binding:"required"`
		NewPassword string `form:"new_password" json:"new_password" binding:"required"`
	}
	if err := ctx.ShouldBind(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40007, "invalid request payload")
		return
	}

	email := strings.TrimSpace(req.Email)
	if !utils.VerifyAndConsumeResetCode(email, strings.TrimSpace(req.Code)) {
		utils.Error(ctx, http.StatusUnauthorized, 40105, "invalid or expired reset code")
		return
	}

	var user models.User
	if err := a.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40405, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to load user")
		return
	}

	if len(req.NewPassword) < 6 || len(req.NewPassword) > 64 {
		utils.ValidationError(ctx, 40005, map[string]string{"new_password": "password must be 6-64 characters"})
		return
	}
	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to hash password")
		return
	}
	user.PasswordHash = hash
	if err := a.db.Save(&user).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50013, "failed to update password")
		return
	}

	utils.Success(ctx, gin.H{"message": "password reset"})
}

// accountResponse is the owner's view of their account, email included.
func accountResponse(u models.User) gin.H {
	return gin.H{
		"id":         u.ID,
		"username":   u.Username,
		"email":      u.Email,
		"first_name": u.FirstName,
		"last_name":  u.LastName,
		"created_at": u.CreatedAt,
	}
}
