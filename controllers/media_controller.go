package controllers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/blogicum/blogicum/config"
	"github.com/blogicum/blogicum/utils"
)

// MediaController stores post image attachments. Images are opaque blobs
// here: saved to disk, served statically, referenced from posts by URL.
type MediaController struct{}

// NewMediaController creates a MediaController.
func NewMediaController() *MediaController {
	return &MediaController{}
}

// UploadImage accepts a multipart image for use on a post and returns its
// public URL.
func (m *MediaController) UploadImage(ctx *gin.Context) {
	file, header, err := ctx.Request.FormFile("image")
	if err != nil {
		file, header, err = ctx.Request.FormFile("file")
		if err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40060, "no file uploaded")
			return
		}
	}
	defer file.Close()

	cfg := config.Get()
	maxSize := int64(cfg.MediaMaxUploadMB) * 1024 * 1024
	if header.Size > maxSize {
		utils.Error(ctx, http.StatusBadRequest, 40061, fmt.Sprintf("file exceeds %dMB", cfg.MediaMaxUploadMB))
		return
	}

	now := time.Now()
	dir := filepath.Join(cfg.MediaDir, now.Format("2006"), now.Format("01"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50060, "failed to create media directory")
		return
	}

	name := uuid.NewString() + filepath.Ext(filepath.Base(header.Filename))
	dstPath := filepath.Join(dir, name)

	out, err := os.Create(dstPath)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50061, "failed to save file")
		return
	}
	defer out.Close()

	written, err := io.Copy(out, io.LimitReader(file, maxSize+1))
	if err != nil {
		_ = os.Remove(dstPath)
		utils.Error(ctx, http.StatusInternalServerError, 50062, "failed to write file")
		return
	}
	if written > maxSize {
		_ = os.Remove(dstPath)
		utils.Error(ctx, http.StatusBadRequest, 40061, fmt.Sprintf("file exceeds %dMB", cfg.MediaMaxUploadMB))
		return
	}

	utils.Success(ctx, gin.H{
		"url": fmt.Sprintf("/media/%s/%s/%s", now.Format("2006"), now.Format("01"), name),
	})
}
