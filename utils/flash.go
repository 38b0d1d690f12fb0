package utils

import (
	"net/url"

	"github.com/gin-gonic/gin"
)

const flashCookie = "flash_warning"

// SetFlashWarning stores a one-shot informational warning for the actor.
// It rides a short-lived cookie across the redirect that follows a
// mutation, the way messages survive a POST/redirect cycle.
func SetFlashWarning(ctx *gin.Context, message string) {
	ctx.SetCookie(flashCookie, url.QueryEscape(message), 60, "/", "", false, false)
}

// PopFlashWarning returns the pending warning, if any, and clears it.
func PopFlashWarning(ctx *gin.Context) string {
	raw, err := ctx.Cookie(flashCookie)
	if err != nil || raw == "" {
		return ""
	}
	ctx.SetCookie(flashCookie, "", -1, "/", "", false, false)
	msg, err := url.QueryUnescape(raw)
	if err != nil {
		return ""
	}
	return msg
}
