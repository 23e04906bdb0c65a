package controllers

import (
	"HaloBackend/apperrors"
	"HaloBackend/services"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "time": time.Now().UTC().Format(time.RFC3339)})
}

func Flashcards(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "cards": services.Flashcards()})
}

func ModerateImage(c *gin.Context) {
	respondError(c, apperrors.Unimplemented("Image moderation not implemented. Use a cloud moderation API or on-device model."))
}
