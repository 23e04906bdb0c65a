package controllers

import (
	"HaloBackend/middlewares"
	"net/http"

	"github.com/gin-gonic/gin"
)

// DebugAuth reports what the auth middleware resolved for the caller's token.
func DebugAuth(c *gin.Context) {
	uid, authenticated := c.Get(middlewares.ContextUID)
	c.JSON(http.StatusOK, gin.H{
		"ok":            true,
		"authenticated": authenticated,
		"uid":           uid,
	})
}
