package controllers

import (
	"HaloBackend/apperrors"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

var parentService ParentServiceInterface

func SetParentService(service ParentServiceInterface) {
	parentService = service
}

// RegisterParent keeps the whole body as the parent's metadata.
func RegisterParent(c *gin.Context) {
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, apperrors.BadRequest("request body must be a JSON object"))
		return
	}
	if err := parentService.RegisterParent(c.Request.Context(), body); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func FindChild(c *gin.Context) {
	location, err := parentService.FindChildLocation(c.Request.Context(), c.Param("childId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "location": location})
}

func ParentAlerts(c *gin.Context) {
	alerts, err := alertService.ListParentAlerts(c.Request.Context(), c.Param("parentId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "alerts": alerts})
}

// AcknowledgeAlert accepts an empty body as {"acknowledged": true}.
func AcknowledgeAlert(c *gin.Context) {
	alertID := c.Param("alertId")
	var input struct {
		Acknowledged *bool `json:"acknowledged"`
	}
	if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
		bindError(c, err)
		return
	}
	acknowledged := true
	if input.Acknowledged != nil {
		acknowledged = *input.Acknowledged
	}

	if err := alertService.AcknowledgeAlert(c.Request.Context(), alertID, acknowledged); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "message": fmt.Sprintf("Alert %s acknowledged status updated.", alertID)})
}
