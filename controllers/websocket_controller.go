package controllers

import (
	"HaloBackend/websocket"

	"github.com/gin-gonic/gin"
)

var feedHub *websocket.Hub

func SetFeedHub(hub *websocket.Hub) {
	feedHub = hub
}

// ServeFeed upgrades to the live alert feed of one parent.
func ServeFeed(c *gin.Context) {
	parentID := c.Param("parentId")
	if err := websocket.ServeWs(feedHub, c.Writer, c.Request, parentID); err != nil {
		log.WithError(err).WithField("parent_id", parentID).Warn("feed upgrade failed")
	}
}
