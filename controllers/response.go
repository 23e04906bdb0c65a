package controllers

import (
	"HaloBackend/apperrors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// SetLogger sets the logger used for server-side failures.
func SetLogger(logger *logrus.Logger) {
	log = logger
}

// respondError renders err as {"ok": false, "error": msg} with its mapped status.
func respondError(c *gin.Context, err error) {
	status := apperrors.StatusCode(err)
	if status >= 500 {
		log.WithError(err).WithFields(logrus.Fields{
			"path": c.FullPath(),
			"kind": apperrors.KindOf(err).String(),
		}).Error("request failed")
	}
	c.JSON(status, gin.H{"ok": false, "error": apperrors.Message(err)})
}

func bindError(c *gin.Context, err error) {
	respondError(c, apperrors.BadRequest(err.Error()))
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// parseTimestamp reads an optional device timestamp. Values without a zone are UTC.
// An empty string yields the zero time.
func parseTimestamp(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, apperrors.BadRequest(fmt.Sprintf("%s must be an RFC 3339 timestamp", field))
}
