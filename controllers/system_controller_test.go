package controllers

import (
	"HaloBackend/apperrors"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	w, body := performRequest(t, Health, http.MethodGet, "/health", "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["ok"])
	_, err := time.Parse(time.RFC3339, body["time"].(string))
	assert.NoError(t, err)
}

func TestFlashcards(t *testing.T) {
	w, body := performRequest(t, Flashcards, http.MethodGet, "/child/flashcards", "/child/flashcards", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["cards"], 3)
}

func TestModerateImage(t *testing.T) {
	w, body := performRequest(t, ModerateImage, http.MethodPost, "/moderate/image", "/moderate/image", nil)

	assert.Equal(t, http.StatusNotImplemented, w.Code)
	assert.Equal(t, false, body["ok"])
	assert.Contains(t, body["error"], "Image moderation not implemented")
}

func TestRespondErrorLogsServerFailures(t *testing.T) {
	logger, hook := test.NewNullLogger()
	SetLogger(logger)
	defer func() {
		quiet := logrus.New()
		quiet.SetLevel(logrus.PanicLevel)
		SetLogger(quiet)
	}()

	failing := func(c *gin.Context) {
		respondError(c, apperrors.Internal("Failed to save alert", errors.New("deadline exceeded")))
	}
	w, body := performRequest(t, failing, http.MethodPost, "/child/report_text", "/child/report_text", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to save alert", body["error"])
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, "internal", entry.Data["kind"])
	assert.Equal(t, "/child/report_text", entry.Data["path"])

	hook.Reset()
	notFound := func(c *gin.Context) { respondError(c, apperrors.NotFound("Alert not found")) }
	w, _ = performRequest(t, notFound, http.MethodGet, "/x", "/x", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, hook.AllEntries())
}
