package controllers

import (
	"HaloBackend/models"
	"HaloBackend/services"
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockChildService struct {
	mock.Mock
}

func (m *MockChildService) RegisterChild(ctx context.Context, child models.Child) (string, error) {
	args := m.Called(ctx, child)
	return args.String(0), args.Error(1)
}

func (m *MockChildService) RecordAppUsage(ctx context.Context, rec models.AppUsageRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockChildService) SaveJournal(ctx context.Context, entry models.JournalEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockChildService) SaveReminder(ctx context.Context, reminder models.Reminder) (string, error) {
	args := m.Called(ctx, reminder)
	return args.String(0), args.Error(1)
}

func (m *MockChildService) UpdateLocation(ctx context.Context, sample models.LocationSample) error {
	args := m.Called(ctx, sample)
	return args.Error(0)
}

type MockParentService struct {
	mock.Mock
}

func (m *MockParentService) RegisterParent(ctx context.Context, meta map[string]interface{}) error {
	args := m.Called(ctx, meta)
	return args.Error(0)
}

func (m *MockParentService) FindChildLocation(ctx context.Context, childUID string) (models.LocationSample, error) {
	args := m.Called(ctx, childUID)
	return args.Get(0).(models.LocationSample), args.Error(1)
}

type MockAlertService struct {
	mock.Mock
}

func (m *MockAlertService) IngestReportedEvent(ctx context.Context, ev services.ReportedEvent) (bool, error) {
	args := m.Called(ctx, ev)
	return args.Bool(0), args.Error(1)
}

func (m *MockAlertService) ListParentAlerts(ctx context.Context, parentUID string) ([]models.Alert, error) {
	args := m.Called(ctx, parentUID)
	return args.Get(0).([]models.Alert), args.Error(1)
}

func (m *MockAlertService) AcknowledgeAlert(ctx context.Context, alertID string, acknowledged bool) error {
	args := m.Called(ctx, alertID, acknowledged)
	return args.Error(0)
}

type MockSOSService struct {
	mock.Mock
}

func (m *MockSOSService) TriggerSOS(ctx context.Context, req services.SOSRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

type MockUsageService struct {
	mock.Mock
}

func (m *MockUsageService) Summary(ctx context.Context, uid string) (models.UsageSummary, error) {
	args := m.Called(ctx, uid)
	return args.Get(0).(models.UsageSummary), args.Error(1)
}

func init() {
	gin.SetMode(gin.TestMode)
	quiet := logrus.New()
	quiet.SetLevel(logrus.PanicLevel)
	SetLogger(quiet)
}

func performRequest(t *testing.T, handler gin.HandlerFunc, method, route, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	router := gin.New()
	router.Handle(method, route, handler)

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var out map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w, out
}
