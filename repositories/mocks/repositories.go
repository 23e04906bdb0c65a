package mocks

import (
	"HaloBackend/models"
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

type ChildRepository struct {
	mock.Mock
}

func (m *ChildRepository) FindByUID(ctx context.Context, uid string) (models.Child, error) {
	args := m.Called(ctx, uid)
	return args.Get(0).(models.Child), args.Error(1)
}

func (m *ChildRepository) FindByParentUID(ctx context.Context, parentUID string) ([]models.Child, error) {
	args := m.Called(ctx, parentUID)
	return args.Get(0).([]models.Child), args.Error(1)
}

func (m *ChildRepository) Save(ctx context.Context, child models.Child) error {
	args := m.Called(ctx, child)
	return args.Error(0)
}

type ParentRepository struct {
	mock.Mock
}

func (m *ParentRepository) FindByUID(ctx context.Context, uid string) (models.Parent, error) {
	args := m.Called(ctx, uid)
	return args.Get(0).(models.Parent), args.Error(1)
}

func (m *ParentRepository) Save(ctx context.Context, parent models.Parent) error {
	args := m.Called(ctx, parent)
	return args.Error(0)
}

type AlertRepository struct {
	mock.Mock
}

func (m *AlertRepository) Create(ctx context.Context, alert models.Alert) (models.Alert, error) {
	args := m.Called(ctx, alert)
	return args.Get(0).(models.Alert), args.Error(1)
}

func (m *AlertRepository) FindByID(ctx context.Context, id string) (models.Alert, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Alert), args.Error(1)
}

func (m *AlertRepository) ListForChildren(ctx context.Context, childUIDs []string, limit int) ([]models.Alert, error) {
	args := m.Called(ctx, childUIDs, limit)
	return args.Get(0).([]models.Alert), args.Error(1)
}

func (m *AlertRepository) MarkAcknowledged(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type TelemetryRepository struct {
	mock.Mock
}

func (m *TelemetryRepository) AddAppUsage(ctx context.Context, rec models.AppUsageRecord) (string, error) {
	args := m.Called(ctx, rec)
	return args.String(0), args.Error(1)
}

func (m *TelemetryRepository) AppUsageSince(ctx context.Context, uid string, since time.Time) ([]models.AppUsageRecord, error) {
	args := m.Called(ctx, uid, since)
	return args.Get(0).([]models.AppUsageRecord), args.Error(1)
}

func (m *TelemetryRepository) AddJournal(ctx context.Context, entry models.JournalEntry) (string, error) {
	args := m.Called(ctx, entry)
	return args.String(0), args.Error(1)
}

func (m *TelemetryRepository) AddReminder(ctx context.Context, reminder models.Reminder) (string, error) {
	args := m.Called(ctx, reminder)
	return args.String(0), args.Error(1)
}

func (m *TelemetryRepository) AddMessage(ctx context.Context, msg models.MessageRecord) (string, error) {
	args := m.Called(ctx, msg)
	return args.String(0), args.Error(1)
}

func (m *TelemetryRepository) AddReportedText(ctx context.Context, text models.ReportedText) (string, error) {
	args := m.Called(ctx, text)
	return args.String(0), args.Error(1)
}

func (m *TelemetryRepository) AddLocation(ctx context.Context, sample models.LocationSample) (string, error) {
	args := m.Called(ctx, sample)
	return args.String(0), args.Error(1)
}

func (m *TelemetryRepository) LatestLocation(ctx context.Context, uid string) (models.LocationSample, error) {
	args := m.Called(ctx, uid)
	return args.Get(0).(models.LocationSample), args.Error(1)
}

func (m *TelemetryRepository) AddSOS(ctx context.Context, event models.SOSEvent) (string, error) {
	args := m.Called(ctx, event)
	return args.String(0), args.Error(1)
}
