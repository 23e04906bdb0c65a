package services

import (
	"HaloBackend/apperrors"
	"HaloBackend/models"
	"HaloBackend/repositories"
	"HaloBackend/repositories/impl"
	"HaloBackend/repositories/mocks"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newChildService() (*ChildService, *impl.MemoryStore) {
	store := impl.NewMemoryStore(nil)
	svc := NewChildService(impl.NewChildRepository(store), impl.NewTelemetryRepository(store), quietLogger())
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC) }
	return svc, store
}

func TestRegisterChild(t *testing.T) {
	svc, store := newChildService()

	uid, err := svc.RegisterChild(context.Background(), models.Child{UID: "c1", Name: "Asha", ParentUID: "p1"})
	require.NoError(t, err)
	assert.Equal(t, "c1", uid)

	doc, err := store.Get(context.Background(), repositories.CollectionChildren, "c1")
	require.NoError(t, err)
	assert.Equal(t, []string{}, doc.Data["parent_contacts"])

	_, err = svc.RegisterChild(context.Background(), models.Child{UID: "c2", Name: "x"})
	assert.Equal(t, apperrors.KindBadRequest, apperrors.KindOf(err))
}

func TestRecordAppUsageDefaultsTimestamp(t *testing.T) {
	svc, store := newChildService()

	require.NoError(t, svc.RecordAppUsage(context.Background(), models.AppUsageRecord{UID: "c1", Package: "yt", DurationSeconds: 5}))
	docs, _ := store.Query(context.Background(), repositories.CollectionAppUsage, repositories.Query{})
	require.Len(t, docs, 1)
	assert.Equal(t, svc.now(), docs[0].Data["timestamp"])

	err := svc.RecordAppUsage(context.Background(), models.AppUsageRecord{UID: "c1", Package: "yt", DurationSeconds: -1})
	assert.Equal(t, apperrors.KindBadRequest, apperrors.KindOf(err))
}

func TestSaveJournalDefaultsDate(t *testing.T) {
	svc, store := newChildService()

	require.NoError(t, svc.SaveJournal(context.Background(), models.JournalEntry{UID: "c1", Good: []string{"sun"}}))
	docs, _ := store.Query(context.Background(), repositories.CollectionJournals, repositories.Query{})
	require.Len(t, docs, 1)
	assert.Equal(t, "2024-05-01", docs[0].Data["date"])
	assert.Equal(t, []string{}, docs[0].Data["bad"])
}

func TestSaveReminder(t *testing.T) {
	svc, _ := newChildService()
	interval := 30

	msg, err := svc.SaveReminder(context.Background(), models.Reminder{UID: "c1", Type: "water", IntervalMinutes: &interval})
	require.NoError(t, err)
	assert.Equal(t, ReminderSavedMessage, msg)

	zero := 0
	_, err = svc.SaveReminder(context.Background(), models.Reminder{UID: "c1", Type: "water", IntervalMinutes: &zero})
	assert.Equal(t, apperrors.KindBadRequest, apperrors.KindOf(err))
}

func TestUpdateLocationValidatesRange(t *testing.T) {
	svc, _ := newChildService()

	assert.NoError(t, svc.UpdateLocation(context.Background(), models.LocationSample{UID: "c1", Lat: 12.9, Lng: 77.6}))
	err := svc.UpdateLocation(context.Background(), models.LocationSample{UID: "c1", Lat: 91, Lng: 0})
	assert.Equal(t, apperrors.KindBadRequest, apperrors.KindOf(err))
}

func TestChildServiceStoreFailure(t *testing.T) {
	telemetry := new(mocks.TelemetryRepository)
	telemetry.On("AddLocation", mock.Anything, mock.Anything).Return("", errors.New("unavailable"))
	svc := NewChildService(nil, telemetry, quietLogger())

	err := svc.UpdateLocation(context.Background(), models.LocationSample{UID: "c1"})
	assert.Equal(t, apperrors.KindInternal, apperrors.KindOf(err))
	telemetry.AssertExpectations(t)
}
