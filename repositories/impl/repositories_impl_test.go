package impl

import (
	"HaloBackend/models"
	"HaloBackend/repositories"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChildRepositorySaveAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewChildRepository(NewMemoryStore(nil))

	require.NoError(t, repo.Save(ctx, models.Child{UID: "c1", Name: "Asha", ParentUID: "p1", ParentContacts: []string{"mum@example.com"}}))
	require.NoError(t, repo.Save(ctx, models.Child{UID: "c2", Name: "Ravi", ParentUID: "p1"}))
	require.NoError(t, repo.Save(ctx, models.Child{UID: "c3", Name: "Other", ParentUID: "p2"}))

	child, err := repo.FindByUID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Asha", child.Name)
	assert.Equal(t, []string{"mum@example.com"}, child.ParentContacts)
	assert.False(t, child.CreatedAt.IsZero())

	children, err := repo.FindByParentUID(ctx, "p1")
	require.NoError(t, err)
	assert.Len(t, children, 2)

	none, err := repo.FindByParentUID(ctx, "p9")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	_, err = repo.FindByUID(ctx, "missing")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestParentRepositorySaveReplacesMeta(t *testing.T) {
	ctx := context.Background()
	repo := NewParentRepository(NewMemoryStore(nil))

	require.NoError(t, repo.Save(ctx, models.Parent{UID: "p1", Meta: map[string]interface{}{"fcm_token": "old", "device": "pixel"}}))
	require.NoError(t, repo.Save(ctx, models.Parent{UID: "p1", Meta: map[string]interface{}{"fcm_token": "new"}}))

	parent, err := repo.FindByUID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "new", parent.FCMToken())
	assert.NotContains(t, parent.Meta, "device")
}

func TestAlertRepositoryListForChildrenChunksAndMerges(t *testing.T) {
	ctx := context.Background()
	repo := NewAlertRepository(NewMemoryStore(nil))

	var uids []string
	for i := 0; i < 65; i++ {
		uid := fmt.Sprintf("child-%02d", i)
		uids = append(uids, uid)
		_, err := repo.Create(ctx, models.Alert{ChildUID: uid, Type: models.AlertKindMessage, Text: uid})
		require.NoError(t, err)
	}

	alerts, err := repo.ListForChildren(ctx, uids, 50)
	require.NoError(t, err)
	require.Len(t, alerts, 50)
	assert.Equal(t, "child-64", alerts[0].ChildUID)
	assert.Equal(t, "child-15", alerts[49].ChildUID)
	for i := 1; i < len(alerts); i++ {
		assert.False(t, alerts[i].CreatedAt.After(alerts[i-1].CreatedAt))
	}
}

func TestAlertRepositoryMergeKeepsArrivalOrderAcrossChunks(t *testing.T) {
	ctx := context.Background()
	repo := NewAlertRepository(NewMemoryStore(frozenClock(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))))

	var uids []string
	for i := 0; i < 35; i++ {
		uids = append(uids, fmt.Sprintf("child-%02d", i))
	}
	// child-00 sits in the first chunk, child-34 in the second.
	var order []string
	for i := 0; i < 6; i++ {
		uid := uids[0]
		if i%2 == 1 {
			uid = uids[34]
		}
		alert, err := repo.Create(ctx, models.Alert{ChildUID: uid, Type: models.AlertKindMessage, Text: fmt.Sprint(i)})
		require.NoError(t, err)
		order = append([]string{alert.ID}, order...)
	}

	alerts, err := repo.ListForChildren(ctx, uids, 50)
	require.NoError(t, err)
	require.Len(t, alerts, 6)
	for i, alert := range alerts {
		assert.Equal(t, order[i], alert.ID)
		if i > 0 {
			assert.True(t, alert.CreatedAt.Before(alerts[i-1].CreatedAt))
		}
	}
}

func TestAlertRepositoryEmptyPipeReadsBackEmpty(t *testing.T) {
	ctx := context.Background()
	repo := NewAlertRepository(NewMemoryStore(nil))

	created, err := repo.Create(ctx, models.Alert{ChildUID: "c1", Type: models.AlertKindReportedText, Text: "hi", Analysis: models.Analysis{Pipe: []models.LabelScore{}}})
	require.NoError(t, err)

	alert, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.NotNil(t, alert.Analysis.Pipe)
	assert.Empty(t, alert.Analysis.Pipe)
	assert.False(t, alert.Analysis.Failed())
}

func TestAlertRepositoryListForNoChildren(t *testing.T) {
	repo := NewAlertRepository(NewMemoryStore(nil))

	alerts, err := repo.ListForChildren(context.Background(), nil, 50)
	require.NoError(t, err)
	assert.NotNil(t, alerts)
	assert.Empty(t, alerts)
}

func TestAlertRepositoryAcknowledge(t *testing.T) {
	ctx := context.Background()
	repo := NewAlertRepository(NewMemoryStore(nil))

	created, err := repo.Create(ctx, models.Alert{
		ChildUID:   "c1",
		Type:       models.AlertKindReportedText,
		Text:       "verify your account",
		Suspicious: true,
		Analysis:   models.Analysis{Error: "model offline"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	require.NoError(t, repo.MarkAcknowledged(ctx, created.ID))

	stored, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, stored.Acknowledged)
	assert.True(t, stored.Suspicious)
	assert.Equal(t, "model offline", stored.Analysis.Error)
	assert.Empty(t, stored.From)

	assert.ErrorIs(t, repo.MarkAcknowledged(ctx, "missing"), repositories.ErrNotFound)
}

func TestTelemetryAppUsageSince(t *testing.T) {
	ctx := context.Background()
	repo := NewTelemetryRepository(NewMemoryStore(nil))
	since := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	_, _ = repo.AddAppUsage(ctx, models.AppUsageRecord{UID: "c1", Package: "old", DurationSeconds: 10, Timestamp: since.Add(-time.Hour)})
	_, _ = repo.AddAppUsage(ctx, models.AppUsageRecord{UID: "c1", Package: "yt", DurationSeconds: 60, Timestamp: since})
	_, _ = repo.AddAppUsage(ctx, models.AppUsageRecord{UID: "c2", Package: "yt", DurationSeconds: 60, Timestamp: since})

	records, err := repo.AppUsageSince(ctx, "c1", since)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "yt", records[0].Package)
	assert.Equal(t, int64(60), records[0].DurationSeconds)
}

func TestTelemetryLatestLocation(t *testing.T) {
	ctx := context.Background()
	repo := NewTelemetryRepository(NewMemoryStore(nil))
	ts := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	_, err := repo.LatestLocation(ctx, "c1")
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	_, _ = repo.AddLocation(ctx, models.LocationSample{UID: "c1", Lat: 1, Lng: 1, Timestamp: ts})
	_, _ = repo.AddLocation(ctx, models.LocationSample{UID: "c1", Lat: 2, Lng: 2, Timestamp: ts.Add(time.Minute)})
	_, _ = repo.AddLocation(ctx, models.LocationSample{UID: "c1", Lat: 3, Lng: 3, Timestamp: ts.Add(time.Minute)})

	loc, err := repo.LatestLocation(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 3.0, loc.Lat)
	assert.Equal(t, ts.Add(time.Minute), loc.Timestamp)
}

func TestTelemetryOptionalFieldsStoredAsNull(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(nil)
	repo := NewTelemetryRepository(store)

	id, err := repo.AddSOS(ctx, models.SOSEvent{UID: "c1", SOSID: "s1"})
	require.NoError(t, err)
	doc, _ := store.Get(ctx, repositories.CollectionSOSRequests, id)
	assert.Nil(t, doc.Data["lat"])
	assert.Nil(t, getFloatPtr(doc.Data, "lng"))
	assert.IsType(t, time.Time{}, doc.Data["ts"])

	at := "08:00"
	id, err = repo.AddReminder(ctx, models.Reminder{UID: "c1", Type: "water", AtTime: &at})
	require.NoError(t, err)
	doc, _ = store.Get(ctx, repositories.CollectionReminders, id)
	assert.Nil(t, getIntPtr(doc.Data, "interval_minutes"))
	assert.Equal(t, "08:00", *getStringPtr(doc.Data, "at_time"))
}
