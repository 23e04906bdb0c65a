package impl

import (
	"HaloBackend/models"
	"HaloBackend/repositories"
	"context"
	"fmt"
	"time"
)

type TelemetryRepositoryImpl struct {
	Store repositories.RecordStore
}

func NewTelemetryRepository(store repositories.RecordStore) repositories.TelemetryRepository {
	return &TelemetryRepositoryImpl{Store: store}
}

func (r *TelemetryRepositoryImpl) AddAppUsage(ctx context.Context, rec models.AppUsageRecord) (string, error) {
	return r.Store.Create(ctx, repositories.CollectionAppUsage, map[string]interface{}{
		"uid":              rec.UID,
		"package":          rec.Package,
		"duration_seconds": rec.DurationSeconds,
		"timestamp":        rec.Timestamp.UTC(),
	})
}

func (r *TelemetryRepositoryImpl) AppUsageSince(ctx context.Context, uid string, since time.Time) ([]models.AppUsageRecord, error) {
	q := repositories.Query{}.
		Where("uid", repositories.OpEqual, uid).
		Where("timestamp", repositories.OpGreaterOrEqual, since.UTC())
	docs, err := r.Store.Query(ctx, repositories.CollectionAppUsage, q)
	if err != nil {
		return nil, fmt.Errorf("query app usage of %s: %w", uid, err)
	}
	records := make([]models.AppUsageRecord, 0, len(docs))
	for _, doc := range docs {
		records = append(records, models.AppUsageRecord{
			ID:              doc.ID,
			UID:             getString(doc.Data, "uid"),
			Package:         getString(doc.Data, "package"),
			DurationSeconds: getInt64(doc.Data, "duration_seconds"),
			Timestamp:       getTime(doc.Data, "timestamp"),
		})
	}
	return records, nil
}

func (r *TelemetryRepositoryImpl) AddJournal(ctx context.Context, entry models.JournalEntry) (string, error) {
	return r.Store.Create(ctx, repositories.CollectionJournals, map[string]interface{}{
		"uid":        entry.UID,
		"date":       entry.Date,
		"good":       nonNilStrings(entry.Good),
		"bad":        nonNilStrings(entry.Bad),
		"created_at": repositories.ServerTimestamp,
	})
}

func (r *TelemetryRepositoryImpl) AddReminder(ctx context.Context, reminder models.Reminder) (string, error) {
	data := map[string]interface{}{
		"uid":              reminder.UID,
		"type":             reminder.Type,
		"interval_minutes": nil,
		"at_time":          nil,
		"created_at":       repositories.ServerTimestamp,
	}
	if reminder.IntervalMinutes != nil {
		data["interval_minutes"] = int64(*reminder.IntervalMinutes)
	}
	if reminder.AtTime != nil {
		data["at_time"] = *reminder.AtTime
	}
	return r.Store.Create(ctx, repositories.CollectionReminders, data)
}

func (r *TelemetryRepositoryImpl) AddMessage(ctx context.Context, msg models.MessageRecord) (string, error) {
	return r.Store.Create(ctx, repositories.CollectionMessages, map[string]interface{}{
		"child_uid": msg.ChildUID,
		"from":      msg.From,
		"text":      msg.Text,
		"app":       msg.App,
		"timestamp": msg.Timestamp.UTC(),
	})
}

func (r *TelemetryRepositoryImpl) AddReportedText(ctx context.Context, text models.ReportedText) (string, error) {
	return r.Store.Create(ctx, repositories.CollectionReportedTexts, map[string]interface{}{
		"child_uid":  text.ChildUID,
		"text":       text.Text,
		"created_at": repositories.ServerTimestamp,
	})
}

func (r *TelemetryRepositoryImpl) AddLocation(ctx context.Context, sample models.LocationSample) (string, error) {
	return r.Store.Create(ctx, repositories.CollectionLocations, map[string]interface{}{
		"uid": sample.UID,
		"lat": sample.Lat,
		"lng": sample.Lng,
		"ts":  sample.Timestamp.UTC(),
	})
}

func (r *TelemetryRepositoryImpl) LatestLocation(ctx context.Context, uid string) (models.LocationSample, error) {
	docs, err := r.Store.Query(ctx, repositories.CollectionLocations, repositories.Query{
		Filters:    []repositories.Filter{{Field: "uid", Op: repositories.OpEqual, Value: uid}},
		OrderBy:    "ts",
		Descending: true,
		Limit:      1,
	})
	if err != nil {
		return models.LocationSample{}, fmt.Errorf("query locations of %s: %w", uid, err)
	}
	if len(docs) == 0 {
		return models.LocationSample{}, repositories.ErrNotFound
	}
	doc := docs[0]
	return models.LocationSample{
		ID:        doc.ID,
		UID:       getString(doc.Data, "uid"),
		Lat:       getFloat(doc.Data, "lat"),
		Lng:       getFloat(doc.Data, "lng"),
		Timestamp: getTime(doc.Data, "ts"),
	}, nil
}

func (r *TelemetryRepositoryImpl) AddSOS(ctx context.Context, event models.SOSEvent) (string, error) {
	data := map[string]interface{}{
		"uid":    event.UID,
		"lat":    nil,
		"lng":    nil,
		"note":   event.Note,
		"ts":     repositories.ServerTimestamp,
		"sos_id": event.SOSID,
	}
	if event.Lat != nil {
		data["lat"] = *event.Lat
	}
	if event.Lng != nil {
		data["lng"] = *event.Lng
	}
	return r.Store.Create(ctx, repositories.CollectionSOSRequests, data)
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
