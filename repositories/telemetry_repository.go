package repositories

import (
	"HaloBackend/models"
	"context"
	"time"
)

// TelemetryRepository covers the append-only collections pushed by devices.
type TelemetryRepository interface {
	AddAppUsage(ctx context.Context, rec models.AppUsageRecord) (string, error)
	AppUsageSince(ctx context.Context, uid string, since time.Time) ([]models.AppUsageRecord, error)
	AddJournal(ctx context.Context, entry models.JournalEntry) (string, error)
	AddReminder(ctx context.Context, reminder models.Reminder) (string, error)
	AddMessage(ctx context.Context, msg models.MessageRecord) (string, error)
	AddReportedText(ctx context.Context, text models.ReportedText) (string, error)
	AddLocation(ctx context.Context, sample models.LocationSample) (string, error)
	// LatestLocation returns ErrNotFound when the child never reported a location.
	LatestLocation(ctx context.Context, uid string) (models.LocationSample, error)
	AddSOS(ctx context.Context, event models.SOSEvent) (string, error)
}
