package controllers

import (
	"HaloBackend/models"
	"HaloBackend/services"
	"context"
)

// ChildServiceInterface covers registration and device telemetry.
type ChildServiceInterface interface {
	RegisterChild(ctx context.Context, child models.Child) (string, error)
	RecordAppUsage(ctx context.Context, rec models.AppUsageRecord) error
	SaveJournal(ctx context.Context, entry models.JournalEntry) error
	SaveReminder(ctx context.Context, reminder models.Reminder) (string, error)
	UpdateLocation(ctx context.Context, sample models.LocationSample) error
}

type ParentServiceInterface interface {
	RegisterParent(ctx context.Context, meta map[string]interface{}) error
	FindChildLocation(ctx context.Context, childUID string) (models.LocationSample, error)
}

// AlertServiceInterface is the screening pipeline and the parent's view of its output.
type AlertServiceInterface interface {
	IngestReportedEvent(ctx context.Context, ev services.ReportedEvent) (bool, error)
	ListParentAlerts(ctx context.Context, parentUID string) ([]models.Alert, error)
	AcknowledgeAlert(ctx context.Context, alertID string, acknowledged bool) error
}

type SOSServiceInterface interface {
	TriggerSOS(ctx context.Context, req services.SOSRequest) (string, error)
}

type UsageServiceInterface interface {
	Summary(ctx context.Context, uid string) (models.UsageSummary, error)
}
