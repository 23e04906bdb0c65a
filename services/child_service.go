package services

import (
	"HaloBackend/apperrors"
	"HaloBackend/models"
	"HaloBackend/repositories"
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// ReminderSavedMessage tells the device that reminders are only recorded here.
const ReminderSavedMessage = "Reminder saved. Use Cloud Function or server scheduler to trigger."

// ChildService handles registration and the append-only telemetry a child device pushes.
type ChildService struct {
	ChildRepo     repositories.ChildRepository
	TelemetryRepo repositories.TelemetryRepository
	logger        *logrus.Entry
	now           func() time.Time
}

func NewChildService(childRepo repositories.ChildRepository, telemetryRepo repositories.TelemetryRepository, logger *logrus.Logger) *ChildService {
	return &ChildService{
		ChildRepo:     childRepo,
		TelemetryRepo: telemetryRepo,
		logger:        logger.WithField("component", "child"),
		now:           time.Now,
	}
}

// RegisterChild creates or replaces the child document keyed by its uid.
func (s *ChildService) RegisterChild(ctx context.Context, child models.Child) (string, error) {
	if child.UID == "" {
		return "", apperrors.BadRequest("uid required")
	}
	if child.ParentUID == "" {
		return "", apperrors.BadRequest("parent_uid required")
	}
	if child.ParentContacts == nil {
		child.ParentContacts = []string{}
	}
	if err := s.ChildRepo.Save(ctx, child); err != nil {
		return "", apperrors.Internal("Failed to register child", err)
	}
	s.logger.WithFields(logrus.Fields{"uid": child.UID, "parent_uid": child.ParentUID}).Info("child registered")
	return child.UID, nil
}

func (s *ChildService) RecordAppUsage(ctx context.Context, rec models.AppUsageRecord) error {
	if rec.DurationSeconds < 0 {
		return apperrors.BadRequest("duration_seconds must not be negative")
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = s.now().UTC()
	}
	if _, err := s.TelemetryRepo.AddAppUsage(ctx, rec); err != nil {
		return apperrors.Internal("Failed to save app usage", err)
	}
	return nil
}

// SaveJournal defaults the entry date to today (UTC).
func (s *ChildService) SaveJournal(ctx context.Context, entry models.JournalEntry) error {
	if entry.Date == "" {
		entry.Date = s.now().UTC().Format("2006-01-02")
	}
	if _, err := s.TelemetryRepo.AddJournal(ctx, entry); err != nil {
		return apperrors.Internal("Failed to save journal", err)
	}
	return nil
}

func (s *ChildService) SaveReminder(ctx context.Context, reminder models.Reminder) (string, error) {
	if reminder.IntervalMinutes != nil && *reminder.IntervalMinutes <= 0 {
		return "", apperrors.BadRequest("interval_minutes must be positive")
	}
	if _, err := s.TelemetryRepo.AddReminder(ctx, reminder); err != nil {
		return "", apperrors.Internal("Failed to save reminder", err)
	}
	return ReminderSavedMessage, nil
}

func (s *ChildService) UpdateLocation(ctx context.Context, sample models.LocationSample) error {
	if sample.Lat < -90 || sample.Lat > 90 || sample.Lng < -180 || sample.Lng > 180 {
		return apperrors.BadRequest("lat/lng out of range")
	}
	if sample.Timestamp.IsZero() {
		sample.Timestamp = s.now().UTC()
	}
	if _, err := s.TelemetryRepo.AddLocation(ctx, sample); err != nil {
		return apperrors.Internal("Failed to save location", err)
	}
	return nil
}
