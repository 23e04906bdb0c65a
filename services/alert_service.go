package services

import (
	"HaloBackend/apperrors"
	"HaloBackend/interfaces"
	"HaloBackend/metrics"
	"HaloBackend/models"
	"HaloBackend/repositories"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// ParentAlertLimit is how many alerts a parent sees at most.
const ParentAlertLimit = 50

// ReportedEvent is a message or free text a child device sent for screening.
type ReportedEvent struct {
	ChildUID  string
	Kind      models.AlertKind
	Text      string
	From      string
	App       string
	Timestamp time.Time
}

// AlertService runs the screening pipeline: persist the raw event, screen it, persist
// an alert, then notify the parent in the background.
type AlertService struct {
	ChildRepo     repositories.ChildRepository
	ParentRepo    repositories.ParentRepository
	AlertRepo     repositories.AlertRepository
	TelemetryRepo repositories.TelemetryRepository
	Analyzer      TextAnalyzer
	Push          interfaces.PushSender
	Tasks         interfaces.TaskQueue
	Feed          interfaces.FeedPublisher
	logger        *logrus.Entry
	now           func() time.Time
}

func NewAlertService(
	childRepo repositories.ChildRepository,
	parentRepo repositories.ParentRepository,
	alertRepo repositories.AlertRepository,
	telemetryRepo repositories.TelemetryRepository,
	analyzer TextAnalyzer,
	push interfaces.PushSender,
	tasks interfaces.TaskQueue,
	feed interfaces.FeedPublisher,
	logger *logrus.Logger,
) *AlertService {
	return &AlertService{
		ChildRepo:     childRepo,
		ParentRepo:    parentRepo,
		AlertRepo:     alertRepo,
		TelemetryRepo: telemetryRepo,
		Analyzer:      analyzer,
		Push:          push,
		Tasks:         tasks,
		Feed:          feed,
		logger:        logger.WithField("component", "alerts"),
		now:           time.Now,
	}
}

// IngestReportedEvent returns the heuristic verdict. Only failures to persist the
// event or the alert are returned; notification problems never are.
func (s *AlertService) IngestReportedEvent(ctx context.Context, ev ReportedEvent) (bool, error) {
	if ev.ChildUID == "" {
		return false, apperrors.BadRequest("child_uid required")
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = s.now().UTC()
	}

	if err := s.persistRawEvent(ctx, ev); err != nil {
		return false, apperrors.Internal("Failed to save event", err)
	}

	suspicious := DetectPhishing(ev.Text)
	analysis := s.analyze(ctx, ev.Text)

	alert, err := s.AlertRepo.Create(ctx, models.Alert{
		ChildUID:     ev.ChildUID,
		Type:         ev.Kind,
		From:         ev.From,
		Text:         ev.Text,
		Suspicious:   suspicious,
		Analysis:     analysis,
		Acknowledged: false,
	})
	if err != nil {
		return false, apperrors.Internal("Failed to save alert", err)
	}
	alert.CreatedAt = s.now().UTC()
	metrics.ObserveAlert(string(ev.Kind), suspicious)

	log := s.logger.WithFields(logrus.Fields{"alert_id": alert.ID, "child_uid": ev.ChildUID, "suspicious": suspicious})
	log.Info("alert recorded")

	rcpt := resolveRecipient(ctx, s.ChildRepo, s.ParentRepo, ev.ChildUID, s.logger)
	if !rcpt.Found {
		log.Debug("no parent registered for child, alert not pushed")
		metrics.ObserveNotification(metrics.OutcomeSkipped)
		return suspicious, nil
	}

	s.publish(rcpt.Parent.UID, alert)

	if rcpt.FCMToken == "" {
		log.Debug("parent has no push token, alert not pushed")
		metrics.ObserveNotification(metrics.OutcomeSkipped)
		return suspicious, nil
	}

	title, body := alertNotificationText(ev)
	data := map[string]string{
		"child_uid": ev.ChildUID,
		"alert_id":  alert.ID,
		"type":      string(ev.Kind),
	}
	token := rcpt.FCMToken
	s.Tasks.Enqueue("push:"+string(ev.Kind), func(ctx context.Context) error {
		return s.Push.SendPush(ctx, token, title, body, data)
	})
	return suspicious, nil
}

func (s *AlertService) persistRawEvent(ctx context.Context, ev ReportedEvent) error {
	switch ev.Kind {
	case models.AlertKindMessage:
		_, err := s.TelemetryRepo.AddMessage(ctx, models.MessageRecord{
			ChildUID:  ev.ChildUID,
			From:      ev.From,
			Text:      ev.Text,
			App:       ev.App,
			Timestamp: ev.Timestamp,
		})
		return err
	case models.AlertKindReportedText:
		_, err := s.TelemetryRepo.AddReportedText(ctx, models.ReportedText{
			ChildUID: ev.ChildUID,
			Text:     ev.Text,
		})
		return err
	}
	return fmt.Errorf("unknown event kind %q", ev.Kind)
}

// analyze shields the pipeline from analyzers that panic.
func (s *AlertService) analyze(ctx context.Context, text string) (analysis models.Analysis) {
	if s.Analyzer == nil {
		return models.Analysis{Error: "text analyzer not configured"}
	}
	defer func() {
		if p := recover(); p != nil {
			s.logger.WithField("panic", p).Error("text analyzer panicked")
			analysis = models.Analysis{Error: fmt.Sprint(p)}
		}
	}()
	return s.Analyzer.Analyze(ctx, text)
}

func (s *AlertService) publish(parentUID string, alert models.Alert) {
	if s.Feed == nil {
		return
	}
	s.Feed.Publish(interfaces.FeedMessage{
		Type:      interfaces.FeedTypeAlert,
		ParentID:  parentUID,
		Payload:   alert,
		Timestamp: s.now().UTC(),
	})
}

func alertNotificationText(ev ReportedEvent) (string, string) {
	if ev.Kind == models.AlertKindMessage {
		return "New message alert", fmt.Sprintf("From %s: %s", ev.From, ev.Text)
	}
	return "Child Reported Text", "Your child reported: " + ev.Text
}

// ListParentAlerts returns the newest alerts across all children of parentUID.
// A parent without children gets an empty list.
func (s *AlertService) ListParentAlerts(ctx context.Context, parentUID string) ([]models.Alert, error) {
	children, err := s.ChildRepo.FindByParentUID(ctx, parentUID)
	if err != nil {
		return nil, apperrors.Internal("Failed to load children", err)
	}
	if len(children) == 0 {
		return []models.Alert{}, nil
	}

	uids := make([]string, 0, len(children))
	for _, child := range children {
		uids = append(uids, child.UID)
	}
	alerts, err := s.AlertRepo.ListForChildren(ctx, uids, ParentAlertLimit)
	if err != nil {
		return nil, apperrors.Internal("Failed to load alerts", err)
	}
	return alerts, nil
}

// AcknowledgeAlert moves an alert to acknowledged. The transition is one-way, so
// acknowledged=false is rejected, and acknowledging twice is a no-op.
func (s *AlertService) AcknowledgeAlert(ctx context.Context, alertID string, acknowledged bool) error {
	if !acknowledged {
		return apperrors.BadRequest("alerts cannot be unacknowledged")
	}

	alert, err := s.AlertRepo.FindByID(ctx, alertID)
	if errors.Is(err, repositories.ErrNotFound) {
		return apperrors.NotFound("Alert not found")
	}
	if err != nil {
		return apperrors.Internal("Failed to load alert", err)
	}
	if alert.Acknowledged {
		return nil
	}

	err = s.AlertRepo.MarkAcknowledged(ctx, alertID)
	if errors.Is(err, repositories.ErrNotFound) {
		return apperrors.NotFound("Alert not found")
	}
	if err != nil {
		return apperrors.Internal("Failed to update alert", err)
	}
	s.logger.WithField("alert_id", alertID).Info("alert acknowledged")
	return nil
}
