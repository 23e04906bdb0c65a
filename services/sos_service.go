package services

import (
	"HaloBackend/apperrors"
	"HaloBackend/interfaces"
	"HaloBackend/models"
	"HaloBackend/repositories"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// SOSRequest is an emergency signal from a child device. Coordinates are optional.
type SOSRequest struct {
	UID  string
	Lat  *float64
	Lng  *float64
	Note string
}

// SOSService records SOS events and alerts the parent. Notification is best-effort
// and runs through the task queue like alert pushes.
type SOSService struct {
	ChildRepo     repositories.ChildRepository
	ParentRepo    repositories.ParentRepository
	TelemetryRepo repositories.TelemetryRepository
	Push          interfaces.PushSender
	Mail          interfaces.MailSender
	Tasks         interfaces.TaskQueue
	Feed          interfaces.FeedPublisher
	logger        *logrus.Entry
	newID         func() string
	now           func() time.Time
}

func NewSOSService(
	childRepo repositories.ChildRepository,
	parentRepo repositories.ParentRepository,
	telemetryRepo repositories.TelemetryRepository,
	push interfaces.PushSender,
	mail interfaces.MailSender,
	tasks interfaces.TaskQueue,
	feed interfaces.FeedPublisher,
	logger *logrus.Logger,
) *SOSService {
	return &SOSService{
		ChildRepo:     childRepo,
		ParentRepo:    parentRepo,
		TelemetryRepo: telemetryRepo,
		Push:          push,
		Mail:          mail,
		Tasks:         tasks,
		Feed:          feed,
		logger:        logger.WithField("component", "sos"),
		newID:         uuid.NewString,
		now:           time.Now,
	}
}

// TriggerSOS stores the event and returns its generated id.
func (s *SOSService) TriggerSOS(ctx context.Context, req SOSRequest) (string, error) {
	if req.UID == "" {
		return "", apperrors.BadRequest("uid required")
	}

	event := models.SOSEvent{
		SOSID: s.newID(),
		UID:   req.UID,
		Lat:   req.Lat,
		Lng:   req.Lng,
		Note:  req.Note,
	}
	if _, err := s.TelemetryRepo.AddSOS(ctx, event); err != nil {
		return "", apperrors.Internal("Failed to save SOS", err)
	}
	event.Timestamp = s.now().UTC()

	log := s.logger.WithFields(logrus.Fields{"sos_id": event.SOSID, "uid": req.UID})
	log.Warn("SOS received")

	rcpt := resolveRecipient(ctx, s.ChildRepo, s.ParentRepo, req.UID, s.logger)
	if rcpt.Child.UID == "" {
		log.Debug("SOS from unregistered child, nobody to notify")
		return event.SOSID, nil
	}

	title := "SOS Alert"
	body := fmt.Sprintf("Child %s sent SOS. Location: %s,%s", rcpt.Child.Name, formatCoordinate(req.Lat), formatCoordinate(req.Lng))

	s.mailContacts(rcpt.Child, title, body, event.Note)

	if !rcpt.Found {
		return event.SOSID, nil
	}
	if s.Feed != nil {
		s.Feed.Publish(interfaces.FeedMessage{
			Type:      interfaces.FeedTypeSOS,
			ParentID:  rcpt.Parent.UID,
			Payload:   event,
			Timestamp: event.Timestamp,
		})
	}
	if rcpt.FCMToken == "" {
		log.Debug("parent has no push token, SOS not pushed")
		return event.SOSID, nil
	}

	token := rcpt.FCMToken
	data := map[string]string{"child_uid": req.UID, "sos_id": event.SOSID, "type": "sos"}
	s.Tasks.Enqueue("push:sos", func(ctx context.Context) error {
		return s.Push.SendPush(ctx, token, title, body, data)
	})
	return event.SOSID, nil
}

func (s *SOSService) mailContacts(child models.Child, subject, body, note string) {
	if s.Mail == nil || !s.Mail.Enabled() {
		return
	}
	contacts := child.EmailContacts()
	if len(contacts) == 0 {
		return
	}
	if note != "" {
		body += "\nNote: " + note
	}
	s.Tasks.Enqueue("mail:sos", func(ctx context.Context) error {
		return s.Mail.SendMail(contacts, subject, body)
	})
}

func formatCoordinate(v *float64) string {
	if v == nil {
		return "unknown"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
