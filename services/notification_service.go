package services

import (
	"HaloBackend/metrics"
	"context"
	"fmt"

	"firebase.google.com/go/v4/messaging"
	"github.com/sirupsen/logrus"
)

// MessagingClient is the part of the FCM client the notification service needs.
type MessagingClient interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// NotificationService delivers push notifications through Firebase Cloud Messaging.
// Delivery is best-effort: failures are logged and counted, nothing is retried.
type NotificationService struct {
	FCMClient MessagingClient
	logger    *logrus.Entry
}

// NewNotificationService builds the service. A nil client disables delivery.
func NewNotificationService(client MessagingClient, logger *logrus.Logger) *NotificationService {
	return &NotificationService{
		FCMClient: client,
		logger:    logger.WithField("component", "fcm"),
	}
}

// SendPush sends one notification to deviceToken.
func (s *NotificationService) SendPush(ctx context.Context, deviceToken, title, body string, data map[string]string) error {
	if deviceToken == "" {
		metrics.ObserveNotification(metrics.OutcomeSkipped)
		return fmt.Errorf("device token is empty")
	}
	if s.FCMClient == nil {
		s.logger.WithField("title", title).Debug("push disabled, notification skipped")
		metrics.ObserveNotification(metrics.OutcomeSkipped)
		return nil
	}

	message := &messaging.Message{
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data:  data,
		Token: deviceToken,
	}

	resp, err := s.FCMClient.Send(ctx, message)
	if err != nil {
		s.logger.WithError(err).WithField("title", title).Error("push delivery failed")
		metrics.ObserveNotification(metrics.OutcomeFailed)
		return fmt.Errorf("fcm send: %w", err)
	}

	s.logger.WithFields(logrus.Fields{"message_id": resp, "title": title}).Info("push delivered")
	metrics.ObserveNotification(metrics.OutcomeSent)
	return nil
}
