package services

import (
	"fmt"
	"net/smtp"
	"strings"
)

type EmailService struct {
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	send         func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewEmailService(host, port, username, password, from string) *EmailService {
	return &EmailService{
		SMTPHost:     host,
		SMTPPort:     port,
		SMTPUsername: username,
		SMTPPassword: password,
		FromEmail:    from,
		send:         smtp.SendMail,
	}
}

// Enabled reports whether SMTP is configured.
func (s *EmailService) Enabled() bool {
	return s.SMTPHost != "" && s.FromEmail != ""
}

// SendMail sends a plain-text UTF-8 message to every recipient in one transaction.
func (s *EmailService) SendMail(to []string, subject, body string) error {
	if !s.Enabled() {
		return fmt.Errorf("smtp is not configured")
	}
	if len(to) == 0 {
		return fmt.Errorf("no recipients")
	}

	message := buildMessage(s.FromEmail, to, subject, body)

	var auth smtp.Auth
	if s.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.SMTPUsername, s.SMTPPassword, s.SMTPHost)
	}
	addr := fmt.Sprintf("%s:%s", s.SMTPHost, s.SMTPPort)

	if err := s.send(addr, auth, s.FromEmail, to, message); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func buildMessage(from string, to []string, subject, body string) []byte {
	return []byte(fmt.Sprintf("From: %s\r\n"+
		"To: %s\r\n"+
		"Subject: %s\r\n"+
		"Content-Type: text/plain; charset=UTF-8\r\n"+
		"\r\n"+
		"%s", from, strings.Join(to, ", "), subject, body))
}
