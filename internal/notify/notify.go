package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
)

// Message is one outbound notification email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers notifications through one channel.
type Sender interface {
	Name() string
	Send(ctx context.Context, msg Message) error
}

// SMTPSender delivers mail over plain SMTP with auth.
type SMTPSender struct {
	Host     string
	Port     string
	User     string
	Password string
	From     string
}

func (s *SMTPSender) Name() string { return "smtp" }

func (s *SMTPSender) Send(_ context.Context, msg Message) error {
	auth := smtp.PlainAuth("", s.User, s.Password, s.Host)
	body := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		s.From, msg.To, msg.Subject, msg.Body)
	return smtp.SendMail(s.Host+":"+s.Port, auth, s.From, []string{msg.To}, []byte(body))
}

// LogSender logs instead of delivering; used when SMTP is not configured.
type LogSender struct {
	Log *slog.Logger
}

func (s *LogSender) Name() string { return "log" }

func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.Log.Info("notification (mail not configured)",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject))
	return nil
}
