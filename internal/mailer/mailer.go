package mailer

import (
	"context"
	"fmt"
	"log/slog"
)

const (
	KindEmailConfirm  = "email_confirm"
	KindPasswordReset = "password_reset"
)

type Message struct {
	Kind    string `json:"kind"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Sender hands a message to whatever actually delivers mail.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

// KafkaSender writes messages to an outbox topic consumed by an external mail worker.
type KafkaSender struct {
	Pub   Publisher
	Topic string
}

func (s *KafkaSender) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return fmt.Errorf("mailer: empty recipient")
	}
	return s.Pub.PublishEvent(ctx, s.Topic, msg.To, msg)
}

// LogSender only logs. It is used when no broker is configured.
type LogSender struct {
	Logger *slog.Logger
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	l := s.Logger
	if l == nil {
		l = slog.Default()
	}
	l.InfoContext(ctx, "mail_not_delivered", "kind", msg.Kind, "to", msg.To, "subject", msg.Subject)
	return nil
}

func greetingName(firstName, userName string) string {
	if firstName != "" {
		return firstName
	}
	return userName
}

func ConfirmationMessage(to, firstName, userName, link string) Message {
	return Message{
		Kind:    KindEmailConfirm,
		To:      to,
		Subject: "Confirm your account",
		Body: fmt.Sprintf("Hello %s,\n\nFollow the link below to confirm your email:\n%s\n\nThe link is valid for 3 days.",
			greetingName(firstName, userName), link),
	}
}

func PasswordResetMessage(to, firstName, userName, link string) Message {
	return Message{
		Kind:    KindPasswordReset,
		To:      to,
		Subject: "Reset your password",
		Body: fmt.Sprintf("Hello %s,\n\nYou asked to reset your password. Follow the link below to set a new one "+
			"(valid for 1 hour):\n%s\n\nIf you did not ask for this, ignore this email.",
			greetingName(firstName, userName), link),
	}
}
