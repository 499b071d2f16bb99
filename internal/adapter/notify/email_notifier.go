package adapternotify

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/Vikasg7/alerty/internal/port/notify"
)

// SMTPConfig carries everything the email notifier needs to dial out.
type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	SenderEmail string
	Recipient   string
}

type EmailNotifier struct {
	cfg    SMTPConfig
	dialer *gomail.Dialer
}

func NewEmailNotifier(cfg SMTPConfig) (*EmailNotifier, error) {
	if cfg.Host == "" || cfg.Port == 0 || cfg.SenderEmail == "" || cfg.Recipient == "" {
		return nil, fmt.Errorf("SMTP host, port, sender and recipient must be configured")
	}
	return &EmailNotifier{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}, nil
}

func (n *EmailNotifier) Notify(_ context.Context, notification notify.Notification) error {
	m := gomail.NewMessage()
	m.SetHeader("From", n.cfg.SenderEmail)
	m.SetHeader("To", n.cfg.Recipient)
	m.SetHeader("Subject", notification.Title)

	body := notification.Message
	if notification.TargetURL != "" {
		body = fmt.Sprintf("%s\n\n%s", notification.Message, notification.TargetURL)
	}
	m.SetBody("text/plain", body)

	if err := n.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("EmailNotifier.Notify: %w", err)
	}
	return nil
}
