// Package mail sends operator notifications. The local driver only logs the
// mail; the cloud driver delivers it over SMTP.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/FACorreiaa/go-city-info-api/config"
)

type Service interface {
	Send(ctx context.Context, subject, message string) error
}

var (
	_ Service = (*LocalMailService)(nil)
	_ Service = (*CloudMailService)(nil)
)

// New picks the mail service matching cfg.Driver.
func New(cfg config.Mail, logger *slog.Logger) (Service, error) {
	switch cfg.Driver {
	case "local", "":
		return NewLocalMailService(cfg.From, cfg.To, logger), nil
	case "cloud":
		return NewCloudMailService(cfg, logger), nil
	default:
		return nil, fmt.Errorf("unsupported mail driver %q", cfg.Driver)
	}
}

type LocalMailService struct {
	from   string
	to     string
	logger *slog.Logger
}

func NewLocalMailService(from, to string, logger *slog.Logger) *LocalMailService {
	return &LocalMailService{from: from, to: to, logger: logger}
}

func (s *LocalMailService) Send(ctx context.Context, subject, message string) error {
	s.logger.InfoContext(ctx, "Mail sent",
		slog.String("driver", "local"),
		slog.String("from", s.from),
		slog.String("to", s.to),
		slog.String("subject", subject),
		slog.String("message", message),
	)
	return nil
}

// sendFunc matches smtp.SendMail.
type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type CloudMailService struct {
	cfg    config.Mail
	logger *slog.Logger
	send   sendFunc
}

func NewCloudMailService(cfg config.Mail, logger *slog.Logger) *CloudMailService {
	return &CloudMailService{cfg: cfg, logger: logger, send: smtp.SendMail}
}

func (s *CloudMailService) Send(ctx context.Context, subject, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	addr := net.JoinHostPort(s.cfg.SMTP.Host, strconv.Itoa(s.cfg.SMTP.Port))

	var auth smtp.Auth
	if s.cfg.SMTP.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTP.Username, s.cfg.SMTP.Password, s.cfg.SMTP.Host)
	}

	if err := s.send(addr, auth, s.cfg.From, []string{s.cfg.To}, buildMessage(s.cfg.From, s.cfg.To, subject, message)); err != nil {
		return fmt.Errorf("failed to send mail via %s: %w", addr, err)
	}
	s.logger.DebugContext(ctx, "Mail delivered", slog.String("driver", "cloud"), slog.String("subject", subject))
	return nil
}

func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	b.WriteString("\r\n")
	return []byte(b.String())
}
