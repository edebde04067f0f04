package mail

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/folio-studio/portfolio-api/internal/config"
	"github.com/folio-studio/portfolio-api/pkg/logger"
	"github.com/folio-studio/portfolio-api/pkg/metrics"
	"gopkg.in/gomail.v2"
)

// Message is an outgoing HTML mail.
type Message struct {
	FromName string
	ReplyTo  string
	Subject  string
	HTML     string
}

// Sender delivers mail to the site owner.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// dialer is the part of gomail.Dialer used by SMTPSender.
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPSender sends through an SMTP relay with STARTTLS.
type SMTPSender struct {
	d    dialer
	from string
	to   string
}

func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{
		d:    gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from: cfg.From,
		to:   cfg.To,
	}
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.from, msg.FromName)
	m.SetHeader("To", s.to)
	if msg.ReplyTo != "" {
		m.SetHeader("Reply-To", msg.ReplyTo)
	}
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTML)

	if err := s.d.DialAndSend(m); err != nil {
		metrics.MailsSent.WithLabelValues("error").Inc()
		return fmt.Errorf("send mail: %w", err)
	}
	metrics.MailsSent.WithLabelValues("ok").Inc()
	return nil
}

// LogSender writes mails to the log. Used when SMTP is not configured.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, msg Message) error {
	logger.Infof("mail (smtp disabled): subject=%q reply-to=%q bytes=%d", msg.Subject, msg.ReplyTo, len(msg.HTML))
	metrics.MailsSent.WithLabelValues("logged").Inc()
	return nil
}

// Contact is a message left through the contact form.
type Contact struct {
	Name      string
	Email     string
	Message   string
	ImageLink string
}

// ContactMessage renders c as the owner notification. All user input is escaped.
func ContactMessage(c Contact) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "<p><strong>Name:</strong> %s</p>\n", html.EscapeString(c.Name))
	fmt.Fprintf(&b, "<p><strong>Email:</strong> %s</p>\n", html.EscapeString(c.Email))
	fmt.Fprintf(&b, "<p><strong>Message:</strong><br/>%s</p>\n",
		strings.ReplaceAll(html.EscapeString(c.Message), "\n", "<br/>"))
	if c.ImageLink != "" {
		fmt.Fprintf(&b, "<p><strong>Image:</strong> <a href=\"%s\" target=\"_blank\">View Image</a></p>\n", html.EscapeString(c.ImageLink))
	}
	return Message{
		FromName: "Portfolio Contact",
		ReplyTo:  c.Email,
		Subject:  "New message from " + c.Name,
		HTML:     b.String(),
	}
}
