package mailer

import (
	"context"
	"errors"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/flarexio/grocerize/conf"
)

type Message struct {
	To      string
	Subject string
	Body    string
}

type Sender interface {
	Send(ctx context.Context, msg *Message) error
}

func NewSender(cfg conf.Mail, log *zap.Logger) (Sender, error) {
	switch cfg.Driver {
	case conf.SMTP:
		return NewSMTPSender(cfg)
	case conf.Sendmail:
		return &sendmailSender{cfg.From, cfg.Sendmail.Path}, nil
	case conf.LogMail:
		return NewLogSender(cfg.From, log), nil
	default:
		return nil, errors.New("mail driver not supported")
	}
}

func newMsg(from string, msg *Message) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(from); err != nil {
		return nil, err
	}

	if err := m.To(msg.To); err != nil {
		return nil, err
	}

	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Body)

	return m, nil
}

func NewSMTPSender(cfg conf.Mail) (Sender, error) {
	smtp := cfg.SMTP

	opts := []mail.Option{
		mail.WithPort(smtp.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}

	if smtp.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(smtp.Username),
			mail.WithPassword(smtp.Password),
		)
	}

	client, err := mail.NewClient(smtp.Host, opts...)
	if err != nil {
		return nil, err
	}

	return &smtpSender{cfg.From, client}, nil
}

type smtpSender struct {
	from   string
	client *mail.Client
}

func (s *smtpSender) Send(ctx context.Context, msg *Message) error {
	m, err := newMsg(s.from, msg)
	if err != nil {
		return err
	}

	return s.client.DialAndSendWithContext(ctx, m)
}

type sendmailSender struct {
	from string
	path string
}

func (s *sendmailSender) Send(ctx context.Context, msg *Message) error {
	m, err := newMsg(s.from, msg)
	if err != nil {
		return err
	}

	return m.WriteToSendmailWithContext(ctx, s.path)
}

func NewLogSender(from string, log *zap.Logger) Sender {
	return &logSender{
		from: from,
		log: log.With(
			zap.String("infra", "mail"),
			zap.String("driver", conf.LogMail.String()),
		),
	}
}

type logSender struct {
	from string
	log  *zap.Logger
}

func (s *logSender) Send(ctx context.Context, msg *Message) error {
	if _, err := newMsg(s.from, msg); err != nil {
		return err
	}

	s.log.Info("mail delivered",
		zap.String("from", s.from),
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Body),
	)
	return nil
}
