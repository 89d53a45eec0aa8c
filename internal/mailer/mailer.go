package mailer

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"github.com/workbenchflow/workbench-api/internal/config"
)

var ErrSendTimeout = errors.New("mail send timed out")

// Mailer delivers OTP codes out of band. Implementations must not block
// the caller beyond the configured timeout.
type Mailer interface {
	SendOtp(ctx context.Context, to, code string) error
}

// SMTPMailer sends OTP mail through an SMTP relay.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
	logger zerolog.Logger
}

func NewSMTPMailer(cfg *config.Config, logger zerolog.Logger) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass),
		from:   cfg.MailFrom,
		logger: logger,
	}
}

// SendOtp delivers the confirmation code. The dial-and-send runs in its
// own goroutine so a stalled SMTP server cannot hold the request past
// the context deadline.
func (m *SMTPMailer) SendOtp(ctx context.Context, to, code string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Workbench Flow confirmation code")
	msg.SetBody("text/html", fmt.Sprintf(
		"<h2>Confirmation code</h2>"+
			"<p>You requested a confirmation code for <b>Workbench Flow</b>.</p>"+
			"<h1 style=\"letter-spacing: 6px;\">%s</h1>"+
			"<p>The code is valid for <b>2 minutes</b>.</p>"+
			"<p>If you did not request this code, ignore this message.</p>",
		code,
	))

	done := make(chan error, 1)
	go func() {
		done <- m.dialer.DialAndSend(msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			m.logger.Error().Err(err).Str("to", to).Msg("failed to send otp mail")
			return err
		}
		m.logger.Info().Str("to", to).Msg("otp mail sent")
		return nil
	case <-ctx.Done():
		m.logger.Error().Str("to", to).Msg("otp mail send timed out")
		return ErrSendTimeout
	}
}
