package auth

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/config"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/logger"
)

var ErrOTPSenderRequired = errors.New("smtp delivery must be configured outside dev")

// OTPSender delivers signup codes to the user.
type OTPSender interface {
	SendOTP(ctx context.Context, email, code string) error
}

// NewOTPSender picks the delivery for signup codes. SMTP wins when
// configured; otherwise codes go to the debug log, which only dev allows.
func NewOTPSender(app config.AppConfig, smtpCfg config.SMTPConfig, logg *logger.Logger) (OTPSender, error) {
	if smtpCfg.Configured() {
		return NewSMTPOTPSender(smtpCfg), nil
	}
	if app.IsDev() {
		return NewLogOTPSender(logg), nil
	}
	return nil, ErrOTPSenderRequired
}

// LogOTPSender writes codes to the debug log.
type LogOTPSender struct {
	logg *logger.Logger
}

func NewLogOTPSender(logg *logger.Logger) *LogOTPSender {
	return &LogOTPSender{logg: logg}
}

func (s *LogOTPSender) SendOTP(ctx context.Context, email, code string) error {
	if s.logg == nil {
		return nil
	}
	ctx = s.logg.WithFields(ctx, map[string]any{"email": email, "otp": code})
	s.logg.Debug(ctx, "signup otp issued")
	return nil
}

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPOTPSender mails codes through a relay.
type SMTPOTPSender struct {
	addr     string
	host     string
	from     string
	username string
	password string
	send     sendMailFunc
}

func NewSMTPOTPSender(cfg config.SMTPConfig) *SMTPOTPSender {
	host := strings.TrimSpace(cfg.Host)
	return &SMTPOTPSender{
		addr:     net.JoinHostPort(host, strconv.Itoa(cfg.Port)),
		host:     host,
		from:     cfg.From,
		username: cfg.Username,
		password: cfg.Password,
		send:     smtp.SendMail,
	}
}

func (s *SMTPOTPSender) SendOTP(ctx context.Context, email, code string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}
	if err := s.send(s.addr, auth, s.from, []string{email}, otpMessage(s.from, email, code)); err != nil {
		return fmt.Errorf("send otp mail: %w", err)
	}
	return nil
}

func otpMessage(from, to, code string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: Your verification code\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	b.WriteString("Your verification code is " + code + ".\r\n")
	return []byte(b.String())
}
