package auth

import (
	"bytes"
	"context"
	"net/smtp"
	"testing"

	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/config"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOTPSenderSelection(t *testing.T) {
	relay := config.SMTPConfig{Host: "smtp.example.com", Port: 587, From: "shop@example.com"}

	tests := []struct {
		name    string
		env     string
		smtp    config.SMTPConfig
		want    any
		wantErr error
	}{
		{name: "dev without relay logs", env: config.AppEnvDev, want: &LogOTPSender{}},
		{name: "prod without relay refuses", env: config.AppEnvProd, wantErr: ErrOTPSenderRequired},
		{name: "prod with relay mails", env: config.AppEnvProd, smtp: relay, want: &SMTPOTPSender{}},
		{name: "dev with relay mails", env: config.AppEnvDev, smtp: relay, want: &SMTPOTPSender{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sender, err := NewOTPSender(config.AppConfig{Env: tc.env}, tc.smtp, logger.Nop())
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, sender)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tc.want, sender)
		})
	}
}

func TestLogOTPSenderWritesAtDebugOnly(t *testing.T) {
	buf := &bytes.Buffer{}
	sender := NewLogOTPSender(logger.New(logger.Options{ServiceName: "test", Level: zerolog.InfoLevel, Format: logger.FormatJSON, Output: buf}))
	require.NoError(t, sender.SendOTP(context.Background(), "a@example.com", "123456"))
	assert.Empty(t, buf.String())

	buf.Reset()
	sender = NewLogOTPSender(logger.New(logger.Options{ServiceName: "test", Level: zerolog.DebugLevel, Format: logger.FormatJSON, Output: buf}))
	require.NoError(t, sender.SendOTP(context.Background(), "a@example.com", "123456"))
	assert.Contains(t, buf.String(), `"level":"debug"`)
}

func TestLogOTPSenderNilLogger(t *testing.T) {
	sender := NewLogOTPSender(nil)
	require.NoError(t, sender.SendOTP(context.Background(), "a@example.com", "123456"))
}

func TestSMTPOTPSenderComposesMail(t *testing.T) {
	sender := NewSMTPOTPSender(config.SMTPConfig{
		Host:     "smtp.example.com",
		Port:     2525,
		Username: "mailer",
		Password: "pw",
		From:     "shop@example.com",
	})
	var (
		gotAddr string
		gotAuth smtp.Auth
		gotTo   []string
		gotMsg  string
	)
	sender.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotAuth, gotTo, gotMsg = addr, a, to, string(msg)
		return nil
	}

	require.NoError(t, sender.SendOTP(context.Background(), "ada@example.com", "482913"))
	assert.Equal(t, "smtp.example.com:2525", gotAddr)
	assert.NotNil(t, gotAuth)
	assert.Equal(t, []string{"ada@example.com"}, gotTo)
	assert.Contains(t, gotMsg, "To: ada@example.com\r\n")
	assert.Contains(t, gotMsg, "482913")
}
