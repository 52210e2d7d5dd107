package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/config"
	redisclient "github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/redis"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/security"
)

var (
	ErrOTPInvalid         = errors.New("invalid or expired otp")
	ErrOTPTooManyAttempts = errors.New("too many otp attempts")
)

type otpStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
	OTPCodeKey(email string) string
	OTPAttemptsKey(email string) string
}

// OTPManager issues and checks hashed one-time codes kept in Redis.
type OTPManager struct {
	store  otpStore
	cfg    config.OTPConfig
	secret string
}

func NewOTPManager(store otpStore, cfg config.OTPConfig, secret string) (*OTPManager, error) {
	if store == nil {
		return nil, fmt.Errorf("otp store is required")
	}
	if secret == "" {
		return nil, fmt.Errorf("otp secret is required")
	}
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("otp ttl must be positive")
	}
	if cfg.Length <= 0 {
		cfg.Length = 6
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	return &OTPManager{store: store, cfg: cfg, secret: secret}, nil
}

// Issue generates a new code for email, replacing any previous one.
func (m *OTPManager) Issue(ctx context.Context, email string) (string, error) {
	code, err := security.GenerateOTP(m.cfg.Length)
	if err != nil {
		return "", err
	}
	hash := security.HashOTP(m.secret, email, code)
	if err := m.store.Set(ctx, m.store.OTPCodeKey(email), hash, m.cfg.TTL); err != nil {
		return "", fmt.Errorf("store otp: %w", err)
	}
	if err := m.store.Del(ctx, m.store.OTPAttemptsKey(email)); err != nil {
		return "", fmt.Errorf("reset otp attempts: %w", err)
	}
	return code, nil
}

// Verify consumes the code for email. Each failed check counts towards the
// attempt limit; once reached the code is discarded.
func (m *OTPManager) Verify(ctx context.Context, email, code string) error {
	codeKey := m.store.OTPCodeKey(email)
	attemptsKey := m.store.OTPAttemptsKey(email)

	stored, err := m.store.Get(ctx, codeKey)
	if err != nil {
		if errors.Is(err, redisclient.ErrNil) {
			return ErrOTPInvalid
		}
		return fmt.Errorf("load otp: %w", err)
	}

	if security.VerifyOTP(m.secret, email, code, stored) {
		if err := m.store.Del(ctx, codeKey, attemptsKey); err != nil {
			return fmt.Errorf("consume otp: %w", err)
		}
		return nil
	}

	attempts, err := m.store.IncrWithTTL(ctx, attemptsKey, m.cfg.TTL)
	if err != nil {
		return fmt.Errorf("count otp attempt: %w", err)
	}
	if attempts >= int64(m.cfg.MaxAttempts) {
		if err := m.store.Del(ctx, codeKey, attemptsKey); err != nil {
			return fmt.Errorf("discard otp: %w", err)
		}
		return ErrOTPTooManyAttempts
	}
	return fmt.Errorf("%w (%s attempts left)", ErrOTPInvalid, strconv.FormatInt(int64(m.cfg.MaxAttempts)-attempts, 10))
}
