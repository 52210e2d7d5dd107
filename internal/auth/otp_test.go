package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/config"
	redisclient "github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/redis"
	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redisclient.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	raw := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = raw.Close() })
	return mr, redisclient.NewFromClient(raw)
}

func newTestOTPManager(t *testing.T, maxAttempts int) (*miniredis.Miniredis, *OTPManager) {
	t.Helper()
	mr, client := newTestRedis(t)
	mgr, err := NewOTPManager(client, config.OTPConfig{TTL: 10 * time.Minute, Length: 6, MaxAttempts: maxAttempts}, "otp-secret")
	require.NoError(t, err)
	return mr, mgr
}

func TestOTPManagerIssueAndVerify(t *testing.T) {
	ctx := context.Background()
	_, mgr := newTestOTPManager(t, 5)

	code, err := mgr.Issue(ctx, "user@example.com")
	require.NoError(t, err)
	require.Len(t, code, 6)

	require.NoError(t, mgr.Verify(ctx, "user@example.com", code))
	err = mgr.Verify(ctx, "user@example.com", code)
	require.True(t, errors.Is(err, ErrOTPInvalid), "code must be single use, got %v", err)
}

func TestOTPManagerExpires(t *testing.T) {
	ctx := context.Background()
	mr, mgr := newTestOTPManager(t, 5)

	code, err := mgr.Issue(ctx, "late@example.com")
	require.NoError(t, err)
	mr.FastForward(11 * time.Minute)

	err = mgr.Verify(ctx, "late@example.com", code)
	require.True(t, errors.Is(err, ErrOTPInvalid))
}

func TestOTPManagerLocksAfterMaxAttempts(t *testing.T) {
	ctx := context.Background()
	_, mgr := newTestOTPManager(t, 3)

	code, err := mgr.Issue(ctx, "guess@example.com")
	require.NoError(t, err)
	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}

	require.True(t, errors.Is(mgr.Verify(ctx, "guess@example.com", wrong), ErrOTPInvalid))
	require.True(t, errors.Is(mgr.Verify(ctx, "guess@example.com", wrong), ErrOTPInvalid))
	require.True(t, errors.Is(mgr.Verify(ctx, "guess@example.com", wrong), ErrOTPTooManyAttempts))

	// the code is discarded once the limit is hit
	require.True(t, errors.Is(mgr.Verify(ctx, "guess@example.com", code), ErrOTPInvalid))
}

func TestOTPManagerReissueReplacesCode(t *testing.T) {
	ctx := context.Background()
	_, mgr := newTestOTPManager(t, 5)

	first, err := mgr.Issue(ctx, "again@example.com")
	require.NoError(t, err)
	second, err := mgr.Issue(ctx, "again@example.com")
	require.NoError(t, err)

	if first != second {
		require.Error(t, mgr.Verify(ctx, "again@example.com", first))
	}
	require.NoError(t, mgr.Verify(ctx, "again@example.com", second))
}

func TestNewOTPManagerValidates(t *testing.T) {
	_, client := newTestRedis(t)
	_, err := NewOTPManager(client, config.OTPConfig{TTL: time.Minute}, "")
	require.Error(t, err)
	_, err = NewOTPManager(client, config.OTPConfig{}, "secret")
	require.Error(t, err)
}
