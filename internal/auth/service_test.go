package auth

import (
	"context"
	"testing"

	"github.com/abdullahdev0325-ai/followers-shop-sub000/internal/repo"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/internal/users"
	pkgAuth "github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/auth"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/config"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/enums"
	pkgerrors "github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSessionManager struct {
	refreshToken string
	accessIDs    []string
}

func (s *stubSessionManager) Generate(_ context.Context, accessID string, _ uuid.UUID) (string, error) {
	s.accessIDs = append(s.accessIDs, accessID)
	return s.refreshToken, nil
}

type captureSender struct {
	codes map[string]string
}

func (c *captureSender) SendOTP(_ context.Context, email, code string) error {
	if c.codes == nil {
		c.codes = map[string]string{}
	}
	c.codes[email] = code
	return nil
}

var testJWTConfig = config.JWTConfig{
	Secret:            "secret",
	Issuer:            "followers-shop",
	ExpirationMinutes: 30,
}

type authFixture struct {
	svc     Service
	users   *users.Repository
	sender  *captureSender
	session *stubSessionManager
}

func newAuthFixture(t *testing.T) authFixture {
	t.Helper()
	_, mgr := newTestOTPManager(t, 5)
	userRepo := users.NewRepository(repo.NewTestDB(t))
	sender := &captureSender{}
	sessions := &stubSessionManager{refreshToken: "refresh-token"}

	svc, err := NewService(ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessions,
		OTP:            mgr,
		OTPSender:      sender,
		JWTConfig:      testJWTConfig,
	})
	require.NoError(t, err)
	return authFixture{svc: svc, users: userRepo, sender: sender, session: sessions}
}

func TestRegisterVerifyLogin(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)

	resp, err := f.svc.Register(ctx, RegisterRequest{Name: "Rose", Email: "Rose@Example.com", Password: "petals-123"})
	require.NoError(t, err)
	assert.Equal(t, "rose@example.com", resp.Email)

	code := f.sender.codes["rose@example.com"]
	require.NotEmpty(t, code)

	_, err = f.svc.Login(ctx, LoginRequest{Email: "rose@example.com", Password: "petals-123"})
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeForbidden))

	verified, err := f.svc.VerifyOTP(ctx, VerifyOTPRequest{Email: "rose@example.com", OTP: code})
	require.NoError(t, err)
	assert.True(t, verified.User.IsVerified)
	assert.Equal(t, "refresh-token", verified.RefreshToken)

	login, err := f.svc.Login(ctx, LoginRequest{Email: "ROSE@example.com", Password: "petals-123"})
	require.NoError(t, err)

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig, login.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, enums.UserRoleCustomer, claims.Role)
	assert.Equal(t, login.User.ID, claims.UserID)
	assert.Equal(t, f.session.accessIDs[len(f.session.accessIDs)-1], claims.ID)
}

func TestRegisterRejectsVerifiedEmail(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)

	user, err := f.users.Create(ctx, users.CreateUserDTO{Name: "Taken", Email: "taken@example.com", PasswordHash: "x"})
	require.NoError(t, err)
	require.NoError(t, f.users.MarkVerified(ctx, user.ID))

	_, err = f.svc.Register(ctx, RegisterRequest{Name: "Other", Email: "taken@example.com", Password: "long-enough"})
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeConflict))
}

func TestRegisterAgainReissuesOTPForPendingAccount(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)

	_, err := f.svc.Register(ctx, RegisterRequest{Name: "First", Email: "pending@example.com", Password: "first-pass"})
	require.NoError(t, err)
	_, err = f.svc.Register(ctx, RegisterRequest{Name: "Second", Email: "pending@example.com", Password: "second-pass"})
	require.NoError(t, err)

	_, err = f.svc.VerifyOTP(ctx, VerifyOTPRequest{Email: "pending@example.com", OTP: f.sender.codes["pending@example.com"]})
	require.NoError(t, err)

	login, err := f.svc.Login(ctx, LoginRequest{Email: "pending@example.com", Password: "second-pass"})
	require.NoError(t, err)
	assert.Equal(t, "Second", login.User.Name)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	f := newAuthFixture(t)
	_, err := f.svc.Register(context.Background(), RegisterRequest{Name: "S", Email: "s@example.com", Password: "short"})
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}

func TestVerifyOTPWrongCode(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)

	_, err := f.svc.Register(ctx, RegisterRequest{Name: "W", Email: "w@example.com", Password: "password-1"})
	require.NoError(t, err)

	wrong := "000000"
	if f.sender.codes["w@example.com"] == wrong {
		wrong = "999999"
	}
	_, err = f.svc.VerifyOTP(ctx, VerifyOTPRequest{Email: "w@example.com", OTP: wrong})
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}

func TestResendOTP(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)

	err := f.svc.ResendOTP(ctx, ResendOTPRequest{Email: "ghost@example.com"})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))

	_, err = f.svc.Register(ctx, RegisterRequest{Name: "R", Email: "r@example.com", Password: "password-1"})
	require.NoError(t, err)
	delete(f.sender.codes, "r@example.com")

	require.NoError(t, f.svc.ResendOTP(ctx, ResendOTPRequest{Email: "r@example.com"}))
	assert.NotEmpty(t, f.sender.codes["r@example.com"])
}

func TestLoginWrongPassword(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)

	_, err := f.svc.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: "whatever"})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeUnauthorized))

	_, err = f.svc.Register(ctx, RegisterRequest{Name: "L", Email: "l@example.com", Password: "password-1"})
	require.NoError(t, err)
	_, err = f.svc.VerifyOTP(ctx, VerifyOTPRequest{Email: "l@example.com", OTP: f.sender.codes["l@example.com"]})
	require.NoError(t, err)

	_, err = f.svc.Login(ctx, LoginRequest{Email: "l@example.com", Password: "password-2"})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeUnauthorized))
}

