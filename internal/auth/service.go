package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abdullahdev0325-ai/followers-shop-sub000/internal/users"
	pkgAuth "github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/auth"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/auth/session"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/config"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/db"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/db/models"
	pkgerrors "github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/errors"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/logger"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	invalidCredentialsMessage = "invalid credentials"
	notVerifiedMessage        = "account not verified"
)

// Service defines the behavior needed by the auth controllers.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error)
	VerifyOTP(ctx context.Context, req VerifyOTPRequest) (*LoginResponse, error)
	ResendOTP(ctx context.Context, req ResendOTPRequest) error
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
}

type userRepository interface {
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdatePendingSignup(ctx context.Context, id uuid.UUID, dto users.CreateUserDTO) error
	MarkVerified(ctx context.Context, id uuid.UUID) error
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string, userID uuid.UUID) (string, error)
}

type otpIssuer interface {
	Issue(ctx context.Context, email string) (string, error)
	Verify(ctx context.Context, email, code string) error
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserRepo       userRepository
	SessionManager sessionManager
	OTP            otpIssuer
	OTPSender      OTPSender
	JWTConfig      config.JWTConfig
	PasswordConfig config.PasswordConfig
	Logger         *logger.Logger
}

type service struct {
	users       userRepository
	session     sessionManager
	otp         otpIssuer
	sender      OTPSender
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
	logg        *logger.Logger
	now         func() time.Time
}

// NewService constructs the auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	if params.OTP == nil {
		return nil, fmt.Errorf("otp manager is required")
	}
	if params.OTPSender == nil {
		return nil, fmt.Errorf("otp sender is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		users:       params.UserRepo,
		session:     params.SessionManager,
		otp:         params.OTP,
		sender:      params.OTPSender,
		jwtCfg:      params.JWTConfig,
		passwordCfg: params.PasswordConfig,
		logg:        logg,
		now:         func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	email := users.NormalizeEmail(req.Email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if len(req.Password) < security.MinPasswordLength {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "password must be at least %d characters", security.MinPasswordLength)
	}

	hash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	dto := users.CreateUserDTO{
		Name:         req.Name,
		Email:        email,
		PasswordHash: hash,
		Phone:        req.Phone,
	}

	existing, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil && existing.IsVerified:
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	case err == nil:
		if err := s.users.UpdatePendingSignup(ctx, existing.ID, dto); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update pending signup")
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		if _, err := s.users.Create(ctx, dto); err != nil {
			if db.IsUniqueViolation(err, "users_email_key") {
				return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	if err := s.sendOTP(ctx, email); err != nil {
		return nil, err
	}
	return &RegisterResponse{Email: email}, nil
}

func (s *service) VerifyOTP(ctx context.Context, req VerifyOTPRequest) (*LoginResponse, error) {
	email := users.NormalizeEmail(req.Email)
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, ErrOTPInvalid.Error())
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}
	if user.IsVerified {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "account already verified")
	}

	if err := s.otp.Verify(ctx, email, req.OTP); err != nil {
		switch {
		case errors.Is(err, ErrOTPTooManyAttempts):
			return nil, pkgerrors.New(pkgerrors.CodeRateLimit, "too many attempts, request a new code")
		case errors.Is(err, ErrOTPInvalid):
			return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		default:
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "verify otp")
		}
	}

	if err := s.users.MarkVerified(ctx, user.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark verified")
	}
	user.IsVerified = true

	return s.issueTokens(ctx, user)
}

func (s *service) ResendOTP(ctx context.Context, req ResendOTPRequest) error {
	email := users.NormalizeEmail(req.Email)
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}
	if user.IsVerified {
		return pkgerrors.New(pkgerrors.CodeConflict, "account already verified")
	}
	return s.sendOTP(ctx, email)
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	if !user.IsVerified {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, notVerifiedMessage)
	}
	return s.issueTokens(ctx, user)
}

func (s *service) authenticate(ctx context.Context, email, password string) (*models.User, error) {
	input := users.NormalizeEmail(email)
	if input == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	user, err := s.users.FindByEmail(ctx, input)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	valid, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return user, nil
}

func (s *service) issueTokens(ctx context.Context, user *models.User) (*LoginResponse, error) {
	now := s.now()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update last login")
	}
	user.LastLoginAt = &now

	accessID := session.NewAccessID()
	accessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, now, pkgAuth.AccessTokenPayload{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		JTI:    accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	refreshToken, err := s.session.Generate(ctx, accessID, user.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store refresh token")
	}

	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         users.FromModel(user),
	}, nil
}

func (s *service) sendOTP(ctx context.Context, email string) error {
	code, err := s.otp.Issue(ctx, email)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "issue otp")
	}
	if err := s.sender.SendOTP(ctx, email, code); err != nil {
		s.logg.Error(s.logg.WithField(ctx, "email", email), "otp delivery failed", err)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deliver otp")
	}
	return nil
}
