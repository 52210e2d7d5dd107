package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/abdullahdev0325-ai/followers-shop-sub000/api/responses"
	pkgAuth "github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/auth"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/auth/session"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/config"
	pkgerrors "github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/errors"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/logger"
)

// ShopTokenHeader carries the access token for clients that cannot set
// Authorization. Login responses set it too.
const ShopTokenHeader = "X-Shop-Token"

// BearerToken strips an optional "Bearer " scheme from an Authorization value.
func BearerToken(header string) string {
	header = strings.TrimSpace(header)
	if scheme, rest, ok := strings.Cut(header, " "); ok && strings.EqualFold(scheme, "bearer") {
		return strings.TrimSpace(rest)
	}
	if strings.EqualFold(header, "bearer") {
		return ""
	}
	return header
}

// RequestToken reads the Authorization bearer token, falling back to X-Shop-Token.
func RequestToken(r *http.Request) string {
	if token := BearerToken(r.Header.Get("Authorization")); token != "" {
		return token
	}
	return strings.TrimSpace(r.Header.Get(ShopTokenHeader))
}

// Auth admits requests whose access token verifies and whose session has not
// been revoked, and puts the caller's identity on the context.
func Auth(cfg config.JWTConfig, verifier session.AccessSessionChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, err := authenticate(r.Context(), RequestToken(r), cfg, verifier, logg)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func authenticate(ctx context.Context, token string, cfg config.JWTConfig, verifier session.AccessSessionChecker, logg *logger.Logger) (context.Context, error) {
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "unauthorized")
	}
	claims, err := pkgAuth.ParseAccessToken(cfg, token)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "unauthorized")
	}
	if claims.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id")
	}
	if verifier != nil {
		live, err := verifier.HasSession(ctx, claims.ID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session")
		}
		if !live {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session expired")
		}
	}

	role := string(claims.Role)
	ctx = WithIdentity(ctx, claims.UserID, role, claims.Email, claims.ID)
	if logg != nil {
		ctx = logg.WithActorRole(logg.WithUserID(ctx, claims.UserID.String()), role)
	}
	return ctx, nil
}
