package redis

import "strings"

const defaultNamespace = "fs"

// Keys renders namespaced key names such as fs:otp:code:<email>.
type Keys struct {
	Namespace string
}

func (k Keys) join(kind string, parts ...string) string {
	ns := k.Namespace
	if ns == "" {
		ns = defaultNamespace
	}
	var b strings.Builder
	b.WriteString(ns)
	b.WriteByte(':')
	b.WriteString(kind)
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			b.WriteByte(':')
			b.WriteString(part)
		}
	}
	return b.String()
}

func (k Keys) IdempotencyKey(scope, id string) string { return k.join("idempotency", scope, id) }

func (k Keys) RateLimitKey(scope string) string { return k.join("rate_limit", scope) }

// AccessSessionKey maps a token's jti to its session record.
func (k Keys) AccessSessionKey(accessID string) string { return k.join("session", "access", accessID) }

// OTPCodeKey and OTPAttemptsKey are case-insensitive on the email.
func (k Keys) OTPCodeKey(email string) string {
	return k.join("otp", "code", strings.ToLower(email))
}

func (k Keys) OTPAttemptsKey(email string) string {
	return k.join("otp", "attempts", strings.ToLower(email))
}

func (k Keys) LockKey(name string) string { return k.join("lock", name) }
