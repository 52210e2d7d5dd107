package security

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
)

// GenerateOTP returns a zero-padded numeric code of the given length.
func GenerateOTP(length int) (string, error) {
	if length <= 0 || length > 12 {
		return "", fmt.Errorf("otp length must be between 1 and 12")
	}
	limit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length)), nil)
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%0*d", length, n.Int64()), nil
}

// HashOTP keys the code with secret and the email so stored values cannot be
// replayed across accounts.
func HashOTP(secret, email, code string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strings.ToLower(strings.TrimSpace(email))))
	mac.Write([]byte{0})
	mac.Write([]byte(strings.TrimSpace(code)))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyOTP compares a submitted code against a stored hash in constant time.
func VerifyOTP(secret, email, code, storedHash string) bool {
	computed := HashOTP(secret, email, code)
	return hmac.Equal([]byte(computed), []byte(storedHash))
}
