package auth

import (
	"crypto/rand"
	"fmt"
	"strings"
)

const tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const tokenGroupLen = 4

// NewAccessToken returns an opaque bearer token of the form
// PREFIX-XXXX-YYYY with crypto/rand groups. Uniqueness is enforced at
// the store; callers regenerate on collision.
func NewAccessToken(prefix string) (string, error) {
	a, err := randomGroup(tokenGroupLen)
	if err != nil {
		return "", err
	}
	b, err := randomGroup(tokenGroupLen)
	if err != nil {
		return "", err
	}
	return prefix + "-" + a + "-" + b, nil
}

func randomGroup(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	out := make([]byte, n)
	for i, b := range buf {
		out[i] = tokenAlphabet[int(b)%len(tokenAlphabet)]
	}
	return string(out), nil
}

// BearerToken extracts the credential from an Authorization header
// value. The original client sends the bare token; a "Bearer " prefix is
// also accepted.
func BearerToken(header string) string {
	header = strings.TrimSpace(header)
	if rest, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(rest)
	}
	return header
}
