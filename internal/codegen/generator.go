// Package codegen produces short human-readable access codes, e.g.
// "NOCH4821" for an event named "Noche Estelar".
package codegen

import (
	"context"
	"crypto/rand"
	"strings"
	apperrors "ticket-backoffice/pkg/app_errors"
	"unicode"
)

const (
	prefixLength = 4
	suffixLength = 4
	maxAttempts  = 5
)

// ExistsFunc answers whether a candidate code is already taken in the
// caller's scope: every code checks against its own event, and general
// codes additionally against general codes everywhere.
type ExistsFunc func(ctx context.Context, code string) (bool, error)

// Prefix derives the letter prefix from a seed string: strip everything
// that is not a letter, uppercase, truncate.
func Prefix(seed string) string {
	var b strings.Builder
	for _, r := range seed {
		if unicode.IsLetter(r) {
			b.WriteRune(unicode.ToUpper(r))
			if b.Len() >= prefixLength {
				break
			}
		}
	}
	if b.Len() == 0 {
		return "CODE"
	}
	return b.String()
}

// randomDigits draws n digits from crypto/rand.
func randomDigits(n int) (string, error) {
	const charset = "0123456789"

	code := make([]byte, n)
	if _, err := rand.Read(code); err != nil {
		return "", err
	}

	for i := 0; i < n; i++ {
		code[i] = charset[int(code[i])%len(charset)]
	}

	return string(code), nil
}

// Generate builds prefix+digits and retries the suffix on collision, up
// to maxAttempts, then fails with ErrCodeCollision rather than spinning.
func Generate(ctx context.Context, seed string, exists ExistsFunc) (string, error) {
	prefix := Prefix(seed)

	for attempt := 0; attempt < maxAttempts; attempt++ {
		suffix, err := randomDigits(suffixLength)
		if err != nil {
			return "", err
		}

		candidate := prefix + suffix

		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}

	return "", apperrors.ErrCodeCollision
}
