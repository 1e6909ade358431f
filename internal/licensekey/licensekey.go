// Package licensekey generates unique human-friendly license keys.
package licensekey

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// Alphabet excludes the visually ambiguous 0, O, 1 and I.
const Alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const (
	Groups    = 6
	GroupSize = 4

	// DefaultMaxAttempts caps collision retries.
	DefaultMaxAttempts = 5
)

// ErrExhausted is returned when every attempt collided with a stored key.
var ErrExhausted = errors.New("licensekey: could not generate a unique key")

var pattern = regexp.MustCompile(`^[` + Alphabet + `]{4}(-[` + Alphabet + `]{4}){5}$`)

// Valid reports whether key has the generated shape.
func Valid(key string) bool {
	return pattern.MatchString(key)
}

// Normalize upper-cases and trims a user-supplied key.
func Normalize(key string) string {
	return strings.ToUpper(strings.TrimSpace(key))
}

// ExistsFunc reports whether key is already stored.
type ExistsFunc func(ctx context.Context, key string) (bool, error)

// Generator draws keys from Random and re-rolls on collisions reported by Exists.
type Generator struct {
	Random      io.Reader
	Exists      ExistsFunc
	MaxAttempts int
}

// NewGenerator returns a Generator backed by crypto/rand.
func NewGenerator(exists ExistsFunc) *Generator {
	return &Generator{Random: rand.Reader, Exists: exists, MaxAttempts: DefaultMaxAttempts}
}

// Format renders Groups*GroupSize random bytes as a key.
func Format(raw []byte) string {
	var b strings.Builder
	b.Grow(Groups*GroupSize + Groups - 1)
	for i, v := range raw[:Groups*GroupSize] {
		if i > 0 && i%GroupSize == 0 {
			b.WriteByte('-')
		}
		b.WriteByte(Alphabet[int(v)%len(Alphabet)])
	}
	return b.String()
}

// Generate returns a key that Exists reports as unused.
func (g *Generator) Generate(ctx context.Context) (string, error) {
	attempts := g.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}
	random := g.Random
	if random == nil {
		random = rand.Reader
	}

	raw := make([]byte, Groups*GroupSize)
	for i := 0; i < attempts; i++ {
		if _, err := io.ReadFull(random, raw); err != nil {
			return "", fmt.Errorf("licensekey: read random: %w", err)
		}
		key := Format(raw)

		if g.Exists == nil {
			return key, nil
		}
		taken, err := g.Exists(ctx, key)
		if err != nil {
			return "", fmt.Errorf("licensekey: check uniqueness: %w", err)
		}
		if !taken {
			return key, nil
		}
	}
	return "", ErrExhausted
}
