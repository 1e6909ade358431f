// Package totp computes RFC 6238 time-based one-time passcodes (SHA1, 6 digits, 30s step).
package totp

import (
	"encoding/base32"
	"errors"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const (
	Period = 30
	Digits = 6
)

// ErrInvalidSecret is returned when a secret is not valid base32.
var ErrInvalidSecret = errors.New("totp: invalid base32 secret")

var b32 = base32.StdEncoding.WithPadding(base32.NoPadding)

func opts(skew uint) totp.ValidateOpts {
	return totp.ValidateOpts{
		Period:    Period,
		Skew:      skew,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	}
}

// DecodeSecret decodes a base32 secret, ignoring case, whitespace, hyphens and padding.
func DecodeSecret(secret string) ([]byte, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', '-', '=':
			return -1
		}
		return r
	}, strings.ToUpper(secret))
	if cleaned == "" {
		return nil, ErrInvalidSecret
	}

	key, err := b32.DecodeString(cleaned)
	if err != nil {
		return nil, ErrInvalidSecret
	}
	return key, nil
}

// canonical rewrites secret into the unpadded upper-case form the otp package expects.
func canonical(secret string) (string, error) {
	key, err := DecodeSecret(secret)
	if err != nil {
		return "", err
	}
	return b32.EncodeToString(key), nil
}

// Code returns the passcode for secret at t.
func Code(secret string, t time.Time) (string, error) {
	s, err := canonical(secret)
	if err != nil {
		return "", err
	}
	return totp.GenerateCodeCustom(s, t, opts(0))
}

// Remaining returns the seconds left in the window containing t.
func Remaining(t time.Time) int {
	return Period - int(uint64(t.Unix())%Period)
}

// Validate reports whether code matches secret at t, allowing skew steps either side.
func Validate(secret, code string, t time.Time, skew int) bool {
	s, err := canonical(secret)
	if err != nil || len(code) != Digits {
		return false
	}
	if skew < 0 {
		skew = 0
	}
	ok, err := totp.ValidateCustom(code, s, t, opts(uint(skew)))
	return err == nil && ok
}

// GenerateSecret returns a random 160-bit base32 secret without padding.
func GenerateSecret() (string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "bizsite",
		AccountName: "tools",
		Period:      Period,
		SecretSize:  20,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return "", err
	}
	return key.Secret(), nil
}
