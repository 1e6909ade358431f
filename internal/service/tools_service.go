package service

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"strings"
	"time"

	"bizsite/internal/models"
	"bizsite/internal/totp"
	"bizsite/internal/validation"

	"github.com/google/uuid"
)

const (
	lowerChars  = "abcdefghijkmnopqrstuvwxyz"
	upperChars  = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	digitChars  = "23456789"
	symbolChars = "!@#$%^&*()-_=+[]{}:,.?"

	DefaultPasswordLength = 20
)

// ToolsService backs the small public utilities on the site.
type ToolsService struct {
	now    Clock
	random io.Reader
}

type TOTPResult struct {
	Code      string `json:"code"`
	Remaining int    `json:"remaining"`
	Period    int    `json:"period"`
}

type PasswordOptions struct {
	Length  int  `query:"length"`
	Symbols bool `query:"symbols"`
}

func NewToolsService(now Clock, random io.Reader) *ToolsService {
	if now == nil {
		now = time.Now
	}
	if random == nil {
		random = rand.Reader
	}
	return &ToolsService{now: now, random: random}
}

// TOTP returns the current passcode for a base32 secret.
func (s *ToolsService) TOTP(secret string) (*TOTPResult, error) {
	now := s.now()
	code, err := totp.Code(secret, now)
	if err != nil {
		return nil, models.NewValidationError("secret must be a base32 string")
	}
	return &TOTPResult{Code: code, Remaining: totp.Remaining(now), Period: totp.Period}, nil
}

// TOTPSecret returns a fresh secret for enrolling an authenticator.
func (s *ToolsService) TOTPSecret() (string, error) {
	secret, err := totp.GenerateSecret()
	if err != nil {
		return "", models.NewInternalError(err)
	}
	return secret, nil
}

// Password returns a random password of at least one of each character class.
func (s *ToolsService) Password(opts PasswordOptions) (string, error) {
	n := opts.Length
	if n == 0 {
		n = DefaultPasswordLength
	}
	if n < 8 || n > validation.MaxPasswordLength {
		return "", models.NewValidationError(fmt.Sprintf("length must be between 8 and %d", validation.MaxPasswordLength))
	}

	classes := []string{lowerChars, upperChars, digitChars}
	if opts.Symbols {
		classes = append(classes, symbolChars)
	}
	all := strings.Join(classes, "")

	out := make([]byte, n)
	for i := range out {
		set := all
		if i < len(classes) {
			set = classes[i]
		}
		c, err := s.pick(set)
		if err != nil {
			return "", err
		}
		out[i] = c
	}
	// Shuffle so the guaranteed class characters are not always first.
	for i := len(out) - 1; i > 0; i-- {
		j, err := rand.Int(s.random, big.NewInt(int64(i+1)))
		if err != nil {
			return "", models.NewInternalError(err)
		}
		out[i], out[j.Int64()] = out[j.Int64()], out[i]
	}
	return string(out), nil
}

func (s *ToolsService) pick(set string) (byte, error) {
	i, err := rand.Int(s.random, big.NewInt(int64(len(set))))
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return set[i.Int64()], nil
}

func (s *ToolsService) UUID() string {
	return uuid.NewString()
}

func (s *ToolsService) Slugify(text string) (string, error) {
	slug := validation.Slugify(text)
	if slug == "" {
		return "", models.NewValidationError("text must contain letters or digits")
	}
	return slug, nil
}
