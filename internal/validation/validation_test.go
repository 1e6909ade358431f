package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"Valid", "SecurePass12!@", false},
		{"Exactly Min Length", "Abcdefghij1!", false},
		{"Exactly Max Length", "A" + strings.Repeat("b", 125) + "1!", false},
		{"Too Short", "Small1!", true},
		{"Too Long", "A" + strings.Repeat("b", 126) + "1!", true},
		{"No Upper", "securepass12!", true},
		{"No Lower", "SECUREPASS12!", true},
		{"No Digit", "SecurePass!!", true},
		{"No Special", "SecurePass123", true},
		{"Unicode Characters", "ÅngstromPass12!", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateUsername(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"Valid", "test_user123", false},
		{"Exactly Three", "abc", false},
		{"Too Short", "tu", true},
		{"Too Long", strings.Repeat("a", 31), true},
		{"Illegal Chars", "user@123", true},
		{"Starts Dash", "-user", true},
		{"Ends Underscore", "user_", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	t.Parallel()
	emailAt254 := strings.Repeat("a", 64) + "@" + strings.Repeat("b", 185) + ".com"
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"Valid", "test@example.com", false},
		{"Plus Tag", "first.last+tag@sub.example.co", false},
		{"Exactly 254 Characters", emailAt254, false},
		{"Too Long", emailAt254 + "m", true},
		{"Invalid Format", "not-an-email", true},
		{"Missing Domain", "user@", true},
		{"Multiple At Symbols", "user@@example.com", true},
		{"Space In Local Part", "user @example.com", true},
		{"Trailing Dot In Domain", "user@example.com.", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSlugify(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"Hello, World!":          "hello-world",
		"  Go & Fiber -- 2025  ": "go-fiber-2025",
		"Crème brûlée":           "cr-me-br-l-e",
		"!!!":                    "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), in)
		if want != "" {
			assert.NoError(t, ValidateSlug(want))
		}
	}

	long := Slugify(strings.Repeat("ab ", 100))
	assert.LessOrEqual(t, len(long), MaxSlugLength)
	assert.NoError(t, ValidateSlug(long))
}

func TestValidateSlug(t *testing.T) {
	t.Parallel()
	assert.NoError(t, ValidateSlug("my-product-2"))
	assert.Error(t, ValidateSlug("My-Product"))
	assert.Error(t, ValidateSlug("double--dash"))
	assert.Error(t, ValidateSlug("-lead"))
	assert.Error(t, ValidateSlug(""))
	assert.Error(t, ValidateSlug(strings.Repeat("a", 121)))
}
