package totp

import (
	"testing"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// base32 of the ASCII key "12345678901234567890" from RFC 6238 appendix B.
const rfcSecret = "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ"

func TestCodeRFC6238Vectors(t *testing.T) {
	vectors := map[int64]string{
		59:         "287082",
		1111111109: "081804",
		1111111111: "050471",
		1234567890: "005924",
		2000000000: "279037",
	}
	for unix, want := range vectors {
		got, err := Code(rfcSecret, time.Unix(unix, 0))
		require.NoError(t, err)
		assert.Equal(t, want, got, "T=%d", unix)
	}
}

func TestDecodeSecretNormalisation(t *testing.T) {
	a, err := DecodeSecret("JBSWY3DPEHPK3PXP")
	require.NoError(t, err)
	b, err := DecodeSecret("jbsw y3dp-ehpk 3pxp==")
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, []byte("Hello!\xde\xad\xbe\xef"), a)

	_, err = DecodeSecret("not base32 !!")
	assert.ErrorIs(t, err, ErrInvalidSecret)
	_, err = DecodeSecret("")
	assert.ErrorIs(t, err, ErrInvalidSecret)
}

func TestCodePeriodicity(t *testing.T) {
	start := time.Unix(1_700_000_020, 0) // 10s into a window

	a, err := Code("JBSWY3DPEHPK3PXP", start)
	require.NoError(t, err)
	b, err := Code("JBSWY3DPEHPK3PXP", start.Add(19*time.Second))
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := Code("JBSWY3DPEHPK3PXP", start.Add(20*time.Second))
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
	assert.Len(t, c, Digits)
}

func TestCodeAcceptsLooseSecrets(t *testing.T) {
	at := time.Unix(1_700_000_000, 0)
	want, err := totp.GenerateCodeCustom("JBSWY3DPEHPK3PXP", at, totp.ValidateOpts{
		Period:    Period,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	require.NoError(t, err)

	for _, secret := range []string{"JBSWY3DPEHPK3PXP", "jbswy3dpehpk3pxp", "jbsw y3dp-ehpk 3pxp==", " JBSWY3DPEHPK3PXP\n"} {
		got, err := Code(secret, at)
		require.NoError(t, err, secret)
		assert.Equal(t, want, got, secret)
		assert.True(t, Validate(secret, want, at, 0), secret)
	}

	_, err = Code("not base32 !!", at)
	assert.ErrorIs(t, err, ErrInvalidSecret)
}

func TestRemaining(t *testing.T) {
	assert.Equal(t, 30, Remaining(time.Unix(60, 0)))
	assert.Equal(t, 1, Remaining(time.Unix(89, 0)))
}

func TestValidateWithSkew(t *testing.T) {
	now := time.Unix(1111111111, 0)
	assert.True(t, Validate(rfcSecret, "050471", now, 0))
	prev, err := Code(rfcSecret, now.Add(-Period*time.Second))
	require.NoError(t, err)
	assert.False(t, Validate(rfcSecret, prev, now, 0))
	assert.True(t, Validate(rfcSecret, prev, now, 1))
	assert.False(t, Validate(rfcSecret, "12345", now, 1))
	assert.False(t, Validate(rfcSecret, prev, now, -1))
	assert.False(t, Validate("!!", "050471", now, 1))
}

func TestGenerateSecret(t *testing.T) {
	s, err := GenerateSecret()
	require.NoError(t, err)
	key, err := DecodeSecret(s)
	require.NoError(t, err)
	assert.Len(t, key, 20)

	code, err := Code(s, time.Now())
	require.NoError(t, err)
	assert.Len(t, code, Digits)
}
