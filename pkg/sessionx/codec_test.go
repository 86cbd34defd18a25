package sessionx

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	t.Parallel()

	codec := NewCodec([]byte("test-secret"), time.Hour)

	token, err := codec.Issue("user-123", "rider@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	session, err := codec.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-123", session.UserID)
	require.Equal(t, "rider@example.com", session.Email)
}

func TestVerifyUnchangedUntilExpiry(t *testing.T) {
	t.Parallel()

	// A token verified at ttl-1s passes, the same token at ttl+1s fails with
	// ErrExpired. Nothing but the clock changed.
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	codec := NewCodec([]byte("test-secret"), time.Hour)
	codec.now = func() time.Time { return issued }

	token, err := codec.Issue("user-123", "rider@example.com")
	require.NoError(t, err)

	codec.now = func() time.Time { return issued.Add(time.Hour - time.Second) }
	_, err = codec.Verify(token)
	require.NoError(t, err)

	codec.now = func() time.Time { return issued.Add(time.Hour + time.Second) }
	_, err = codec.Verify(token)
	require.ErrorIs(t, err, ErrExpired)
}

func TestVerifyExpiredIsNotTampered(t *testing.T) {
	t.Parallel()

	// An expired token with a valid signature must report ErrExpired, never
	// ErrTampered.
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	codec := NewCodec([]byte("test-secret"), time.Minute)
	codec.now = func() time.Time { return issued }

	token, err := codec.Issue("user-123", "rider@example.com")
	require.NoError(t, err)

	codec.now = func() time.Time { return issued.Add(24 * time.Hour) }
	_, err = codec.Verify(token)
	require.ErrorIs(t, err, ErrExpired)
	require.NotErrorIs(t, err, ErrTampered)
}

func TestVerifyTampered(t *testing.T) {
	t.Parallel()

	codec := NewCodec([]byte("test-secret"), time.Hour)

	t.Run("wrong secret", func(t *testing.T) {
		other := NewCodec([]byte("other-secret"), time.Hour)
		token, err := other.Issue("user-123", "rider@example.com")
		require.NoError(t, err)

		_, err = codec.Verify(token)
		require.ErrorIs(t, err, ErrTampered)
	})

	t.Run("swapped payload", func(t *testing.T) {
		// Splice the payload of one token onto the signature of another.
		// Both tokens are individually valid; the hybrid is not.
		tokenA, err := codec.Issue("user-123", "rider@example.com")
		require.NoError(t, err)
		tokenB, err := codec.Issue("user-456", "other@example.com")
		require.NoError(t, err)

		partsA := strings.Split(tokenA, ".")
		partsB := strings.Split(tokenB, ".")
		require.Len(t, partsA, 3)
		require.Len(t, partsB, 3)

		hybrid := partsA[0] + "." + partsB[1] + "." + partsA[2]
		_, err = codec.Verify(hybrid)
		require.ErrorIs(t, err, ErrTampered)
	})
}

func TestVerifyMalformed(t *testing.T) {
	t.Parallel()

	codec := NewCodec([]byte("test-secret"), time.Hour)

	for _, input := range []string{
		"",
		"not-a-token",
		"a.b",
		"definitely not base64 . at all . nope",
	} {
		_, err := codec.Verify(input)
		require.ErrorIs(t, err, ErrMalformed, "input %q", input)
	}
}

func TestVerifyMissingClaims(t *testing.T) {
	t.Parallel()

	// A structurally valid, correctly signed token without an identity is
	// still no session.
	codec := NewCodec([]byte("test-secret"), time.Hour)

	token, err := codec.Issue("", "")
	require.NoError(t, err)

	_, err = codec.Verify(token)
	require.ErrorIs(t, err, ErrMalformed)
}

func TestNewCodecDefaultTTL(t *testing.T) {
	t.Parallel()

	codec := NewCodec([]byte("test-secret"), 0)
	require.Equal(t, DefaultSessionTTL, codec.ttl)
}
