// Package sessionx issues and verifies the signed session credential the
// rest of the system trusts without further network calls. Sessions are
// stateless: validity is signature plus expiry, there is no server-side
// session table and therefore no revocation before natural expiry.
package sessionx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultSessionTTL is the default session lifetime.
const DefaultSessionTTL = 30 * 24 * time.Hour

var (
	// ErrMalformed reports structurally invalid input (not a JWT, missing
	// claims, wrong algorithm).
	ErrMalformed = errors.New("sessionx: malformed token")

	// ErrTampered reports a token whose signature does not verify. Callers
	// may want to log a security event on this one.
	ErrTampered = errors.New("sessionx: invalid signature")

	// ErrExpired reports a validly signed token past its expiry. The usual
	// caller response is to re-prompt sign-in.
	ErrExpired = errors.New("sessionx: token expired")
)

// Session is the decoded identity carried by a verified token.
type Session struct {
	UserID string
	Email  string
}

type claims struct {
	jwt.RegisteredClaims

	Email string `json:"email"`
}

// Codec signs and verifies session tokens with a server-held HMAC secret.
// Issue is pure given the secret and clock; no I/O happens here.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewCodec builds a Codec. A zero or negative ttl falls back to
// DefaultSessionTTL.
func NewCodec(secret []byte, ttl time.Duration) *Codec {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Codec{
		secret: secret,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue encodes {sub, email, iat, exp} and signs it. The returned string is
// opaque to clients.
func (c *Codec) Issue(userID, email string) (string, error) {
	now := c.now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
		Email: email,
	})
	return token.SignedString(c.secret)
}

// Verify checks the signature and expiry of a presented token and returns
// the identity it encodes. Failures are classified: ErrMalformed,
// ErrTampered and ErrExpired are kept distinct so callers can react
// differently to each.
func (c *Codec) Verify(tokenString string) (Session, error) {
	var cl claims
	_, err := jwt.ParseWithClaims(tokenString, &cl,
		func(t *jwt.Token) (any, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return Session{}, ErrMalformed
		case errors.Is(err, jwt.ErrTokenExpired):
			return Session{}, ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return Session{}, ErrTampered
		default:
			// Unexpected verification failures (e.g. alg confusion) are
			// treated as tampering, never as a pass.
			return Session{}, ErrTampered
		}
	}

	if cl.Subject == "" || cl.Email == "" {
		return Session{}, ErrMalformed
	}

	return Session{UserID: cl.Subject, Email: cl.Email}, nil
}
