package tokens

import (
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrExpired = errors.New("token expired")
	ErrInvalid = errors.New("invalid token")
)

// Purpose separates token domains. Each purpose signs with its own key derived from the salt.
type Purpose struct {
	Salt   string
	MaxAge time.Duration
}

var (
	Auth          = Purpose{Salt: "customer-auth-token", MaxAge: 7 * 24 * time.Hour}
	EmailConfirm  = Purpose{Salt: "customer-email-confirm", MaxAge: 3 * 24 * time.Hour}
	PasswordReset = Purpose{Salt: "customer-password-reset", MaxAge: time.Hour}
)

type Claims struct {
	CustomerID uint   `json:"cid"`
	Email      string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// IssuedAtTime returns the iat claim in UTC, or the zero time when absent.
func (c *Claims) IssuedAtTime() time.Time {
	if c.IssuedAt == nil {
		return time.Time{}
	}
	return c.IssuedAt.Time.UTC()
}

type Signer struct {
	secret []byte
	now    func() time.Time
}

func NewSigner(secret []byte) *Signer {
	return &Signer{secret: secret, now: time.Now}
}

// WithClock returns a copy of s that reads time from now.
func (s *Signer) WithClock(now func() time.Time) *Signer {
	return &Signer{secret: s.secret, now: now}
}

func (s *Signer) Now() time.Time { return s.now() }

func (s *Signer) key(p Purpose) []byte {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(p.Salt))
	return mac.Sum(nil)
}

func (s *Signer) Sign(p Purpose, customerID uint, email string) (string, error) {
	now := s.now().UTC()
	claims := Claims{
		CustomerID: customerID,
		Email:      email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatUint(uint64(customerID), 10),
			Audience:  jwt.ClaimStrings{p.Salt},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.MaxAge)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.key(p))
}

// Parse verifies the signature first, then expiry. An expired token yields ErrExpired,
// anything else that fails yields ErrInvalid.
func (s *Signer) Parse(p Purpose, tokenStr string) (*Claims, error) {
	var claims Claims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return s.key(p), nil
	},
		jwt.WithAudience(p.Salt),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrInvalid
	}
	if !tkn.Valid {
		return nil, ErrInvalid
	}
	return &claims, nil
}
