package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"retaildash/models"
)

const cookieIssuer = "retaildash"

// ErrInvalidCookie is returned for a cookie that was not issued by this server.
var ErrInvalidCookie = errors.New("invalid session cookie")

// CookieSigner issues and verifies the browser's session cookie. The cookie is an
// HS256 JWT whose ID claim is the session id; it carries no expiry.
type CookieSigner struct {
	key []byte
}

// NewCookieSigner derives the signing key from secret.
func NewCookieSigner(secret string) (*CookieSigner, error) {
	key, err := deriveKey(secret, "retaildash cookie signature")
	if err != nil {
		return nil, err
	}
	return &CookieSigner{key: key[:]}, nil
}

// NewID returns a fresh random session id.
func NewID() string {
	return uuid.NewString()
}

// Issue signs a cookie value for sid.
func (s *CookieSigner) Issue(sid string) (string, error) {
	claims := models.SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       sid,
			Issuer:   cookieIssuer,
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.key)
}

// Parse verifies value and returns the session id it carries.
func (s *CookieSigner) Parse(value string) (string, error) {
	if value == "" {
		return "", ErrInvalidCookie
	}
	claims := &models.SessionClaims{}
	token, err := jwt.ParseWithClaims(value, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidCookie
		}
		return s.key, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidCookie
	}
	if claims.Issuer != cookieIssuer {
		return "", ErrInvalidCookie
	}
	if _, err := uuid.Parse(claims.ID); err != nil {
		return "", ErrInvalidCookie
	}
	return claims.ID, nil
}
