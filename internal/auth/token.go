package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/learnhubhq/learnhub/internal/user"
)

// ErrInvalidToken covers every rejection: missing, malformed, expired or
// badly signed tokens all collapse into the same invalid state.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims embeds the registered claims and carries the acting identity.
type Claims struct {
	jwt.RegisteredClaims
	UserID string    `json:"user_id"`
	Role   user.Role `json:"role"`
}

// Tokens issues and verifies signed session tokens. The secret and lifetime
// are fixed at construction.
type Tokens struct {
	secret []byte
	ttl    time.Duration
}

func NewTokens(secret []byte, ttl time.Duration) *Tokens {
	return &Tokens{secret: secret, ttl: ttl}
}

// Issue signs a token for the given identity with the configured lifetime.
func (t *Tokens) Issue(userID string, role user.Role) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(t.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID: userID,
		Role:   role,
	})
	return token.SignedString(t.secret)
}

// Verify validates signature and expiry and returns the embedded claims.
func (t *Tokens) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
