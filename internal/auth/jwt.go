package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperrors "github.com/lorrc/kanban-board/internal/core/errors"
)

const issuer = "kanban-board"

// Claims identifies a viewer. The viewer ID is the scope their board
// preferences are stored under.
type Claims struct {
	ViewerID uuid.UUID `json:"viewer_id"`
	jwt.RegisteredClaims
}

// Scope returns the preference scope for the viewer.
func (c *Claims) Scope() string {
	return c.ViewerID.String()
}

// TokenManager mints and validates viewer session tokens.
type TokenManager struct {
	secretKey []byte
	ttl       time.Duration
	now       func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secretKey: []byte(secret),
		ttl:       ttl,
		now:       time.Now,
	}
}

// GenerateToken signs a token for viewerID and returns it with its expiry.
func (tm *TokenManager) GenerateToken(viewerID uuid.UUID) (string, time.Time, error) {
	issuedAt := tm.now()
	expiresAt := issuedAt.Add(tm.ttl)

	claims := &Claims{
		ViewerID: viewerID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   viewerID.String(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(tm.secretKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign viewer token: %w", err)
	}
	return signed, expiresAt, nil
}

// ValidateToken parses and validates the token string. Every failure is
// reported as ErrInvalidToken.
func (tm *TokenManager) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secretKey, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(tm.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidToken, err)
	}

	if !token.Valid || claims.ViewerID == uuid.Nil {
		return nil, apperrors.ErrInvalidToken
	}

	return claims, nil
}
