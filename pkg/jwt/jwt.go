// Package jwt firma y valida los tokens de sesión (HS256).
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrEmptySecret = errors.New("jwt: secret vacío")
	ErrExpired     = errors.New("jwt: token expirado")
	ErrInvalid     = errors.New("jwt: token inválido")
)

// Identity lo que el API necesita saber del llamador en cada petición.
type Identity struct {
	UserID    string
	CompanyID string
	Role      string
}

// Claims claims registrados más la identidad. Role viaja en el token para que RequireRole no consulte la DB.
type Claims struct {
	jwt.RegisteredClaims
	UserID    string `json:"user_id"`
	CompanyID string `json:"company_id"`
	Role      string `json:"role"`
}

// Identity extrae la identidad de los claims.
func (c *Claims) Identity() Identity {
	return Identity{UserID: c.UserID, CompanyID: c.CompanyID, Role: c.Role}
}

// Generate firma un token para id que vence en ttl.
func Generate(secret string, id Identity, issuer string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID:    id.UserID,
		CompanyID: id.CompanyID,
		Role:      id.Role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// Parse valida firma, vencimiento y company_id. Un token vencido devuelve ErrExpired; el resto ErrInvalid.
func Parse(secret, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpired
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	// sin empresa no hay tenencia
	if claims.CompanyID == "" {
		return nil, fmt.Errorf("%w: sin company_id", ErrInvalid)
	}
	return claims, nil
}
