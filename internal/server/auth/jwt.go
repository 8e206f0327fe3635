// Package auth issues and validates the HS256 access tokens carrying user
// and firm identity.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/lexdraft/lexdraft/internal/common"
)

// Claims extends the registered JWT claims with the authenticated user and
// the firm (tenant) the token is scoped to.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
	FirmID string `json:"fid"`
}

func GenerateToken(userID, firmID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID: userID,
		FirmID: firmID,
	})

	return token.SignedString(secretKey)
}

// ParseToken validates tokenString and returns its claims. Invalid,
// expired or differently signed tokens yield common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrInvalidToken
		}
		return secretKey, nil
	})
	if err != nil {
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
