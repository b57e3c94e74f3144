package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleMachine = "machine"
	RoleAdmin   = "admin"
)

var ErrInvalidRole = errors.New("invalid token role")

// Claims Subject 为机器编号（machine）或管理员的 LINE ID（admin）
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken expire 为 0 时不过期（洗衣机端长期持有）
func GenerateToken(secret []byte, issuer, subject, role string, expire time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   issuer,
			Subject:  subject,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if expire != 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(expire))
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func ParseToken(secret []byte, expectedRole string, tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if claims.Role != expectedRole || claims.Subject == "" {
		return nil, ErrInvalidRole
	}
	return claims, nil
}
