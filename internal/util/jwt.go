package util

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Claims 服务间调用令牌。本服务没有终端用户，只有内容平台/运营后台两类调用方
type Claims struct {
	Subject string `json:"subject"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}

const RoleAdmin = "admin"

func GenerateJWT(subject, role, secret string, expiration time.Duration) (string, error) {
	expirationTime := time.Now().Add(expiration)

	claims := &Claims{
		Subject: subject,
		Role:    role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseJWT(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, err
}

func GetCallerFromContext(c *gin.Context) *Claims {
	caller, exists := c.Get("caller")
	if !exists {
		return nil
	}
	claims, ok := caller.(*Claims)
	if !ok {
		return nil
	}
	return claims
}
