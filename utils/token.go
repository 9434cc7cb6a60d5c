package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type JWTToken struct {
	config *Config
}

func NewJWTToken(config *Config) *JWTToken {
	return &JWTToken{config: config}
}

type jwtClaim struct {
	jwt.RegisteredClaims
	UserID int64 `json:"user_id"`
}

type TokenObject struct {
	UserID int64 `json:"user_id"`
}

func (j *JWTToken) CreateToken(user TokenObject) (string, error) {
	claims := jwtClaim{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 72)),
		},
		UserID: user.UserID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(j.config.SigningKey))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func (j *JWTToken) VerifyToken(tokenString string) (TokenObject, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwtClaim{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("invalid authentication token, format error")
		}
		return []byte(j.config.SigningKey), nil
	})

	if err != nil {
		return TokenObject{}, fmt.Errorf("invalid authentication token, %v", err.Error())
	}

	claims, ok := token.Claims.(*jwtClaim)
	if !ok || !token.Valid {
		return TokenObject{}, fmt.Errorf("invalid authentication token, token is not OK")
	}

	return TokenObject{
		UserID: claims.UserID,
	}, nil
}
