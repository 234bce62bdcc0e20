package jwt

import (
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Kali2114/ZenithFlowAPI/internal/model"
)

const (
	defaultAccessTTL = 15 * time.Minute
	refreshTTL       = 30 * 24 * time.Hour
)

func secret() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}

// ACCESS_TOKEN_TTL_MIN overrides the access token lifetime in minutes.
func accessTTL() time.Duration {
	minutes, err := strconv.Atoi(os.Getenv("ACCESS_TOKEN_TTL_MIN"))
	if err != nil || minutes <= 0 {
		return defaultAccessTTL
	}
	return time.Duration(minutes) * time.Minute
}

func sign(claims jwt.MapClaims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret())
}

// GenerateTokens issues the access/refresh pair. The access token carries the
// identity claims handlers read; the refresh token carries only the subject.
func GenerateTokens(user *model.User) (accessToken string, refreshToken string, err error) {
	now := time.Now()

	accessToken, err = sign(jwt.MapClaims{
		"sub":   user.ID,
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
		"exp":   now.Add(accessTTL()).Unix(),
	})
	if err != nil {
		return "", "", err
	}

	refreshToken, err = sign(jwt.MapClaims{
		"sub": user.ID,
		"exp": now.Add(refreshTTL).Unix(),
	})
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

func ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret(), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	return claims, nil
}
