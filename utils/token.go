package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
)

// GenerateSessionToken выписывает токен сессии модератора.
// Секрет передаётся явно из конфигурации.
func GenerateSessionToken(secret, login string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("секрет сессии не задан")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"iss": "chinaekb-forms",
		"sub": login,
		"jti": uuid.NewString(),
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseSessionToken проверяет токен и возвращает логин модератора.
func ParseSessionToken(secret, tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("неожиданный метод подписи: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return "", errors.New("недействительный или просроченный токен")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("некорректные claims токена")
	}
	login, ok := claims["sub"].(string)
	if !ok || login == "" {
		return "", errors.New("в токене нет логина")
	}
	return login, nil
}
