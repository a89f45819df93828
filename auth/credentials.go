// Package auth проверяет учётные данные модераторов.
package auth

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// CredentialStore отделяет логику входа от источника учётных данных.
type CredentialStore interface {
	Check(login, password string) bool
}

// StaticCredentials — хранилище, собранное из конфигурации.
// Пароли хэшируются при создании и дальше в памяти не живут открытыми.
type StaticCredentials struct {
	hashes map[string][]byte
}

// NewStaticCredentials принимает пары "логин:пароль".
func NewStaticCredentials(pairs []string) (*StaticCredentials, error) {
	s := &StaticCredentials{hashes: make(map[string][]byte, len(pairs))}
	for _, pair := range pairs {
		login, password, ok := strings.Cut(pair, ":")
		if !ok || login == "" || password == "" {
			return nil, fmt.Errorf("некорректная пара учётных данных %q", pair)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		s.hashes[login] = hash
	}
	return s, nil
}

func (s *StaticCredentials) Check(login, password string) bool {
	hash, ok := s.hashes[login]
	if !ok {
		return false
	}
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}
