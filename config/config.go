package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config собирается один раз при старте и передаётся компонентам явно.
// Никто кроме Load не читает переменные окружения.
type Config struct {
	BaseURL       string
	ListenAddr    string
	DBPath        string
	UploadPath    string
	DocsPath      string
	ContractsPath string
	LogLevel      string

	DocsTTL        time.Duration // 0 — документы не устаревают
	MaxUploadBytes int64

	Secret      string
	Reviewers   []string // пары "логин:пароль"
	SessionTTL  time.Duration
	RememberTTL time.Duration

	ContractURL      string
	ContractLogin    string
	ContractPassword string
}

const defaultContractURL = "https://1c.rsvpu.ru/univer_prof_test/hs/confucius_center/put_contract"

func Load() (*Config, error) {
	// .env не обязателен: в продакшене переменные приходят из окружения
	_ = godotenv.Load()

	cfg := &Config{
		BaseURL:       os.Getenv("BASE_URL"),
		ListenAddr:    getenv("LISTEN_ADDR", ":3000"),
		DBPath:        getenv("DB_PATH", "chinaekb.db"),
		UploadPath:    getenv("UPLOAD_PATH", "uploads"),
		DocsPath:      getenv("DOCS_PATH", "docs"),
		ContractsPath: getenv("CONTRACTS_PATH", "contracts_templates"),
		LogLevel:      getenv("LOG_LEVEL", "debug"),

		MaxUploadBytes: 20 * 1024 * 1024,

		Secret:      os.Getenv("SECRET"),
		SessionTTL:  24 * time.Hour,
		RememberTTL: 7 * 24 * time.Hour,

		ContractURL:      getenv("CONTRACT_URL", defaultContractURL),
		ContractLogin:    os.Getenv("CONTRACT_LOGIN"),
		ContractPassword: os.Getenv("CONTRACT_PASSWORD"),
	}

	ttl, err := strconv.Atoi(getenv("DOCS_TTL", "3600"))
	if err != nil {
		return nil, errors.New("DOCS_TTL должен быть целым числом секунд")
	}
	cfg.DocsTTL = time.Duration(ttl) * time.Second

	if cfg.Secret == "" {
		return nil, errors.New("SECRET не задан")
	}

	if raw := os.Getenv("REVIEWERS"); raw != "" {
		for _, pair := range strings.Split(raw, ",") {
			pair = strings.TrimSpace(pair)
			if pair != "" {
				cfg.Reviewers = append(cfg.Reviewers, pair)
			}
		}
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
