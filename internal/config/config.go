package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// RateYears задает количество исторических годовых ставок по каждому банку
const RateYears = 3

// Config содержит конфигурацию сервера
type Config struct {
	Port            int
	MaxCapital      float64
	MaxRate         float64
	HistoryLimit    int
	HistoryKey      string
	HistoryCodec    string
	StoreDriver     string
	StorePath       string
	StoreDSN        string
	CORSOrigins     []string
	OTELEndpoint    string
	OTELServiceName string
	LogLevel        string
	LogPretty       bool
}

// LoadConfig загружает конфигурацию из переменных окружения
func LoadConfig() (*Config, error) {
	// Загружаем .env файл, если он существует (игнорируем ошибку)
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnvInt("PORT", 8000),
		MaxCapital:      getEnvFloat("MAX_CAPITAL", 1e12),
		MaxRate:         getEnvFloat("MAX_RATE", 200),
		HistoryLimit:    getEnvInt("HISTORY_LIMIT", 20),
		HistoryKey:      getEnvString("HISTORY_KEY", "investment-history"),
		HistoryCodec:    getEnvString("HISTORY_CODEC", "json"),
		StoreDriver:     getEnvString("STORE_DRIVER", "sqlite"),
		StorePath:       getEnvString("STORE_PATH", "data/history.db"),
		StoreDSN:        getEnvString("STORE_DSN", ""),
		CORSOrigins:     getEnvList("CORS_ORIGINS", []string{"*"}),
		OTELEndpoint:    getEnvString("OTEL_ENDPOINT", ""),
		OTELServiceName: getEnvString("OTEL_SERVICE_NAME", "mcp-deposits-server"),
		LogLevel:        strings.ToLower(getEnvString("LOG_LEVEL", "info")),
		LogPretty:       getEnvBool("LOG_PRETTY", false),
	}

	return cfg, nil
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

// RateCeiling возвращает верхнюю границу допустимой ставки в процентах
func (c *Config) RateCeiling() float64 {
	if c == nil || c.MaxRate <= 0 {
		return 200
	}
	return c.MaxRate
}

// MaxSnapshots возвращает максимальное количество сохраняемых расчетов
func (c *Config) MaxSnapshots() int {
	if c == nil || c.HistoryLimit <= 0 {
		return 20
	}
	return c.HistoryLimit
}
