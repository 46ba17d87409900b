package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	TelegramToken        string `mapstructure:"TELEGRAM_TOKEN"`
	DBDSN                string `mapstructure:"DB_DSN"`
	MoltinClientID       string `mapstructure:"MOLTIN_CLIENT_ID"`
	MoltinClientSecret   string `mapstructure:"MOLTIN_CLIENT_SECRET"`
	YandexAPIKey         string `mapstructure:"YANDEX_API_KEY"`
	PaymentProviderToken string `mapstructure:"PAYMENT_PROVIDER_TOKEN"`
	Environment          string `mapstructure:"ENV"`
	MigrationsPath       string `mapstructure:"MIGRATIONS_PATH"`
	DeliveryNotifyDelay  time.Duration
}

func LoadConfig() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	// Читаем напрямую из переменных окружения (после godotenv.Load они там)
	cfg := &Config{
		TelegramToken:        os.Getenv("TELEGRAM_TOKEN"),
		DBDSN:                os.Getenv("DB_DSN"),
		MoltinClientID:       os.Getenv("MOLTIN_CLIENT_ID"),
		MoltinClientSecret:   os.Getenv("MOLTIN_CLIENT_SECRET"),
		YandexAPIKey:         os.Getenv("YANDEX_API_KEY"),
		PaymentProviderToken: os.Getenv("PAYMENT_PROVIDER_TOKEN"),
		Environment:          os.Getenv("ENV"),
		MigrationsPath:       os.Getenv("MIGRATIONS_PATH"),
	}

	// Устанавливаем дефолтные значения
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.MigrationsPath == "" {
		cfg.MigrationsPath = "migrations"
	}

	cfg.DeliveryNotifyDelay = 60 * time.Second
	if raw := os.Getenv("DELIVERY_NOTIFY_DELAY_SECONDS"); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds <= 0 {
			return nil, fmt.Errorf("DELIVERY_NOTIFY_DELAY_SECONDS must be a positive integer, got %q", raw)
		}
		cfg.DeliveryNotifyDelay = time.Duration(seconds) * time.Second
	}

	// Проверяем обязательные поля
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is required but not set")
	}
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}
	if cfg.MoltinClientID == "" {
		return nil, fmt.Errorf("MOLTIN_CLIENT_ID is required but not set")
	}
	if cfg.MoltinClientSecret == "" {
		return nil, fmt.Errorf("MOLTIN_CLIENT_SECRET is required but not set")
	}
	if cfg.YandexAPIKey == "" {
		return nil, fmt.Errorf("YANDEX_API_KEY is required but not set")
	}

	// PAYMENT_PROVIDER_TOKEN опционален: без него оплата картой выключена
	if cfg.PaymentProviderToken == "" {
		log.Println("⚠️  PAYMENT_PROVIDER_TOKEN is not set, card payments disabled")
	}

	log.Printf("Config loaded\n")

	return cfg, nil
}

// CardPaymentsEnabled доступна ли оплата картой
func (c *Config) CardPaymentsEnabled() bool {
	return c.PaymentProviderToken != ""
}
