package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	RevocationDB    = "db"
	RevocationRedis = "redis"
)

type Config struct {
	ServiceName string
	ServerPort  int
	LogLevel    string

	DatabaseURL string
	SecretKey   []byte
	PublicURL   string

	KafkaBrokers []string
	EventsTopic  string
	MailTopic    string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	RevocationBackend string
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
}

// LoadDotenv reads path into the process environment. A missing file is not an
// error: the system environment is used as is.
func LoadDotenv(path string) {
	if err := godotenv.Load(path); err != nil {
		log.Printf("notice: %s not loaded: %v. Using system environment variables", path, err)
	}
}

func Load() (Config, error) {
	cfg := Config{
		ServiceName: EnvDefault("SERVICE_NAME", "storefront"),
		ServerPort:  EnvIntDefault("SERVER_PORT", 8080),
		LogLevel:    EnvDefault("LOG_LEVEL", "info"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		SecretKey:   []byte(os.Getenv("SECRET_KEY")),
		PublicURL:   strings.TrimRight(os.Getenv("PUBLIC_URL"), "/"),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),
		EventsTopic:  EnvDefault("EVENTS_TOPIC", "storefront_events"),
		MailTopic:    EnvDefault("MAIL_TOPIC", "mail_outbox"),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    EnvDefault("ES_INDEX", "products"),

		RevocationBackend: strings.ToLower(EnvDefault("REVOCATION_BACKEND", RevocationDB)),
		RedisAddr:         EnvDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		RedisDB:           EnvIntDefault("REDIS_DB", 0),
	}

	if err := NonEmpty(cfg.DatabaseURL, "DATABASE_URL"); err != nil {
		return Config{}, err
	}
	if err := NonEmpty(string(cfg.SecretKey), "SECRET_KEY"); err != nil {
		return Config{}, err
	}
	switch cfg.RevocationBackend {
	case RevocationDB, RevocationRedis:
	default:
		return Config{}, fmt.Errorf("unknown REVOCATION_BACKEND %q", cfg.RevocationBackend)
	}

	return cfg, nil
}

func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.ServerPort)
}
