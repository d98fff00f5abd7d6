package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Providers ProvidersConfig
	APILog    APILogConfig
	Mock      MockConfig
}

type ServerConfig struct {
	Port int
	Env  string // "development", "production"
}

type DatabaseConfig struct {
	Host    string
	Port    string
	Name    string
	User    string
	Pass    string
	Charset string
}

// Enabled reports whether a database was configured.
func (d *DatabaseConfig) Enabled() bool {
	return strings.TrimSpace(d.Name) != ""
}

type RedisConfig struct {
	Addr string
	Pass string
	DB   int
}

type ProvidersConfig struct {
	FastPayURL   string
	SecurePayURL string
	Timeout      time.Duration
	FastPay      FastPayConfig
}

// FastPayConfig holds FastPay wire fields that inbound requests do not carry.
type FastPayConfig struct {
	PayerEmail   string
	Installments int
	Description  string
}

type APILogConfig struct {
	Retention time.Duration
	QueueSize int
	Workers   int
}

type MockConfig struct {
	Port int
}

// Load reads configuration from .env file and environment variables.
func Load() (*Config, error) {
	// Load .env file (ignore error if missing)
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	// Set defaults
	v.SetDefault("APP_PORT", 8080)
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "3306")
	v.SetDefault("DB_CHARSET", "utf8mb4")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("PROVIDER_TIMEOUT", "5s")
	v.SetDefault("FASTPAY_PAYER_EMAIL", "payments@payflow.local")
	v.SetDefault("FASTPAY_INSTALLMENTS", 1)
	v.SetDefault("FASTPAY_DESCRIPTION", "PayFlow payment")
	v.SetDefault("API_LOG_RETENTION", "168h")
	v.SetDefault("API_LOG_QUEUE_SIZE", 1024)
	v.SetDefault("API_LOG_WORKERS", 2)
	v.SetDefault("MOCK_PORT", 8081)

	timeout := parseDuration(v.GetString("PROVIDER_TIMEOUT"), 5*time.Second)
	retention := parseDuration(v.GetString("API_LOG_RETENTION"), 7*24*time.Hour)

	cfg := &Config{
		Server: ServerConfig{
			Port: v.GetInt("APP_PORT"),
			Env:  v.GetString("APP_ENV"),
		},
		Database: DatabaseConfig{
			Host:    v.GetString("DB_HOST"),
			Port:    v.GetString("DB_PORT"),
			Name:    v.GetString("DB_NAME"),
			User:    v.GetString("DB_USER"),
			Pass:    v.GetString("DB_PASS"),
			Charset: v.GetString("DB_CHARSET"),
		},
		Redis: RedisConfig{
			Addr: v.GetString("REDIS_ADDR"),
			Pass: v.GetString("REDIS_PASS"),
			DB:   v.GetInt("REDIS_DB"),
		},
		Providers: ProvidersConfig{
			FastPayURL:   strings.TrimSpace(v.GetString("FASTPAY_URL")),
			SecurePayURL: strings.TrimSpace(v.GetString("SECUREPAY_URL")),
			Timeout:      timeout,
			FastPay: FastPayConfig{
				PayerEmail:   v.GetString("FASTPAY_PAYER_EMAIL"),
				Installments: v.GetInt("FASTPAY_INSTALLMENTS"),
				Description:  v.GetString("FASTPAY_DESCRIPTION"),
			},
		},
		APILog: APILogConfig{
			Retention: retention,
			QueueSize: v.GetInt("API_LOG_QUEUE_SIZE"),
			Workers:   v.GetInt("API_LOG_WORKERS"),
		},
		Mock: MockConfig{
			Port: v.GetInt("MOCK_PORT"),
		},
	}

	if cfg.Providers.FastPayURL == "" {
		log.Println("WARNING: FASTPAY_URL is not set")
	}
	if cfg.Providers.SecurePayURL == "" {
		log.Println("WARNING: SECUREPAY_URL is not set")
	}

	return cfg, nil
}

// IsDevelopment reports whether the server runs in development mode.
func (s *ServerConfig) IsDevelopment() bool {
	return s.Env == "development"
}

// DSN returns the MySQL DSN string for GORM.
func (d *DatabaseConfig) DSN() string {
	return d.User + ":" + d.Pass + "@tcp(" + d.Host + ":" + d.Port + ")/" + d.Name + "?charset=" + d.Charset + "&parseTime=True&loc=Local"
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
