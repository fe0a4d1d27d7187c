package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	JWT      JWTConfig
	Tax      TaxConfig
	Twilio   TwilioConfig
	Resend   ResendConfig
	Storage  StorageConfig
}

type ServerConfig struct {
	AppEnv string
	Port   string
}

type PostgresConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
	ConnMaxIdleTime int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
	GroupID string
}

type JWTConfig struct {
	Secret string
}

// TaxConfig holds the two flat rates applied to the taxable subtotal.
// The rates are summed, not compounded.
type TaxConfig struct {
	SalesRate  float64
	ExciseRate float64
}

type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
}

type ResendConfig struct {
	APIKey    string
	FromEmail string
}

type StorageConfig struct {
	BaseURL    string
	ServiceKey string
	Bucket     string
}

// LoadEnv loads environment variables from a .env file
func LoadEnv() {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("Error loading .env file")
	}
}

// Load builds the full application config from environment variables.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			AppEnv: GetEnv("APP_ENV", "development"),
			Port:   GetEnv("PORT", "3000"),
		},
		Postgres: PostgresConfig{
			Host:            GetEnv("POSTGRES_HOST", "localhost"),
			Port:            GetEnv("POSTGRES_PORT", "5432"),
			User:            GetEnv("POSTGRES_USER", "dankdeals"),
			Password:        GetEnv("POSTGRES_PASSWORD", "dankdeals"),
			DBName:          GetEnv("POSTGRES_DB", "dankdeals"),
			SSLMode:         GetEnv("POSTGRES_SSLMODE", "disable"),
			MaxOpenConns:    getEnvInt("POSTGRES_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("POSTGRES_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvInt("POSTGRES_CONN_MAX_LIFETIME", 300),
			ConnMaxIdleTime: getEnvInt("POSTGRES_CONN_MAX_IDLE_TIME", 60),
		},
		Redis: RedisConfig{
			Addr:     GetEnv("REDIS_ADDR", "localhost:6379"),
			Password: GetEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Kafka: KafkaConfig{
			Brokers: getEnvSlice("KAFKA_BROKERS", []string{"localhost:9092"}),
			Topic:   GetEnv("KAFKA_TOPIC_NOTIFICATIONS", "notifications"),
			GroupID: GetEnv("KAFKA_GROUP_NOTIFIER", "notifier"),
		},
		JWT: JWTConfig{
			Secret: GetEnv("JWT_SECRET", ""),
		},
		Tax: TaxConfig{
			SalesRate:  getEnvFloat("MN_SALES_TAX", 0.06875),
			ExciseRate: getEnvFloat("CANNABIS_EXCISE_TAX", 0.10),
		},
		Twilio: TwilioConfig{
			AccountSID: GetEnv("TWILIO_ACCOUNT_SID", ""),
			AuthToken:  GetEnv("TWILIO_AUTH_TOKEN", ""),
			FromNumber: GetEnv("TWILIO_PHONE_NUMBER", ""),
		},
		Resend: ResendConfig{
			APIKey:    GetEnv("RESEND_API_KEY", ""),
			FromEmail: GetEnv("RESEND_FROM_EMAIL", "orders@dankdeals.com"),
		},
		Storage: StorageConfig{
			BaseURL:    GetEnv("STORAGE_URL", ""),
			ServiceKey: GetEnv("STORAGE_SERVICE_KEY", ""),
			Bucket:     GetEnv("STORAGE_BUCKET", "waitlist-backups"),
		},
	}
}

// GetEnv retrieves environment variables with a fallback
func GetEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	if value, ok := os.LookupEnv(key); ok {
		return strings.Split(value, ",")
	}
	return fallback
}
