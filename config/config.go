package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the cart BFF.
type Config struct {
	Port string
	Env  string

	RedisURL     string
	GuestCartTTL time.Duration

	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     string
	PostgresSSLMode  string

	CartServiceURL    string
	ChargesServiceURL string

	PaymentBaseURL        string
	PaymentConsumerKey    string
	PaymentConsumerSecret string
	PaymentCallbackURL    string

	KafkaBrokers       []string
	KafkaCheckoutTopic string
	KafkaPaymentTopic  string
	KafkaGroupID       string

	AllowedOrigins []string
}

// Load reads configuration from environment variables with sensible
// defaults for local development.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port: getEnv("PORT", "8087"),
		Env:  getEnv("APP_ENV", "development"),

		RedisURL:     getEnv("REDIS_URL", "redis://localhost:6379"),
		GuestCartTTL: time.Hour * 24 * 7,

		PostgresUser:     getEnv("POSTGRES_USER", "postgres"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:       getEnv("POSTGRES_DB", "cart_bff"),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		CartServiceURL:    getEnv("CART_SERVICE_URL", "http://localhost:8081"),
		ChargesServiceURL: getEnv("CHARGES_SERVICE_URL", "http://localhost:8082"),

		PaymentBaseURL:        getEnv("PAYMENT_BASE_URL", "https://pay.pesapal.com/v3"),
		PaymentConsumerKey:    os.Getenv("PAYMENT_CONSUMER_KEY"),
		PaymentConsumerSecret: os.Getenv("PAYMENT_CONSUMER_SECRET"),
		PaymentCallbackURL:    getEnv("PAYMENT_CALLBACK_URL", "http://localhost:8087/checkout/verify"),

		KafkaBrokers:       strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		KafkaCheckoutTopic: getEnv("KAFKA_CHECKOUT_TOPIC", "checkout.requested"),
		KafkaPaymentTopic:  getEnv("KAFKA_PAYMENT_TOPIC", "payment.events"),
		KafkaGroupID:       getEnv("KAFKA_GROUP_ID", "cart-bff"),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:4200"), ","),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
