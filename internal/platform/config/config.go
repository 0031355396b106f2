package config

import (
	"os"
	"strings"
	"time"
)

// Per-service configuration built from environment variables so each main
// stays lean. Defaults match the local docker-compose deployment.

// Auth captures auth service configuration. The signing secret is loaded once
// here and injected into the token codec; nothing mutates it afterwards.
type Auth struct {
	Addr          string
	JWTSigningKey string
	DatabaseURL   string
}

func AuthFromEnv() Auth {
	return Auth{
		Addr:          env("AUTH_ADDR", ":4005"),
		JWTSigningKey: env("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		DatabaseURL:   os.Getenv("AUTH_DATABASE_URL"),
	}
}

// Gateway captures edge gateway configuration.
type Gateway struct {
	Addr              string
	AuthServiceURL    string
	PatientServiceURL string
	ValidateTimeout   time.Duration
}

func GatewayFromEnv() Gateway {
	return Gateway{
		Addr:              env("GATEWAY_ADDR", ":4004"),
		AuthServiceURL:    env("AUTH_SERVICE_URL", "http://localhost:4005"),
		PatientServiceURL: env("PATIENT_SERVICE_URL", "http://localhost:4000"),
		ValidateTimeout:   duration("GATEWAY_VALIDATE_TIMEOUT", 5*time.Second),
	}
}

// Patient captures patient service configuration.
type Patient struct {
	Addr           string
	DatabaseURL    string
	BillingAddr    string
	BillingTimeout time.Duration
	KafkaBrokers   []string
	KafkaTopic     string
}

func PatientFromEnv() Patient {
	return Patient{
		Addr:           env("PATIENT_ADDR", ":4000"),
		DatabaseURL:    os.Getenv("PATIENT_DATABASE_URL"),
		BillingAddr:    env("BILLING_SERVICE_ADDRESS", "localhost:9001"),
		BillingTimeout: duration("BILLING_TIMEOUT", 5*time.Second),
		KafkaBrokers:   brokers("KAFKA_BROKERS", "localhost:9092"),
		KafkaTopic:     env("KAFKA_TOPIC", "patient"),
	}
}

// Billing captures billing service configuration.
type Billing struct {
	GRPCAddr string
	HTTPAddr string
}

func BillingFromEnv() Billing {
	return Billing{
		GRPCAddr: env("BILLING_GRPC_ADDR", ":9001"),
		HTTPAddr: env("BILLING_HTTP_ADDR", ":9002"),
	}
}

// Analytics captures analytics consumer configuration.
type Analytics struct {
	Addr         string
	KafkaBrokers []string
	KafkaTopic   string
	KafkaGroup   string
}

func AnalyticsFromEnv() Analytics {
	return Analytics{
		Addr:         env("ANALYTICS_ADDR", ":4002"),
		KafkaBrokers: brokers("KAFKA_BROKERS", "localhost:9092"),
		KafkaTopic:   env("KAFKA_TOPIC", "patient"),
		KafkaGroup:   env("KAFKA_GROUP_ID", "analytics-service"),
	}
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func duration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func brokers(key, fallback string) []string {
	return strings.Split(env(key, fallback), ",")
}
