package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             string
	GinMode          string
	MongoURI         string
	MongoDatabase    string
	RabbitMQURI      string
	RabbitMQExchange string
	JWTSecret        string
	FromEmail        string
	AllowedOrigin    string
	ServiceName      string
}

var AppConfig *Config

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system env")
	}

	AppConfig = &Config{
		Port:             getEnv("PORT", "6660"),
		GinMode:          getEnv("GIN_MODE", "debug"),
		MongoURI:         os.Getenv("MONGO_URI"),
		MongoDatabase:    getEnv("MONGO_DATABASE", "compliance_service"),
		RabbitMQURI:      os.Getenv("RABBITMQ_URI"),
		RabbitMQExchange: getEnv("RABBITMQ_EXCHANGE", "compliance.events"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		FromEmail:        os.Getenv("FROM_EMAIL"),
		AllowedOrigin:    getEnv("ALLOWED_ORIGIN", "http://localhost:3000"),
		ServiceName:      getEnv("SERVICE_NAME", "compliance-service"),
	}

	if AppConfig.MongoURI == "" {
		log.Fatal("MONGO_URI is required")
	}
	return AppConfig
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
