package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            string
	Env             string
	MongoURI        string
	MongoDBName     string
	JWTSecret       string
	StreamAPIKey    string
	StreamAPISecret string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}

	return &Config{
		Port:            getEnv("PORT", "5001"),
		Env:             getEnv("ENV", "development"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:     getEnv("MONGO_DB_NAME", "streamify"),
		JWTSecret:       getEnv("JWT_SECRET_KEY", "supersecretjwtkey"),
		StreamAPIKey:    getEnv("STREAM_API_KEY", ""),
		StreamAPISecret: getEnv("STREAM_API_SECRET", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
