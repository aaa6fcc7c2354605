package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	JWTSecret      string
	JWTResetSecret string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string

	CatalogBaseURL    string
	ModerationBaseURL string
	ModerationAPIKey  string

	CORSOrigins []string
}

func LoadConfig() *Config {
	if err := godotenv.Load(".env"); err != nil {
		fmt.Println("Archivo .env no encontrado, se usan variables de entorno del sistema")
	}

	smtpPort, _ := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	useSSL, _ := strconv.ParseBool(getEnv("MINIO_USE_SSL", "false"))

	return &Config{
		Port: getEnv("PORT", "8080"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "melodia"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:      getEnv("JWT_SECRET", "dev_secret"),
		JWTResetSecret: getEnv("JWT_RESET_SECRET", "dev_secret_reset"),

		MinioEndpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		MinioSecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
		MinioBucket:    getEnv("MINIO_BUCKET", "melodia"),
		MinioUseSSL:    useSSL,

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     smtpPort,
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),

		CatalogBaseURL:    getEnv("CATALOG_BASE_URL", "https://api.deezer.com"),
		ModerationBaseURL: os.Getenv("MODERATION_BASE_URL"),
		ModerationAPIKey:  os.Getenv("MODERATION_API_KEY"),

		CORSOrigins: []string{getEnv("FRONTEND_ORIGIN", "http://localhost:5173")},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
