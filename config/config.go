package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort string
	AppMode string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	JWTSecret string

	RedisHost     string
	RedisPort     string
	RedisPassword string

	S3Region      string
	S3Endpoint    string
	S3AccessKey   string
	S3SecretKey   string
	AudioBucket   string
	VideoBucket   string
	ImageBucket   string
	StorageTimeout time.Duration

	// Presign TTL bounds in seconds; requests outside the range are clamped.
	SignedURLMinTTL int
	SignedURLMaxTTL int

	MaxAudioBytes int64
	MaxVideoBytes int64
}

func LoadConfig() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		AppPort: getEnv("APP_PORT", "8080"),
		AppMode: getEnv("APP_MODE", "debug"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "legacybook"),
		DBPort:     getEnv("DB_PORT", "5432"),

		JWTSecret: getEnv("JWT_SECRET", "change-me"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		S3Region:       getEnv("S3_REGION", "ap-south-1"),
		S3Endpoint:     getEnv("S3_ENDPOINT", ""),
		S3AccessKey:    getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:    getEnv("S3_SECRET_KEY", ""),
		AudioBucket:    getEnv("S3_AUDIO_BUCKET", "alumni-audio"),
		VideoBucket:    getEnv("S3_VIDEO_BUCKET", "alumni-videos"),
		ImageBucket:    getEnv("S3_IMAGE_BUCKET", "alumni-images"),
		StorageTimeout: time.Duration(getEnvAsInt("STORAGE_TIMEOUT_SEC", 30)) * time.Second,

		SignedURLMinTTL: getEnvAsInt("SIGNED_URL_MIN_TTL", 60),
		SignedURLMaxTTL: getEnvAsInt("SIGNED_URL_MAX_TTL", 3600),

		MaxAudioBytes: getEnvAsInt64("MAX_AUDIO_BYTES", 25<<20),
		MaxVideoBytes: getEnvAsInt64("MAX_VIDEO_BYTES", 200<<20),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsInt64(key string, fallback int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return fallback
}
