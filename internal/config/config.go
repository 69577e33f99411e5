package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             string
	DatabaseURL      string
	AllowOrigins     []string
	LogstashTCPAddr  string
	MinIOEndpoint    string
	MinIOAccessKey   string
	MinIOSecretKey   string
	MinIOUseSSL      bool
	MinIOBucketMedia string
	MediaBaseURL     string
	ImageMaxBytes    int64
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	imageMax := int64(2 * 1024 * 1024)
	if v, err := strconv.ParseInt(getenv("IMAGE_MAX_BYTES", "2097152"), 10, 64); err == nil && v > 0 {
		imageMax = v
	}

	return Config{
		Port:             getenv("PORT", "8080"),
		DatabaseURL:      must("DATABASE_URL"),
		AllowOrigins:     splitAndTrim(getenv("ALLOW_ORIGINS", "*")),
		LogstashTCPAddr:  getenv("LOGSTASH_TCP_ADDR", ""),
		MinIOEndpoint:    must("MINIO_ENDPOINT"),
		MinIOAccessKey:   must("MINIO_ACCESS_KEY"),
		MinIOSecretKey:   must("MINIO_SECRET_KEY"),
		MinIOUseSSL:      getenv("MINIO_USE_SSL", "false") == "true",
		MinIOBucketMedia: getenv("MINIO_BUCKET_MEDIA", "wanderspot-media"),
		MediaBaseURL:     getenv("MEDIA_BASE_URL", ""),
		ImageMaxBytes:    imageMax,
	}
}

func splitAndTrim(input string) []string {
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("missing env: " + k)
	}
	return v
}
