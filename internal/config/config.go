package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config agrupa toda la configuración del servicio, leída de variables
// de entorno (con .env opcional para dev).
type Config struct {
	Port       string
	DBDSN      string
	ServiceKey string // SERVICE_ROLE_KEY, requerido por el importador

	LogLevel  string
	LogFormat string
	AppName   string

	CORSAllowedOrigins []string

	// Blob store (fotos). Si BlobBucket está vacío => store en memoria.
	BlobBucket        string
	BlobRegion        string
	BlobEndpoint      string
	BlobAccessKey     string
	BlobSecretKey     string
	BlobPathStyle     bool
	BlobPublicBaseURL string

	// Geocodificador (mapa de propietarios). Apagado por default.
	GeocoderEnabled bool
	GeocoderBaseURL string
	GeocoderTimeout time.Duration
}

// Load carga .env si existe (ignora el error si no) y arma Config desde env.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:       getEnv("PORT", "8080"),
		DBDSN:      os.Getenv("DB_DSN"),
		ServiceKey: os.Getenv("SERVICE_ROLE_KEY"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
		AppName:   getEnv("APP_NAME", "trazabilidad-ganadera"),

		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),

		BlobBucket:        os.Getenv("BLOB_S3_BUCKET"),
		BlobRegion:        os.Getenv("BLOB_S3_REGION"),
		BlobEndpoint:      os.Getenv("BLOB_S3_ENDPOINT"),
		BlobAccessKey:     os.Getenv("BLOB_S3_ACCESS_KEY"),
		BlobSecretKey:     os.Getenv("BLOB_S3_SECRET_KEY"),
		BlobPathStyle:     getBool("BLOB_S3_PATH_STYLE", false),
		BlobPublicBaseURL: os.Getenv("BLOB_S3_PUBLIC_BASE_URL"),

		GeocoderEnabled: getBool("GEOCODER_ENABLED", false),
		GeocoderBaseURL: os.Getenv("GEOCODER_BASE_URL"),
		GeocoderTimeout: getDuration("GEOCODER_TIMEOUT", 8*time.Second),
	}
}

func (c Config) Addr() string {
	return ":" + c.Port
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
