package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultJWTSecret is the placeholder used when JWT_SECRET is unset. Staff routes are
// not mounted while it is in effect.
const DefaultJWTSecret = "super-secret-key-change-me"

const defaultDSN = "root:@tcp(127.0.0.1:3306)/bus_pass?parseTime=true&loc=Local&charset=utf8mb4&timeout=5s&readTimeout=30s&writeTimeout=30s"

type Env struct {
	AppAddr string
	GinMode string

	DBDSN            string
	DBConnectTimeout time.Duration

	UploadDir    string
	MaxUploadMB  int
	CORSOrigins  []string
	JWTSecret    string
	PassIDPrefix string
	PassIDTries  int

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	PassCacheTTL  time.Duration

	RabbitMQURL string

	AdminEmail    string
	AdminPassword string
}

// LoadEnv reads process environment, after an optional .env file, and fills defaults.
func LoadEnv() Env {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: failed to read .env: %v", err)
	}

	appAddr := getenv("APP_ADDR", ":5000")
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		appAddr = ":" + strings.TrimPrefix(port, ":")
	}

	jwtSecret := getenv("JWT_SECRET", DefaultJWTSecret)
	if jwtSecret == DefaultJWTSecret {
		log.Printf("WARNING: JWT_SECRET is not set; /api/auth and /api/admin are disabled until it is")
	}

	return Env{
		AppAddr: appAddr,
		GinMode: strings.TrimSpace(os.Getenv("GIN_MODE")),

		DBDSN:            getenv("DB_DSN", defaultDSN),
		DBConnectTimeout: parseDur(getenv("DB_CONNECT_TIMEOUT", "10s"), 10*time.Second),

		UploadDir:    getenv("UPLOAD_DIR", "uploads"),
		MaxUploadMB:  atoi(getenv("MAX_UPLOAD_MB", "10"), 10),
		CORSOrigins:  splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		JWTSecret:    jwtSecret,
		PassIDPrefix: getenv("PASS_ID_PREFIX", "BP"),
		PassIDTries:  atoi(getenv("PASS_ID_MAX_ATTEMPTS", "5"), 5),

		RedisAddr:     strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       atoi(getenv("REDIS_DB", "0"), 0),
		PassCacheTTL:  parseDur(getenv("PASS_CACHE_TTL", "10m"), 10*time.Minute),

		RabbitMQURL: strings.TrimSpace(os.Getenv("RABBITMQ_URL")),

		AdminEmail:    strings.TrimSpace(os.Getenv("ADMIN_EMAIL")),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func atoi(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}

func parseDur(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func splitList(raw string) []string {
	out := []string{}
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
