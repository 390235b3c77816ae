package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var envKeys = []string{
	"APP_ADDR", "PORT", "GIN_MODE", "DB_DSN", "DB_CONNECT_TIMEOUT", "UPLOAD_DIR", "MAX_UPLOAD_MB",
	"CORS_ALLOWED_ORIGINS", "JWT_SECRET", "PASS_ID_PREFIX", "PASS_ID_MAX_ATTEMPTS", "REDIS_ADDR",
	"REDIS_PASSWORD", "REDIS_DB", "PASS_CACHE_TTL", "RABBITMQ_URL", "ADMIN_EMAIL", "ADMIN_PASSWORD",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoadEnvDefaults(t *testing.T) {
	clearEnv(t)

	env := LoadEnv()
	assert.Equal(t, ":5000", env.AppAddr)
	assert.Equal(t, defaultDSN, env.DBDSN)
	assert.Equal(t, 10*time.Second, env.DBConnectTimeout)
	assert.Equal(t, "uploads", env.UploadDir)
	assert.Equal(t, 10, env.MaxUploadMB)
	assert.Empty(t, env.CORSOrigins)
	assert.Equal(t, DefaultJWTSecret, env.JWTSecret)
	assert.Equal(t, "BP", env.PassIDPrefix)
	assert.Equal(t, 5, env.PassIDTries)
	assert.Empty(t, env.RedisAddr)
	assert.Equal(t, 0, env.RedisDB)
	assert.Equal(t, 10*time.Minute, env.PassCacheTTL)
	assert.Empty(t, env.RabbitMQURL)
	assert.Empty(t, env.AdminEmail)
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ADDR", ":7000")
	t.Setenv("PORT", "8080")
	t.Setenv("DB_CONNECT_TIMEOUT", "3s")
	t.Setenv("MAX_UPLOAD_MB", " 4 ")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("JWT_SECRET", "real-secret")
	t.Setenv("PASS_ID_PREFIX", "TSRTC")
	t.Setenv("PASS_ID_MAX_ATTEMPTS", "8")
	t.Setenv("REDIS_ADDR", " localhost:6379 ")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("PASS_CACHE_TTL", "1h")
	t.Setenv("ADMIN_EMAIL", " root@example.com ")

	env := LoadEnv()
	assert.Equal(t, ":8080", env.AppAddr)
	assert.Equal(t, 3*time.Second, env.DBConnectTimeout)
	assert.Equal(t, 4, env.MaxUploadMB)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, env.CORSOrigins)
	assert.Equal(t, "real-secret", env.JWTSecret)
	assert.Equal(t, "TSRTC", env.PassIDPrefix)
	assert.Equal(t, 8, env.PassIDTries)
	assert.Equal(t, "localhost:6379", env.RedisAddr)
	assert.Equal(t, 2, env.RedisDB)
	assert.Equal(t, time.Hour, env.PassCacheTTL)
	assert.Equal(t, "root@example.com", env.AdminEmail)
}

func TestLoadEnvPortWithColon(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", ":9090")
	assert.Equal(t, ":9090", LoadEnv().AppAddr)
}

func TestLoadEnvMalformedValuesFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_CONNECT_TIMEOUT", "soon")
	t.Setenv("PASS_CACHE_TTL", "-5m")
	t.Setenv("MAX_UPLOAD_MB", "ten")
	t.Setenv("PASS_ID_MAX_ATTEMPTS", "many")
	t.Setenv("REDIS_DB", "x")

	env := LoadEnv()
	assert.Equal(t, 10*time.Second, env.DBConnectTimeout)
	assert.Equal(t, 10*time.Minute, env.PassCacheTTL)
	assert.Equal(t, 10, env.MaxUploadMB)
	assert.Equal(t, 5, env.PassIDTries)
	assert.Equal(t, 0, env.RedisDB)
}
