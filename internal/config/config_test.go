package config

import (
	"testing"
	"time"
)

func TestLoad_DefaultValues(t *testing.T) {
	for _, k := range []string{"PORT", "STATIC_DIR", "SAMPLE_INTERVAL_MS", "REDIS_ENABLED", "DB_ENABLED", "MQTT_ENABLED", "LOG_LEVEL", "CORS_ALLOWED_ORIGINS", "DB_MAX_CONNS", "DB_MAX_IDLE"} {
		t.Setenv(k, "")
	}

	cfg := Load()

	if cfg.HTTP.Addr != ":5000" {
		t.Errorf("Expected default addr ':5000', got '%s'", cfg.HTTP.Addr)
	}
	if cfg.HTTP.StaticDir != "dist" {
		t.Errorf("Expected STATIC_DIR default 'dist', got '%s'", cfg.HTTP.StaticDir)
	}
	if cfg.Collection.SampleInterval != 100*time.Millisecond {
		t.Errorf("Expected sample interval 100ms, got %v", cfg.Collection.SampleInterval)
	}
	if cfg.RedisEnabled || cfg.DBEnabled || cfg.MQTTEnabled {
		t.Errorf("Expected optional backends disabled by default")
	}
	if cfg.Database.Database != "runcoach" {
		t.Errorf("Expected DB_NAME default 'runcoach', got '%s'", cfg.Database.Database)
	}
	if len(cfg.HTTP.CORSAllowedOrigins) != 1 || cfg.HTTP.CORSAllowedOrigins[0] != "*" {
		t.Errorf("Expected CORS default '*', got %v", cfg.HTTP.CORSAllowedOrigins)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Expected LOG_LEVEL default 'info', got '%s'", cfg.Log.Level)
	}
	if cfg.Database.MaxConns != 5 || cfg.Database.MaxIdle != 2 {
		t.Errorf("Expected DB pool defaults 5/2, got %d/%d", cfg.Database.MaxConns, cfg.Database.MaxIdle)
	}
}

func TestLoad_DatabasePool(t *testing.T) {
	t.Setenv("DB_MAX_CONNS", "20")
	t.Setenv("DB_MAX_IDLE", "abc")

	cfg := Load()

	if cfg.Database.MaxConns != 20 {
		t.Errorf("Expected DB_MAX_CONNS 20, got %d", cfg.Database.MaxConns)
	}
	if cfg.Database.MaxIdle != 2 {
		t.Errorf("Expected invalid DB_MAX_IDLE to fall back to 2, got %d", cfg.Database.MaxIdle)
	}
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("SAMPLE_INTERVAL_MS", "250")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("DB_ENABLED", "1")
	t.Setenv("MQTT_QOS", "1")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:5173, http://example.com")

	cfg := Load()

	if cfg.HTTP.Addr != ":8081" {
		t.Errorf("Expected addr ':8081', got '%s'", cfg.HTTP.Addr)
	}
	if cfg.Collection.SampleInterval != 250*time.Millisecond {
		t.Errorf("Expected 250ms, got %v", cfg.Collection.SampleInterval)
	}
	if !cfg.RedisEnabled || !cfg.DBEnabled {
		t.Errorf("Expected redis and db enabled")
	}
	if cfg.MQTT.QoS != 1 {
		t.Errorf("Expected MQTT QoS 1, got %d", cfg.MQTT.QoS)
	}
	if len(cfg.HTTP.CORSAllowedOrigins) != 2 || cfg.HTTP.CORSAllowedOrigins[1] != "http://example.com" {
		t.Errorf("Unexpected CORS origins %v", cfg.HTTP.CORSAllowedOrigins)
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("PORT", "abc")
	t.Setenv("SAMPLE_INTERVAL_MS", "-5")
	t.Setenv("REDIS_ENABLED", "maybe")

	cfg := Load()

	if cfg.HTTP.Addr != ":5000" {
		t.Errorf("Expected fallback addr ':5000', got '%s'", cfg.HTTP.Addr)
	}
	if cfg.Collection.SampleInterval != 100*time.Millisecond {
		t.Errorf("Expected fallback 100ms, got %v", cfg.Collection.SampleInterval)
	}
	if cfg.RedisEnabled {
		t.Errorf("Expected invalid bool to fall back to false")
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("TEST_VAR", "test-value")

	if v := getEnv("TEST_VAR", "default"); v != "test-value" {
		t.Errorf("Expected 'test-value', got '%s'", v)
	}
	if v := getEnv("NON_EXISTENT_VAR_RUNCOACH", "default-value"); v != "default-value" {
		t.Errorf("Expected 'default-value', got '%s'", v)
	}
}

func TestDatabaseConfig_GetDSN(t *testing.T) {
	c := DatabaseConfig{Host: "h", Port: 1, User: "u", Password: "p", Database: "d", SSLMode: "disable"}
	want := "host=h port=1 user=u password=p dbname=d sslmode=disable"
	if got := c.GetDSN(); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}
