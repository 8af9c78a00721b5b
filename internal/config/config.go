package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MaxIdle  int
}

// GetDSN 获取数据库连接字符串
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// RedisConfig Redis配置
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// MQTTConfig MQTT配置
type MQTTConfig struct {
	Broker   string
	ClientID string
	Username string
	Password string
	QoS      byte
}

// Config runcoach（HTTP + 实时通道）配置
type Config struct {
	HTTP struct {
		Addr               string
		StaticDir          string
		CORSAllowedOrigins []string
	}

	Collection struct {
		// 推送间隔，默认 100ms（约 10Hz）
		SampleInterval time.Duration
		// 最新样本快照在 KV 中的存活时间
		SnapshotTTL time.Duration
	}

	RedisEnabled bool
	Redis        RedisConfig
	SampleStream struct {
		Name   string
		MaxLen int64
	}

	DBEnabled bool
	Database  DatabaseConfig

	MQTTEnabled bool
	MQTT        MQTTConfig
	MQTTTopic   string

	Log struct {
		Level       string
		Format      string
		ServiceName string
	}
}

// Load 加载配置：先读取可选的 .env，再读环境变量（带默认值）
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{}

	port := parseInt(getEnv("PORT", "5000"), 5000)
	if port <= 0 || port > 65535 {
		port = 5000
	}
	cfg.HTTP.Addr = fmt.Sprintf(":%d", port)
	cfg.HTTP.StaticDir = getEnv("STATIC_DIR", "dist")
	cfg.HTTP.CORSAllowedOrigins = splitList(getEnv("CORS_ALLOWED_ORIGINS", "*"))

	intervalMs := parseInt(getEnv("SAMPLE_INTERVAL_MS", "100"), 100)
	if intervalMs <= 0 {
		intervalMs = 100
	}
	cfg.Collection.SampleInterval = time.Duration(intervalMs) * time.Millisecond
	ttl := parseInt(getEnv("SNAPSHOT_TTL_SECONDS", "5"), 5)
	if ttl <= 0 {
		ttl = 5
	}
	cfg.Collection.SnapshotTTL = time.Duration(ttl) * time.Second

	// Redis 默认关闭：不可用时回退到内存 KV
	cfg.RedisEnabled = getEnvBool("REDIS_ENABLED", false)
	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = parseInt(getEnv("REDIS_DB", "0"), 0)
	cfg.SampleStream.Name = getEnv("REDIS_SAMPLE_STREAM", "runcoach:sensor")
	cfg.SampleStream.MaxLen = int64(parseInt(getEnv("REDIS_STREAM_MAXLEN", "10000"), 10000))

	cfg.DBEnabled = getEnvBool("DB_ENABLED", false)
	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = parseInt(getEnv("DB_PORT", "5432"), 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "runcoach")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.MaxConns = parseInt(getEnv("DB_MAX_CONNS", "5"), 5)
	cfg.Database.MaxIdle = parseInt(getEnv("DB_MAX_IDLE", "2"), 2)

	cfg.MQTTEnabled = getEnvBool("MQTT_ENABLED", false)
	cfg.MQTT.Broker = getEnv("MQTT_BROKER", "tcp://localhost:1883")
	cfg.MQTT.ClientID = getEnv("MQTT_CLIENT_ID", "runcoach")
	cfg.MQTT.Username = getEnv("MQTT_USERNAME", "")
	cfg.MQTT.Password = getEnv("MQTT_PASSWORD", "")
	qos := parseInt(getEnv("MQTT_QOS", "0"), 0)
	if qos < 0 || qos > 2 {
		qos = 0
	}
	cfg.MQTT.QoS = byte(qos)
	cfg.MQTTTopic = getEnv("MQTT_TOPIC", "runcoach/sensor")

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")
	cfg.Log.ServiceName = getEnv("SERVICE_NAME", "runcoach")

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return i
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
