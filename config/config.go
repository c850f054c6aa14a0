package config

import (
	"context"
	"database/sql"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
)

// Config is the environment shared by market-svc, notify-svc and api-gateway.
type Config struct {
	HTTPAddr       string
	NotifyHTTPAddr string
	GatewayAddr    string

	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string

	RedisHost string
	RedisPort string

	KafkaBroker      string
	OrderEventsTopic string

	SessionSecret string
	SessionTTL    time.Duration
	AdminToken    string

	CORSOrigins   []string
	PublicBaseURL string
	UploadDir     string
	FrontendDir   string

	MarketSvcURL string
	NotifySvcURL string
}

// Load reads the process environment. A .env file in the working directory is
// applied first when present; variables already set in the environment win.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to read .env: %v", err)
	}

	return Config{
		HTTPAddr:         getEnv("HTTP_ADDR", ":8081"),
		NotifyHTTPAddr:   getEnv("NOTIFY_HTTP_ADDR", ":8082"),
		GatewayAddr:      getEnv("GATEWAY_ADDR", ":8080"),
		DBHost:           getEnv("DB_HOST", "localhost"),
		DBPort:           getEnv("DB_PORT", "5432"),
		DBName:           getEnv("DB_NAME", "marketplace"),
		DBUser:           getEnv("DB_USER", "postgres"),
		DBPassword:       getEnv("DB_PASSWORD", "postgres"),
		RedisHost:        getEnv("REDIS_HOST", "localhost"),
		RedisPort:        getEnv("REDIS_PORT", "6379"),
		KafkaBroker:      getEnv("KAFKA_BROKER", "localhost:9092"),
		OrderEventsTopic: getEnv("ORDER_EVENTS_TOPIC", "order_events"),
		SessionSecret:    getEnv("SESSION_SECRET", "dev-session-secret"),
		SessionTTL:       getDuration("SESSION_TTL", 24*time.Hour),
		AdminToken:       os.Getenv("ADMIN_TOKEN"),
		CORSOrigins:      splitList(getEnv("CORS_ORIGINS", "http://localhost:5173,http://127.0.0.1:5173,http://localhost:3000")),
		PublicBaseURL:    getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
		UploadDir:        getEnv("UPLOAD_DIR", "./uploads"),
		FrontendDir:      os.Getenv("FRONTEND_DIR"),
		MarketSvcURL:     getEnv("MARKET_SVC_URL", "http://localhost:8081"),
		NotifySvcURL:     getEnv("NOTIFY_SVC_URL", "http://localhost:8082"),
	}
}

// PostgresDSN returns a lib/pq keyword/value connection string.
func (c Config) PostgresDSN() string {
	return "host=" + c.DBHost + " port=" + c.DBPort + " user=" + c.DBUser +
		" password=" + c.DBPassword + " dbname=" + c.DBName + " sslmode=disable"
}

func (c Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

func MustInitPostgres(cfg Config) *sql.DB {
	db, err := sql.Open("postgres", cfg.PostgresDSN())
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err = db.Ping(); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	return db
}

func MustInitRedis(cfg Config) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr(),
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	return client
}

func NewKafkaReader(cfg Config, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{cfg.KafkaBroker},
		Topic:   cfg.OrderEventsTopic,
		GroupID: groupID,
	})
}

func NewKafkaWriter(cfg Config) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.KafkaBroker),
		Topic:                  cfg.OrderEventsTopic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
		WriteTimeout:           5 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}

func splitList(csv string) []string {
	var out []string
	for _, part := range strings.Split(csv, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
