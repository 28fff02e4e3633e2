package shared

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	LogLevel    string
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	CacheTTL    time.Duration

	JWTSecret  string
	AccessTTL  time.Duration
	BcryptCost int

	AMQPURL string

	RewardThreshold int
	RewardPercent   int
	AuthRatePerMin  int
	TrustProxy      bool

	FeedBase    string
	FeedKey     string
	FeedRPS     int
	SeedWorkers int
	SeedFile    string
}

const devSecret = "dev-only-change-me"

// Load reads .env when present, then the environment. Real environment
// variables win over .env entries.
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg(".env present but unreadable")
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		LogLevel:    env("LOG_LEVEL", "info"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ":9100"),
		MySQLDSN:    env("MYSQL_DSN", "root:root@tcp(localhost:3306)/almindhar?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:   env("REDIS_ADDR", "localhost:6379"),
		RedisPass:   env("REDIS_PASSWORD", ""),
		RedisDB:     atoi("REDIS_DB", 0),
		CacheTTL:    time.Duration(atoi("CACHE_TTL_SECONDS", 300)) * time.Second,

		JWTSecret:  env("JWT_SECRET", ""),
		AccessTTL:  time.Duration(atoi("ACCESS_TOKEN_TTL_MIN", 60)) * time.Minute,
		BcryptCost: atoi("BCRYPT_COST", 10),

		AMQPURL: env("AMQP_URL", ""),

		RewardThreshold: atoi("REWARD_SCORE_THRESHOLD", 75),
		RewardPercent:   atoi("REWARD_DISCOUNT_PERCENT", 15),
		AuthRatePerMin:  atoi("AUTH_RATE_PER_MIN", 20),
		TrustProxy:      env("TRUST_PROXY", "false") == "true",

		FeedBase:    env("CATALOG_FEED_URL", ""),
		FeedKey:     env("CATALOG_FEED_KEY", ""),
		FeedRPS:     atoi("CATALOG_FEED_RPS", 5),
		SeedWorkers: atoi("SEED_WORKERS", 8),
		SeedFile:    env("SEED_FILE", ""),
	}
	if c.JWTSecret == "" {
		if c.AppEnv != "dev" && c.AppEnv != "development" {
			log.Fatal().Msg("JWT_SECRET is required outside dev")
		}
		log.Warn().Msg("JWT_SECRET is empty, using the dev secret")
		c.JWTSecret = devSecret
	}
	if c.AMQPURL == "" {
		log.Warn().Msg("AMQP_URL is empty, booking events are disabled")
	}
	return c
}

func atoi(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Warn().Str("key", k).Str("value", v).Msg("not an integer, using default")
	}
	return def
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
