package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv         string
	HTTPAddr       string
	MetricsAddr    string
	MySQLDSN       string // empty: persistence disabled
	RedisAddr      string // empty: in-process dispatch
	RedisDB        int
	RedisPass      string
	RedisQueueKey  string
	SearchBase     string
	SearchTimeout  time.Duration
	CompareWorkers int
	EnrichWorkers  int
	TaskTimeout    time.Duration
	APIRPS         int
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("not an integer, using default")
		}
		return def
	}
	return Config{
		AppEnv:         env("APP_ENV", "prod"),
		HTTPAddr:       env("HTTP_ADDR", ":8080"),
		MetricsAddr:    env("METRICS_ADDR", ""),
		MySQLDSN:       env("MYSQL_DSN", ""),
		RedisAddr:      env("REDIS_ADDR", ""),
		RedisPass:      env("REDIS_PASSWORD", ""),
		RedisDB:        atoi("REDIS_DB", 0),
		RedisQueueKey:  env("REDIS_QUEUE_KEY", "partprice:enrich"),
		SearchBase:     env("SEARCH_BASE_URL", "https://duckduckgo.com"),
		SearchTimeout:  time.Duration(atoi("SEARCH_TIMEOUT_SECONDS", 10)) * time.Second,
		CompareWorkers: atoi("COMPARE_WORKERS", 1),
		EnrichWorkers:  atoi("ENRICH_WORKERS", 2),
		TaskTimeout:    time.Duration(atoi("TASK_TIMEOUT_SECONDS", 60)) * time.Second,
		APIRPS:         atoi("API_RPS", 20),
	}
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
