package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values. Each field corresponds
// to an environment variable. Typed fields reflect how the values are
// used: strings for identifiers and secrets, durations for TTLs.
type Config struct {
	Env      string        // application environment (e.g. "dev", "prod")
	Port     string        // HTTP port to listen on
	DBUser   string        // database username
	DBPass   string        // database password (optional)
	DBHost   string        // database host address
	DBPort   string        // database port number
	DBName   string        // database name
	CacheTTL time.Duration // lifetime of cached availability views
	AMQPURL  string        // broker URL for purchase events (empty disables publishing)
	Consumer bool          // run the purchase-log consumer in this process
}

// Load reads a .env file when present, then builds a Config from the
// environment. Required variables are enforced by must(); missing
// values cause the program to exit with a fatal log message.
func Load() Config {
	// A missing .env file is fine in containerized deploys where the
	// environment is injected directly.
	_ = godotenv.Load()

	return Config{
		Env:      getenv("APP_ENV", "dev"),
		Port:     getenv("APP_PORT", "8080"),
		DBUser:   must("DB_USER"),
		DBPass:   os.Getenv("DB_PASS"),
		DBHost:   must("DB_HOST"),
		DBPort:   must("DB_PORT"),
		DBName:   must("DB_NAME"),
		CacheTTL: envDur("AVAILABILITY_CACHE_TTL", 30*time.Second),
		AMQPURL:  getenv("RABBITMQ_URL", os.Getenv("AMQP_URL")),
		Consumer: envBool("PURCHASE_CONSUMER_ENABLED", false),
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	switch os.Getenv(key) {
	case "1", "true", "TRUE", "True", "yes", "on":
		return true
	case "0", "false", "FALSE", "False", "no", "off":
		return false
	}
	return def
}

func envDur(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
