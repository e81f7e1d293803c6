package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Default LCSD open-data endpoints.  They can be overridden through the
// FEED_* environment variables, e.g. to point at a local fixture server.
const (
	defaultVenuesURL = "https://www.lcsd.gov.hk/datagovhk/event/venues.xml"
	defaultEventsURL = "https://www.lcsd.gov.hk/datagovhk/event/events.xml"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for durations
// and costs.
type Config struct {
	Env         string // application environment (e.g. "dev", "prod")
	Port        string // HTTP port to listen on
	DBUser      string // database username
	DBPass      string // database password (optional)
	DBHost      string // database host address
	DBPort      string // database port number
	DBName      string // database name
	JWTSecret   string // secret used to sign JWTs
	TokenTTLHrs int    // access token time-to-live in hours
	BcryptCost  int    // bcrypt cost for password hashing
	DataDir     string // directory where fetched feed documents are cached
	VenuesURL   string // source URL of the venues feed
	EventsURL   string // source URL of the events feed
	AMQPURL     string // RabbitMQ URL for the import summary queue (optional)
}

// Load reads configuration values from environment variables and returns a
// Config.  A .env file in the working directory is merged in first when
// present.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	_ = godotenv.Load() // .env is optional; the real environment always wins

	return Config{
		Env:         must("APP_ENV"),
		Port:        must("APP_PORT"),
		DBUser:      must("DB_USER"),
		DBPass:      os.Getenv("DB_PASS"), // empty allowed
		DBHost:      must("DB_HOST"),
		DBPort:      must("DB_PORT"),
		DBName:      must("DB_NAME"),
		JWTSecret:   must("JWT_SECRET"),
		TokenTTLHrs: intOr("TOKEN_TTL_HOURS", 24),
		BcryptCost:  intOr("BCRYPT_COST", 10),
		DataDir:     getenv("DATA_DIR", "data"),
		VenuesURL:   getenv("FEED_VENUES_URL", defaultVenuesURL),
		EventsURL:   getenv("FEED_EVENTS_URL", defaultEventsURL),
		AMQPURL:     os.Getenv("RABBITMQ_URL"),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// intOr converts the named variable to an integer, falling back to def when
// the variable is unset.  An unparseable value is fatal.
func intOr(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
