package config

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"rentals/pkg/client"
	"rentals/pkg/logger"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	MongoURI          string        `envconfig:"MONGO_URI" default:"mongodb://localhost:27017/?replicaSet=rs0"`
	MongoDatabaseName string        `envconfig:"MONGO_DATABASE_NAME" default:"rentals"`
	MongoConnTimeout  time.Duration `envconfig:"MONGO_CONN_TIMEOUT" default:"10s"`

	Port     string `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`
	IdempotencyTTL time.Duration `envconfig:"IDEMPOTENCY_TTL" default:"24h"`
	MaxRequestSize int64         `envconfig:"MAX_REQUEST_SIZE" default:"1048576"`

	ReadTimeout     time.Duration `envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration `envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`

	JWTSecret   string        `envconfig:"JWT_SECRET" required:"true"`
	JWTDuration time.Duration `envconfig:"JWT_DURATION" default:"24h"`
	BcryptCost  int           `envconfig:"BCRYPT_COST" default:"10"`

	// Off by default: cancelled bookings still block their dates and count as
	// the tenant's booking for the property.
	BookingIgnoreCancelled bool          `envconfig:"BOOKING_IGNORE_CANCELLED" default:"false"`
	BookingLockTTL         time.Duration `envconfig:"BOOKING_LOCK_TTL" default:"10s"`

	PropertyCacheTTL  time.Duration `envconfig:"PROPERTY_CACHE_TTL" default:"1m"`
	PropertyCacheSize int64         `envconfig:"PROPERTY_CACHE_SIZE" default:"1000"`

	CORSAllowOrigins []string `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000"`

	EventsEnabled  bool   `envconfig:"EVENTS_ENABLED" default:"false"`
	EventsTopic    string `envconfig:"EVENTS_TOPIC" default:"rentals.events"`
	EventsDLQTopic string `envconfig:"EVENTS_DLQ_TOPIC" default:"rentals.events.dlq"`

	Log    *logger.Logger `ignored:"true"`
	Client *client.Client `ignored:"true"`
}

// FromEnv reads the configuration from the environment without validating it.
func FromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env config: %w", err)
	}
	return &cfg, nil
}

// Load reads, validates and logs the configuration, exiting the process when it is unusable.
func Load(serviceName string) *Config {
	cfg, err := FromEnv()
	if err != nil {
		logger.New(logger.Config{Service: serviceName}).Fatal("Failed to load configuration", "error", err)
	}

	cfg.Log = logger.New(logger.Config{
		Level:     cfg.LogLevel,
		Format:    logger.JSON,
		AddSource: true,
		Service:   serviceName,
	})
	cfg.Client = client.NewClient()

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errors = append(errors, "MongoURI cannot be empty")
	} else if !regexp.MustCompile(`^mongodb(\+srv)?://.+`).MatchString(cfg.MongoURI) {
		errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactMongoURI(cfg.MongoURI)))
	}
	if cfg.MongoDatabaseName == "" {
		errors = append(errors, "MongoDatabaseName cannot be empty")
	}

	for name, d := range map[string]time.Duration{
		"MongoConnTimeout": cfg.MongoConnTimeout,
		"RequestTimeout":   cfg.RequestTimeout,
		"IdempotencyTTL":   cfg.IdempotencyTTL,
		"ReadTimeout":      cfg.ReadTimeout,
		"WriteTimeout":     cfg.WriteTimeout,
		"IdleTimeout":      cfg.IdleTimeout,
		"ShutdownTimeout":  cfg.ShutdownTimeout,
		"JWTDuration":      cfg.JWTDuration,
		"BookingLockTTL":   cfg.BookingLockTTL,
		"PropertyCacheTTL": cfg.PropertyCacheTTL,
	} {
		if d <= 0 {
			errors = append(errors, fmt.Sprintf("%s must be positive, got: %s", name, d))
		}
	}

	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}
	if cfg.PropertyCacheSize <= 0 {
		errors = append(errors, fmt.Sprintf("PropertyCacheSize must be positive, got: %d", cfg.PropertyCacheSize))
	}

	if len(cfg.JWTSecret) < MinJWTSecretLength {
		errors = append(errors, fmt.Sprintf("JWTSecret must be at least %d characters", MinJWTSecretLength))
	}
	if cfg.BcryptCost < MinBcryptCost || cfg.BcryptCost > MaxBcryptCost {
		errors = append(errors, fmt.Sprintf("BcryptCost must be between %d and %d, got: %d", MinBcryptCost, MaxBcryptCost, cfg.BcryptCost))
	}

	for _, origin := range cfg.CORSAllowOrigins {
		if origin == "*" {
			continue
		}
		if u, err := url.Parse(origin); err != nil || u.Scheme == "" || u.Host == "" {
			errors = append(errors, fmt.Sprintf("CORSAllowOrigins entry must be an absolute origin, got: %s", origin))
		}
	}

	if cfg.EventsEnabled && strings.TrimSpace(cfg.EventsTopic) == "" {
		errors = append(errors, "EventsTopic cannot be empty when events are enabled")
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"log_level", cfg.LogLevel,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"jwt_secret_set", cfg.JWTSecret != "",
		"jwt_duration", cfg.JWTDuration,
		"bcrypt_cost", cfg.BcryptCost,
		"booking_ignore_cancelled", cfg.BookingIgnoreCancelled,
		"booking_lock_ttl", cfg.BookingLockTTL,
		"property_cache_ttl", cfg.PropertyCacheTTL,
		"property_cache_size", cfg.PropertyCacheSize,
		"cors_allow_origins", cfg.CORSAllowOrigins,
		"events_enabled", cfg.EventsEnabled,
		"events_topic", cfg.EventsTopic,
	)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown(cfg.Log)
}
