package config

import (
	"fmt"
	"net"
	"net/url"
	"sync"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Server struct {
		Env      string `envconfig:"ENV"`
		LogLevel string `envconfig:"LOG_LEVEL"`
		Port     string `envconfig:"PORT"`
		Host     string `envconfig:"HOST"`
		Shutdown struct {
			CleanupPeriodSeconds int64 `envconfig:"CLEANUP_PERIOD_SECONDS"`
			GracePeriodSeconds   int64 `envconfig:"GRACE_PERIOD_SECONDS"`
		} `envconfig:"SHUTDOWN"`
	} `envconfig:"SERVER"`

	App struct {
		Name     string `envconfig:"APP_NAME"`
		Timezone string `envconfig:"TIMEZONE"`
		CORS     struct {
			AllowCredentials bool     `envconfig:"ALLOW_CREDENTIALS"`
			AllowedHeaders   []string `envconfig:"ALLOWED_HEADERS"`
			AllowedMethods   []string `envconfig:"ALLOWED_METHODS"`
			AllowedOrigins   []string `envconfig:"ALLOWED_ORIGINS"`
			Enable           bool     `envconfig:"ENABLE"`
			MaxAgeSeconds    int      `envconfig:"MAX_AGE_SECONDS"`
		} `envconfig:"CORS"`
		RateLimiter struct {
			Enable        bool `envconfig:"ENABLE"`
			MaxRequests   int  `envconfig:"MAX_REQUESTS"`
			WindowSeconds int  `envconfig:"WINDOW_SECONDS"`
		} `envconfig:"RATE_LIMITER"`
		APIKey string `envconfig:"API_KEY"`
	} `envconfig:"APP"`

	Cache struct {
		Redis struct {
			Primary struct {
				Host     string `envconfig:"HOST"`
				Port     string `envconfig:"PORT"`
				Password string `envconfig:"PASSWORD"`
				DB       int    `envconfig:"DB"`
			} `envconfig:"PRIMARY"`
		} `envconfig:"REDIS"`
		TTL int `envconfig:"TTL"`
	} `envconfig:"CACHE"`

	JWT struct {
		AccessSecret    string `envconfig:"ACCESS_SECRET"`
		AccessExpireMin int    `envconfig:"ACCESS_EXPIRE_MIN"`
		Issuer          string `envconfig:"ISSUER"`
	} `envconfig:"JWT"`

	DB struct {
		Postgres struct {
			MaxRetry       int          `envconfig:"MAX_RETRY"`
			RetryWaitTime  int          `envconfig:"RETRY_WAIT_TIME"`
			MaxOpenConns   int          `envconfig:"MAX_OPEN_CONNS"`
			MaxIdleConns   int          `envconfig:"MAX_IDLE_CONNS"`
			MigrationTable string       `envconfig:"MIGRATION_TABLE"`
			AutoMigrate    bool         `envconfig:"AUTO_MIGRATE"`
			Prefix         string       `envconfig:"PREFIX"`
			Read           PostgresNode `envconfig:"READ"`
			Write          PostgresNode `envconfig:"WRITE"`
		} `envconfig:"POSTGRES"`
	} `envconfig:"DB"`

	Kafka struct {
		Brokers []string `envconfig:"BROKERS"`
		SASL    struct {
			Enable   bool   `envconfig:"ENABLE"`
			Username string `envconfig:"USERNAME"`
			Password string `envconfig:"PASSWORD"`
		} `envconfig:"SASL"`
	} `envconfig:"KAFKA"`

	Notification struct {
		Topic         string  `envconfig:"TOPIC"`
		QueueSize     int     `envconfig:"QUEUE_SIZE"`
		Workers       int     `envconfig:"WORKERS"`
		RatePerSecond float64 `envconfig:"RATE_PER_SECOND"`
		TimeoutSecond int     `envconfig:"TIMEOUT_SECOND"`
	} `envconfig:"NOTIFICATION"`

	Booking struct {
		DefaultCurrency        string `envconfig:"DEFAULT_CURRENCY"`
		DefaultSlotMinutes     int    `envconfig:"DEFAULT_SLOT_MINUTES"`
		CalendarStartHour      int    `envconfig:"CALENDAR_START_HOUR"`
		CalendarEndHour        int    `envconfig:"CALENDAR_END_HOUR"`
		NumberGenerateAttempts int    `envconfig:"NUMBER_GENERATE_ATTEMPTS"`
	} `envconfig:"BOOKING"`

	Metrics struct {
		Enable    bool   `envconfig:"ENABLE"`
		Namespace string `envconfig:"NAMESPACE"`
		Path      string `envconfig:"ROUTE"`
	} `envconfig:"METRICS"`

	External struct {
		Otel struct {
			Endpoint string `envconfig:"ENDPOINT"`
		} `envconfig:"OTEL"`
	}
}

// PostgresNode addresses one database server. The read and write pools may
// point at different nodes.
type PostgresNode struct {
	Host     string `envconfig:"HOST"`
	Port     string `envconfig:"PORT"`
	Username string `envconfig:"USER"`
	Password string `envconfig:"PASSWORD"`
	Name     string `envconfig:"NAME"`
	Timezone string `envconfig:"TIMEZONE"`
	SSLMode  string `envconfig:"SSL_MODE"`
}

// URL builds a postgres:// connection string. prefix is prepended to the
// database name; query is appended as extra parameters.
func (n PostgresNode) URL(prefix string, query url.Values) string {
	if query == nil {
		query = url.Values{}
	}

	if n.SSLMode != "" {
		query.Set("sslmode", n.SSLMode)
	}

	if n.Timezone != "" {
		query.Set("timezone", n.Timezone)
	}

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(n.Username, n.Password),
		Host:     net.JoinHostPort(n.Host, n.Port),
		Path:     "/" + prefix + n.Name,
		RawQuery: query.Encode(),
	}

	return dsn.String()
}

var (
	conf        Config
	once        sync.Once
	initialized bool
)

func Init() error {
	var err error

	once.Do(func() {
		err = godotenv.Load(".env")
		if err != nil {
			log.Warn().Err(err).Msg("Could not load .env file, continuing with existing environment variables")
		} else {
			log.Info().Msg("Successfully loaded variables from .env file into environment")
		}

		err = envconfig.Process("", &conf)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to process environment variables")
		}

		conf.ApplyDefaults()

		initialized = true

		log.Info().Msg("Service configuration initialized successfully")
	})

	if err != nil {
		return fmt.Errorf("loading .env file: %w", err)
	}

	return nil
}

func Get() *Config {
	if !initialized {
		if err := Init(); err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize configuration")
		}
	}

	return &conf
}

// ApplyDefaults fills settings left empty by the environment.
func (c *Config) ApplyDefaults() {
	if c.Booking.DefaultCurrency == "" {
		c.Booking.DefaultCurrency = "USD"
	}

	if c.Booking.DefaultSlotMinutes <= 0 {
		c.Booking.DefaultSlotMinutes = 60
	}

	if c.Booking.CalendarStartHour == 0 && c.Booking.CalendarEndHour == 0 {
		c.Booking.CalendarStartHour = 9
		c.Booking.CalendarEndHour = 18
	}

	if c.Booking.NumberGenerateAttempts <= 0 {
		c.Booking.NumberGenerateAttempts = 3
	}

	if c.Notification.QueueSize <= 0 {
		c.Notification.QueueSize = 256
	}

	if c.Notification.Workers <= 0 {
		c.Notification.Workers = 2
	}

	if c.Notification.Topic == "" {
		c.Notification.Topic = "booking.notifications"
	}

	if c.DB.Postgres.MaxOpenConns <= 0 {
		c.DB.Postgres.MaxOpenConns = 10
	}

	if c.DB.Postgres.MaxIdleConns <= 0 {
		c.DB.Postgres.MaxIdleConns = c.DB.Postgres.MaxOpenConns
	}

	if c.DB.Postgres.MaxRetry <= 0 {
		c.DB.Postgres.MaxRetry = 1
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
}
