package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Invoice       InvoiceConfig
	Reminder      ReminderConfig
	PubSub        PubSubConfig
	Outbox        OutboxConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"KONVEKSI_APP_ENV" required:"true"`
	Port         string `envconfig:"KONVEKSI_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"KONVEKSI_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"KONVEKSI_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"KONVEKSI_DB_DSN"`
	Driver string `envconfig:"KONVEKSI_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"KONVEKSI_DB_HOST"`
	LegacyPort     int    `envconfig:"KONVEKSI_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"KONVEKSI_DB_USER"`
	LegacyPassword string `envconfig:"KONVEKSI_DB_PASSWORD"`
	LegacyName     string `envconfig:"KONVEKSI_DB_NAME"`
	LegacySSLMode  string `envconfig:"KONVEKSI_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"KONVEKSI_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"KONVEKSI_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"KONVEKSI_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"KONVEKSI_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"KONVEKSI_REDIS_URL" required:"true"`
	Address      string        `envconfig:"KONVEKSI_REDIS_ADDR"`
	Password     string        `envconfig:"KONVEKSI_REDIS_PASSWORD"`
	DB           int           `envconfig:"KONVEKSI_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"KONVEKSI_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"KONVEKSI_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"KONVEKSI_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"KONVEKSI_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"KONVEKSI_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"KONVEKSI_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"KONVEKSI_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"KONVEKSI_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"KONVEKSI_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"KONVEKSI_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"KONVEKSI_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"KONVEKSI_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"KONVEKSI_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"KONVEKSI_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"KONVEKSI_LOGIN_RATE_WINDOW" default:"10m"`
	LoginIPLimit    int           `envconfig:"KONVEKSI_LOGIN_RATE_IP_LIMIT" default:"20"`
	LoginEmailLimit int           `envconfig:"KONVEKSI_LOGIN_RATE_EMAIL_LIMIT" default:"10"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"KONVEKSI_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"KONVEKSI_AUTO_MIGRATE" default:"false"`
}

type InvoiceConfig struct {
	// Prefix feeds generated invoice numbers, e.g. SI.2026.08.00042.
	Prefix string `envconfig:"KONVEKSI_INVOICE_PREFIX" default:"SI"`
}

type ReminderConfig struct {
	// EstimateWindowDays bounds the dashboard estimate-shipping reminder query.
	EstimateWindowDays int `envconfig:"KONVEKSI_REMINDER_ESTIMATE_WINDOW_DAYS" default:"3"`
	// DepositWindowDays is how far ahead of expiry the cron worker flags
	// unpaid deposits.
	DepositWindowDays int `envconfig:"KONVEKSI_REMINDER_DEPOSIT_WINDOW_DAYS" default:"2"`
}

type PubSubConfig struct {
	ProjectID       string `envconfig:"KONVEKSI_PUBSUB_PROJECT_ID"`
	OrdersTopic     string `envconfig:"KONVEKSI_PUBSUB_ORDERS_TOPIC" default:"konveksi-order-events"`
	ProductionTopic string `envconfig:"KONVEKSI_PUBSUB_PRODUCTION_TOPIC" default:"konveksi-production-events"`
	TicketsTopic    string `envconfig:"KONVEKSI_PUBSUB_TICKETS_TOPIC" default:"konveksi-ticket-events"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"KONVEKSI_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"KONVEKSI_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"KONVEKSI_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
