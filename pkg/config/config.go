package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Search       SearchConfig
	RateLimit    RateLimitConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Search.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env             string        `envconfig:"DISCSWAP_APP_ENV" required:"true"`
	Port            string        `envconfig:"DISCSWAP_APP_PORT" required:"true"`
	LogLevel        string        `envconfig:"DISCSWAP_LOG_LEVEL" default:"info"`
	LogFormat       string        `envconfig:"DISCSWAP_LOG_FORMAT" default:"json"`
	LogWarnStack    bool          `envconfig:"DISCSWAP_LOG_WARN_STACK" default:"false"`
	ReadTimeout     time.Duration `envconfig:"DISCSWAP_HTTP_READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"DISCSWAP_HTTP_WRITE_TIMEOUT" default:"15s"`
	ShutdownTimeout time.Duration `envconfig:"DISCSWAP_HTTP_SHUTDOWN_TIMEOUT" default:"10s"`
	CORSOrigins     []string      `envconfig:"DISCSWAP_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"DISCSWAP_DB_DSN"`
	Driver string `envconfig:"DISCSWAP_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"DISCSWAP_DB_HOST"`
	LegacyPort     int    `envconfig:"DISCSWAP_DB_PORT"`
	LegacyUser     string `envconfig:"DISCSWAP_DB_USER"`
	LegacyPassword string `envconfig:"DISCSWAP_DB_PASSWORD"`
	LegacyName     string `envconfig:"DISCSWAP_DB_NAME"`
	LegacySSLMode  string `envconfig:"DISCSWAP_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"DISCSWAP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"DISCSWAP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"DISCSWAP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"DISCSWAP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// NormalizedDriver returns the lower-cased driver name, defaulting to postgres.
func (db DBConfig) NormalizedDriver() string {
	driver := strings.ToLower(strings.TrimSpace(db.Driver))
	if driver == "" {
		return DriverPostgres
	}
	return driver
}

type RedisConfig struct {
	URL          string        `envconfig:"DISCSWAP_REDIS_URL"`
	Address      string        `envconfig:"DISCSWAP_REDIS_ADDR"`
	Password     string        `envconfig:"DISCSWAP_REDIS_PASSWORD"`
	DB           int           `envconfig:"DISCSWAP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"DISCSWAP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"DISCSWAP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"DISCSWAP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"DISCSWAP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"DISCSWAP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis endpoint was configured at all.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type SearchConfig struct {
	DefaultThreshold int    `envconfig:"DISCSWAP_SEARCH_DEFAULT_THRESHOLD" default:"50"`
	Scorer           string `envconfig:"DISCSWAP_SEARCH_SCORER" default:"weighted"`
}

func (s SearchConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(s.Scorer)) {
	case "", "weighted", "ratio", "partial", "token_sort", "token_set":
		return nil
	default:
		return fmt.Errorf("%s must be one of weighted, ratio, partial, token_sort, token_set", EnvSearchScorer)
	}
}

type RateLimitConfig struct {
	SearchWindow     time.Duration `envconfig:"DISCSWAP_RATE_LIMIT_SEARCH_WINDOW" default:"1m"`
	SearchIPLimit    int           `envconfig:"DISCSWAP_RATE_LIMIT_SEARCH_IP_LIMIT" default:"60"`
	CreateWindow     time.Duration `envconfig:"DISCSWAP_RATE_LIMIT_CREATE_WINDOW" default:"1m"`
	CreateIPLimit    int           `envconfig:"DISCSWAP_RATE_LIMIT_CREATE_IP_LIMIT" default:"10"`
	CreateOwnerLimit int           `envconfig:"DISCSWAP_RATE_LIMIT_CREATE_OWNER_LIMIT" default:"5"`
	IdempotencyTTL   time.Duration `envconfig:"DISCSWAP_IDEMPOTENCY_TTL" default:"24h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate      bool `envconfig:"DISCSWAP_AUTO_MIGRATE" default:"false"`
	PermissiveStatus bool `envconfig:"DISCSWAP_FEATURE_PERMISSIVE_STATUS" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	driver := db.NormalizedDriver()
	switch driver {
	case DriverPostgres, DriverMySQL, DriverSQLite:
	default:
		return fmt.Errorf("%s must be one of %s, %s, %s", EnvDBDriver, DriverPostgres, DriverMySQL, DriverSQLite)
	}
	db.Driver = driver

	if db.DSN != "" {
		return nil
	}

	if driver == DriverSQLite {
		if db.LegacyName == "" {
			return fmt.Errorf("either %s or %s are required", EnvDBDSN, EnvDBName)
		}
		db.DSN = db.LegacyName
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

	if driver == DriverMySQL {
		db.DSN = db.mysqlDSN()
		return nil
	}
	db.DSN = db.postgresDSN()
	return nil
}

func (db *DBConfig) postgresDSN() string {
	port := db.LegacyPort
	if port == 0 {
		port = defaultPostgresPort
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, port),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}
	return u.String()
}

func (db *DBConfig) mysqlDSN() string {
	port := db.LegacyPort
	if port == 0 {
		port = defaultMySQLPort
	}

	cfg := mysql.NewConfig()
	cfg.User = db.LegacyUser
	cfg.Passwd = db.LegacyPassword
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%d", db.LegacyHost, port)
	cfg.DBName = db.LegacyName
	cfg.ParseTime = true
	cfg.ClientFoundRows = true
	cfg.Loc = time.UTC
	return cfg.FormatDSN()
}
