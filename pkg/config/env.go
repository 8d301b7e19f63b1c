package config

const EnvPrefix = "DISCSWAP"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"

	defaultPostgresPort = 5432
	defaultMySQLPort    = 3306
)

const (
	EnvAppEnv   = "DISCSWAP_APP_ENV"
	EnvPort     = "DISCSWAP_APP_PORT"
	EnvLogLevel = "DISCSWAP_LOG_LEVEL"

	EnvDBDSN      = "DISCSWAP_DB_DSN"
	EnvDBDriver   = "DISCSWAP_DB_DRIVER"
	EnvDBHost     = "DISCSWAP_DB_HOST"
	EnvDBPort     = "DISCSWAP_DB_PORT"
	EnvDBUser     = "DISCSWAP_DB_USER"
	EnvDBPassword = "DISCSWAP_DB_PASSWORD"
	EnvDBName     = "DISCSWAP_DB_NAME"

	EnvRedisURL = "DISCSWAP_REDIS_URL"

	EnvSearchThreshold = "DISCSWAP_SEARCH_DEFAULT_THRESHOLD"
	EnvSearchScorer    = "DISCSWAP_SEARCH_SCORER"

	EnvPermissiveStatus = "DISCSWAP_FEATURE_PERMISSIVE_STATUS"
	EnvCORSOrigins      = "DISCSWAP_CORS_ORIGINS"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
