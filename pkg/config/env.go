package config

const EnvPrefix = "TIENDA"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

const (
	EnvAppEnv      = "TIENDA_APP_ENV"
	EnvPort        = "TIENDA_APP_PORT"
	EnvLogLevel    = "TIENDA_LOG_LEVEL"
	EnvDBDSN       = "TIENDA_DB_DSN"
	EnvDBDriver    = "TIENDA_DB_DRIVER"
	EnvDBHost      = "TIENDA_DB_HOST"
	EnvDBUser      = "TIENDA_DB_USER"
	EnvDBPassword  = "TIENDA_DB_PASSWORD"
	EnvDBName      = "TIENDA_DB_NAME"
	EnvRedisURL    = "TIENDA_REDIS_URL"
	EnvJWTSecret   = "TIENDA_JWT_SECRET"
	EnvJWTIssuer   = "TIENDA_JWT_ISSUER"
	EnvJWTExpMins  = "TIENDA_JWT_EXPIRATION_MINUTES"
	EnvCartTTL     = "TIENDA_CART_TTL"
	EnvCronEvery   = "TIENDA_CRON_INTERVAL"
	EnvAutoMigrate = "TIENDA_AUTO_MIGRATE"
)
