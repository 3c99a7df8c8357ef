package config

const (
	EnvPrefix = "RALLY"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv     = "RALLY_APP_ENV"
	EnvPort       = "RALLY_APP_PORT"
	EnvDBDSN      = "RALLY_DB_DSN"
	EnvDBHost     = "RALLY_DB_HOST"
	EnvDBUser     = "RALLY_DB_USER"
	EnvDBName     = "RALLY_DB_NAME"
	EnvRedisURL   = "RALLY_REDIS_URL"
	EnvJWTSecret  = "RALLY_JWT_SECRET"
	EnvJWTIssuer  = "RALLY_JWT_ISSUER"
	EnvJWTExpMins = "RALLY_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
