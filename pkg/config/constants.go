package config

// EnvPrefix is the envconfig prefix shared by every entrypoint.
const EnvPrefix = "ecoswap"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	EnvAppEnv     = "ECOSWAP_APP_ENV"
	EnvPort       = "ECOSWAP_APP_PORT"
	EnvDBDSN      = "ECOSWAP_DB_DSN"
	EnvDBHost     = "ECOSWAP_DB_HOST"
	EnvDBUser     = "ECOSWAP_DB_USER"
	EnvDBName     = "ECOSWAP_DB_NAME"
	EnvRedisURL   = "ECOSWAP_REDIS_URL"
	EnvJWTSecret  = "ECOSWAP_JWT_SECRET"
	EnvJWTIssuer  = "ECOSWAP_JWT_ISSUER"
	EnvJWTExpMins = "ECOSWAP_JWT_EXPIRATION_MINUTES"
	EnvGCSBucket  = "ECOSWAP_GCS_BUCKET_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
