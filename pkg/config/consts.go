package config

// EnvPrefix is the envconfig prefix shared by every setting.
const EnvPrefix = "KONVEKSI"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Environment variable names referenced outside struct tags.
const (
	EnvAppEnv = "KONVEKSI_APP_ENV"
	EnvPort   = "KONVEKSI_APP_PORT"

	EnvDBDSN  = "KONVEKSI_DB_DSN"
	EnvDBHost = "KONVEKSI_DB_HOST"
	EnvDBUser = "KONVEKSI_DB_USER"
	EnvDBName = "KONVEKSI_DB_NAME"

	EnvRedisURL               = "KONVEKSI_REDIS_URL"
	EnvJWTSecret              = "KONVEKSI_JWT_SECRET"
	EnvJWTIssuer              = "KONVEKSI_JWT_ISSUER"
	EnvJWTExpMins             = "KONVEKSI_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "KONVEKSI_REFRESH_TOKEN_TTL_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
