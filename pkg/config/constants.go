package config

// EnvPrefix is handed to envconfig; every field carries its full variable name.
const EnvPrefix = "COMICSTORE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"

	defaultSQLiteDSN = "file:comicstore.db?_foreign_keys=on"
)

const (
	EnvAppEnv                 = "COMICSTORE_APP_ENV"
	EnvPort                   = "COMICSTORE_APP_PORT"
	EnvDBDSN                  = "COMICSTORE_DB_DSN"
	EnvDBDriver               = "COMICSTORE_DB_DRIVER"
	EnvDBHost                 = "COMICSTORE_DB_HOST"
	EnvDBUser                 = "COMICSTORE_DB_USER"
	EnvDBName                 = "COMICSTORE_DB_NAME"
	EnvRedisURL               = "COMICSTORE_REDIS_URL"
	EnvJWTSecret              = "COMICSTORE_JWT_SECRET"
	EnvJWTIssuer              = "COMICSTORE_JWT_ISSUER"
	EnvJWTExpMins             = "COMICSTORE_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "COMICSTORE_REFRESH_TOKEN_TTL_MINUTES"
	EnvUseSQLite              = "COMICSTORE_USE_SQLITE"
	EnvPageSize               = "COMICSTORE_PAGE_SIZE"
	EnvMarvelPublicKey        = "COMICSTORE_MARVEL_PUBLIC_KEY"
	EnvMarvelPrivateKey       = "COMICSTORE_MARVEL_PRIVATE_KEY"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
