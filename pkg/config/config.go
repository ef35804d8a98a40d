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
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Storefront    StorefrontConfig
	Marvel        MarvelConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = DBDriverSQLite
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"COMICSTORE_APP_ENV" required:"true"`
	Port         string `envconfig:"COMICSTORE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"COMICSTORE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"COMICSTORE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"COMICSTORE_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"COMICSTORE_DB_DSN"`
	Driver string `envconfig:"COMICSTORE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"COMICSTORE_DB_HOST"`
	LegacyPort     int    `envconfig:"COMICSTORE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"COMICSTORE_DB_USER"`
	LegacyPassword string `envconfig:"COMICSTORE_DB_PASSWORD"`
	LegacyName     string `envconfig:"COMICSTORE_DB_NAME"`
	LegacySSLMode  string `envconfig:"COMICSTORE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"COMICSTORE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"COMICSTORE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"COMICSTORE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"COMICSTORE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the configured driver is SQLite.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DBDriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"COMICSTORE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"COMICSTORE_REDIS_ADDR"`
	Password     string        `envconfig:"COMICSTORE_REDIS_PASSWORD"`
	DB           int           `envconfig:"COMICSTORE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"COMICSTORE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"COMICSTORE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"COMICSTORE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"COMICSTORE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"COMICSTORE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"COMICSTORE_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"COMICSTORE_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"COMICSTORE_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"COMICSTORE_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// AccessTokenTTL returns the access token lifetime.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"COMICSTORE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"COMICSTORE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"COMICSTORE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"COMICSTORE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"COMICSTORE_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow           time.Duration `envconfig:"COMICSTORE_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginUsernameLimit    int           `envconfig:"COMICSTORE_AUTH_RATE_LIMIT_LOGIN_USERNAME_LIMIT" default:"5"`
	LoginIPLimit          int           `envconfig:"COMICSTORE_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow        time.Duration `envconfig:"COMICSTORE_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterUsernameLimit int           `envconfig:"COMICSTORE_AUTH_RATE_LIMIT_REGISTER_USERNAME_LIMIT" default:"3"`
	RegisterIPLimit       int           `envconfig:"COMICSTORE_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"COMICSTORE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"COMICSTORE_AUTO_MIGRATE" default:"false"`
}

type StorefrontConfig struct {
	PageSize     int      `envconfig:"COMICSTORE_PAGE_SIZE" default:"10"`
	LoginPath    string   `envconfig:"COMICSTORE_LOGIN_PATH" default:"/login"`
	CookieName   string   `envconfig:"COMICSTORE_COOKIE_NAME" default:"access_token"`
	CookieSecure bool     `envconfig:"COMICSTORE_COOKIE_SECURE" default:"false"`
	CORSOrigins  []string `envconfig:"COMICSTORE_CORS_ORIGINS" default:"http://localhost:3000"`
}

type MarvelConfig struct {
	PublicKey         string        `envconfig:"COMICSTORE_MARVEL_PUBLIC_KEY"`
	PrivateKey        string        `envconfig:"COMICSTORE_MARVEL_PRIVATE_KEY"`
	BaseURL           string        `envconfig:"COMICSTORE_MARVEL_BASE_URL" default:"https://gateway.marvel.com/v1/public"`
	PageSize          int           `envconfig:"COMICSTORE_MARVEL_PAGE_SIZE" default:"100"`
	MaxComics         int           `envconfig:"COMICSTORE_MARVEL_MAX_COMICS" default:"500"`
	Concurrency       int           `envconfig:"COMICSTORE_MARVEL_CONCURRENCY" default:"4"`
	RequestsPerSecond float64       `envconfig:"COMICSTORE_MARVEL_RPS" default:"5"`
	DefaultStock      int           `envconfig:"COMICSTORE_MARVEL_DEFAULT_STOCK" default:"10"`
	Timeout           time.Duration `envconfig:"COMICSTORE_MARVEL_TIMEOUT" default:"15s"`
	Schedule          string        `envconfig:"COMICSTORE_CATALOG_SYNC_SCHEDULE" default:"0 3 * * *"`
}

// Enabled reports whether both Marvel API keys are configured.
func (m MarvelConfig) Enabled() bool {
	return strings.TrimSpace(m.PublicKey) != "" && strings.TrimSpace(m.PrivateKey) != ""
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		db.DSN = defaultSQLiteDSN
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
