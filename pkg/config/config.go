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
	GCP           GCPConfig
	GCS           GCSConfig
	Images        ImagesConfig
	Reconcile     ReconcileConfig
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
	Env          string `envconfig:"ECOSWAP_APP_ENV" required:"true"`
	Port         string `envconfig:"ECOSWAP_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"ECOSWAP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ECOSWAP_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"ECOSWAP_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"ECOSWAP_DB_DSN"`
	Driver string `envconfig:"ECOSWAP_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"ECOSWAP_DB_HOST"`
	LegacyPort     int    `envconfig:"ECOSWAP_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"ECOSWAP_DB_USER"`
	LegacyPassword string `envconfig:"ECOSWAP_DB_PASSWORD"`
	LegacyName     string `envconfig:"ECOSWAP_DB_NAME"`
	LegacySSLMode  string `envconfig:"ECOSWAP_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ECOSWAP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ECOSWAP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ECOSWAP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ECOSWAP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ECOSWAP_REDIS_URL" required:"true"`
	Address      string        `envconfig:"ECOSWAP_REDIS_ADDR"`
	Password     string        `envconfig:"ECOSWAP_REDIS_PASSWORD"`
	DB           int           `envconfig:"ECOSWAP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ECOSWAP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ECOSWAP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ECOSWAP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ECOSWAP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ECOSWAP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"ECOSWAP_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"ECOSWAP_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"ECOSWAP_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"ECOSWAP_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"ECOSWAP_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"ECOSWAP_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"ECOSWAP_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"ECOSWAP_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"ECOSWAP_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"ECOSWAP_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"ECOSWAP_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"ECOSWAP_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"ECOSWAP_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"ECOSWAP_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"ECOSWAP_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"ECOSWAP_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"ECOSWAP_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"ECOSWAP_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"ECOSWAP_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"ECOSWAP_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName string `envconfig:"ECOSWAP_GCS_BUCKET_NAME" required:"true"`
	PublicURL  string `envconfig:"ECOSWAP_GCS_PUBLIC_URL"`
}

type ImagesConfig struct {
	MaxUploadMB int `envconfig:"ECOSWAP_IMAGES_MAX_UPLOAD_MB" default:"10"`
}

// ReconcileConfig controls the background sweep cadence. The interval is kept
// short so product availability converges quickly after an exchange completes.
type ReconcileConfig struct {
	Interval time.Duration `envconfig:"ECOSWAP_RECONCILE_INTERVAL" default:"3s"`
	LockTTL  time.Duration `envconfig:"ECOSWAP_RECONCILE_LOCK_TTL" default:"30s"`
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
