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
	Cart          CartConfig
	Cron          CronConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if cfg.Cart.TTL <= 0 {
		return nil, fmt.Errorf("%s must be positive", EnvCartTTL)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env            string   `envconfig:"TIENDA_APP_ENV" required:"true"`
	Port           string   `envconfig:"TIENDA_APP_PORT" required:"true"`
	LogLevel       string   `envconfig:"TIENDA_LOG_LEVEL" default:"info"`
	LogWarnStack   bool     `envconfig:"TIENDA_LOG_WARN_STACK" default:"false"`
	AllowedOrigins []string `envconfig:"TIENDA_ALLOWED_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
	CookieName     string   `envconfig:"TIENDA_SESSION_COOKIE_NAME" default:"CookieToken"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"TIENDA_DB_DSN"`
	Driver string `envconfig:"TIENDA_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"TIENDA_DB_HOST"`
	Port     int    `envconfig:"TIENDA_DB_PORT" default:"5432"`
	User     string `envconfig:"TIENDA_DB_USER"`
	Password string `envconfig:"TIENDA_DB_PASSWORD"`
	Name     string `envconfig:"TIENDA_DB_NAME"`
	SSLMode  string `envconfig:"TIENDA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"TIENDA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TIENDA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TIENDA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TIENDA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the configured driver is the embedded SQLite one.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DBDriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"TIENDA_REDIS_URL" required:"true"`
	PoolSize     int           `envconfig:"TIENDA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TIENDA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TIENDA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TIENDA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TIENDA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"TIENDA_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"TIENDA_JWT_ISSUER" default:"tienda"`
	ExpirationMinutes int    `envconfig:"TIENDA_JWT_EXPIRATION_MINUTES" default:"1440"`
}

// TTL returns the lifetime of an access token.
func (j JWTConfig) TTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"TIENDA_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"TIENDA_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"TIENDA_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"TIENDA_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"TIENDA_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"TIENDA_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"TIENDA_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"TIENDA_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"TIENDA_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"TIENDA_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"TIENDA_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

// CartConfig controls cart lifetime. TTL is fixed at creation and never slides.
type CartConfig struct {
	TTL            time.Duration `envconfig:"TIENDA_CART_TTL" default:"72h"`
	SweepBatchSize int           `envconfig:"TIENDA_CART_SWEEP_BATCH_SIZE" default:"500"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"TIENDA_CRON_INTERVAL" default:"5m"`
	LockTTL  time.Duration `envconfig:"TIENDA_CRON_LOCK_TTL" default:"4m"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"TIENDA_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		return fmt.Errorf("%s is required for the sqlite driver", EnvDBDSN)
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range []string{EnvDBHost, EnvDBUser, EnvDBName} {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}
	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
