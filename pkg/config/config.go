package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	OTP           OTPConfig
	SMTP          SMTPConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Stripe        StripeConfig
	Checkout      CheckoutConfig
	Cron          CronConfig
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
	Env          string   `envconfig:"SHOP_APP_ENV" required:"true"`
	Port         string   `envconfig:"SHOP_APP_PORT" required:"true"`
	LogLevel     string   `envconfig:"SHOP_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"SHOP_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"SHOP_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN        string `envconfig:"SHOP_DB_DSN"`
	Driver     string `envconfig:"SHOP_DB_DRIVER" default:"postgres"`
	SQLitePath string `envconfig:"SHOP_SQLITE_PATH" default:"followers-shop.db"`

	LegacyHost     string `envconfig:"SHOP_DB_HOST"`
	LegacyPort     int    `envconfig:"SHOP_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SHOP_DB_USER"`
	LegacyPassword string `envconfig:"SHOP_DB_PASSWORD"`
	LegacyName     string `envconfig:"SHOP_DB_NAME"`
	LegacySSLMode  string `envconfig:"SHOP_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SHOP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SHOP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SHOP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SHOP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
	SlowQuery       time.Duration `envconfig:"SHOP_DB_SLOW_QUERY" default:"500ms"`
}

// IsSQLite reports whether the local sqlite driver is selected.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), "sqlite")
}

type RedisConfig struct {
	URL          string        `envconfig:"SHOP_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SHOP_REDIS_ADDR"`
	Password     string        `envconfig:"SHOP_REDIS_PASSWORD"`
	DB           int           `envconfig:"SHOP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SHOP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SHOP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SHOP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SHOP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SHOP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"SHOP_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"SHOP_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"SHOP_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"SHOP_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SHOP_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SHOP_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SHOP_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SHOP_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SHOP_ARGON_KEY_LEN" default:"32"`
}

// OTPConfig controls signup verification codes.
type OTPConfig struct {
	TTL         time.Duration `envconfig:"SHOP_OTP_TTL" default:"10m"`
	Length      int           `envconfig:"SHOP_OTP_LENGTH" default:"6"`
	MaxAttempts int           `envconfig:"SHOP_OTP_MAX_ATTEMPTS" default:"5"`
}

// SMTPConfig is the mail relay used to deliver signup codes. An empty Host
// leaves delivery unconfigured.
type SMTPConfig struct {
	Host     string `envconfig:"SHOP_SMTP_HOST"`
	Port     int    `envconfig:"SHOP_SMTP_PORT" default:"587"`
	Username string `envconfig:"SHOP_SMTP_USERNAME"`
	Password string `envconfig:"SHOP_SMTP_PASSWORD"`
	From     string `envconfig:"SHOP_SMTP_FROM" default:"no-reply@followers.shop"`
}

func (s SMTPConfig) Configured() bool {
	return strings.TrimSpace(s.Host) != ""
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"SHOP_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"SHOP_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"SHOP_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"SHOP_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"SHOP_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"SHOP_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SHOP_AUTO_MIGRATE" default:"false"`
	SeedCatalog bool `envconfig:"SHOP_SEED_CATALOG" default:"false"`
}

type StripeConfig struct {
	APIKey   string `envconfig:"SHOP_STRIPE_API_KEY"`
	Secret   string `envconfig:"SHOP_STRIPE_SECRET"`
	Env      string `envconfig:"SHOP_STRIPE_ENV" default:"test"`
	Currency string `envconfig:"SHOP_STRIPE_CURRENCY" default:"usd"`
}

// Environment returns the normalized Stripe environment (test/live).
func (s StripeConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "test"
	}
	return env
}

// CheckoutConfig holds the pricing rules shared by the API and the storefront client.
type CheckoutConfig struct {
	FreeShippingThreshold string `envconfig:"SHOP_CHECKOUT_FREE_SHIPPING_THRESHOLD" default:"100"`
	FlatShippingFee       string `envconfig:"SHOP_CHECKOUT_FLAT_SHIPPING_FEE" default:"20"`
	TaxRate               string `envconfig:"SHOP_CHECKOUT_TAX_RATE" default:"0.05"`
	SuccessURL            string `envconfig:"SHOP_CHECKOUT_SUCCESS_URL" default:"http://localhost:3000/checkout/success?session_id={CHECKOUT_SESSION_ID}"`
	CancelURL             string `envconfig:"SHOP_CHECKOUT_CANCEL_URL" default:"http://localhost:3000/checkout/cancel"`
}

// Rates parses the decimal pricing values.
func (c CheckoutConfig) Rates() (threshold, flatFee, taxRate decimal.Decimal, err error) {
	if threshold, err = decimal.NewFromString(c.FreeShippingThreshold); err != nil {
		return threshold, flatFee, taxRate, fmt.Errorf("free shipping threshold: %w", err)
	}
	if flatFee, err = decimal.NewFromString(c.FlatShippingFee); err != nil {
		return threshold, flatFee, taxRate, fmt.Errorf("flat shipping fee: %w", err)
	}
	if taxRate, err = decimal.NewFromString(c.TaxRate); err != nil {
		return threshold, flatFee, taxRate, fmt.Errorf("tax rate: %w", err)
	}
	return threshold, flatFee, taxRate, nil
}

type CronConfig struct {
	Interval          time.Duration `envconfig:"SHOP_CRON_INTERVAL" default:"1h"`
	PendingOrderTTL   time.Duration `envconfig:"SHOP_CRON_PENDING_ORDER_TTL" default:"24h"`
	UnverifiedUserTTL time.Duration `envconfig:"SHOP_CRON_UNVERIFIED_USER_TTL" default:"168h"`
	LockTTL           time.Duration `envconfig:"SHOP_CRON_LOCK_TTL" default:"5m"`
	// MetricsAddr serves /metrics from the worker when set, e.g. ":9102".
	MetricsAddr string `envconfig:"SHOP_CRON_METRICS_ADDR"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" || db.IsSQLite() {
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
