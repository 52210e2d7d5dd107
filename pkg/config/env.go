package config

const (
	EnvPrefix = "SHOP"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv   = "SHOP_APP_ENV"
	EnvPort     = "SHOP_APP_PORT"
	EnvLogLevel = "SHOP_LOG_LEVEL"

	EnvDBDSN      = "SHOP_DB_DSN"
	EnvDBDriver   = "SHOP_DB_DRIVER"
	EnvDBHost     = "SHOP_DB_HOST"
	EnvDBUser     = "SHOP_DB_USER"
	EnvDBName     = "SHOP_DB_NAME"
	EnvSQLitePath = "SHOP_SQLITE_PATH"

	EnvRedisURL = "SHOP_REDIS_URL"

	EnvJWTSecret              = "SHOP_JWT_SECRET"
	EnvJWTIssuer              = "SHOP_JWT_ISSUER"
	EnvJWTExpMins             = "SHOP_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "SHOP_REFRESH_TOKEN_TTL_MINUTES"

	EnvStripeAPIKey = "SHOP_STRIPE_API_KEY"
	EnvStripeSecret = "SHOP_STRIPE_SECRET"
	EnvStripeEnv    = "SHOP_STRIPE_ENV"

	EnvCheckoutSuccessURL = "SHOP_CHECKOUT_SUCCESS_URL"
	EnvCheckoutCancelURL  = "SHOP_CHECKOUT_CANCEL_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
