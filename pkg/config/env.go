package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvAdminPasswordHash = "ADMIN_PASSWORD_HASH"
	EnvJWTSecret         = "JWT_SECRET"
	EnvAdminTokenTTL     = "ADMIN_TOKEN_TTL"

	EnvRetentionDays = "RETENTION_DAYS"

	EnvStoreBaseURL        = "STORE_BASE_URL"
	EnvStoreMaxAttempts    = "STORE_MAX_ATTEMPTS"
	EnvStoreRetryBaseDelay = "STORE_RETRY_BASE_DELAY"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
)
