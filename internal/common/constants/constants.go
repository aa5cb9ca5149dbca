package constants

import "time"

const (
	UsernameMinLength  = 3
	UsernameMaxLength  = 32
	PasswordMinLength  = 8
	PasswordMaxLength  = 72
	JWTSecretMinLength = 32

	DefaultMaxRequestSize = 1 << 20

	SessionSweepInterval = 1 * time.Minute

	DBPoolMaxConns        = 25
	DBPoolMinConns        = 5
	DBPoolConnMaxLifetime = time.Hour
	DBPoolConnMaxIdleTime = 30 * time.Minute
	DBPoolHealthCheck     = 1 * time.Minute
	DBPoolConnectTimeout  = 5 * time.Second
	DBPoolMaxAttempts     = 10
	DBPoolRetryDelay      = 1 * time.Second
	DBPoolMetricsInterval = 30 * time.Second

	ServerReadHeaderTimeout = 10 * time.Second
	ServerReadTimeout       = 30 * time.Second
	ServerWriteTimeout      = 30 * time.Second
	ServerIdleTimeout       = 120 * time.Second

	ShutdownTimeout = 30 * time.Second
	DrainTimeout    = 10 * time.Second

	DefaultHTTPPort       = "8081"
	DefaultRequestTimeout = 5 * time.Second

	RateLimitCleanupInterval = 10 * time.Minute

	RateLimitLoginRequestsPerSecond   = 1
	RateLimitLoginBurst               = 5
	RateLimitSignupRequestsPerSecond  = 0.5
	RateLimitSignupBurst              = 3
	RateLimitAuthRequestsPerSecond    = 10
	RateLimitAuthBurst                = 20
	RateLimitGeneralRequestsPerSecond = 20
	RateLimitGeneralBurst             = 40

	LoggerMaxSize    = 100
	LoggerMaxBackups = 3
	LoggerMaxAge     = 28
)

type TraceIDKeyType string

const TraceIDKey TraceIDKeyType = "trace_id"
