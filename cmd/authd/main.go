package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhttp "github.com/kvolkov/session-gate/internal/auth/http"
	"github.com/kvolkov/session-gate/internal/auth/service"
	"github.com/kvolkov/session-gate/internal/common/clock"
	"github.com/kvolkov/session-gate/internal/common/config"
	"github.com/kvolkov/session-gate/internal/common/constants"
	commoncrypto "github.com/kvolkov/session-gate/internal/common/crypto"
	"github.com/kvolkov/session-gate/internal/common/db"
	commonhttp "github.com/kvolkov/session-gate/internal/common/http"
	"github.com/kvolkov/session-gate/internal/common/logger"
	srv "github.com/kvolkov/session-gate/internal/common/server"
	credrepo "github.com/kvolkov/session-gate/internal/credential/repository"
	profilerepo "github.com/kvolkov/session-gate/internal/profile/repository"
	userrepo "github.com/kvolkov/session-gate/internal/user/repository"
)

func main() {
	log, err := logger.New(os.Getenv("LOG_DIR"), "authd", os.Getenv("LOG_LEVEL"))
	if err != nil {
		os.Stderr.WriteString(fmt.Sprintf("failed to initialize logger: %v\n", err))
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	pool := db.NewPool(log, cfg.DatabaseURL)
	defer pool.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db.StartPoolMetrics(ctx, pool, constants.DBPoolMetricsInterval)

	userRepo := userrepo.NewPgRepository(pool)
	credentialRepo := credrepo.NewPgRepository(pool)
	profileRepo := profilerepo.NewPgRepository(pool)

	hasher := &commoncrypto.BcryptHasher{}
	idGenerator := commoncrypto.NewUUIDGenerator()
	clk := clock.NewRealClock()

	sessions := service.NewSessionStore(ctx, idGenerator, clk, cfg.SessionTTL, log)
	verifier := service.NewCredentialVerifier(userRepo, credentialRepo, hasher, log)
	authService := service.NewAuthService(verifier, profileRepo, sessions, log)
	signupService := service.NewSignupService(userRepo, credentialRepo, profileRepo, hasher, idGenerator, clk, log)

	handler := authhttp.NewHandler(authService, signupService, cfg.JWTSecret, cfg.RequestTimeout, log)

	mux := http.NewServeMux()
	mux.Handle("/", handler)
	mux.Handle("/metrics", promhttp.Handler())

	rateLimiter := commonhttp.NewStrictRateLimiter()
	baseHandler := commonhttp.BuildBaseHandler(log, mux)

	rateLimitMiddleware := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			if path == "/health" || path == "/metrics" {
				next.ServeHTTP(w, r)
				return
			}
			rateLimiter.MiddlewareForPath(path)(next).ServeHTTP(w, r)
		})
	}

	finalHandler := rateLimitMiddleware(baseHandler)

	serverConfig := srv.DefaultServerConfig(cfg.HTTPPort)
	server := srv.NewServer(serverConfig, finalHandler)

	shutdownHooks := []srv.ShutdownHook{
		func(ctx context.Context) error {
			log.Infof("authd service: stopping session store")
			sessions.Close()
			cancel()
			return nil
		},
	}

	srv.StartWithGracefulShutdown(server, log, "authd", shutdownHooks)
}
