// Package api implements app.Runner for the permit oracle process.
package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/chainsafe/mint-permit-oracle/internal/metrics"
	"github.com/chainsafe/mint-permit-oracle/pkg/admin"
	"github.com/chainsafe/mint-permit-oracle/pkg/allowlist"
	allowlistpg "github.com/chainsafe/mint-permit-oracle/pkg/allowlist/pg"
	apphttp "github.com/chainsafe/mint-permit-oracle/pkg/app/http"
	"github.com/chainsafe/mint-permit-oracle/pkg/auth"
	"github.com/chainsafe/mint-permit-oracle/pkg/config"
	"github.com/chainsafe/mint-permit-oracle/pkg/dedup"
	"github.com/chainsafe/mint-permit-oracle/pkg/keys"
	"github.com/chainsafe/mint-permit-oracle/pkg/nonce"
	"github.com/chainsafe/mint-permit-oracle/pkg/permit"
	"github.com/chainsafe/mint-permit-oracle/pkg/permit/service"
	"github.com/chainsafe/mint-permit-oracle/pkg/pgutil"
)

// Server holds cfg to init the permit oracle.
type Server struct {
	cfg *config.Config
}

// state is the process-scoped state shared by the validator and admin routes
type state struct {
	allowlist *allowlist.Store
	dedup     *dedup.Store
	nonces    *nonce.Registry
	signer    *keys.Signer
}

// NewServer initializes a new permit oracle server.
func NewServer(cfg *config.Config) *Server {
	return &Server{cfg: cfg}
}

func (s *Server) Run() error {
	if s.cfg == nil {
		return fmt.Errorf("permit oracle config is nil")
	}
	cfg := s.cfg

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("setup logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting permit oracle",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
		zap.String("domain", cfg.Domain.Name),
		zap.Uint64("chain_id", cfg.Domain.ChainID),
		zap.String("verifying_contract", cfg.Domain.VerifyingContractAddress().Hex()),
	)

	st, err := s.buildState(ctx, logger)
	if err != nil {
		return err
	}

	router, err := s.setupRouter(st, logger)
	if err != nil {
		return err
	}

	return apphttp.ServeAndWait(ctx, router, logger, &cfg.Server)
}

func (s *Server) buildState(ctx context.Context, logger *zap.Logger) (*state, error) {
	src, closeSrc, err := s.allowlistSource(ctx, logger)
	if err != nil {
		return nil, err
	}
	defer closeSrc()

	list, err := allowlist.Load(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("load allowlist: %w", err)
	}
	metrics.AllowlistSize.Set(float64(list.Len()))
	logger.Info("Allowlist loaded",
		zap.String("source", s.cfg.Allowlist.Source),
		zap.Int("creators", list.Len()),
	)
	if list.Len() == 0 {
		logger.Warn("Allowlist is empty; every request will be rejected until creators are added")
	}

	keySrc, err := keys.NewSource(ctx, &s.cfg.Signer)
	if err != nil {
		return nil, fmt.Errorf("signer key source: %w", err)
	}
	// the key is read once; remote clients are not needed afterwards
	if c, ok := keySrc.(io.Closer); ok {
		defer func() { _ = c.Close() }()
	}

	signer, err := keys.LoadSigner(ctx, keySrc)
	if err != nil {
		return nil, fmt.Errorf("load signer: %w", err)
	}
	logger.Info("Validator key loaded",
		zap.String("source", s.cfg.Signer.Source),
		zap.String("validator", signer.Address().Hex()),
	)

	return &state{
		allowlist: list,
		dedup:     dedup.New(),
		nonces:    nonce.NewRegistry(),
		signer:    signer,
	}, nil
}

// allowlistSource returns the configured seed source and a closer for any
// connection it holds. The database is only needed during startup.
func (s *Server) allowlistSource(ctx context.Context, logger *zap.Logger) (allowlist.Source, func(), error) {
	if s.cfg.Allowlist.Source != config.AllowlistSourcePostgres {
		return allowlist.NewStaticSource(s.cfg.Allowlist.Creators, s.cfg.Allowlist.CreatorsEnv), func() {}, nil
	}

	db, err := pgutil.ConnectDB(ctx, &s.cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Connected to database",
		zap.String("host", s.cfg.Database.Host),
		zap.String("database", s.cfg.Database.Database),
	)
	return allowlistpg.NewSource(db), func() { _ = db.Close() }, nil
}

func (s *Server) setupRouter(st *state, logger *zap.Logger) (chi.Router, error) {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	if s.cfg.Monitoring.Enabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	domain := permit.Domain{
		Name:              s.cfg.Domain.Name,
		Version:           s.cfg.Domain.Version,
		ChainID:           s.cfg.Domain.ChainID,
		VerifyingContract: s.cfg.Domain.VerifyingContractAddress(),
	}
	svc := service.NewService(st.allowlist, st.dedup, st.nonces, st.signer, domain, logger)
	service.RegisterRoutes(r, service.NewLog(svc, logger), logger)

	if s.cfg.Admin.Enabled {
		if err := s.registerAdmin(r, st, logger); err != nil {
			return nil, err
		}
	}

	return r, nil
}

func (s *Server) registerAdmin(r chi.Router, st *state, logger *zap.Logger) error {
	secret := os.Getenv(s.cfg.Admin.JWTSecretEnv)
	if secret == "" {
		return fmt.Errorf("admin enabled but %s is not set", s.cfg.Admin.JWTSecretEnv)
	}
	validator, err := auth.NewJWTValidator([]byte(secret), s.cfg.Admin.Issuer)
	if err != nil {
		return fmt.Errorf("admin auth: %w", err)
	}

	admin.RegisterRoutes(r, validator, st.allowlist, st.nonces, st.dedup, logger)
	logger.Info("Admin endpoints enabled", zap.String("path", "/admin"))
	return nil
}
