package runtime

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	app "github.com/strideshop/storefront/internal/app"
	"github.com/strideshop/storefront/internal/app/httpapi"
	"github.com/strideshop/storefront/internal/app/metrics"
	"github.com/strideshop/storefront/internal/app/storage/memory"
	"github.com/strideshop/storefront/internal/app/storage/postgres"
	"github.com/strideshop/storefront/internal/middleware"
	"github.com/strideshop/storefront/internal/platform/database"
	"github.com/strideshop/storefront/internal/platform/migrations"
	"github.com/strideshop/storefront/pkg/logger"
)

// Server owns the HTTP listener and its backing resources.
type Server struct {
	cfg    Config
	log    *logger.Logger
	db     *sql.DB
	audit  *httpapi.AuditLog
	server *http.Server
}

// NewServer wires stores, services, and middleware according to cfg. With the
// postgres backend an unreachable database is a construction error; the
// process must not serve requests without its store.
func NewServer(ctx context.Context, cfg Config, log *logger.Logger) (*Server, error) {
	if log == nil {
		log = logger.New(cfg.Logging)
	}

	var (
		stores app.Stores
		db     *sql.DB
	)
	switch cfg.Store {
	case StoreMemory:
		mem := memory.New()
		stores = app.Stores{Users: mem, Orders: mem}
		log.Warn("using in-memory store; data will not survive restarts")
	case StorePostgres:
		var err error
		db, err = database.Open(ctx, database.Config{DSN: cfg.DatabaseURL})
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		if err := migrations.Apply(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply migrations: %w", err)
		}
		pg := postgres.New(db)
		stores = app.Stores{Users: pg, Orders: pg}
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store)
	}

	application, err := app.New(stores, log)
	if err != nil {
		if db != nil {
			db.Close()
		}
		return nil, fmt.Errorf("build application: %w", err)
	}

	sink, err := httpapi.NewFileAuditSink(cfg.AuditLogPath)
	if err != nil {
		if db != nil {
			db.Close()
		}
		return nil, fmt.Errorf("open audit log: %w", err)
	}
	var auditSink httpapi.AuditSink
	if sink != nil {
		auditSink = sink
	}
	audit := httpapi.NewAuditLog(500, auditSink)

	handler := httpapi.NewHandler(application, httpapi.Config{StaticDir: cfg.StaticDir}, log)
	chain := metrics.InstrumentHandler(handler)
	chain = httpapi.WrapWithAudit(chain, audit)
	chain = middleware.NewCORSMiddleware(cfg.AllowedOrigins).Handler(chain)

	return &Server{
		cfg:   cfg,
		log:   log,
		db:    db,
		audit: audit,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           chain,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
	}, nil
}

// Run serves HTTP until Shutdown is called or the listener fails.
func (s *Server) Run() error {
	s.log.WithField("addr", s.server.Addr).Info("http server listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and releases the database pool.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.server.Shutdown(ctx)
	if s.db != nil {
		if cerr := s.db.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// Audit exposes the request audit trail.
func (s *Server) Audit() *httpapi.AuditLog { return s.audit }

// Addr returns the configured listen address.
func (s *Server) Addr() string { return s.server.Addr }
