package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	v1 "gift_catalog/api/v1"
	"gift_catalog/api/v1/middleware"
	"gift_catalog/internal/auth"
	"gift_catalog/internal/cache"
	"gift_catalog/internal/catalog"
	"gift_catalog/internal/db"
	"gift_catalog/internal/idempotency"
	"gift_catalog/internal/orders"
	"gift_catalog/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, rootOpts)
		},
	}
}

func runServe(ctx context.Context, opts *RootOptions) error {
	cfg, log, gdb, err := bootstrap(opts)
	if err != nil {
		return err
	}
	defer db.Close(gdb)

	if cfg.Migrate {
		if err := db.Migrate(gdb, log); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	var idem orders.Idempotency
	if cfg.Redis.Enabled {
		rdb, err := cache.OpenRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return fmt.Errorf("open redis: %w", err)
		}
		defer rdb.Close()
		idem = idempotency.NewStore(rdb, time.Duration(cfg.Idempotency.TTLSec)*time.Second)
		log.WithField("addr", cfg.Redis.Addr).Info("Redis connected, order request keys enabled")
	} else {
		log.Warn("Redis disabled, Idempotency-Key header is ignored")
	}

	issuer, err := auth.NewIssuer(cfg.JWT.Secret, cfg.JWT.Issuer, time.Duration(cfg.JWT.ExpireMinutes)*time.Minute, nil)
	if err != nil {
		return err
	}

	st := store.New(gdb)
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.AccessLog(log.WithField("component", "http")))
	v1.SetupRouter(r, v1.Deps{
		Store:   st,
		Catalog: catalog.NewService(st, time.Now, log),
		Orders:  orders.NewService(st, idem, time.Now, log),
		Issuer:  issuer,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("Server starting")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
