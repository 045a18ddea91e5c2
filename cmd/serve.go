package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"aquashop/assets"
	"aquashop/cart"
	_ "aquashop/docs"
	"aquashop/handlers"
	"aquashop/repository"
	"aquashop/services"
	"aquashop/tracing"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing, log)
	if err != nil {
		return err
	}

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.close()

	admins, err := repository.NewAdminRepository(cfg.Admin.Username, cfg.Admin.PasswordHash)
	if err != nil {
		return err
	}
	manager, err := cart.NewManager(st.carts, log.Named("cart"), cfg.CartCacheSize)
	if err != nil {
		return err
	}

	fs := services.NewFishService(st.fishes, assets.NewResolver("", nil))
	cs := services.NewCartService(&fs, manager)
	ors := services.NewOrderService(&fs, &cs, st.orders, cfg.Delivery)
	as := services.NewAdminService(admins, st.sessions)
	h := handlers.NewHandler(handlers.HandlerParams{
		FishService:  &fs,
		CartService:  &cs,
		OrdService:   &ors,
		AdminService: &as,
		Logger:       log.Named("http"),
		CartTTL:      cfg.CartTTL,
		AdminTTL:     cfg.Admin.SessionTTL,
		SecureCookie: cfg.Env.IsProduction(),
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           h.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting server", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := srv.Shutdown(sctx)
		// pending cart writes go out after the last request finished
		if cerr := manager.Close(); cerr != nil {
			log.Warn("cart manager close", zap.Error(cerr))
		}
		if terr := shutdownTracing(sctx); terr != nil {
			log.Warn("tracing shutdown", zap.Error(terr))
		}
		return err
	})
	return g.Wait()
}
