package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nightcity/internal/cache"
	intconfig "nightcity/internal/config"
	router "nightcity/internal/http"
	"nightcity/internal/http/handlers"
	"nightcity/internal/repositories"
	"nightcity/internal/schema"
	"nightcity/internal/services"
	"nightcity/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "nightcity",
		Short:        "Night City tourism booking backend",
		SilenceUsage: true,
		RunE:         runServe,
	}
	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the HTTP API",
			RunE:  runServe,
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create or update the database schema",
			RunE:  runMigrate,
		},
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setup() (intconfig.Env, *zap.Logger, error) {
	env, err := intconfig.LoadEnv()
	if err != nil {
		return intconfig.Env{}, nil, err
	}
	log, err := utils.InitLogger(env.LogLevel)
	if err != nil {
		return intconfig.Env{}, nil, fmt.Errorf("init logger: %w", err)
	}
	return env, log, nil
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	env, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	db, err := intconfig.ConnectDB(cmd.Context(), env.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	gdb, err := schema.OpenMySQL(db)
	if err != nil {
		return err
	}
	if err := schema.Migrate(gdb); err != nil {
		return err
	}
	log.Info("schema migrated", zap.String("database", env.DB.Name))
	return nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	env, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	db, err := intconfig.ConnectDB(cmd.Context(), env.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	hd := handlers.Handler{
		DB:           db,
		Tokens:       services.TokenService{Secret: []byte(env.JWT.Secret), TTL: env.JWT.TTL},
		Users:        repositories.UserRepository{DB: db},
		Bookings:     repositories.BookingRepository{DB: db},
		Pricing:      repositories.PricingRepository{DB: db},
		Districts:    repositories.DistrictRepository{DB: db},
		StaticRoot:   env.StaticRoot,
		CookieSecure: env.CookieSecure,
		Now:          utils.NowUTC,
	}
	if rdb := cache.NewRedisClient(env.Redis); rdb != nil {
		defer rdb.Close()
		hd.DistrictCache = cache.DistrictCache{Client: rdb, TTL: env.DistrictCacheTTL}
		log.Info("district cache enabled", zap.String("redis", env.Redis.Addr))
	}

	r := router.NewRouter(env, hd)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", env.AppAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-quit:
	}

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Info("server stopped")
	return nil
}
