package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/Alejano1/GestInvLab-proyecto/internal/core/config"
	"github.com/Alejano1/GestInvLab-proyecto/internal/core/container"
	"github.com/Alejano1/GestInvLab-proyecto/internal/core/logger"
	"github.com/Alejano1/GestInvLab-proyecto/internal/core/routes"
	"github.com/Alejano1/GestInvLab-proyecto/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var Version = "dev"

const shutdownTimeout = 10 * time.Second

var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the inventory console.",
	Long:  `Serves the console API and page, talking to the inventory API configured in API_URL.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if host, _ := cmd.Flags().GetString("host"); host != "" {
			cfg.AppHost = host
		}

		log := logger.NewLogger(cfg.LogLevel)
		defer log.Sync()

		return serve(cmd.Context(), cfg, log)
	},
}

var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the console version.",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), Version)
	},
}

func serve(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	gin.SetMode(cfg.GinMode)

	appContainer := container.NewAppContainer(cfg, log, Version)
	defer appContainer.RateLimiter.Stop()
	defer appContainer.Store.Stop()

	router := gin.New()
	// nil trusts no proxy: the client address is the socket peer
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return fmt.Errorf("set trusted proxies: %w", err)
	}
	router.Use(middleware.RecoveryMiddleware(log), middleware.Logger(log))

	routes.RegisterPublicRoutes(router, appContainer)
	routes.RegisterProtectedRoutes(router, appContainer)
	routes.RegisterUtilityRoutes(router, appContainer)

	server := &http.Server{
		Addr:    cfg.AppHost,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Console listening", zap.String("addr", cfg.AppHost), zap.String("api_url", cfg.APIURL))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
		log.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}

func Execute(ctx context.Context) {
	rootCmd := &cobra.Command{
		Use:   "gestinv",
		Short: "GestInvLab inventory console",
	}
	ServeCmd.Flags().String("host", "", "Listen address, overrides APP_HOST")
	rootCmd.AddCommand(ServeCmd, VersionCmd)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
