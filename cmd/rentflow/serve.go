package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Veraticus/rentflow/internal/config"
	"github.com/Veraticus/rentflow/internal/paystack"
	"github.com/Veraticus/rentflow/internal/server"
	"github.com/Veraticus/rentflow/internal/ussd"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the USSD callback endpoint",
		Long: `Start the HTTP server the carrier calls for every USSD request.

The server answers POST /ussd/callback and GET /healthz. Confirmed
payments are sent to Paystack as M-Pesa charges.`,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "listen address (default :8080)")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	serverCfg, err := config.LoadServerConfig()
	if err != nil {
		return err
	}
	gatewayCfg, err := config.LoadGatewayConfig()
	if err != nil {
		return err
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	gateway, err := paystack.NewClient(*gatewayCfg)
	if err != nil {
		return err
	}

	session, err := ussd.NewSession(ussd.Config{
		Directory:      store,
		Dispatcher:     gateway,
		Logger:         slog.Default(),
		ServiceName:    serverCfg.ServiceName,
		LookupTimeout:  serverCfg.LookupTimeout,
		RequestTimeout: serverCfg.RequestTimeout,
	})
	if err != nil {
		return err
	}

	if viper.GetString("logging.level") != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	handler := server.NewHandler(session, store.Ping, slog.Default())

	httpServer := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           server.NewRouter(handler),
		ReadTimeout:       serverCfg.ReadTimeout,
		ReadHeaderTimeout: serverCfg.ReadTimeout,
		WriteTimeout:      serverCfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Callback server listening",
			"addr", serverCfg.Addr,
			"database", store.Path(),
			"gateway", gatewayCfg.BaseURL)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	slog.Info("Shutting down callback server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
