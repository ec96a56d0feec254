package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nekruzvatanshoev/carprice/pkg/carprice/server"
)

var (
	ServeCmd = &cobra.Command{
		Use:   ServeCmdName,
		Short: ServeCmdShort,
		Long:  ServeCmdLong,
		RunE:  serveCmdFunc(),
	}
)

func init() {
	ServeCmd.Flags().String("addr", "", "listen address (default :8080)")
	v.BindPFlag("server.address", ServeCmd.Flags().Lookup("addr"))
}

func serveCmdFunc() func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, log, cycle, err := bootstrap()
		if err != nil {
			return err
		}
		defer log.Sync()

		serve := server.NewHTTPServer(cfg.Server, cycle, log)

		errCh := make(chan error, 1)
		go func() {
			log.Info("listening", zap.String("addr", serve.Addr))
			if err := serve.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		signalCh := make(chan os.Signal, 1)
		signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(signalCh)

		select {
		case err := <-errCh:
			log.Error("server stopped", zap.Error(err))
			return err
		case sig := <-signalCh:
			log.Info("shutting down the server", zap.String("signal", sig.String()))
		}

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return serve.Shutdown(ctx)
	}
}
