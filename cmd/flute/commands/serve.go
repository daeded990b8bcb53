package commands

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vitalvas/flute/muxhandlers"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve playground executes echoing their converted arguments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(cmd.ErrOrStderr(), v.GetString("log-level"))
			if err != nil {
				return err
			}

			r, err := buildRouter(v, logger,
				muxhandlers.RecoveryMiddleware(muxhandlers.RecoveryConfig{Logger: logger}),
				muxhandlers.RequestIDMiddleware(muxhandlers.RequestIDConfig{TrustIncoming: true, RequireUUID: true}),
				muxhandlers.AccessLogMiddleware(muxhandlers.AccessLogConfig{Logger: logger}),
			)
			if err != nil {
				return err
			}

			override, err := muxhandlers.MethodOverrideMiddleware(muxhandlers.MethodOverrideConfig{})
			if err != nil {
				return err
			}

			handler := override.Middleware(r)
			if v.GetBool("h2c") {
				handler = h2c.NewHandler(handler, &http2.Server{})
			}

			srv := &http.Server{
				Addr:              v.GetString("addr"),
				Handler:           handler,
				ReadHeaderTimeout: 5 * time.Second,
				ReadTimeout:       30 * time.Second,
				WriteTimeout:      30 * time.Second,
				IdleTimeout:       2 * time.Minute,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				logger.Info("serving", "addr", srv.Addr, "h2c", v.GetBool("h2c"), "executes", len(r.Routes()))
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				return err
			}
			if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().String("addr", ":8080", "listen address")
	cmd.Flags().Bool("h2c", false, "accept HTTP/2 without TLS")
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		panic(err)
	}
	return cmd
}
