package cmd

import (
	"context"
	"net"
	"net/http"

	"github.com/isometry/slack-dispatch-bridge/internal/config"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func cmdService() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "service",
		Short:   "Run as a standalone HTTP server",
		Aliases: []string{"s", "serve", "standalone", "server"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger = logger.With("mode", config.ModeService)
			logger.Info("spawning...")

			rtm, err := setup(cmd.Context())
			if err != nil {
				return errors.Wrap(err, "failed to setup service")
			}

			logger.Debug("creating HTTP server...")
			h := http.NewServeMux()
			h.Handle(config.Service.Path, otelhttp.NewHandler(rtm, "slash-command"))

			s := &http.Server{
				Handler:      h,
				Addr:         net.JoinHostPort(config.Service.Addr, config.Service.Port),
				WriteTimeout: config.Service.Timeout,
				ReadTimeout:  config.Service.Timeout,
				IdleTimeout:  config.Service.Timeout,
			}

			ctx := cmd.Context()
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), config.Service.Timeout)
				defer cancel()
				_ = s.Shutdown(shutdownCtx)
			}()

			logger.Info("serving...", "address", s.Addr, "path", config.Service.Path, "timeout", config.Service.Timeout.String())
			if err = s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	return cmd
}
