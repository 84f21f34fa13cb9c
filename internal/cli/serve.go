package cli

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/habitcheck/internal/config"
	"github.com/JonMunkholm/habitcheck/internal/core"
	"github.com/JonMunkholm/habitcheck/internal/web"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	Host string
	Port int
}

// NewServeCommand creates the serve command, which runs the upload UI
// and validation API until interrupted. A non-nil cfgErr makes it fail
// before binding.
func NewServeCommand(cfg *config.Config, cfgErr error) *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the upload form and validation API",
		Long: `Start an HTTP server for validating habit CSVs by upload.

Routes:
  GET  /              upload form
  POST /api/validate  multipart "file" -> JSON issue report
  POST /api/normalize multipart "file" -> normalized CSV
  GET  /healthz       liveness

Settings come from the environment (SERVER_*, UPLOAD_*, API_KEYS, ...);
--host and --port override SERVER_HOST and SERVER_PORT.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfgErr != nil {
				return WrapExitError(ExitCommandError, "invalid server configuration", cfgErr)
			}
			return runServe(cmd.Context(), cfg, opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Host, "host", "", "interface to bind (default from SERVER_HOST)")
	cmd.Flags().IntVar(&opts.Port, "port", 0, "port to listen on (default from SERVER_PORT)")

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config, opts *ServeOptions, cmd *cobra.Command) error {
	serverCfg := *cfg
	if cmd.Flags().Changed("host") {
		serverCfg.Server.Host = opts.Host
	}
	if cmd.Flags().Changed("port") {
		serverCfg.Server.Port = opts.Port
	}
	if err := serverCfg.Validate(); err != nil {
		return WrapExitError(ExitCommandError, "invalid server configuration", err)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("configuration loaded", "config", serverCfg.String())

	srv := web.NewServer(&serverCfg, core.NewValidator(nil))
	if err := srv.Run(ctx); err != nil {
		return WrapExitError(ExitCommandError, "server error", err)
	}
	slog.Info("server stopped")
	return nil
}
