package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	instsrcapp "github.com/stacklok/instsrc/internal/app"
)

const (
	defaultGracefulTimeout = 30 * time.Second
)

func newServeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the source manager API server",
		Long: `Start the source manager API server.

On startup the persisted sources of the target root are restored and, unless
media.autoEnable is false, the enabled ones are opened. On shutdown the
current source set is written back below the target root.

See examples/ directory for sample configurations.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), v)
		},
	}

	cmd.Flags().String("address", ":8080", "Address to listen on")
	if err := v.BindPFlag("address", cmd.Flags().Lookup("address")); err != nil {
		slog.Error("Error binding address flag", "error", err)
	}
	return cmd
}

func runServe(ctx context.Context, v *viper.Viper) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(v)
	if err != nil {
		return err
	}
	slog.Info("Loaded configuration",
		"config", v.GetString("config"),
		"target_root", cfg.GetTargetRoot(),
		"storage", cfg.GetStorageType(),
	)

	app, err := instsrcapp.NewSourceApp(ctx,
		instsrcapp.WithConfig(cfg),
		instsrcapp.WithAddress(v.GetString("address")),
	)
	if err != nil {
		return fmt.Errorf("failed to build application: %w", err)
	}

	startErr := make(chan error, 1)
	go func() {
		startErr <- app.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-startErr:
		if stopErr := app.Stop(defaultGracefulTimeout); stopErr != nil {
			slog.Error("Failed to stop application", "error", stopErr)
		}
		return err
	case sig := <-quit:
		slog.Info("Received signal", "signal", sig.String())
	}

	return app.Stop(defaultGracefulTimeout)
}
