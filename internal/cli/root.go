package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	port       string
	configPath string
)

// Execute runs the CLI until it finishes or the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	envPort := os.Getenv("PORT")
	envConfig := os.Getenv("CONFIG_PATH")
	if envConfig == "" {
		envConfig = "config/config.yaml"
	}

	play := NewPlayCmd(&configPath)
	cmd := &cobra.Command{
		Use:          "logicquest",
		Short:        "Drag-and-drop quiz game with practice, timed and instructor modes",
		SilenceUsage: true,
		// no subcommand starts the game
		RunE: play.RunE,
	}
	cmd.Flags().AddFlagSet(play.Flags())

	cmd.PersistentFlags().StringVar(&port, "port", envPort, "port to listen on (serve)")
	cmd.PersistentFlags().StringVar(&configPath, "config", envConfig, "path to YAML config")
	cmd.AddCommand(play)
	cmd.AddCommand(NewServeCmd(&configPath, &port))
	cmd.AddCommand(NewLeaderboardCmd(&configPath))
	cmd.AddCommand(NewMigrateCmd(&configPath))
	cmd.AddCommand(NewImportCmd(&configPath))
	return cmd
}
