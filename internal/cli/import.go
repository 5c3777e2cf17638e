package cli

import (
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"logicquest/internal/infra/file"
	"logicquest/internal/infra/postgres"
	"logicquest/internal/infra/postgres/migrations"
)

// NewImportCmd copies a text dataset into Postgres.
func NewImportCmd(configPath *string) *cobra.Command {
	var dataset string
	cmd := &cobra.Command{
		Use:   "import <dir>",
		Short: "Import a four-file text dataset into Postgres",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, log, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			defer log.Sync()
			if cfg.Postgres.URL == "" {
				return fmt.Errorf("postgres url not configured")
			}

			b, err := file.NewDatasetStore(args[0], datasetFiles(cfg)).LoadBank(ctx, "")
			if err != nil {
				return err
			}
			if _, err := migrations.Apply(ctx, cfg.Postgres.URL); err != nil {
				return err
			}
			pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
			if err != nil {
				return fmt.Errorf("connect postgres: %w", err)
			}
			defer pool.Close()

			n, err := postgres.NewQuestionStore(pool).ImportBank(ctx, dataset, b)
			if err != nil {
				return err
			}
			log.Info("dataset imported", zap.String("dataset", dataset), zap.Int64("questions", n))
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d questions into dataset %q\n", n, dataset)
			return nil
		},
	}
	cmd.Flags().StringVar(&dataset, "dataset", "", "dataset id to (re)place")
	return cmd
}
