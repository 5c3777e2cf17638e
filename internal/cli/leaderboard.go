package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"logicquest/internal/app"
)

// NewLeaderboardCmd prints the top scores.
func NewLeaderboardCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "leaderboard",
		Short: "Print the top five scores",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			defer log.Sync()

			rt, err := connect(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer rt.Close()

			lb, err := app.NewGameService(rt.deps).Leaderboard(cmd.Context())
			if err != nil {
				return err
			}
			for i, e := range lb.Entries {
				fmt.Fprintf(cmd.OutOrStdout(), "%d. %-20s %d\n", i+1, e.Username, e.Score)
			}
			return nil
		},
	}
}
