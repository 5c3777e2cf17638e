package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"logicquest/internal/app"
	"logicquest/internal/config"
	"logicquest/internal/domain"
	"logicquest/internal/ui"
)

type playFlags struct {
	mode    string
	user    string
	storage string
	dataset string
}

// NewPlayCmd starts the terminal game.
func NewPlayCmd(configPath *string) *cobra.Command {
	var flags playFlags
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play the quiz in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd, *configPath, flags)
		},
	}
	cmd.Flags().StringVar(&flags.mode, "mode", "", "start directly in practice, timed or instructor mode")
	cmd.Flags().StringVar(&flags.user, "user", "", "sign in as this user (no instructor key)")
	cmd.Flags().StringVar(&flags.storage, "storage", "", "override storage.backend: file, redis or memory")
	cmd.Flags().StringVar(&flags.dataset, "dataset", "", "override quiz.dataset")
	return cmd
}

func runPlay(cmd *cobra.Command, configPath string, flags playFlags) error {
	ctx := cmd.Context()
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return err
	}
	if flags.storage != "" {
		cfg.Storage.Backend = flags.storage
	}
	if flags.dataset != "" {
		cfg.Quiz.Dataset = flags.dataset
	}
	if cfg.Log.File == "" {
		// the game owns the terminal
		cfg.Log.File = filepath.Join(cfg.Storage.Dir, "logicquest.log")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Log.File), 0o755); err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	rt, err := connect(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer rt.Close()
	svc := app.NewGameService(rt.deps)

	env := &ui.Env{Ctx: ctx, Service: svc, Log: log, Dataset: cfg.Quiz.Dataset, Role: domain.RolePlayer}
	if flags.user != "" {
		role, err := svc.SignIn(ctx, flags.user, "")
		if err != nil {
			return fmt.Errorf("sign in %s: %w", flags.user, err)
		}
		env.Username, env.Role = flags.user, role
	} else if rt.deps.Users != nil {
		if env.Username, err = rt.deps.Users.CurrentUser(ctx); err != nil {
			log.Warn("read current user", zap.Error(err))
		}
	}

	var opts ui.Options
	if flags.mode != "" {
		mode, err := domain.ParseMode(flags.mode)
		if err != nil {
			return err
		}
		if mode == domain.ModeInstructor && env.Role != domain.RoleInstructor {
			return fmt.Errorf("%w: instructor mode needs an instructor sign-in", domain.ErrInvalidAction)
		}
		opts.Mode = &mode
	}

	log.Info("game starting", zap.String("user", env.Username), zap.String("dataset", env.Dataset))
	return ui.Run(env, opts)
}
