package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"logicquest/internal/app"
	"logicquest/internal/bank"
	"logicquest/internal/config"
	"logicquest/internal/domain"
	"logicquest/internal/infra/file"
	"logicquest/internal/infra/memory"
	pgstore "logicquest/internal/infra/postgres"
	redisstore "logicquest/internal/infra/redis"
	"logicquest/internal/logger"
)

// backends holds the open connections behind a GameService.
type backends struct {
	cfg     config.Config
	log     *zap.Logger
	deps    app.Deps
	redis   *redis.Client
	pool    *pgxpool.Pool
	closers []func()
}

func (r *backends) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
}

func loadConfig(path string) (config.Config, *zap.Logger, error) {
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return cfg, nil, err
	}
	log, err := newLogger(cfg)
	return cfg, log, err
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	log, err := logger.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return log, nil
}

func datasetFiles(cfg config.Config) bank.Files {
	f := cfg.Quiz.Files
	return bank.Files{Questions: f.Questions, Options: f.Options, Answers: f.Answers, Difficulty: f.Difficulty}
}

func gameOptions(cfg config.Config) app.GameOptions {
	g := cfg.Game
	return app.GameOptions{
		TickRate:     g.TickRate,
		TimerTicks:   g.TimerTicks,
		ChipWidth:    g.ChipWidth,
		ChipHeight:   g.ChipHeight,
		ChipSpacing:  g.ChipSpacing,
		TargetWidth:  g.TargetWidth,
		TargetHeight: g.TargetHeight,
	}
}

// connect opens what cfg asks for and wires the stores into app.Deps.
func connect(ctx context.Context, cfg config.Config, log *zap.Logger) (*backends, error) {
	rt := &backends{cfg: cfg, log: log}

	if cfg.Redis.Addr != "" {
		rt.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		rt.closers = append(rt.closers, func() { _ = rt.redis.Close() })
	}
	if cfg.Quiz.Source == "postgres" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			rt.Close()
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		rt.pool = pool
		rt.closers = append(rt.closers, pool.Close)
	}

	var (
		loader memory.BankLoader
		writer app.DatasetWriter
	)
	if rt.pool != nil {
		store := pgstore.NewQuestionStore(rt.pool)
		loader, writer = store, store
	} else {
		store := file.NewDatasetStore(cfg.Quiz.Dir, datasetFiles(cfg))
		loader, writer = store, store
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	var banks app.BankRepository
	if rt.redis != nil {
		banks = redisstore.NewBankRepository(rt.redis, loader, quizTTL)
	} else {
		banks = memory.NewBankRepository(loader, quizTTL)
	}

	st := cfg.Storage
	path := func(name string) string { return filepath.Join(st.Dir, name) }
	deps := app.Deps{
		Banks:    banks,
		Writer:   writer,
		Accounts: file.NewAccounts(path(st.Usernames), path(st.Keys)),
		Options:  gameOptions(cfg),
		Logger:   log,
	}
	switch st.Backend {
	case "redis":
		if rt.redis == nil {
			rt.Close()
			return nil, fmt.Errorf("storage backend redis needs redis.addr")
		}
		deps.Scores = redisstore.NewScoreStore(rt.redis)
		deps.Progress = redisstore.NewProgressStore(rt.redis)
		deps.Resume = redisstore.NewResumeStore(rt.redis)
		deps.Users = redisstore.NewUserMarker(rt.redis)
	case "memory":
		deps.Scores = memory.NewScoreStore()
		deps.Progress = memory.NewProgressStore()
		deps.Resume = memory.NewResumeStore()
		deps.Users = memory.NewUserMarker(domain.GuestName)
	default:
		deps.Scores = file.NewScoreStore(path(st.Scores))
		deps.Progress = file.NewProgressStore(path(st.Progress))
		deps.Resume = file.NewResumeStore(path(st.Resume))
		deps.Users = file.NewUserMarker(path(st.User))
	}
	rt.deps = deps

	log.Debug("backends wired",
		zap.String("quiz_source", cfg.Quiz.Source),
		zap.String("storage", st.Backend),
		zap.Bool("redis", rt.redis != nil),
	)
	return rt, nil
}
