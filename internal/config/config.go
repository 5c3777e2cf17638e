package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Env string `yaml:"env"`
	Log struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"log"`
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Quiz    Quiz    `yaml:"quiz"`
	Storage Storage `yaml:"storage"`
	Game    Game    `yaml:"game"`
}

// Quiz selects where question banks come from.
type Quiz struct {
	Source  string `yaml:"source"` // files | postgres
	Dir     string `yaml:"dir"`
	Dataset string `yaml:"dataset"`
	TTL     string `yaml:"ttl"`
	Files   struct {
		Questions  string `yaml:"questions"`
		Options    string `yaml:"options"`
		Answers    string `yaml:"answers"`
		Difficulty string `yaml:"difficulty"`
	} `yaml:"files"`
}

// Storage selects where scores, progress and the session markers live.
type Storage struct {
	Backend   string `yaml:"backend"` // file | redis | memory
	Dir       string `yaml:"dir"`
	Scores    string `yaml:"scores"`
	Progress  string `yaml:"progress"`
	Resume    string `yaml:"resume"`
	User      string `yaml:"user"`
	Usernames string `yaml:"usernames"`
	Keys      string `yaml:"keys"`
}

// Game holds frame-loop and layout tunables.
type Game struct {
	TickRate     int `yaml:"tick_rate"`
	TimerTicks   int `yaml:"timer_ticks"`
	ChipWidth    int `yaml:"chip_width"`
	ChipHeight   int `yaml:"chip_height"`
	ChipSpacing  int `yaml:"chip_spacing"`
	TargetWidth  int `yaml:"target_width"`
	TargetHeight int `yaml:"target_height"`
}

// Default is the configuration used when no file is present.
func Default() Config {
	cfg := Config{Env: "development"}
	cfg.Log.Level = "info"
	cfg.Server.Port = "8080"
	cfg.Redis.TTL = "10m"
	cfg.Quiz = Quiz{Source: "files", Dir: "data", TTL: "10m"}
	cfg.Quiz.Files.Questions = "questions.txt"
	cfg.Quiz.Files.Options = "options.txt"
	cfg.Quiz.Files.Answers = "answers.txt"
	cfg.Quiz.Files.Difficulty = "difficulty.txt"
	cfg.Storage = Storage{
		Backend:   "file",
		Dir:       "data",
		Scores:    "scores.txt",
		Progress:  "progress.txt",
		Resume:    "load.txt",
		User:      "cur_username.txt",
		Usernames: "usernames.txt",
		Keys:      "keys.txt",
	}
	cfg.Game = Game{
		TickRate:     60,
		TimerTicks:   1000,
		ChipWidth:    12,
		ChipHeight:   3,
		ChipSpacing:  2,
		TargetWidth:  16,
		TargetHeight: 5,
	}
	return cfg
}

// Load reads YAML config from path over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// LoadOrDefault is Load, except that a missing file yields the defaults.
func LoadOrDefault(path string) (Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Validate rejects settings the game cannot run with.
func (c Config) Validate() error {
	var errs []error
	g := c.Game
	for name, v := range map[string]int{
		"game.tick_rate":     g.TickRate,
		"game.timer_ticks":   g.TimerTicks,
		"game.chip_width":    g.ChipWidth,
		"game.chip_height":   g.ChipHeight,
		"game.target_width":  g.TargetWidth,
		"game.target_height": g.TargetHeight,
	} {
		if v <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %d", name, v))
		}
	}
	if g.ChipSpacing < 0 {
		errs = append(errs, fmt.Errorf("game.chip_spacing must not be negative, got %d", g.ChipSpacing))
	}
	switch c.Storage.Backend {
	case "file", "memory":
	case "redis":
		if c.Redis.Addr == "" {
			errs = append(errs, errors.New("storage.backend redis needs redis.addr"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage.backend %q", c.Storage.Backend))
	}
	switch c.Quiz.Source {
	case "files":
	case "postgres":
		if c.Postgres.URL == "" {
			errs = append(errs, errors.New("quiz.source postgres needs postgres.url"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown quiz.source %q", c.Quiz.Source))
	}
	return errors.Join(errs...)
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
