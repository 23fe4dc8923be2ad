package config

import (
	"errors"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	BotToken    string `env:"BOT_TOKEN" env-required:"true"`
	DatabaseURL string `env:"DATABASE_URL" env-required:"true"`

	ImagesDir     string `env:"IMAGES_DIR" env-default:"./images"`
	MigrationsDir string `env:"MIGRATIONS_DIR" env-default:"./migrations"`

	// CheckInterval is how often the scheduler wakes up to look for a day
	// rollover. Anything well under a day works; 60s matches the original.
	CheckInterval time.Duration `env:"CHECK_INTERVAL" env-default:"60s"`
	SendTimeout   time.Duration `env:"SEND_TIMEOUT" env-default:"10s"`

	LogLevel  string `env:"LOG_LEVEL" env-default:"info"`
	LogPretty bool   `env:"LOG_PRETTY" env-default:"false"`
}

func Load() (Config, error) {
	// .env is optional; real env always wins.
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func (c Config) validate() error {
	if c.CheckInterval <= 0 {
		return errors.New("config: CHECK_INTERVAL must be positive")
	}
	if c.SendTimeout <= 0 {
		return errors.New("config: SEND_TIMEOUT must be positive")
	}
	return nil
}
