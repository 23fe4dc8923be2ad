package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/yourname/bday-bot/internal/bot"
	"github.com/yourname/bday-bot/internal/config"
	"github.com/yourname/bday-bot/internal/content"
	"github.com/yourname/bday-bot/internal/db"
	"github.com/yourname/bday-bot/internal/repo"
	"github.com/yourname/bday-bot/internal/sched"
	"github.com/yourname/bday-bot/internal/session"
)

func main() {
	cfg := config.MustLoad()
	log := newLogger(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool := db.MustConnect(ctx, cfg.DatabaseURL)
	defer pool.Close()

	if err := db.ApplyMigrations(ctx, pool, cfg.MigrationsDir, log); err != nil {
		log.Fatal().Err(err).Msg("migrations")
	}

	// SendTimeout bounds every API call; deliveries are never retried.
	botAPI, err := tgbotapi.NewBotAPIWithClient(cfg.BotToken, tgbotapi.APIEndpoint, &http.Client{Timeout: cfg.SendTimeout})
	if err != nil {
		log.Fatal().Err(err).Msg("bot init")
	}

	if err := os.MkdirAll(cfg.ImagesDir, 0o755); err != nil {
		log.Fatal().Err(err).Msg("images dir")
	}

	birthdays := repo.NewBirthdays(pool)
	users := repo.NewUsers(pool)
	lib := content.NewLibrary(cfg.ImagesDir, time.Now().UnixNano())
	sender := bot.NewSender(botAPI)

	sessions := session.NewManager(birthdays, sender, lib, log.With().Str("component", "session").Logger())
	h := bot.NewHandler(botAPI, users, sessions, lib, log.With().Str("component", "router").Logger())

	scheduler := sched.New(birthdays, sender, lib, sched.SystemClock{},
		log.With().Str("component", "sched").Logger())
	go scheduler.Run(ctx, cfg.CheckInterval)

	// Graceful shutdown
	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		<-ch
		cancel()
	}()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := botAPI.GetUpdatesChan(u)

	log.Info().Str("bot", botAPI.Self.UserName).Msg("started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("shutdown")
			return
		case upd := <-updates:
			h.HandleUpdate(ctx, upd)
		}
	}
}

func newLogger(cfg config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	if cfg.LogPretty {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
}
