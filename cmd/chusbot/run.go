package main

import (
	"context"
	"errors"
	"log/slog"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/edgard/chusbot/internal/bot"
	"github.com/edgard/chusbot/internal/bot/handlers"
	"github.com/edgard/chusbot/internal/bot/tasks"
	"github.com/edgard/chusbot/internal/config"
	"github.com/edgard/chusbot/internal/database"
	"github.com/edgard/chusbot/internal/generation"
	"github.com/edgard/chusbot/internal/interactionlog"
	"github.com/edgard/chusbot/internal/logger"
	"github.com/edgard/chusbot/internal/persona"
	"github.com/edgard/chusbot/internal/telegram"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the bot (default)",
	Args:  cobra.NoArgs,
	RunE:  runBot,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

// runBot initializes every component, runs the bot until the command context
// is cancelled and shuts down.
func runBot(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(configPath, envFile)
	if err != nil {
		return err
	}
	if err := cfg.RequireToken(); err != nil {
		return err
	}

	log := logger.New(cfg.Logger.Level, cfg.Logger.JSON)
	log.Debug("Logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON)

	personas, err := persona.LoadFile(cfg.Personas.File)
	if err != nil {
		log.Error("Failed to load personas", "file", cfg.Personas.File, "error", err)
		return err
	}

	sessionID := uuid.NewString()
	ilog, err := interactionlog.New(cfg.InteractionLog.Dir, cfg.InteractionLog.MaxFiles,
		interactionlog.WithLogger(log),
		interactionlog.WithSessionID(sessionID),
	)
	if err != nil {
		log.Error("Failed to initialize interaction log", "dir", cfg.InteractionLog.Dir, "error", err)
		return err
	}

	store, closeStore := openStore(cfg, log)
	defer closeStore()

	gen, err := generation.New(ctx, generation.Options{
		Provider:        cfg.Generation.Provider,
		OllamaEndpoint:  cfg.Generation.OllamaEndpoint,
		Timeout:         cfg.Generation.Timeout,
		BreakerFailures: cfg.Generation.BreakerFailures,
		BreakerTimeout:  cfg.Generation.BreakerTimeout,
		Gemini: generation.GeminiConfig{
			APIKey:      cfg.Gemini.APIKey,
			Temperature: cfg.Gemini.Temperature,
			MaxRetries:  cfg.Gemini.MaxRetries,
			RetryDelay:  cfg.Gemini.RetryDelay,
		},
	}, log)
	if err != nil {
		log.Error("Failed to initialize generation backend", "provider", cfg.Generation.Provider, "error", err)
		return err
	}

	hDeps := handlers.HandlerDeps{
		Logger:    log,
		Config:    cfg,
		Personas:  personas,
		Log:       ilog,
		Generator: gen,
		Session:   handlers.NewSession(sessionID),
		Store:     store,
	}

	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log,
		tgbot.WithSkipGetMe(),
		tgbot.WithNotAsyncHandlers(),
		tgbot.WithMiddlewares(logger.Middleware(log)),
		tgbot.WithDefaultHandler(handlers.NewMessageHandler(hDeps)),
	)
	if err != nil {
		log.Error("Failed to create Telegram bot", "error", err)
		return err
	}

	info := bot.FetchBotInfo(ctx, tg, cfg.Generation.Model, version)
	if info.Degraded() {
		log.Warn("Could not get bot information", "error", info.Error)
	} else {
		log.Info("Bot initialized", "bot_id", info.BotID, "bot_username", info.BotUsername)
	}
	if err := ilog.RecordSessionStart(info); err != nil {
		log.Error("Failed to record session start", "path", ilog.Path(), "error", err)
	}
	if store != nil {
		recordSession(ctx, store, log, &database.Session{
			ID:          sessionID,
			StartedAt:   time.Now(),
			LogFile:     ilog.Path(),
			BotUsername: info.BotUsername,
			Model:       cfg.Generation.Model,
			Provider:    cfg.Generation.Provider,
		})
	}

	cmdHandlers := handlers.RegisterAllCommands(hDeps)
	if err := telegram.RegisterHandlers(tg, log, cmdHandlers); err != nil {
		log.Error("Failed to register Telegram handlers", "error", err)
		return err
	}
	if cfg.Telegram.SetCommands {
		telegram.SetCommandMenu(ctx, tg, log, handlers.BotCommands(cmdHandlers))
	}

	tDeps := tasks.TaskDeps{Logger: log, Log: ilog, Store: store}
	sched, err := bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tDeps))
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return err
	}

	log.Info("Bot is running", "model", cfg.Generation.Model, "provider", cfg.Generation.Provider, "session_id", sessionID)
	log.Info("Interactions will be logged", "path", ilog.Path())

	runErr := bot.NewBot(log, tg, sched).Run(ctx)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		return runErr
	}

	log.Info("Bot stopped gracefully.")
	return nil
}

// openStore opens the session index. A failure disables the index rather
// than stopping the bot; the returned store is then nil.
func openStore(cfg *config.Config, log *slog.Logger) (database.Store, func()) {
	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Warn("Session index unavailable, continuing without it", "path", cfg.Database.Path, "error", err)
		return nil, func() {}
	}
	return database.NewStore(db, log), func() { database.CloseDB(db) }
}

func recordSession(ctx context.Context, store database.Store, log *slog.Logger, s *database.Session) {
	dbCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := store.RecordSession(dbCtx, s); err != nil {
		log.Warn("Failed to record session in index", "session_id", s.ID, "error", err)
	}
}
