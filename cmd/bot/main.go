package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"styx-bot/internal/bot"
	"styx-bot/internal/config"
	"styx-bot/internal/database"
	"styx-bot/internal/settings"
	"styx-bot/internal/store"
	"styx-bot/internal/telegram"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.LoadConfig()
	logger := newLogger(cfg.LogLevel)

	adminID := pflag.Int64P("admin", "a", 0, "set the super-admin account ID")
	token := pflag.StringP("token", "t", "", "set the bot access token")
	start := pflag.BoolP("start", "s", false, "start the poll loop")
	help := pflag.BoolP("help", "h", false, "print this help")
	pflag.Parse()

	sets := settings.New(cfg.SettingsPath, logger)
	if err := sets.EnsureDefaults(); err != nil {
		logger.Error("failed to prepare settings file", "path", cfg.SettingsPath, "error", err)
		return 1
	}

	if *help || pflag.NFlag() == 0 {
		if pflag.NFlag() == 0 {
			logger.Error("no command provided")
		}
		fmt.Printf("Usage: %s [flags]\n%s", os.Args[0], pflag.CommandLine.FlagUsages())
		return 0
	}

	if pflag.CommandLine.Changed("admin") {
		if err := sets.SetInt64(settings.KeyAdministratorID, *adminID); err != nil {
			logger.Error("failed to set super-admin ID", "error", err)
			return 1
		}
		logger.Info("super-admin ID saved", "admin_id", *adminID)
	}
	if pflag.CommandLine.Changed("token") {
		if err := sets.SetString(settings.KeyBotToken, *token); err != nil {
			logger.Error("failed to set bot token", "error", err)
			return 1
		}
		logger.Info("bot token saved")
	}

	if !*start {
		return 0
	}
	return startLoop(cfg, sets, logger)
}

func startLoop(cfg *config.Config, sets *settings.Settings, logger *slog.Logger) int {
	logger.Info("system self-checking")

	superAdminID, _ := sets.Int64(settings.KeyAdministratorID)
	botToken, _ := sets.String(settings.KeyBotToken)
	if superAdminID == 0 || botToken == "" {
		if superAdminID == 0 {
			logger.Warn("super-admin ID is not set", "path", cfg.SettingsPath)
		}
		if botToken == "" {
			logger.Warn("bot token is not set", "path", cfg.SettingsPath)
		}
		logger.Warn("use --admin and --token to set the missing values")
		return 1
	}

	db, err := database.ConnectSQLite(cfg.DatabasePath)
	if err != nil {
		logger.Error("could not open database", "path", cfg.DatabasePath, "error", err)
		return 1
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("could not access database handle", "error", err)
		return 1
	}
	defer sqlDB.Close()

	rdb, err := database.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		logger.Error("could not connect to redis", "addr", cfg.RedisAddr, "error", err)
		return 1
	}
	if rdb != nil {
		defer rdb.Close()
	}

	client, err := telegram.NewClient(botToken, cfg.PollTimeout, logger)
	if err != nil {
		logger.Error("could not create bot client", "error", err)
		return 1
	}

	st := store.New(db, logger)
	exec := bot.NewExecutor(st, client, sets, superAdminID, logger)
	loop := bot.NewLoop(client, st, exec, client, rdb, cfg.PollInterval, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := loop.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("poll loop stopped", "error", err)
		return 1
	}
	logger.Info("shutting down")
	return 0
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
