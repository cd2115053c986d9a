package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/teanus/college-schedule-bot/internal/application"
	"github.com/teanus/college-schedule-bot/internal/config"
	"github.com/teanus/college-schedule-bot/internal/logging"
	"github.com/teanus/college-schedule-bot/internal/mail"
	"github.com/teanus/college-schedule-bot/internal/persistence/sqlite"
	"github.com/teanus/college-schedule-bot/internal/telegram"
)

func main() {
	configPath := flag.String("config", "config.yml", "path to the YAML configuration file")
	debug := flag.Bool("debug", false, "verbose text logging instead of JSON")
	flag.Parse()

	logger := logging.New(*debug)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loader := config.NewLoader(*configPath)
	cfg, err := loader.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	pool, err := sqlite.Open(cfg.DatabasePath)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := pool.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := pool.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	scheduleRepo := sqlite.NewScheduleRepository(pool)
	codeRepo := sqlite.NewRegistrationCodeRepository(pool)
	adminRepo := sqlite.NewAdminRepository(pool)

	var mailer mail.Mailer
	if cfg.Mail.Host == "" {
		logger.Warn("no SMTP host configured, mail goes to the log")
		mailer = mail.NewConsoleMailer(logger)
	} else {
		mailer = mail.NewSMTPMailer(cfg.Mail)
	}

	scheduleService := application.NewScheduleService(scheduleRepo, logger)
	registrationService := application.NewRegistrationService(codeRepo, mailer, nil, nil, cfg.CodeTTL, logger)
	broadcastService := application.NewBroadcastService(scheduleRepo, mailer, logger)
	adminService := application.NewAdminService(adminRepo, loader, logger)

	if err := adminService.Seed(ctx, cfg.Admins); err != nil {
		logger.Error("failed to seed admins", "error", err)
		os.Exit(1)
	}

	bot, err := telegram.NewBot(cfg.TelegramToken)
	if err != nil {
		logger.Error("failed to connect to telegram", "error", err)
		os.Exit(1)
	}

	dispatcher := telegram.NewDispatcher(telegram.DispatcherConfig{
		Sender:       bot,
		Schedules:    scheduleService,
		Registration: registrationService,
		Broadcasts:   broadcastService,
		Admins:       adminService,
		CodeTTL:      cfg.CodeTTL,
		Logger:       logger,
	})

	logger.Info("bot started", "username", bot.Username(), "db", cfg.DatabasePath)

	for update := range bot.Updates(ctx) {
		dispatcher.Dispatch(ctx, update)
	}
	dispatcher.Wait()

	logger.Info("bot stopped")
}
