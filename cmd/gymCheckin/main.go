package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"gym_checkin/internal/config"
	"gym_checkin/internal/domain"
	repo "gym_checkin/internal/repository/postgres"
	"gym_checkin/internal/service/attendance"
	"gym_checkin/internal/service/checkin"
	"gym_checkin/internal/service/membership"
	"gym_checkin/internal/service/sheet"
	"gym_checkin/internal/service/system_log"
	"gym_checkin/internal/service/web"
	"gym_checkin/internal/utils"
	pkg_config "gym_checkin/pkg/config"
	"gym_checkin/pkg/db/postgres"
	"gym_checkin/pkg/masker"
	"gym_checkin/pkg/session"
	"gym_checkin/pkg/tgnotify"
	"gym_checkin/pkg/zaplogger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	logger, err := zaplogger.New("")
	if err != nil {
		panic(err)
	}

	cfg := config.Config{}
	err = pkg_config.LoadConfigFiles(&pkg_config.ConfigFile{Path: ".env", Optional: true, Config: &cfg})
	utils.HandleFatalError(err, logger, "error loading configs")

	logger, err = zaplogger.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	utils.HandleFatalError(masker.LogConfigs(logger, &cfg), logger, "error logging configs")

	loc, err := time.LoadLocation(cfg.TimeZone)
	utils.HandleFatalError(err, logger, "error loading time zone")

	// Миграции идут по прямому соединению, пулер их не переваривает
	migrateDB, migrateConn, err := postgres.NewDirectConnection(cfg.DBConfig)
	utils.HandleFatalError(err, logger, "error creating direct db connection")
	utils.HandleFatalError(repo.Migrate(migrateDB), logger, "error migrating database")
	if err := migrateConn.Close(); err != nil {
		logger.Warn("error closing direct db connection", zap.Error(err))
	}

	dbGorm, err := postgres.NewGormConnection(cfg.DBConfig)
	utils.HandleFatalError(err, logger, "error creating gorm connection")

	customerRepo := repo.NewCustomerRepository(dbGorm)
	checkInRepo := repo.NewCheckInRepository(dbGorm)
	systemLogRepo := repo.NewSystemLogRepository(dbGorm)

	var notifier domain.Notifier
	if cfg.TelegramConfig.Enabled() {
		tgNotifier, err := tgnotify.New(tgnotify.Config{
			Token:   cfg.TelegramConfig.BotToken,
			Chats:   cfg.TelegramConfig.AlertChats,
			Timeout: cfg.TelegramConfig.Timeout,
		}, logger)
		if err != nil {
			logger.Error("telegram alerts disabled", zap.Error(err))
		} else {
			notifier = tgNotifier
		}
	}
	systemLog := system_log.NewService(systemLogRepo, notifier, cfg.TelegramConfig.MinSeverity, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var forceUpdate chan struct{}
	if cfg.GoogleSheetConfig.Enabled() {
		sheetService, err := sheet.NewSheetService(
			ctx,
			cfg.GoogleSheetConfig.CredentialsBase64,
			cfg.GoogleSheetConfig.SheetID,
			cfg.GoogleSheetConfig.AttendanceListID,
			cfg.GoogleSheetConfig.PauseMs,
			sheet.NewDefaultColumnMap(),
			loc,
		)
		if err != nil {
			logger.Error("attendance export disabled", zap.Error(err))
		} else {
			forceUpdate = make(chan struct{}, 1)
			exporter := attendance.NewExporter(sheetService, checkInRepo, logger, cfg.GoogleSheetConfig.SyncInterval, forceUpdate)
			defer exporter.Stop()
		}
	}

	verifier := membership.New(cfg.SquareConfig, logger)

	workflow := checkin.NewWorkflow(verifier, customerRepo, checkInRepo, systemLog, checkin.Config{
		LocationID:  cfg.SquareConfig.Location(),
		AppEnv:      cfg.Env,
		ForceUpdate: forceUpdate,
	}, logger)

	if cfg.AdminConfig.SessionSecret == "" {
		logger.Warn("SESSION_SECRET is not set, using development fallback")
	}
	sessions, err := session.NewStore(cfg.AdminConfig.Secret(), cfg.AdminConfig.SessionTTL, time.Hour)
	utils.HandleFatalError(err, logger, "error creating session store")

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	server := web.NewServer(workflow, systemLog, checkInRepo, sessions, web.Options{
		Addr:            cfg.HTTPConfig.Addr,
		ShutdownTimeout: cfg.HTTPConfig.ShutdownTimeout,
		PasswordHash:    cfg.AdminConfig.PasswordHash,
		CookieName:      cfg.AdminConfig.SessionCookieName,
		SessionTTL:      cfg.AdminConfig.SessionTTL,
		SecureCookie:    cfg.IsProduction(),
	}, logger)

	if err := server.Run(ctx); err != nil {
		logger.Error("http server stopped with error", zap.Error(err))
		return
	}
	logger.Info("http server stopped")
}
