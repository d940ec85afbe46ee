package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/prestigeCareManagementSoftwares/PrestigeCareHomeManagement/internal/config"
	"github.com/prestigeCareManagementSoftwares/PrestigeCareHomeManagement/internal/coverage"
	"github.com/prestigeCareManagementSoftwares/PrestigeCareHomeManagement/internal/events"
	httpapi "github.com/prestigeCareManagementSoftwares/PrestigeCareHomeManagement/internal/http"
	"github.com/prestigeCareManagementSoftwares/PrestigeCareHomeManagement/internal/repository"
	"github.com/prestigeCareManagementSoftwares/PrestigeCareHomeManagement/internal/service"
	"github.com/prestigeCareManagementSoftwares/PrestigeCareHomeManagement/pkg/database"
	"github.com/prestigeCareManagementSoftwares/PrestigeCareHomeManagement/pkg/logger"
	"github.com/prestigeCareManagementSoftwares/PrestigeCareHomeManagement/pkg/redisx"
)

func main() {
	cfg := config.Load()

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "carehome-data")
	if err != nil {
		log, _ = zap.NewProduction()
	}
	defer log.Sync()

	loc := cfg.Location()

	redisClient := redisx.NewClient(&redisx.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Repositories: DB-backed when available, memory fallback for dev.
	var (
		db               *sql.DB
		careHomesRepo    repository.CareHomesRepository
		serviceUsersRepo repository.ServiceUsersRepository
		summariesRepo    repository.ShiftSummariesRepository
		entriesRepo      repository.LogEntriesRepository
		gapsRepo         repository.CoverageGapsRepository
	)
	if cfg.DBEnabled {
		if d, err := database.NewPostgresDB(&cfg.Database); err == nil {
			db = d
			log.Info("DB enabled for carehome-data")
		} else {
			log.Warn("DB enabled but connection failed, falling back to memory repositories", zap.Error(err))
		}
	}
	if db != nil {
		careHomesRepo = repository.NewPostgresCareHomesRepository(db)
		serviceUsersRepo = repository.NewPostgresServiceUsersRepository(db)
		summariesRepo = repository.NewPostgresShiftSummariesRepository(db)
		entriesRepo = repository.NewPostgresLogEntriesRepository(db)
		gapsRepo = repository.NewPostgresCoverageGapsRepository(db)
	} else {
		users := repository.NewMemoryServiceUsersRepository()
		memSummaries := repository.NewMemoryShiftSummariesRepository()
		careHomesRepo = repository.NewMemoryCareHomesRepository(users)
		serviceUsersRepo = users
		summariesRepo = memSummaries
		entriesRepo = memSummaries
		gapsRepo = repository.NewMemoryCoverageGapsRepository()
	}

	bus := events.NewBus(log)

	tracker := coverage.NewTracker(careHomesRepo, serviceUsersRepo, summariesRepo, gapsRepo,
		loc, cfg.Coverage.BackfillWindowDays, log)
	tracker.Register(bus)

	renderer := service.NewRenderClient(cfg.Render.BaseURL, cfg.Render.Timeout, log)
	documents := service.NewDocumentService(renderer, careHomesRepo, serviceUsersRepo, summariesRepo, cfg.MediaRoot, log)
	shiftLogs := service.NewShiftLogService(summariesRepo, entriesRepo, careHomesRepo, documents, bus, log, loc)
	careHomes := service.NewCareHomeService(careHomesRepo, serviceUsersRepo, bus, log)

	router := httpapi.NewRouter(log)
	router.RegisterCareHomeRoutes(httpapi.NewCareHomesHandler(careHomes, log))
	router.RegisterShiftLogRoutes(httpapi.NewShiftLogHandler(shiftLogs, log))
	router.RegisterCoverageRoutes(httpapi.NewCoverageHandler(tracker, careHomes, redisx.NewRedisKV(redisClient), log))

	srv := service.NewServer(cfg.HTTP.Addr, router, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	publisher := service.NewRedisGapPublisher(redisClient, cfg.Coverage.GapStream)
	notifier := service.NewGapNotifier(gapsRepo, publisher, cfg.Coverage.NotifyInterval, log)
	go notifier.Run(ctx)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		cancel()
	case <-errCh:
		cancel()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
	_ = redisClient.Close()
	if db != nil {
		_ = db.Close()
	}
}
