package commands

import (
	"context"
	"time"

	"github.com/m04kA/SMC-VenueSlots/internal/bootstrap"
	"github.com/m04kA/SMC-VenueSlots/internal/config"
	slotsService "github.com/m04kA/SMC-VenueSlots/internal/service/slots"
	venuesService "github.com/m04kA/SMC-VenueSlots/internal/service/venues"
	getVenueSlotsUC "github.com/m04kA/SMC-VenueSlots/internal/usecase/get_venue_slots"
	"github.com/m04kA/SMC-VenueSlots/pkg/logger"
	"github.com/m04kA/SMC-VenueSlots/pkg/retry"
)

// env собирает сервисы поверх настроенного хранилища без HTTP слоя
type env struct {
	cfg      *config.Config
	log      *logger.Logger
	storage  *bootstrap.Storage
	slots    *slotsService.Service
	venues   *venuesService.Service
	calendar *getVenueSlotsUC.UseCase
}

func openEnv(ctx context.Context, ensureSchema bool) (*env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	// Отчет печатает сама команда, логгер показывает только проблемы
	log, err := logger.New(cfg.Logs.File, "warn")
	if err != nil {
		return nil, err
	}

	storage, err := bootstrap.OpenStorage(ctx, cfg, bootstrap.Options{EnsureSchema: ensureSchema}, log)
	if err != nil {
		log.Close()
		return nil, err
	}

	retryConfig := retry.DefaultConfig()
	retryConfig.MaxRetries = cfg.Slots.MaxRetries
	retryConfig.InitialInterval = time.Duration(cfg.Slots.RetryIntervalMs) * time.Millisecond

	return &env{
		cfg:     cfg,
		log:     log,
		storage: storage,
		slots: slotsService.NewService(storage.Repository, nil, nil, log, slotsService.Options{
			HoldDurationMinutes: cfg.Slots.HoldDurationMinutes,
			Retry:               retryConfig,
		}),
		venues:   venuesService.NewService(storage.Repository, nil, retryConfig, log),
		calendar: getVenueSlotsUC.NewUseCase(storage.Repository, log),
	}, nil
}

func (e *env) Close() {
	e.storage.Close()
	e.log.Close()
}
