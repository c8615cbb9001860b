package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	blockSlotHandler "github.com/m04kA/SMC-VenueSlots/internal/api/handlers/block_slot"
	bookSlotHandler "github.com/m04kA/SMC-VenueSlots/internal/api/handlers/book_slot"
	cleanExpiredHoldsHandler "github.com/m04kA/SMC-VenueSlots/internal/api/handlers/clean_expired_holds"
	getSlotStatusHandler "github.com/m04kA/SMC-VenueSlots/internal/api/handlers/get_slot_status"
	getVenueConfigHandler "github.com/m04kA/SMC-VenueSlots/internal/api/handlers/get_venue_config"
	getVenueSlotsHandler "github.com/m04kA/SMC-VenueSlots/internal/api/handlers/get_venue_slots"
	holdSlotHandler "github.com/m04kA/SMC-VenueSlots/internal/api/handlers/hold_slot"
	initializeVenueHandler "github.com/m04kA/SMC-VenueSlots/internal/api/handlers/initialize_venue"
	releaseHoldHandler "github.com/m04kA/SMC-VenueSlots/internal/api/handlers/release_hold"
	reserveSlotHandler "github.com/m04kA/SMC-VenueSlots/internal/api/handlers/reserve_slot"
	unblockSlotHandler "github.com/m04kA/SMC-VenueSlots/internal/api/handlers/unblock_slot"
	unbookSlotHandler "github.com/m04kA/SMC-VenueSlots/internal/api/handlers/unbook_slot"
	unreserveSlotHandler "github.com/m04kA/SMC-VenueSlots/internal/api/handlers/unreserve_slot"
	updateVenueConfigHandler "github.com/m04kA/SMC-VenueSlots/internal/api/handlers/update_venue_config"
	"github.com/m04kA/SMC-VenueSlots/internal/api/middleware"
	"github.com/m04kA/SMC-VenueSlots/internal/bootstrap"
	"github.com/m04kA/SMC-VenueSlots/internal/config"
	"github.com/m04kA/SMC-VenueSlots/internal/infra/events"
	kafkaEvents "github.com/m04kA/SMC-VenueSlots/internal/infra/events/kafka"
	slotsService "github.com/m04kA/SMC-VenueSlots/internal/service/slots"
	venuesService "github.com/m04kA/SMC-VenueSlots/internal/service/venues"
	getVenueSlotsUC "github.com/m04kA/SMC-VenueSlots/internal/usecase/get_venue_slots"
	"github.com/m04kA/SMC-VenueSlots/internal/worker"
	"github.com/m04kA/SMC-VenueSlots/pkg/dbmetrics"
	"github.com/m04kA/SMC-VenueSlots/pkg/logger"
	"github.com/m04kA/SMC-VenueSlots/pkg/metrics"
	"github.com/m04kA/SMC-VenueSlots/pkg/retry"
)

// slotEventPublisher общий интерфейс kafka и no-op публикаторов
type slotEventPublisher interface {
	slotsService.EventPublisher
	Close() error
}

func main() {
	// Загружаем конфигурацию
	configPath := "config.toml"
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-VenueSlots...")
	log.Info("Configuration loaded from %s (storage=%s)", configPath, cfg.Storage.Driver)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Инициализируем метрики (если включены)
	var (
		metricsCollector *metrics.Metrics
		dbRecorder       dbmetrics.Recorder
	)
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		dbRecorder = metricsCollector
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к хранилищу агрегатов
	storage, err := bootstrap.OpenStorage(ctx, cfg, bootstrap.Options{
		Recorder:     dbRecorder,
		StopMetrics:  stopMetricsCh,
		EnsureSchema: true,
	}, log)
	if err != nil {
		log.Fatal("Failed to open storage: %v", err)
	}
	defer storage.Close()

	// Публикация событий слотов
	var publisher slotEventPublisher = events.NoopPublisher{}
	if cfg.Kafka.Enabled {
		kafkaPublisher, err := kafkaEvents.NewPublisher(kafkaEvents.Config{
			Brokers:        cfg.Kafka.Brokers,
			Topic:          cfg.Kafka.Topic,
			ClientID:       cfg.Kafka.ClientID,
			ProduceTimeout: time.Duration(cfg.Kafka.ProduceTimeout) * time.Second,
		})
		if err != nil {
			log.Fatal("Failed to create kafka publisher: %v", err)
		}
		publisher = kafkaPublisher
		log.Info("Slot events published to kafka topic=%s, brokers=%v", cfg.Kafka.Topic, cfg.Kafka.Brokers)
	}
	defer publisher.Close()

	retryConfig := retry.DefaultConfig()
	retryConfig.MaxRetries = cfg.Slots.MaxRetries
	retryConfig.InitialInterval = time.Duration(cfg.Slots.RetryIntervalMs) * time.Millisecond

	// Инициализируем сервисы
	var transitionRecorder slotsService.TransitionRecorder
	if metricsCollector != nil {
		transitionRecorder = metricsCollector
	}
	slotsSvc := slotsService.NewService(
		storage.Repository,
		publisher,
		transitionRecorder,
		log.With("component", "slots"),
		slotsService.Options{
			HoldDurationMinutes: cfg.Slots.HoldDurationMinutes,
			Retry:               retryConfig,
		},
	)
	venuesSvc := venuesService.NewService(
		storage.Repository,
		publisher,
		retryConfig,
		log.With("component", "venues"),
	)

	// Инициализируем use cases
	getVenueSlotsUseCase := getVenueSlotsUC.NewUseCase(storage.Repository, log)

	// Фоновая очистка истекших удержаний
	var sweeper *worker.HoldSweeper
	if cfg.Slots.SweepEnabled {
		sweeper = worker.NewHoldSweeper(
			storage.Repository,
			slotsSvc,
			worker.HoldSweeperConfig{Interval: time.Duration(cfg.Slots.SweepIntervalSeconds) * time.Second},
			log.With("component", "hold_sweeper"),
		)
		if err := sweeper.Start(ctx); err != nil {
			log.Fatal("Failed to start hold sweeper: %v", err)
		}
	}

	// Инициализируем handlers
	getVenueSlots := getVenueSlotsHandler.NewHandler(getVenueSlotsUseCase, log)
	getSlotStatus := getSlotStatusHandler.NewHandler(getVenueSlotsUseCase, log)
	getVenueConfig := getVenueConfigHandler.NewHandler(venuesSvc, log)
	initializeVenue := initializeVenueHandler.NewHandler(venuesSvc, log)
	updateVenueConfig := updateVenueConfigHandler.NewHandler(venuesSvc, log)
	holdSlot := holdSlotHandler.NewHandler(slotsSvc, log)
	releaseHold := releaseHoldHandler.NewHandler(slotsSvc, log)
	bookSlot := bookSlotHandler.NewHandler(slotsSvc, log)
	unbookSlot := unbookSlotHandler.NewHandler(slotsSvc, log)
	blockSlot := blockSlotHandler.NewHandler(slotsSvc, log)
	unblockSlot := unblockSlotHandler.NewHandler(slotsSvc, log)
	reserveSlot := reserveSlotHandler.NewHandler(slotsSvc, log)
	unreserveSlot := unreserveSlotHandler.NewHandler(slotsSvc, log)
	cleanExpiredHolds := cleanExpiredHoldsHandler.NewHandler(slotsSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Календарь слотов площадки за период
	api.HandleFunc("/venues/{venueId}/slots", getVenueSlots.Handle).Methods(http.MethodGet)

	// Состояние одного слота
	api.HandleFunc("/venues/{venueId}/slots/{date}/{startTime}", getSlotStatus.Handle).Methods(http.MethodGet)

	// Конфигурация слотов площадки
	api.HandleFunc("/venues/{venueId}/config", getVenueConfig.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Управление площадкой ---
	protected.HandleFunc("/venues/{venueId}/init", initializeVenue.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/venues/{venueId}/config", updateVenueConfig.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/venues/{venueId}/holds/cleanup", cleanExpiredHolds.Handle).Methods(http.MethodPost)

	// --- Удержание (с ограничением частоты на пользователя) ---
	slot := "/venues/{venueId}/slots/{date}/{startTime}"
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
		go limiter.RunCleanup(time.Minute, ctx.Done())
		protected.Handle(slot+"/hold", limiter.Limit(http.HandlerFunc(holdSlot.Handle))).Methods(http.MethodPost)
		log.Info("Hold rate limit enabled: rps=%.2f, burst=%d", cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	} else {
		protected.HandleFunc(slot+"/hold", holdSlot.Handle).Methods(http.MethodPost)
	}
	protected.HandleFunc(slot+"/hold", releaseHold.Handle).Methods(http.MethodDelete)

	// --- Бронирование (webhook оплаты, касса) ---
	protected.HandleFunc(slot+"/book", bookSlot.Handle).Methods(http.MethodPost)
	protected.HandleFunc(slot+"/book", unbookSlot.Handle).Methods(http.MethodDelete)

	// --- Блокировки и резервы менеджера ---
	protected.HandleFunc(slot+"/block", blockSlot.Handle).Methods(http.MethodPost)
	protected.HandleFunc(slot+"/block", unblockSlot.Handle).Methods(http.MethodDelete)
	protected.HandleFunc(slot+"/reserve", reserveSlot.Handle).Methods(http.MethodPost)
	protected.HandleFunc(slot+"/reserve", unreserveSlot.Handle).Methods(http.MethodDelete)

	// CORS для консоли менеджера
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", middleware.HeaderUserID, middleware.HeaderRequestID},
		ExposedHeaders: []string{middleware.HeaderRequestID},
	}).Handler(r)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      corsHandler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	<-ctx.Done()
	log.Info("Shutting down server...")

	if sweeper != nil {
		sweeper.Stop()
	}

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
