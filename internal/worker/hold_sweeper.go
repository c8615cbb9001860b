package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/m04kA/SMC-VenueSlots/internal/domain"
	"github.com/m04kA/SMC-VenueSlots/internal/service/slots/models"
)

// ErrAlreadyRunning возвращается при повторном запуске воркера
var ErrAlreadyRunning = errors.New("hold sweeper already running")

// VenueLister возвращает идентификаторы всех инициализированных площадок
type VenueLister interface {
	ListVenueIDs(ctx context.Context) ([]string, error)
}

// HoldCleaner удаляет истекшие удержания одной площадки
type HoldCleaner interface {
	CleanExpiredHolds(ctx context.Context, venueID string) (*models.CleanupResponse, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// HoldSweeperConfig настройки периодической очистки удержаний
type HoldSweeperConfig struct {
	Interval time.Duration
	// VenueTimeout ограничивает очистку одной площадки
	VenueTimeout time.Duration
}

// DefaultHoldSweeperConfig возвращает настройки по умолчанию
func DefaultHoldSweeperConfig() HoldSweeperConfig {
	return HoldSweeperConfig{
		Interval:     time.Minute,
		VenueTimeout: 5 * time.Second,
	}
}

// SweepResult итог одного прохода
type SweepResult struct {
	Venues  int
	Removed int
	Failed  int
}

// HoldSweeper периодически удаляет истекшие удержания во всех площадках
type HoldSweeper struct {
	venues  VenueLister
	cleaner HoldCleaner
	config  HoldSweeperConfig
	logger  Logger

	stopCh  chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
}

// NewHoldSweeper создает воркер; нулевые поля config заменяются значениями по умолчанию
func NewHoldSweeper(venues VenueLister, cleaner HoldCleaner, config HoldSweeperConfig, logger Logger) *HoldSweeper {
	defaults := DefaultHoldSweeperConfig()
	if config.Interval <= 0 {
		config.Interval = defaults.Interval
	}
	if config.VenueTimeout <= 0 {
		config.VenueTimeout = defaults.VenueTimeout
	}
	return &HoldSweeper{
		venues:  venues,
		cleaner: cleaner,
		config:  config,
		logger:  logger,
		stopCh:  make(chan struct{}),
	}
}

// Start запускает фоновый цикл; первый проход выполняется сразу
func (w *HoldSweeper) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return ErrAlreadyRunning
	}
	w.running = true

	w.logger.Info("HoldSweeper: starting, interval=%s", w.config.Interval)
	w.wg.Add(1)
	go w.loop(ctx)
	return nil
}

// Stop останавливает цикл и дожидается завершения текущего прохода
func (w *HoldSweeper) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	w.wg.Wait()
	w.logger.Info("HoldSweeper: stopped")
}

func (w *HoldSweeper) loop(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	w.RunOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce выполняет один проход по всем площадкам.
// Ошибка одной площадки не прерывает проход.
func (w *HoldSweeper) RunOnce(ctx context.Context) SweepResult {
	var result SweepResult

	// 1. Получаем список площадок
	venueIDs, err := w.venues.ListVenueIDs(ctx)
	if err != nil {
		w.logger.Error("HoldSweeper: failed to list venues: %v", err)
		return result
	}

	// 2. Чистим каждую площадку с отдельным таймаутом
	for _, venueID := range venueIDs {
		if ctx.Err() != nil {
			break
		}
		result.Venues++

		venueCtx, cancel := context.WithTimeout(ctx, w.config.VenueTimeout)
		resp, err := w.cleaner.CleanExpiredHolds(venueCtx, venueID)
		cancel()
		if err != nil {
			if errors.Is(err, domain.ErrNotInitialized) {
				continue
			}
			result.Failed++
			w.logger.Warn("HoldSweeper: venue=%s cleanup failed: %v", venueID, err)
			continue
		}
		result.Removed += resp.Removed
	}

	if result.Removed > 0 || result.Failed > 0 {
		w.logger.Info("HoldSweeper: venues=%d, removed=%d, failed=%d", result.Venues, result.Removed, result.Failed)
	}
	return result
}
