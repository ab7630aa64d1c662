package attendance

import (
	"context"
	"sync"
	"time"

	"gym_checkin/internal/domain"

	"go.uber.org/zap"
)

const defaultBatchSize = 100

// Exporter выгружает проходы в таблицу посещений в фоне
type Exporter struct {
	logger       *zap.Logger
	SheetService domain.SheetService
	CheckInRepo  domain.CheckInRepo
	batchSize    int

	ticker        *time.Ticker
	forceUpdateCh chan struct{}
	stopCh        chan struct{}
	doneCh        chan struct{}
	stopOnce      sync.Once
	mu            sync.Mutex
}

// NewExporter создает и запускает фоновую выгрузку.
// forceUpdateCh: канал, по которому чекин просит выгрузить сразу.
func NewExporter(sheetService domain.SheetService, checkInRepo domain.CheckInRepo, logger *zap.Logger, interval time.Duration, forceUpdateCh chan struct{}) *Exporter {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	if forceUpdateCh == nil {
		forceUpdateCh = make(chan struct{}, 1)
	}
	e := &Exporter{
		logger:        logger,
		SheetService:  sheetService,
		CheckInRepo:   checkInRepo,
		batchSize:     defaultBatchSize,
		ticker:        time.NewTicker(interval),
		forceUpdateCh: forceUpdateCh,
		stopCh:        make(chan struct{}),
		doneCh:        make(chan struct{}),
	}
	go e.backgroundSync()
	return e
}

// Фоновая синхронизация невыгруженных проходов
func (e *Exporter) backgroundSync() {
	defer close(e.doneCh)
	for {
		select {
		case <-e.ticker.C:
			e.SyncUnsynced(context.Background())
		case <-e.forceUpdateCh:
			e.SyncUnsynced(context.Background())
		case <-e.stopCh:
			e.ticker.Stop()
			return
		}
	}
}

// SyncUnsynced выгружает все невыгруженные проходы. Возвращает число выгруженных.
// Ошибки логируются, проход остается невыгруженным до следующего раза.
func (e *Exporter) SyncUnsynced(ctx context.Context) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	checkIns, err := e.CheckInRepo.GetUnsyncedCheckIns(ctx, e.batchSize)
	if err != nil {
		e.logger.Error("error getting unsynced check-ins", zap.Error(err))
		return 0
	}

	synced := 0
	for _, checkIn := range checkIns {
		if err := e.SheetService.AppendCheckIn(ctx, checkIn); err != nil {
			e.logger.Error("error appending check-in to sheet", zap.Error(err), zap.Uint("check_in_id", checkIn.ID))
			continue
		}
		if err := e.CheckInRepo.UpdateSheetIsSynced(ctx, checkIn.ID, true); err != nil {
			e.logger.Error("error updating SheetIsSynced", zap.Error(err), zap.Uint("check_in_id", checkIn.ID))
			continue
		}
		synced++
	}
	if synced > 0 {
		e.logger.Info("check-ins exported to sheet", zap.Int("count", synced))
	}
	return synced
}

// ForceUpdate немедленно запускает синхронизацию
func (e *Exporter) ForceUpdate() {
	select {
	case e.forceUpdateCh <- struct{}{}:
	default:
	}
}

// Stop останавливает фоновую задачу и ждет завершения текущей выгрузки
func (e *Exporter) Stop() {
	e.stopOnce.Do(func() { close(e.stopCh) })
	<-e.doneCh
}
