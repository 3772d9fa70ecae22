// Package worker drives Drive backups off the AMQP backup-sync queue.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"txtracker/internal/amqp"
	"txtracker/internal/export"
)

const (
	DefaultDebounce       = 10 * time.Second
	DefaultUploadInterval = 6 * time.Hour
)

// Snapshotter builds a backup payload of the live ledger.
type Snapshotter interface {
	Snapshot(ctx context.Context, now time.Time) (*export.Snapshot, error)
}

// BackupWorker consumes backup-sync messages and uploads ledger snapshots
// to Drive. Bursts of mutations are debounced into one upload; a periodic
// safety-net upload covers lost messages; a month-end check mirrors the
// twice-daily auto-sync slots.
type BackupWorker struct {
	ledger   Snapshotter
	uploader export.Uploader
	debounce time.Duration
	interval time.Duration
	now      func() time.Time

	mu              sync.Mutex
	dirtyAt         time.Time // last mutation seen, zero when clean
	lastAutoSyncKey string
}

func NewBackupWorker(ledger Snapshotter, uploader export.Uploader, debounce, interval time.Duration) *BackupWorker {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if interval <= 0 {
		interval = DefaultUploadInterval
	}
	return &BackupWorker{
		ledger:   ledger,
		uploader: uploader,
		debounce: debounce,
		interval: interval,
		now:      time.Now,
	}
}

// HandleBackupSyncMessage records that the ledger changed. The actual
// upload happens from Run once the burst settles.
func (w *BackupWorker) HandleBackupSyncMessage(msg *amqp.BackupSyncMessage) error {
	w.mu.Lock()
	w.dirtyAt = w.now()
	w.mu.Unlock()

	slog.Info("Ledger mutation queued for backup",
		"id", msg.ID,
		"op", msg.Op)
	return nil
}

// Run flushes debounced uploads, fires the periodic safety net, and checks
// the month-end auto-sync slots until ctx is cancelled.
func (w *BackupWorker) Run(ctx context.Context) error {
	flush := time.NewTicker(time.Second)
	defer flush.Stop()
	safety := time.NewTicker(w.interval)
	defer safety.Stop()
	monthEnd := time.NewTicker(time.Minute)
	defer monthEnd.Stop()

	slog.InfoContext(ctx, "Backup worker started",
		"debounce", w.debounce,
		"interval", w.interval)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Backup worker stopping", "reason", ctx.Err())
			return ctx.Err()
		case <-flush.C:
			w.flushIfQuiet(ctx)
		case <-safety.C:
			if err := w.upload(ctx, "periodic"); err != nil {
				slog.ErrorContext(ctx, "Periodic backup failed", "error", err)
			}
		case <-monthEnd.C:
			w.autoSyncIfDue(ctx)
		}
	}
}

// flushIfQuiet uploads once no mutation has arrived for the debounce window.
// On failure the dirty mark stays so the next tick retries.
func (w *BackupWorker) flushIfQuiet(ctx context.Context) {
	w.mu.Lock()
	dirtyAt := w.dirtyAt
	w.mu.Unlock()

	if dirtyAt.IsZero() || w.now().Sub(dirtyAt) < w.debounce {
		return
	}

	if err := w.upload(ctx, "debounced"); err != nil {
		slog.ErrorContext(ctx, "Debounced backup failed", "error", err)
		return
	}

	w.mu.Lock()
	// Keep the mark if a new mutation landed during the upload.
	if w.dirtyAt.Equal(dirtyAt) {
		w.dirtyAt = time.Time{}
	}
	w.mu.Unlock()
}

// autoSyncIfDue uploads on the last day of the month at 11:00 and 23:00,
// at most once per slot.
func (w *BackupWorker) autoSyncIfDue(ctx context.Context) {
	now := w.now()

	if now.AddDate(0, 0, 1).Month() == now.Month() {
		return
	}
	if now.Minute() != 0 {
		return
	}
	if now.Hour() != 11 && now.Hour() != 23 {
		return
	}

	slot := "am"
	if now.Hour() == 23 {
		slot = "pm"
	}
	key := fmt.Sprintf("%s-%s", now.Format("2006-01-02"), slot)

	w.mu.Lock()
	if w.lastAutoSyncKey == key {
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	if err := w.upload(ctx, "month-end"); err != nil {
		slog.ErrorContext(ctx, "Month-end backup failed", "error", err, "slot", key)
		return
	}

	w.mu.Lock()
	w.lastAutoSyncKey = key
	w.mu.Unlock()
}

func (w *BackupWorker) upload(ctx context.Context, reason string) error {
	now := w.now()

	snap, err := w.ledger.Snapshot(ctx, now)
	if err != nil {
		return fmt.Errorf("build snapshot: %w", err)
	}

	ref, err := w.uploader.Upload(ctx, snap, now)
	if err != nil {
		return fmt.Errorf("upload snapshot: %w", err)
	}

	slog.InfoContext(ctx, "Uploaded ledger backup",
		"reason", reason,
		"file_ref", ref,
		"transactions", len(snap.Transactions))
	return nil
}
