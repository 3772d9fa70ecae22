// Package service orchestrates ledger operations across SQLite and AMQP.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"txtracker/internal/amqp"
	"txtracker/internal/core"
	"txtracker/internal/export"
	"txtracker/internal/ledger"
)

// Publisher announces ledger mutations on the backup queue.
type Publisher interface {
	PublishBackupSync(ctx context.Context, id int64, op string) error
	Close() error
}

// LedgerService wraps the store and notifies the backup pipeline after
// every successful mutation. Publish failures never fail the request;
// the local write already succeeded.
type LedgerService struct {
	store     *ledger.SQLiteStore
	publisher Publisher
}

func NewLedgerService(store *ledger.SQLiteStore, publisher Publisher) *LedgerService {
	return &LedgerService{
		store:     store,
		publisher: publisher,
	}
}

func (s *LedgerService) Create(ctx context.Context, tx core.Transaction) (int64, error) {
	id, err := s.store.Insert(ctx, tx)
	if err != nil {
		return 0, fmt.Errorf("save transaction: %w", err)
	}

	s.publish(ctx, id, amqp.OpCreate)
	return id, nil
}

func (s *LedgerService) List(ctx context.Context) ([]core.Transaction, error) {
	return s.store.ListLive(ctx)
}

func (s *LedgerService) Get(ctx context.Context, id int64) (core.Transaction, error) {
	return s.store.Get(ctx, id)
}

func (s *LedgerService) SoftDelete(ctx context.Context, id int64) error {
	if err := s.store.SoftDelete(ctx, id); err != nil {
		return fmt.Errorf("soft delete transaction: %w", err)
	}

	s.publish(ctx, id, amqp.OpSoftDelete)
	return nil
}

func (s *LedgerService) UndoDelete(ctx context.Context, id int64) error {
	if err := s.store.UndoDelete(ctx, id); err != nil {
		return fmt.Errorf("undo delete transaction: %w", err)
	}

	s.publish(ctx, id, amqp.OpUndoDelete)
	return nil
}

func (s *LedgerService) HardDelete(ctx context.Context, id int64) error {
	if err := s.store.HardDelete(ctx, id); err != nil {
		return fmt.Errorf("hard delete transaction: %w", err)
	}

	s.publish(ctx, id, amqp.OpHardDelete)
	return nil
}

// Count reports how many live rows the ledger holds. Used by readiness
// checks to verify the store answers queries.
func (s *LedgerService) Count(ctx context.Context) (int64, error) {
	return s.store.CountLive(ctx)
}

// Snapshot builds a backup payload from the live ledger.
func (s *LedgerService) Snapshot(ctx context.Context, now time.Time) (*export.Snapshot, error) {
	txns, err := s.store.ListLive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return export.BuildSnapshot(txns, now), nil
}

func (s *LedgerService) publish(ctx context.Context, id int64, op string) {
	if s.publisher == nil {
		slog.WarnContext(ctx, "AMQP publisher not available, skipping backup sync message", "id", id, "op", op)
		return
	}
	if err := s.publisher.PublishBackupSync(ctx, id, op); err != nil {
		slog.ErrorContext(ctx, "Failed to publish backup sync message",
			"id", id,
			"op", op,
			"error", err)
	}
}

// Close closes both storage and AMQP connections.
func (s *LedgerService) Close() error {
	var errs []error

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
	}

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %v", errs)
	}

	return nil
}
