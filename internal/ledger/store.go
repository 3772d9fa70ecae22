// Package ledger owns persistence of transaction records and the
// calendar-range aggregation queries behind the report cards.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"txtracker/internal/core"

	_ "modernc.org/sqlite"
)

// ErrStorageUnavailable wraps driver and connection failures. Callers treat it
// as fatal for the operation; the store never retries internally.
var ErrStorageUnavailable = errors.New("storage unavailable")

// ErrNotFound is returned by Get when no row has the requested id.
var ErrNotFound = errors.New("transaction not found")

// SQLiteStore is the durable transaction ledger. All mutations are single
// statements, so there is no partial-visibility window to guard against.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", storeErr(err))
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Insert validates the transaction, assigns the next id and persists it live.
// The amount is stored exactly as validated; the store never flips its sign.
func (s *SQLiteStore) Insert(ctx context.Context, tx core.Transaction) (int64, error) {
	if err := tx.Validate(); err != nil {
		return 0, err
	}

	createdAtMs := time.Now().UnixMilli()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO transactions (date, time, item, amount, note, created_at_ms, deleted)
		 VALUES (?, ?, ?, ?, ?, ?, 0)`,
		tx.Date.String(), tx.Time.String(), tx.Item, tx.Amount.Paise, tx.Note, createdAtMs)
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", storeErr(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", storeErr(err))
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", id,
		"item", tx.Item,
		"amount_paise", tx.Amount.Paise,
		"date", tx.Date.String(),
		"time", tx.Time.String())

	return id, nil
}

// ListLive returns every live transaction ordered by (date, time, id), all
// descending. The id tie-break guarantees a total order.
func (s *SQLiteStore) ListLive(ctx context.Context) ([]core.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, date, time, item, amount, note, created_at_ms
		 FROM transactions
		 WHERE deleted = 0
		 ORDER BY date DESC, time DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list live transactions: %w", storeErr(err))
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list live transactions: %w", storeErr(err))
	}
	return out, nil
}

// Get returns a single transaction by id, live or soft-deleted.
func (s *SQLiteStore) Get(ctx context.Context, id int64) (core.Transaction, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, date, time, item, amount, note, created_at_ms, deleted
		 FROM transactions WHERE id = ?`, id)

	var (
		tx              core.Transaction
		dateStr, timeStr string
		deleted         int64
	)
	err := row.Scan(&tx.ID, &dateStr, &timeStr, &tx.Item, &tx.Amount.Paise, &tx.Note, &tx.CreatedAtMs, &deleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Transaction{}, fmt.Errorf("get transaction %d: %w", id, ErrNotFound)
		}
		return core.Transaction{}, fmt.Errorf("get transaction %d: %w", id, storeErr(err))
	}
	if tx.Date, err = core.ParseDate(dateStr); err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction %d: parse date %q: %w", id, dateStr, err)
	}
	if tx.Time, err = core.ParseClockTime(timeStr); err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction %d: parse time %q: %w", id, timeStr, err)
	}
	tx.Deleted = deleted != 0
	return tx, nil
}

// SoftDelete marks the transaction deleted. Unknown ids are a no-op, and
// repeating the call leaves the row deleted exactly once.
func (s *SQLiteStore) SoftDelete(ctx context.Context, id int64) error {
	return s.setDeleted(ctx, id, 1)
}

// UndoDelete marks the transaction live again, restoring it with identical
// fields. Unknown ids are a no-op.
func (s *SQLiteStore) UndoDelete(ctx context.Context, id int64) error {
	return s.setDeleted(ctx, id, 0)
}

func (s *SQLiteStore) setDeleted(ctx context.Context, id, flag int64) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE transactions SET deleted = ? WHERE id = ?`, flag, id)
	if err != nil {
		return fmt.Errorf("set deleted=%d on transaction %d: %w", flag, id, storeErr(err))
	}
	slog.InfoContext(ctx, "Transaction delete flag updated", "id", id, "deleted", flag == 1)
	return nil
}

// HardDelete removes the row entirely. It is a direct, unconditional
// delete-by-id; already-gone ids are a no-op.
func (s *SQLiteStore) HardDelete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("hard delete transaction %d: %w", id, storeErr(err))
	}
	slog.InfoContext(ctx, "Transaction permanently deleted", "id", id)
	return nil
}

// SumInRange sums live amounts with date in [start, end). An empty range
// yields 0, never an error.
func (s *SQLiteStore) SumInRange(ctx context.Context, start, end core.Date) (int64, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0)
		 FROM transactions
		 WHERE deleted = 0 AND date >= ? AND date < ?`,
		start.String(), end.String())

	var total int64
	if err := row.Scan(&total); err != nil {
		return 0, fmt.Errorf("sum range [%s, %s): %w", start, end, storeErr(err))
	}
	return total, nil
}

// DailyTotals returns per-day live sums for the given number of days starting
// at start. Days without transactions are zero. This is the primitive both the
// weekly and monthly series reuse.
func (s *SQLiteStore) DailyTotals(ctx context.Context, start core.Date, days int) ([]int64, error) {
	end := start.AddDays(days)
	rows, err := s.db.QueryContext(ctx,
		`SELECT date, COALESCE(SUM(amount), 0) AS total
		 FROM transactions
		 WHERE deleted = 0 AND date >= ? AND date < ?
		 GROUP BY date`,
		start.String(), end.String())
	if err != nil {
		return nil, fmt.Errorf("daily totals from %s: %w", start, storeErr(err))
	}
	defer rows.Close()

	byDate := make(map[string]int64)
	for rows.Next() {
		var date string
		var total int64
		if err := rows.Scan(&date, &total); err != nil {
			return nil, fmt.Errorf("scan daily total: %w", storeErr(err))
		}
		byDate[date] = total
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("daily totals from %s: %w", start, storeErr(err))
	}

	out := make([]int64, days)
	for i := 0; i < days; i++ {
		out[i] = byDate[start.AddDays(i).String()]
	}
	return out, nil
}

// MonthlyTotals returns twelve per-month live sums for the year starting at
// yearStart. Months without transactions are zero.
func (s *SQLiteStore) MonthlyTotals(ctx context.Context, yearStart core.Date) ([]int64, error) {
	start := core.StartOfYear(yearStart)
	end := core.NewDate(start.Year()+1, 1, 1)

	rows, err := s.db.QueryContext(ctx,
		`SELECT SUBSTR(date, 1, 7) AS month, COALESCE(SUM(amount), 0) AS total
		 FROM transactions
		 WHERE deleted = 0 AND date >= ? AND date < ?
		 GROUP BY month`,
		start.String(), end.String())
	if err != nil {
		return nil, fmt.Errorf("monthly totals for %d: %w", start.Year(), storeErr(err))
	}
	defer rows.Close()

	byMonth := make(map[string]int64)
	for rows.Next() {
		var month string
		var total int64
		if err := rows.Scan(&month, &total); err != nil {
			return nil, fmt.Errorf("scan monthly total: %w", storeErr(err))
		}
		byMonth[month] = total
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("monthly totals for %d: %w", start.Year(), storeErr(err))
	}

	out := make([]int64, 12)
	for m := 1; m <= 12; m++ {
		out[m-1] = byMonth[fmt.Sprintf("%04d-%02d", start.Year(), m)]
	}
	return out, nil
}

// CountLive returns the number of live transactions; used by readiness checks.
func (s *SQLiteStore) CountLive(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transactions WHERE deleted = 0`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count live transactions: %w", storeErr(err))
	}
	return n, nil
}

func scanTransaction(rows *sql.Rows) (core.Transaction, error) {
	var (
		tx               core.Transaction
		dateStr, timeStr string
	)
	if err := rows.Scan(&tx.ID, &dateStr, &timeStr, &tx.Item, &tx.Amount.Paise, &tx.Note, &tx.CreatedAtMs); err != nil {
		return core.Transaction{}, storeErr(err)
	}
	var err error
	if tx.Date, err = core.ParseDate(dateStr); err != nil {
		return core.Transaction{}, fmt.Errorf("parse date %q: %w", dateStr, err)
	}
	if tx.Time, err = core.ParseClockTime(timeStr); err != nil {
		return core.Transaction{}, fmt.Errorf("parse time %q: %w", timeStr, err)
	}
	return tx, nil
}

func storeErr(err error) error {
	return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
}
