package ledger

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"txtracker/internal/core"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "txtracker.sqlite3"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func mustInsert(t *testing.T, store *SQLiteStore, date string, clock string, item string, paise int64) int64 {
	t.Helper()
	d, err := core.ParseDate(date)
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	ct, err := core.ParseClockTime(clock)
	if err != nil {
		t.Fatalf("parse time: %v", err)
	}
	id, err := store.Insert(context.Background(), core.Transaction{
		Date:   d,
		Time:   ct,
		Item:   item,
		Amount: core.Money{Paise: paise},
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	return id
}

func TestInsertValidation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Insert(ctx, core.Transaction{
		Date:   core.NewDate(2024, 6, 15),
		Time:   core.NewClockTime(10, 0),
		Item:   "",
		Amount: core.Money{Paise: 100},
	})
	if !errors.Is(err, core.ErrEmptyItem) {
		t.Fatalf("expected ErrEmptyItem, got %v", err)
	}

	_, err = store.Insert(ctx, core.Transaction{
		Date:   core.NewDate(2024, 6, 15),
		Time:   core.NewClockTime(10, 0),
		Item:   "tea",
		Amount: core.Money{Paise: 0},
	})
	if !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestListLiveOrdering(t *testing.T) {
	store := newTestStore(t)

	// Inserted out of order on purpose; same date+time rows tie-break on id.
	mustInsert(t, store, "2024-06-14", "09:00", "coffee", 200)
	first := mustInsert(t, store, "2024-06-15", "12:30", "lunch", 1500)
	second := mustInsert(t, store, "2024-06-15", "12:30", "dessert", 500)
	mustInsert(t, store, "2024-06-15", "08:00", "breakfast", 800)

	txns, err := store.ListLive(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txns) != 4 {
		t.Fatalf("expected 4 transactions, got %d", len(txns))
	}

	// (date desc, time desc, id desc): the later id wins the 12:30 tie.
	wantItems := []string{"dessert", "lunch", "breakfast", "coffee"}
	for i, want := range wantItems {
		if txns[i].Item != want {
			t.Fatalf("position %d = %q, want %q", i, txns[i].Item, want)
		}
	}
	if txns[0].ID != second || txns[1].ID != first {
		t.Fatalf("tie-break order wrong: got ids %d, %d", txns[0].ID, txns[1].ID)
	}
}

func TestSoftDeleteUndoSymmetry(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id := mustInsert(t, store, "2024-06-15", "12:30", "lunch", 1500)

	before, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if err := store.SoftDelete(ctx, id); err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	txns, err := store.ListLive(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txns) != 0 {
		t.Fatalf("expected empty live list, got %d", len(txns))
	}
	sum, err := store.SumInRange(ctx, core.NewDate(2024, 6, 15), core.NewDate(2024, 6, 16))
	if err != nil {
		t.Fatalf("sum: %v", err)
	}
	if sum != 0 {
		t.Fatalf("deleted transaction still counted: %d", sum)
	}

	if err := store.UndoDelete(ctx, id); err != nil {
		t.Fatalf("undo: %v", err)
	}
	after, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("get after undo: %v", err)
	}
	if after != before {
		t.Fatalf("undo changed fields: %+v != %+v", after, before)
	}
	sum, err = store.SumInRange(ctx, core.NewDate(2024, 6, 15), core.NewDate(2024, 6, 16))
	if err != nil {
		t.Fatalf("sum after undo: %v", err)
	}
	if sum != 1500 {
		t.Fatalf("expected 1500 after undo, got %d", sum)
	}
}

func TestSoftDeleteIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id := mustInsert(t, store, "2024-06-15", "12:30", "lunch", 1500)
	if err := store.SoftDelete(ctx, id); err != nil {
		t.Fatalf("first soft delete: %v", err)
	}
	if err := store.SoftDelete(ctx, id); err != nil {
		t.Fatalf("second soft delete: %v", err)
	}
	if err := store.SoftDelete(ctx, 9999); err != nil {
		t.Fatalf("soft delete of unknown id should be a no-op: %v", err)
	}
	txns, err := store.ListLive(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txns) != 0 {
		t.Fatalf("expected empty list, got %d", len(txns))
	}
}

func TestHardDeleteIsPermanent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id := mustInsert(t, store, "2024-06-15", "12:30", "lunch", 1500)
	if err := store.SoftDelete(ctx, id); err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	if err := store.HardDelete(ctx, id); err != nil {
		t.Fatalf("hard delete: %v", err)
	}
	// Undo after hard delete must not resurrect the row.
	if err := store.UndoDelete(ctx, id); err != nil {
		t.Fatalf("undo after hard delete: %v", err)
	}
	txns, err := store.ListLive(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, tx := range txns {
		if tx.ID == id {
			t.Fatalf("hard-deleted id %d came back", id)
		}
	}
	// Repeating the hard delete is a no-op.
	if err := store.HardDelete(ctx, id); err != nil {
		t.Fatalf("second hard delete: %v", err)
	}
}

func TestDailyTotalsZeroFill(t *testing.T) {
	store := newTestStore(t)

	start := core.NewDate(2024, 6, 9)
	mustInsert(t, store, "2024-06-11", "10:00", "groceries", 300)
	mustInsert(t, store, "2024-06-11", "18:00", "snacks", 200)

	totals, err := store.DailyTotals(context.Background(), start, 7)
	if err != nil {
		t.Fatalf("daily totals: %v", err)
	}
	want := []int64{0, 0, 500, 0, 0, 0, 0}
	if len(totals) != len(want) {
		t.Fatalf("length %d, want %d", len(totals), len(want))
	}
	for i := range want {
		if totals[i] != want[i] {
			t.Fatalf("totals[%d] = %d, want %d", i, totals[i], want[i])
		}
	}
}

func TestMonthlyTotals(t *testing.T) {
	store := newTestStore(t)

	mustInsert(t, store, "2024-01-01", "10:00", "new year", 1000)
	mustInsert(t, store, "2024-06-15", "10:00", "lunch", 500)
	mustInsert(t, store, "2024-06-20", "10:00", "dinner", 700)
	mustInsert(t, store, "2023-12-31", "23:00", "outside year", 9999)

	totals, err := store.MonthlyTotals(context.Background(), core.NewDate(2024, 1, 1))
	if err != nil {
		t.Fatalf("monthly totals: %v", err)
	}
	if len(totals) != 12 {
		t.Fatalf("expected 12 entries, got %d", len(totals))
	}
	if totals[0] != 1000 || totals[5] != 1200 {
		t.Fatalf("got Jan=%d Jun=%d", totals[0], totals[5])
	}
	for _, m := range []int{1, 2, 3, 4, 6, 7, 8, 9, 10, 11} {
		if totals[m] != 0 {
			t.Fatalf("month index %d should be 0, got %d", m, totals[m])
		}
	}
}

func TestSumInRangeEmptyRange(t *testing.T) {
	store := newTestStore(t)
	sum, err := store.SumInRange(context.Background(), core.NewDate(2024, 6, 1), core.NewDate(2024, 6, 1))
	if err != nil {
		t.Fatalf("sum: %v", err)
	}
	if sum != 0 {
		t.Fatalf("empty range should sum to 0, got %d", sum)
	}
}
