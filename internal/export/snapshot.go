// Package export builds JSON snapshots of the live ledger and uploads
// them to Google Drive for off-device backup.
package export

import (
	"encoding/json"
	"fmt"
	"time"

	"txtracker/internal/core"
)

// SnapshotTransaction is the wire form of a single ledger row.
type SnapshotTransaction struct {
	ID        int64  `json:"id"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Item      string `json:"item"`
	Amount    int64  `json:"amount"`
	Note      string `json:"note"`
	CreatedAt int64  `json:"created_at"`
}

// Snapshot is the full backup payload written to Drive.
type Snapshot struct {
	ExportedAt   int64                 `json:"exported_at"`
	Transactions []SnapshotTransaction `json:"transactions"`
}

// BuildSnapshot converts live transactions into a backup payload stamped
// with the current time in unix seconds.
func BuildSnapshot(txns []core.Transaction, now time.Time) *Snapshot {
	out := make([]SnapshotTransaction, 0, len(txns))
	for _, tx := range txns {
		out = append(out, SnapshotTransaction{
			ID:        tx.ID,
			Date:      tx.Date.String(),
			Time:      tx.Time.String(),
			Item:      tx.Item,
			Amount:    tx.Amount.Paise,
			Note:      tx.Note,
			CreatedAt: tx.CreatedAtMs,
		})
	}
	return &Snapshot{
		ExportedAt:   now.Unix(),
		Transactions: out,
	}
}

// FileName returns the dated backup file name, one per calendar day.
func FileName(day time.Time) string {
	return fmt.Sprintf("TxTracker_sync_%s.json", day.Format("2006-01-02"))
}

func (s *Snapshot) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return data, nil
}
