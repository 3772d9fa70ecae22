package amqp

import (
	"encoding/json"
	"time"
)

// Ledger operations announced on the backup queue.
const (
	OpCreate     = "create"
	OpSoftDelete = "soft_delete"
	OpUndoDelete = "undo_delete"
	OpHardDelete = "hard_delete"
)

// BackupSyncMessage is a lightweight notification that the ledger changed.
// It carries only the transaction id and the operation; the worker rebuilds
// the full snapshot from the store, so stale messages are harmless.
type BackupSyncMessage struct {
	ID        int64     `json:"id"`
	Op        string    `json:"op"`
	Timestamp time.Time `json:"timestamp"`
}

// NewBackupSyncMessage creates a message for the given transaction and operation.
func NewBackupSyncMessage(id int64, op string) *BackupSyncMessage {
	return &BackupSyncMessage{
		ID:        id,
		Op:        op,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *BackupSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// BackupSyncMessageFromJSON creates a message from JSON bytes.
func BackupSyncMessageFromJSON(data []byte) (*BackupSyncMessage, error) {
	var msg BackupSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
