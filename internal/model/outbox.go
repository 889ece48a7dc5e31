package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Synced table names. Every outbox payload is tagged with one of these so the
// push reconciler can decode it into the concrete row type.
const (
	TableReferences   = "part_references"
	TableInventoryLog = "inventory_log"
	TableProduction   = "production"
)

type Operation string

const (
	OpInsert Operation = "INSERT"
	OpUpdate Operation = "UPDATE"
	OpDelete Operation = "DELETE"
)

type SyncStatus string

const (
	StatusPending SyncStatus = "PENDING"
	StatusSynced  SyncStatus = "SYNCED"
	StatusFailed  SyncStatus = "FAILED"
)

// Row is the union of the three synced row types. PrimaryKey returns the
// column/value matcher the remote store uses for UPDATE and DELETE.
type Row interface {
	PrimaryKey() map[string]string
	TableName() string
}

// OutboxOperation is one queued local mutation awaiting transmission to the
// remote store. Rows are created alongside every local write and removed once
// the push reconciler confirms them; the queue is the only channel through
// which local changes become visible remotely.
type OutboxOperation struct {
	ID        uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	Table     string          `gorm:"column:table_name;not null" json:"table"`
	Operation Operation       `gorm:"not null" json:"operation"`
	Payload   json.RawMessage `gorm:"not null" json:"payload"`
	Status    SyncStatus      `gorm:"index;not null;default:'PENDING'" json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}

func (OutboxOperation) TableName() string { return "sync_queue" }

// NewOutboxOperation wraps a row mutation as a pending queue entry.
func NewOutboxOperation(op Operation, row Row) (*OutboxOperation, error) {
	payload, err := json.Marshal(row)
	if err != nil {
		return nil, fmt.Errorf("outbox: marshal %s payload: %w", row.TableName(), err)
	}
	return &OutboxOperation{
		Table:     row.TableName(),
		Operation: op,
		Payload:   payload,
		Status:    StatusPending,
		CreatedAt: time.Now(),
	}, nil
}

// DecodeRow unmarshals the payload into the concrete row type for the tagged
// table. DELETE payloads may carry only the primary key; the remaining fields
// decode to zero values, which is enough for key matching.
func (op *OutboxOperation) DecodeRow() (Row, error) {
	switch op.Table {
	case TableReferences:
		var r PartReference
		if err := json.Unmarshal(op.Payload, &r); err != nil {
			return nil, fmt.Errorf("outbox: decode %s: %w", op.Table, err)
		}
		return &r, nil
	case TableInventoryLog:
		var e InventoryLogEntry
		if err := json.Unmarshal(op.Payload, &e); err != nil {
			return nil, fmt.Errorf("outbox: decode %s: %w", op.Table, err)
		}
		return &e, nil
	case TableProduction:
		var p ProductionRecord
		if err := json.Unmarshal(op.Payload, &p); err != nil {
			return nil, fmt.Errorf("outbox: decode %s: %w", op.Table, err)
		}
		return &p, nil
	default:
		return nil, fmt.Errorf("outbox: unknown table %q", op.Table)
	}
}
