// Package store is the device-local durable store. It owns the SQLite file
// exclusively; the remote store only ever sees its contents through the sync
// queue (push) or overwrites it through bulk upserts (pull).
package store

import (
	"errors"
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/froma1976/ailogistic/internal/model"
)

// ErrConflict is returned on a local constraint violation (primary-key
// collision on insert). Callers wanting merge behavior must use explicit
// update-or-insert semantics; the store never merges silently.
var ErrConflict = errors.New("store: constraint violation")

// Open connects to the SQLite database at path (created if missing) and
// migrates the four tables. The pure-Go driver keeps the agent free of cgo so
// it cross-compiles for whatever box sits next to the production line.
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}

	if err := db.AutoMigrate(
		&model.PartReference{},
		&model.InventoryLogEntry{},
		&model.ProductionRecord{},
		&model.OutboxOperation{},
	); err != nil {
		return nil, fmt.Errorf("store: migrate: %w", err)
	}
	return db, nil
}

// translate maps GORM's portable errors onto the store taxonomy.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}
