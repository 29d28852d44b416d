// Package postgres keeps scope data in PostgreSQL through GORM.
package postgres

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// txRunner runs a callback inside one database transaction.
type txRunner struct {
	db *gorm.DB
}

func newTxRunner(db *gorm.DB) *txRunner {
	return &txRunner{db: db}
}

// Execute commits when fn returns nil and rolls back otherwise, including on panic.
func (r *txRunner) Execute(ctx context.Context, fn func(tx *gorm.DB) error) error {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return errors.Wrap(tx.Error, "failed to begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback().Error; rbErr != nil {
			return errors.Wrapf(err, "transaction rollback failed: %v", rbErr)
		}

		return err
	}

	return errors.Wrap(tx.Commit().Error, "failed to commit transaction")
}
