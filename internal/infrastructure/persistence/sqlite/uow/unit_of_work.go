package uow

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"conferencehall/internal/ports"
)

// UnitOfWork implements ports.UnitOfWork with gorm.
type UnitOfWork struct {
	db *gorm.DB
}

var _ ports.UnitOfWork = (*UnitOfWork)(nil)

func NewUnitOfWork(db *gorm.DB) *UnitOfWork {
	return &UnitOfWork{db: db}
}

// WithTx runs fn in a transaction. A context already carrying a transaction
// joins it, so the outermost caller owns commit and rollback.
func (u *UnitOfWork) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx == nil {
		return errors.New("context is required")
	}

	if existing := ports.TxFromContext(ctx); existing != nil {
		if _, ok := existing.(*gorm.DB); !ok {
			return fmt.Errorf("invalid tx in context: %T", existing)
		}
		return fn(ctx)
	}

	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ports.WithTxContext(ctx, tx))
	})
}
