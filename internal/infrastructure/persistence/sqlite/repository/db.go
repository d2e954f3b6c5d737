package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"conferencehall/internal/ports"
)

// conn returns the transaction carried by ctx, or db when there is none.
func conn(ctx context.Context, db *gorm.DB) (*gorm.DB, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	tx := ports.TxFromContext(ctx)
	if tx == nil {
		return db.WithContext(ctx), nil
	}

	gormTx, ok := tx.(*gorm.DB)
	if !ok || gormTx == nil {
		return nil, fmt.Errorf("invalid tx in context: %T", tx)
	}
	return gormTx.WithContext(ctx), nil
}

// txConn is conn for operations that must not run outside a transaction.
func txConn(ctx context.Context) (*gorm.DB, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	tx := ports.TxFromContext(ctx)
	if tx == nil {
		return nil, ports.ErrNoTransaction
	}

	gormTx, ok := tx.(*gorm.DB)
	if !ok || gormTx == nil {
		return nil, fmt.Errorf("invalid tx in context: %T", tx)
	}
	return gormTx.WithContext(ctx), nil
}

// searchKey is the folded form stored next to searchable text. SQLite's
// LOWER only folds ASCII, so folding happens here for every script.
func searchKey(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// likePattern builds a substring pattern over searchKey columns, escaped with '!'.
func likePattern(query string) string {
	escaped := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(searchKey(query))
	return "%" + escaped + "%"
}
