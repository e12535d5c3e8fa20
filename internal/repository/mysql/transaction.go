package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/Guyuepp/Go-Comment-Moderation/domain"
)

type txKey struct{}

type transactor struct {
	DB *gorm.DB
}

var _ domain.Transactor = (*transactor)(nil)

// NewTransactor creates a gorm backed unit of work
func NewTransactor(db *gorm.DB) *transactor {
	return &transactor{DB: db}
}

// WithinTransaction joins an already open transaction instead of nesting one.
func (t *transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return t.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// conn returns the transaction carried by ctx, or db otherwise.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}
