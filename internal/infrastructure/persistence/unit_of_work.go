package persistence

import (
	"context"

	"github.com/spark7/backoffice/internal/domain/shared"
	"gorm.io/gorm"
)

type txContextKey struct{}

// GormUnitOfWork implements shared.UnitOfWork using GORM transactions.
// The open transaction travels through the context; repositories built on
// txAwareDB pick it up transparently, so application services stay free of
// persistence concerns.
type GormUnitOfWork struct {
	db *gorm.DB
}

// NewGormUnitOfWork creates a new GormUnitOfWork
func NewGormUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	return &GormUnitOfWork{db: db}
}

// WithTransaction runs fn inside one transaction. Calls nested inside an
// already-open transaction join it instead of opening a second one, so a
// service can compose other transactional services safely.
func (u *GormUnitOfWork) WithTransaction(ctx context.Context, fn func(txCtx context.Context) error) error {
	if txFromContext(ctx) != nil {
		return fn(ctx)
	}
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txContextKey{}, tx))
	})
}

// txFromContext returns the transaction carried by ctx, or nil
func txFromContext(ctx context.Context) *gorm.DB {
	tx, _ := ctx.Value(txContextKey{}).(*gorm.DB)
	return tx
}

// txAwareDB resolves the DB handle for a repository call: the context's open
// transaction when present, the root handle otherwise.
type txAwareDB struct {
	db *gorm.DB
}

func (t txAwareDB) session(ctx context.Context) *gorm.DB {
	if tx := txFromContext(ctx); tx != nil {
		return tx.WithContext(ctx)
	}
	return t.db.WithContext(ctx)
}

// Ensure GormUnitOfWork implements UnitOfWork
var _ shared.UnitOfWork = (*GormUnitOfWork)(nil)
