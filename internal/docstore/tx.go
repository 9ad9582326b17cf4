package docstore

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type contextKey string

const txKey contextKey = "docstore_tx"

// runInTx runs fn inside a database transaction carried by the context. A
// transaction already on ctx is continued with a savepoint.
func runInTx(ctx context.Context, db *gorm.DB, fn func(txCtx context.Context) error) error {
	return getDB(ctx, db).Transaction(func(tx *gorm.DB) error {
		txCtx := context.WithValue(ctx, txKey, tx)
		return fn(txCtx)
	})
}

// getDB extracts the transaction DB from context if present, otherwise returns root DB.
func getDB(ctx context.Context, rootDB *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return rootDB.WithContext(ctx)
}

// lockingDB is getDB for reads that a transaction will act on: inside a
// transaction the selected rows stay locked until it ends. SQLite has no row
// locks and already serializes writers.
func lockingDB(ctx context.Context, rootDB *gorm.DB) *gorm.DB {
	db := getDB(ctx, rootDB)
	if _, inTx := ctx.Value(txKey).(*gorm.DB); !inTx || db.Dialector.Name() == "sqlite" {
		return db
	}
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}
