package repository

import (
	"context"

	"idportal/internal/docstore"
)

// TransactionManager manages store transactions via context injection.
type TransactionManager interface {
	RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error
}

type transactionManager struct {
	store docstore.Store
}

func NewTransactionManager(store docstore.Store) TransactionManager {
	return &transactionManager{store: store}
}

func (t *transactionManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return t.store.RunInTx(ctx, fn)
}
