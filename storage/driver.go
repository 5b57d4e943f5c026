// Package storage provides the persistence layer that sits beneath the
// schema engine: Collection binds a compiled *schema.Schema to a Driver and
// exposes CRUD operations that run documents through the schema's getter,
// setter, and query/update/sort pipelines before and after they touch
// storage.
package storage

import "context"

// Transaction defines the contract for grouping storage mutations so they
// commit or roll back atomically.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Driver defines the contract every storage backend must satisfy.
// Collection drives persistence exclusively through this interface, so a
// MemoryDriver and a FileDriver are interchangeable beneath it.
type Driver interface {
	Connect(ctx context.Context) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error

	Transaction(ctx context.Context) (Transaction, error)

	Insert(ctx context.Context, collection string, docs ...map[string]any) error
	FindOne(ctx context.Context, collection string, match func(map[string]any) bool) (map[string]any, error)
	FindMany(ctx context.Context, collection string, match func(map[string]any) bool) ([]map[string]any, error)
	UpdateMany(ctx context.Context, collection string, match func(map[string]any) bool, apply func(map[string]any) error) (int, error)
	DeleteMany(ctx context.Context, collection string, match func(map[string]any) bool) (int, error)
	Count(ctx context.Context, collection string, match func(map[string]any) bool) (int64, error)
}

// transactionKey is the context key under which a Transaction is stashed by
// WithTransaction. Using a private struct type avoids collisions with
// unrelated context values.
type transactionKey struct{}

// WithTransaction injects tx into ctx for later retrieval by TransactionFrom.
func WithTransaction(ctx context.Context, tx Transaction) context.Context {
	return context.WithValue(ctx, transactionKey{}, tx)
}

// TransactionFrom extracts a Transaction from ctx, if one was attached by
// WithTransaction.
func TransactionFrom(ctx context.Context) Transaction {
	tx, _ := ctx.Value(transactionKey{}).(Transaction)
	return tx
}

// TransactionFunc is the callback signature for RunTransaction.
type TransactionFunc func(txCtx context.Context) error

// RunTransaction starts a transaction on driver, runs fn with it attached to
// the context, and commits on success or rolls back on error.
func RunTransaction(ctx context.Context, driver Driver, fn TransactionFunc) error {
	tx, err := driver.Transaction(ctx)
	if err != nil {
		return err
	}
	txCtx := WithTransaction(ctx, tx)
	if err := fn(txCtx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}
