package testutil

import (
	"context"
	"sync"

	"github.com/tutorbook/tutorbook/internal/logger"
	"github.com/tutorbook/tutorbook/internal/postgres"
	"github.com/tutorbook/tutorbook/internal/types"
)

var _ postgres.IClient = (*MockPostgresClient)(nil) // Ensure MockPostgresClient implements IClient

// MockTx is the transaction the in-memory stores write through. Writes
// register undo steps which run in reverse order on rollback, locks
// register release funcs which run when the transaction ends either way.
type MockTx struct {
	ID string

	mu      sync.Mutex
	undo    []func()
	release []func()
	held    map[string]bool
}

// TxFromContext returns the mock transaction of ctx, nil outside WithTx
func TxFromContext(ctx context.Context) *MockTx {
	if tx, ok := ctx.Value(types.CtxDBTransaction).(*MockTx); ok {
		return tx
	}
	return nil
}

// recordUndo registers fn to run if the surrounding transaction rolls back.
// Outside a transaction writes are final.
func recordUndo(ctx context.Context, fn func()) {
	tx := TxFromContext(ctx)
	if tx == nil {
		return
	}
	tx.mu.Lock()
	defer tx.mu.Unlock()
	tx.undo = append(tx.undo, fn)
}

// holds reports whether the transaction already holds the lock named key
func (tx *MockTx) holds(key string) bool {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	return tx.held[key]
}

// keep marks the lock named key as held until the transaction ends
func (tx *MockTx) keep(key string, release func()) {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	if tx.held == nil {
		tx.held = make(map[string]bool)
	}
	tx.held[key] = true
	tx.release = append(tx.release, release)
}

func (tx *MockTx) finish(commit bool) {
	tx.mu.Lock()
	undo, release := tx.undo, tx.release
	tx.undo, tx.release, tx.held = nil, nil, nil
	tx.mu.Unlock()

	if !commit {
		for i := len(undo) - 1; i >= 0; i-- {
			undo[i]()
		}
	}
	for _, fn := range release {
		fn()
	}
}

// MockPostgresClient is a mock implementation of postgres client for testing
type MockPostgresClient struct {
	logger *logger.Logger

	mu        sync.Mutex
	commits   int
	rollbacks int
}

// NewMockPostgresClient creates a new mock postgres client
func NewMockPostgresClient(logger *logger.Logger) *MockPostgresClient {
	return &MockPostgresClient{
		logger: logger,
	}
}

// WithTx executes fn within a transaction. Nested calls join the outer
// transaction.
func (c *MockPostgresClient) WithTx(ctx context.Context, fn func(context.Context) error) (err error) {
	if tx := TxFromContext(ctx); tx != nil {
		return fn(ctx)
	}

	tx := &MockTx{ID: types.GenerateUUID()}
	txCtx := context.WithValue(ctx, types.CtxDBTransaction, tx)

	defer func() {
		if r := recover(); r != nil {
			tx.finish(false)
			c.count(false)
			panic(r)
		}
	}()

	if err = fn(txCtx); err != nil {
		c.logger.Debugw("mock transaction rolled back", "tx_id", tx.ID, "error", err)
		tx.finish(false)
		c.count(false)
		return err
	}

	tx.finish(true)
	c.count(true)
	return nil
}

func (c *MockPostgresClient) count(commit bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if commit {
		c.commits++
	} else {
		c.rollbacks++
	}
}

// Commits is the number of committed top level transactions
func (c *MockPostgresClient) Commits() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.commits
}

// Rollbacks is the number of rolled back top level transactions
func (c *MockPostgresClient) Rollbacks() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rollbacks
}
