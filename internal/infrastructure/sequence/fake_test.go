package sequence

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"backoffice/internal/infrastructure/storage/postgres"
)

type fakeRow struct {
	val int64
	err error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) > 0 {
		if ptr, ok := dest[0].(*int64); ok {
			*ptr = r.val
		}
	}
	return nil
}

// fakeDB emulates sys_sequences: each INSERT ... ON CONFLICT is applied
// atomically under mu, the way PostgreSQL applies the upsert to one row.
type fakeDB struct {
	mu       sync.Mutex
	counters map[string]int64
	// failures are returned, in order, by the next QueryRow calls
	failures []error
	calls    int
	sqls     []string
}

func newFakeDB() *fakeDB {
	return &fakeDB{counters: make(map[string]int64)}
}

func (f *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	f.sqls = append(f.sqls, sql)

	if len(f.failures) > 0 {
		err := f.failures[0]
		f.failures = f.failures[1:]
		return fakeRow{err: err}
	}
	if err := ctx.Err(); err != nil {
		return fakeRow{err: err}
	}

	name, _ := args[0].(string)
	switch {
	case strings.HasPrefix(sql, "INSERT"):
		by, _ := args[1].(int64)
		f.counters[name] += by
		return fakeRow{val: f.counters[name]}
	case strings.HasPrefix(sql, "SELECT seq"):
		v, ok := f.counters[name]
		if !ok {
			return fakeRow{err: pgx.ErrNoRows}
		}
		return fakeRow{val: v}
	}
	return fakeRow{err: errors.New("unexpected statement: " + sql)}
}

func (f *fakeDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.sqls = append(f.sqls, sql)
	return nil, errors.New("fakeDB: Query not supported")
}

func (f *fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, errors.New("fakeDB: Exec not supported")
}

func (f *fakeDB) value(name string) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counters[name]
}

func (f *fakeDB) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// stubTx marks a context as carrying a transaction. Its methods are never called.
type stubTx struct{ pgx.Tx }

// fakeTxRunner routes statements to tx while ctx carries a transaction and to pool otherwise.
type fakeTxRunner struct {
	pool *fakeDB
	tx   *fakeDB

	mu       sync.Mutex
	readOnly int
}

func newFakeTxRunner() *fakeTxRunner {
	return &fakeTxRunner{pool: newFakeDB(), tx: newFakeDB()}
}

func (r *fakeTxRunner) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if postgres.InTransaction(ctx) {
		return fn(ctx)
	}
	return fn(postgres.WithTx(ctx, stubTx{}))
}

func (r *fakeTxRunner) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	r.mu.Lock()
	r.readOnly++
	r.mu.Unlock()
	return r.RunInTransaction(ctx, fn)
}

func (r *fakeTxRunner) GetQuerier(ctx context.Context) postgres.Querier {
	if postgres.InTransaction(ctx) {
		return r.tx
	}
	return r.pool
}

func (r *fakeTxRunner) Pool() postgres.Querier {
	return r.pool
}
