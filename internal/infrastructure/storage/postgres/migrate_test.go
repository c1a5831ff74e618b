package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type execRecorder struct {
	stmts []string
	err   error
}

func (r *execRecorder) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	r.stmts = append(r.stmts, sql)
	return pgconn.CommandTag{}, r.err
}

func (r *execRecorder) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("not supported")
}

func (r *execRecorder) QueryRow(context.Context, string, ...any) pgx.Row {
	return nil
}

func TestMigrate_AppliesSchema(t *testing.T) {
	db := &execRecorder{}

	require.NoError(t, Migrate(context.Background(), db))
	require.NotEmpty(t, db.stmts)
	assert.Contains(t, db.stmts[0], "CREATE TABLE IF NOT EXISTS sys_sequences")
	assert.Contains(t, db.stmts[0], "name")
	assert.Contains(t, db.stmts[0], "seq")
}

func TestMigrate_IsRepeatable(t *testing.T) {
	db := &execRecorder{}

	require.NoError(t, Migrate(context.Background(), db))
	first := len(db.stmts)
	require.NoError(t, Migrate(context.Background(), db))
	assert.Equal(t, first*2, len(db.stmts))
}

func TestMigrate_StopsOnError(t *testing.T) {
	db := &execRecorder{err: errors.New("permission denied")}

	err := Migrate(context.Background(), db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "apply migration")
	assert.Len(t, db.stmts, 1)
}
