package sequence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncrementQuery_SQL(t *testing.T) {
	sql, args, err := incrementQuery(DefaultTable, "invoice-serial", 3)
	require.NoError(t, err)

	assert.Equal(t,
		"INSERT INTO sys_sequences (name,seq) VALUES ($1,$2) "+
			"ON CONFLICT (name) DO UPDATE SET seq = sys_sequences.seq + EXCLUDED.seq, updated_at = now() RETURNING seq",
		sql)
	assert.Equal(t, []any{"invoice-serial", int64(3)}, args)
}

func TestCurrentQuery_SQL(t *testing.T) {
	sql, args, err := currentQuery(DefaultTable, "invoice-serial")
	require.NoError(t, err)

	assert.Equal(t, "SELECT seq FROM sys_sequences WHERE name = $1", sql)
	assert.Equal(t, []any{"invoice-serial"}, args)
}

func TestListQuery_SQL(t *testing.T) {
	sql, args, err := listQuery(DefaultTable, "")
	require.NoError(t, err)
	assert.Equal(t, "SELECT name, seq, created_at, updated_at FROM sys_sequences ORDER BY name", sql)
	assert.Empty(t, args)

	sql, args, err = listQuery(DefaultTable, "INV_")
	require.NoError(t, err)
	assert.Equal(t, "SELECT name, seq, created_at, updated_at FROM sys_sequences WHERE name LIKE $1 ORDER BY name", sql)
	assert.Equal(t, []any{`INV\_%`}, args)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `a\%b\_c\\d`, escapeLike(`a%b_c\d`))
}
