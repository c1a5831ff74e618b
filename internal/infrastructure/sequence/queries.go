package sequence

import (
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
)

// DefaultTable is the table holding one row per named counter.
const DefaultTable = "sys_sequences"

// builder returns a new squirrel builder with PostgreSQL placeholder format.
func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// incrementQuery builds the single-statement read-increment-write.
// The insert branch creates the row with seq = by, the conflict branch adds by
// to the stored value. Both return the post-increment value.
func incrementQuery(table, name string, by int64) (string, []any, error) {
	return builder().
		Insert(table).
		Columns("name", "seq").
		Values(name, by).
		Suffix(fmt.Sprintf(
			"ON CONFLICT (name) DO UPDATE SET seq = %s.seq + EXCLUDED.seq, updated_at = now() RETURNING seq",
			table,
		)).
		ToSql()
}

// currentQuery reads the last allocated value without locking the row.
func currentQuery(table, name string) (string, []any, error) {
	return builder().
		Select("seq").
		From(table).
		Where(squirrel.Eq{"name": name}).
		ToSql()
}

// listQuery selects counters by name prefix.
func listQuery(table, prefix string) (string, []any, error) {
	q := builder().
		Select("name", "seq", "created_at", "updated_at").
		From(table).
		OrderBy("name")
	if prefix != "" {
		q = q.Where(squirrel.Like{"name": escapeLike(prefix) + "%"})
	}
	return q.ToSql()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes prefix match literally inside a LIKE pattern.
func escapeLike(prefix string) string {
	return likeEscaper.Replace(prefix)
}
