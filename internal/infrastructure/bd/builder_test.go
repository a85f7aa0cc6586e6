package bd

import (
	"testing"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dorm-portal/pkg/types"
)

func TestApplyListParams(t *testing.T) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	filter := types.Filter{
		Filter:         map[string]interface{}{"action": "a,b", "hacker": "1; DROP TABLE"},
		Sort:           map[string]string{"created_at": "desc"},
		Limit:          10,
		Offset:         20,
		WithPagination: true,
	}
	allowed := map[string]string{"action": "l.action", "created_at": "l.created_at"}

	query, args, err := ApplyListParams(psql.Select("*").From("logs l"), filter, allowed).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM logs l WHERE l.action IN ($1,$2) ORDER BY l.created_at DESC LIMIT 10 OFFSET 20", query)
	assert.Equal(t, []interface{}{"a", "b"}, args)

	query, _, err = ApplyListParams(psql.Select("COUNT(*)").From("logs l"), CountFilter(filter), allowed).ToSql()
	require.NoError(t, err)
	assert.NotContains(t, query, "LIMIT")
	assert.NotContains(t, query, "ORDER BY")
}

func TestApplySearch(t *testing.T) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := ApplySearch(psql.Select("*").From("users u"), "ив", "u.name", "u.email").ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM users u WHERE (u.name ILIKE $1 OR u.email ILIKE $2)", query)
	assert.Equal(t, []interface{}{"%ив%", "%ив%"}, args)
}
