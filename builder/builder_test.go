package builder_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sqlspec/sqlspec"
	"github.com/sqlspec/sqlspec/builder"
	"github.com/sqlspec/sqlspec/internal/astfacade"
	"github.com/sqlspec/sqlspec/parameter"
	"github.com/sqlspec/sqlspec/statement"
)

func testConfig() statement.StatementConfig {
	return statement.DefaultStatementConfig(sqlspec.DialectPostgres, parameter.QMARK)
}

func render(t *testing.T, sql *statement.SQL) string {
	t.Helper()
	require.NotNil(t, sql.Expression)
	return astfacade.Generate(sql.Expression, string(sqlspec.DialectPostgres), false)
}

func TestCache_SameStateSequenceSharesOneBuild(t *testing.T) {
	cache, err := builder.NewCache(16)
	require.NoError(t, err)

	newBuilder := func() *builder.Select {
		return builder.NewSelect(testConfig()).
			Select("id", "name").
			From("users", "u").
			Where("active", "=", true)
	}

	first, err := cache.Build(newBuilder())
	require.NoError(t, err)
	second, err := cache.Build(newBuilder())
	require.NoError(t, err)

	require.Equal(t, render(t, first), render(t, second))
	require.Equal(t, first.Positional, second.Positional)
}

func TestCache_DifferentStateMissesIndependently(t *testing.T) {
	cache, err := builder.NewCache(16)
	require.NoError(t, err)

	a, err := cache.Build(builder.NewSelect(testConfig()).Select("id").From("users", ""))
	require.NoError(t, err)
	b, err := cache.Build(builder.NewSelect(testConfig()).Select("id").From("orders", ""))
	require.NoError(t, err)

	require.NotEqual(t, render(t, a), render(t, b))
}

func TestSelect_BuildIsIdempotent(t *testing.T) {
	b := builder.NewSelect(testConfig()).
		Select("id", "name").
		From("users", "u").
		Where("active", "=", true).
		OrderBy("id DESC").
		Limit(10)

	first, err := b.Build()
	require.NoError(t, err)
	second, err := b.Build()
	require.NoError(t, err)

	require.Equal(t, render(t, first), render(t, second))
	require.Equal(t, first.Positional, second.Positional)
}

func TestSelect_RendersClausesInOrder(t *testing.T) {
	sql, err := builder.NewSelect(testConfig()).
		Select("id").
		From("users", "").
		Where("age", ">=", 18).
		GroupBy("id").
		Having("id", ">", 0).
		OrderBy("id").
		Limit(5).
		Offset(10).
		Build()
	require.NoError(t, err)

	text := render(t, sql)
	require.Equal(t, "SELECT id FROM users WHERE age >= ? GROUP BY id HAVING id > ? ORDER BY id LIMIT 5 OFFSET 10", text)
	require.Len(t, sql.Positional, 2)
}

func TestSelect_RequiresFrom(t *testing.T) {
	_, err := builder.NewSelect(testConfig()).Select("id").Build()
	require.Error(t, err)
	var verr *sqlspec.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestInsert_BuildsValuesAndReturning(t *testing.T) {
	sql, err := builder.NewInsert(testConfig(), "users").
		Columns("id", "name").
		Values(1, "ann").
		Returning("id").
		Build()
	require.NoError(t, err)

	text := render(t, sql)
	require.Equal(t, "INSERT INTO users (id, name) VALUES (?, ?) RETURNING id", text)
	require.Len(t, sql.Positional, 2)
}

func TestInsert_MultiRowValues(t *testing.T) {
	sql, err := builder.NewInsert(testConfig(), "users").
		Columns("id", "name").
		Values(1, "ann").
		Values(2, "bob").
		Build()
	require.NoError(t, err)

	text := render(t, sql)
	require.Equal(t, "INSERT INTO users (id, name) VALUES (?, ?), (?, ?)", text)
	require.Len(t, sql.Positional, 4)
}

func TestInsert_RowArityMismatch(t *testing.T) {
	_, err := builder.NewInsert(testConfig(), "users").
		Columns("id", "name").
		Values(1).
		Build()
	require.Error(t, err)
}

func TestUpdate_RequiresSet(t *testing.T) {
	_, err := builder.NewUpdate(testConfig(), "users").Where("id", "=", 1).Build()
	require.Error(t, err)
}

func TestUpdate_RendersSetAndWhere(t *testing.T) {
	sql, err := builder.NewUpdate(testConfig(), "users").
		Set("name", "ann").
		Set("age", 30).
		Where("id", "=", 1).
		Returning("id").
		Build()
	require.NoError(t, err)

	text := render(t, sql)
	require.Equal(t, "UPDATE users SET name = ?, age = ? WHERE id = ? RETURNING id", text)
	require.Len(t, sql.Positional, 3)
}

func TestDelete_RendersWhere(t *testing.T) {
	sql, err := builder.NewDelete(testConfig(), "users").Where("id", "=", 7).Build()
	require.NoError(t, err)

	text := render(t, sql)
	require.Equal(t, "DELETE FROM users WHERE id = ?", text)
	require.Len(t, sql.Positional, 1)
}

func TestMerge_RequiresUsingOnAndAction(t *testing.T) {
	_, err := builder.NewMerge(testConfig(), "users").Build()
	require.Error(t, err)

	_, err = builder.NewMerge(testConfig(), "users").Using("staging", "s").Build()
	require.Error(t, err)

	_, err = builder.NewMerge(testConfig(), "users").
		Using("staging", "s").
		On("users.id = s.id").
		Build()
	require.Error(t, err)
}

func TestMerge_RendersMatchedAndNotMatched(t *testing.T) {
	sql, err := builder.NewMerge(testConfig(), "users").
		Using("staging", "s").
		On("users.id = s.id").
		WhenMatchedUpdate("name", "ann").
		WhenNotMatchedInsert("id", 1).
		WhenNotMatchedInsert("name", "ann").
		Build()
	require.NoError(t, err)

	text := render(t, sql)
	require.Equal(t, "MERGE INTO users USING staging AS s ON users.id = s.id WHEN MATCHED THEN UPDATE SET name = ? WHEN NOT MATCHED THEN INSERT (id, name) VALUES (?, ?)", text)
	require.Len(t, sql.Positional, 3)
}

func TestExplain_WrapsTargetStatement(t *testing.T) {
	target, err := builder.NewSelect(testConfig()).Select("id").From("users", "").Build()
	require.NoError(t, err)

	sql, err := builder.Of(testConfig(), target).Analyze(true).Build()
	require.NoError(t, err)

	require.Equal(t, "EXPLAIN", sql.Expression.Op)
	require.True(t, sql.ReturnsRows())

	text := render(t, sql)
	require.Equal(t, "EXPLAIN ANALYZE SELECT id FROM users", text)
}

func TestExplain_RequiresTarget(t *testing.T) {
	_, err := builder.Of(testConfig(), &statement.SQL{}).Build()
	require.Error(t, err)
}
