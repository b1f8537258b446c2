package fileloader_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sqlspec/sqlspec"
	"github.com/sqlspec/sqlspec/fileloader"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadPath_ParsesNamedStatements(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "users.sql", `-- name: get_user
SELECT * FROM users WHERE id = :id

-- name: list_users
SELECT * FROM users
`)

	l, err := fileloader.New(64)
	require.NoError(t, err)

	statements, err := l.LoadPath(path)
	require.NoError(t, err)
	require.Equal(t, "SELECT * FROM users WHERE id = :id", statements["get_user"])
	require.Equal(t, "SELECT * FROM users", statements["list_users"])
}

func TestLoadPath_NoHeadersReturnsEmptyMap(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "plain.sql", "SELECT 1;\n")

	l, err := fileloader.New(64)
	require.NoError(t, err)

	statements, err := l.LoadPath(path)
	require.NoError(t, err)
	require.Empty(t, statements)
}

func TestLoadPath_DuplicateNameErrors(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "dup.sql", `-- name: q
SELECT 1
-- name: q
SELECT 2
`)

	l, err := fileloader.New(64)
	require.NoError(t, err)

	_, err = l.LoadPath(path)
	require.Error(t, err)
	var dupErr *sqlspec.DuplicateStatementError
	require.ErrorAs(t, err, &dupErr)
}

func TestLoadPath_MalformedHeaderErrors(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.sql", "-- name: \nSELECT 1\n")

	l, err := fileloader.New(64)
	require.NoError(t, err)

	_, err = l.LoadPath(path)
	require.Error(t, err)
	var malformed *sqlspec.MalformedFileError
	require.ErrorAs(t, err, &malformed)
}

func TestLoadPath_CacheRevalidatesOnContentChange(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "q.sql", "-- name: q\nSELECT 1\n")

	l, err := fileloader.New(64)
	require.NoError(t, err)

	first, err := l.LoadPath(path)
	require.NoError(t, err)
	require.Equal(t, "SELECT 1", first["q"])

	require.NoError(t, os.WriteFile(path, []byte("-- name: q\nSELECT 2\n"), 0o644))

	second, err := l.LoadPath(path)
	require.NoError(t, err)
	require.Equal(t, "SELECT 2", second["q"])
}

func TestLoadDirectory_BuildsDottedNamespaces(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "users/queries.sql", "-- name: get_user\nSELECT * FROM users\n")
	writeFile(t, dir, "top.sql", "-- name: ping\nSELECT 1\n")

	l, err := fileloader.New(64)
	require.NoError(t, err)

	tree, err := l.LoadDirectory(dir)
	require.NoError(t, err)
	require.Equal(t, "SELECT * FROM users", tree["users"]["get_user"])
	require.Equal(t, "SELECT 1", tree[""]["ping"])
}
