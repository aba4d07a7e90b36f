package storage

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todolist/internal/config"
)

func exerciseKV(t *testing.T, kv KV) {
	t.Helper()

	_, ok, err := kv.Get("tasks")
	require.NoError(t, err)
	assert.False(t, ok, "missing key should report ok=false")

	require.NoError(t, kv.Set("tasks", `["a"]`))
	v, ok, err := kv.Get("tasks")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `["a"]`, v)

	require.NoError(t, kv.Set("tasks", `[]`))
	v, _, err = kv.Get("tasks")
	require.NoError(t, err)
	assert.Equal(t, `[]`, v, "set should overwrite the whole value")

	_, ok, err = kv.Get("other")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemory(t *testing.T) {
	exerciseKV(t, NewMemory())
}

func TestSQLite(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "data", "todo.db"))
	require.NoError(t, err)
	defer s.Close()
	exerciseKV(t, s)
}

func TestSQLitePersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todo.db")

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Set("tasks", `["Buy milk"]`))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()
	v, ok, err := s.Get("tasks")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `["Buy milk"]`, v)
}

func TestOpenSQLiteEmptyPath(t *testing.T) {
	_, err := OpenSQLite("")
	assert.Error(t, err)
}

func TestOpenPicksBackend(t *testing.T) {
	cfg := config.Default()
	cfg.Backend = config.BackendMemory
	kv, closeFn, err := Open(cfg)
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, kv)
	assert.NoError(t, closeFn())

	cfg.Backend = config.BackendSQLite
	cfg.DBPath = filepath.Join(t.TempDir(), "todo.db")
	kv, closeFn, err = Open(cfg)
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, kv)
	assert.NoError(t, closeFn())

	cfg.Backend = "redis"
	_, closeFn, err = Open(cfg)
	assert.Error(t, err)
	assert.NotNil(t, closeFn)
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "file:memdb?mode=memory", sqliteDSN("file:memdb?mode=memory"))

	dsn := sqliteDSN("/var/lib/todo.db")
	assert.True(t, strings.HasPrefix(dsn, "file:///var/lib/todo.db?"), dsn)
	assert.Contains(t, dsn, "mode=rwc")
}
