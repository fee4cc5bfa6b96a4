package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/minishop/internal/apperr"
	"github.com/Skotchmaster/minishop/internal/config"
	"github.com/Skotchmaster/minishop/internal/db"
	"github.com/Skotchmaster/minishop/internal/hash"
	"github.com/Skotchmaster/minishop/internal/repo"
)

func writeConfig(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "shop.db")
	cfgPath := filepath.Join(dir, "shop.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("database_url: "+dbPath+"\nlog_level: error\n"), 0o600))
	t.Setenv("DATABASE_URL", "")
	return cfgPath, dbPath
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestMigrateAndUserAdd(t *testing.T) {
	cfgPath, dbPath := writeConfig(t)

	out, err := run(t, "--config", cfgPath, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "migrations applied")

	out, err = run(t, "--config", cfgPath, "user", "add", "--username", "alice", "--password", "pw")
	require.NoError(t, err)
	assert.Contains(t, out, `created user "alice"`)

	_, err = run(t, "--config", cfgPath, "user", "add", "--username", "alice", "--password", "pw")
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	ctx := context.Background()
	gdb, err := db.Open(ctx, config.DriverSQLite, dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })

	u, err := (&repo.GormRepo{DB: gdb}).UserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, hash.CheckPassword(u.Password, "pw"))
}

func TestUserAdd_RequiresFlags(t *testing.T) {
	cfgPath, _ := writeConfig(t)

	_, err := run(t, "--config", cfgPath, "user", "add", "--username", "alice")
	require.Error(t, err)
}
