package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BuySignal/internal/config"
	"BuySignal/internal/recorder"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	dir := t.TempDir()
	cfg.DataSource.Provider = "mock"
	cfg.Cache.RedisAddr = ""
	cfg.Telegram.BotToken, cfg.Telegram.ChatID = "", ""
	cfg.Database.SQLitePath = filepath.Join(dir, "history.db")
	cfg.Store.SelectionFile = filepath.Join(dir, "selection.json")
	cfg.Server.Addr = "127.0.0.1:0"
	return cfg
}

func TestRun_InvalidConfigReturnsError(t *testing.T) {
	cfg := testConfig(t)
	cfg.DataSource.Provider = "nope"

	err := run(cfg, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation")
}

func TestRun_StartupFailureReleasesRecorder(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(cfg.Store.SelectionFile, []byte("{broken"), 0o644))

	err := run(cfg, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "init selection store")

	// the history database was closed cleanly and can be reopened
	rec, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, zerolog.Nop())
	require.NoError(t, err)
	defer rec.Close()
	_, err = rec.Recent(1)
	assert.NoError(t, err)
}

func TestRun_BadCronReturnsError(t *testing.T) {
	cfg := testConfig(t)
	cfg.Schedule.DailyCron = "not a cron"

	err := run(cfg, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "register daily task")
}
