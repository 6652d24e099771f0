package main

import (
	"io/fs"
	"strings"
	"testing"

	"bookgen/db"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectMigrations_ParsesEmbeddedSet(t *testing.T) {
	goose.SetBaseFS(db.Migrations)
	t.Cleanup(func() { goose.SetBaseFS(nil) })

	migrations, err := goose.CollectMigrations(db.MigrationsDir, 0, goose.MaxVersion)
	require.NoError(t, err)
	require.NotEmpty(t, migrations)
	assert.Equal(t, int64(1), migrations[0].Version)
}

func TestMigrations_CreateExportTables(t *testing.T) {
	b, err := fs.ReadFile(db.Migrations, db.MigrationsDir+"/00001_create_export_tables.sql")
	require.NoError(t, err)

	s := string(b)
	for _, want := range []string{"CREATE TABLE IF NOT EXISTS export_runs", "CREATE TABLE IF NOT EXISTS generated_books", "PRIMARY KEY (run_id, idx)"} {
		assert.True(t, strings.Contains(s, want), "missing %q", want)
	}
}
