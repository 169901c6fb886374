package database

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/002_add_index.sql":      {Data: []byte("CREATE INDEX x ON t (c);")},
		"migrations/001_initial_schema.sql": {Data: []byte("CREATE TABLE t (c INT);")},
		"migrations/README.md":              {Data: []byte("ignored")},
	}

	migrations, err := LoadMigrations(MigratorConfig{FS: fsys, Dir: "migrations"})
	require.NoError(t, err)
	require.Len(t, migrations, 2)
	assert.Equal(t, 1, migrations[0].Version)
	assert.Equal(t, "initial_schema", migrations[0].Name)
	assert.Equal(t, 2, migrations[1].Version)
	assert.Contains(t, migrations[1].SQL, "CREATE INDEX")
}

func TestLoadMigrations_Errors(t *testing.T) {
	tests := []struct {
		name    string
		files   fstest.MapFS
		wantErr string
	}{
		{
			name:    "missing separator",
			files:   fstest.MapFS{"m/001.sql": {Data: []byte("")}},
			wantErr: "expected <version>_<name>.sql",
		},
		{
			name:    "non-numeric version",
			files:   fstest.MapFS{"m/abc_init.sql": {Data: []byte("")}},
			wantErr: "invalid version",
		},
		{
			name: "duplicate version",
			files: fstest.MapFS{
				"m/001_a.sql": {Data: []byte("")},
				"m/1_b.sql":   {Data: []byte("")},
			},
			wantErr: "already used",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadMigrations(MigratorConfig{FS: tt.files, Dir: "m"})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewMigrator_DefaultTable(t *testing.T) {
	m := NewMigrator(nil, MigratorConfig{})
	assert.Equal(t, "schema_migrations", m.cfg.Table)
}
