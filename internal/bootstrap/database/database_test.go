package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"conferencehall/internal/bootstrap/config"
)

func TestOpenSQLiteCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "state")
	dsn := filepath.Join(dir, "cfp.sqlite") + "?_pragma=busy_timeout(5000)"

	db, err := Open(context.Background(), config.DatabaseConfig{Driver: "sqlite", DSN: dsn, MaxOpenConns: 2})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("DB() error = %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("directory not created: %v", err)
	}
	if got := sqlDB.Stats().MaxOpenConnections; got != 2 {
		t.Fatalf("MaxOpenConnections = %d", got)
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), config.DatabaseConfig{Driver: "oracle", DSN: "x"}); err == nil {
		t.Fatalf("Open() expected error")
	}
}

func TestSQLiteDSNDefaults(t *testing.T) {
	cases := []struct {
		name string
		dsn  string
		want string
	}{
		{name: "bare path", dsn: "data/cfp.sqlite", want: "data/cfp.sqlite?_txlock=immediate&_pragma=busy_timeout(5000)"},
		{name: "keeps busy timeout", dsn: "cfp.sqlite?_pragma=busy_timeout(100)", want: "cfp.sqlite?_pragma=busy_timeout(100)&_txlock=immediate"},
		{name: "keeps explicit txlock", dsn: "cfp.sqlite?_txlock=deferred&_pragma=busy_timeout(5000)", want: "cfp.sqlite?_txlock=deferred&_pragma=busy_timeout(5000)"},
		{name: "memory", dsn: ":memory:", want: ":memory:"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SQLiteDSN(tc.dsn); got != tc.want {
				t.Fatalf("SQLiteDSN(%q) = %q, want %q", tc.dsn, got, tc.want)
			}
		})
	}
}
