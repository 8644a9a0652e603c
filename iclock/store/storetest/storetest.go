// Package storetest opens throwaway sqlite-backed stores for tests.
package storetest

import (
	"context"
	"path/filepath"
	"testing"

	"axiapac.com/adms/core"
	"axiapac.com/adms/iclock/store"
)

// New returns a migrated store backed by a sqlite file in t.TempDir().
func New(t testing.TB) *store.GormStore {
	t.Helper()
	dm := NewManager(t)
	s := store.NewGormStore(dm)
	if err := s.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return s
}

func NewManager(t testing.TB) *core.DatabaseManager {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "adms.db")
	dm, err := core.New(core.DriverSQLite, dsn, 1, core.LogLevelSilent)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { dm.Close() })
	return dm
}
