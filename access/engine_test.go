package access

import (
	"testing"

	"sharehub/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestEngine opens a private in-memory store per test. The connection
// pool is pinned to one connection so the in-memory database survives for
// the whole test.
func newTestEngine(t *testing.T) (*Engine, string) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap store: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	models.Init(db)
	e := NewEngine(db)
	adminUUID, err := e.EnsureAdmin("admin", "Administrator")
	if err != nil {
		t.Fatalf("ensure admin: %v", err)
	}
	return e, adminUUID
}

// mustUser registers an active regular user and returns its UUID.
func mustUser(t *testing.T, e *Engine, adminUUID, login string) string {
	t.Helper()
	u, err := e.AssertUser(adminUUID, login, login, true, false, "")
	if err != nil {
		t.Fatalf("assert user %s: %v", login, err)
	}
	return u
}

// mustResource registers a resource owned by ownerUUID and returns its UUID.
func mustResource(t *testing.T, e *Engine, ownerUUID, path string) string {
	t.Helper()
	r, err := e.RegisterResource(ownerUUID, path, "title of "+path)
	if err != nil {
		t.Fatalf("register resource %s: %v", path, err)
	}
	return r
}

// mustGroup creates an active, shareable group owned by ownerUUID.
func mustGroup(t *testing.T, e *Engine, ownerUUID, name string) string {
	t.Helper()
	g, err := e.AssertGroup(ownerUUID, GroupAssertion{
		Name:      name,
		Active:    true,
		Shareable: true,
	})
	if err != nil {
		t.Fatalf("assert group %s: %v", name, err)
	}
	return g
}
