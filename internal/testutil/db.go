// Package testutil provides fixtures shared by package tests.
package testutil

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/sifan077/tinyurl/internal/app/model"
	infraPostgres "github.com/sifan077/tinyurl/internal/infra/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewSQLite opens a migrated in-memory database that lives as long as t.
// The pool is pinned to one connection so every statement sees the same
// database; statements from concurrent goroutines still interleave.
func NewSQLite(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := infraPostgres.AutoMigrate(context.Background(), db, &model.Link{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return db
}
