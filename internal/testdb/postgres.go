package testdb

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/angelmondragon/comicstore/pkg/db"
	"github.com/angelmondragon/comicstore/pkg/migrate"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// PostgresDSNEnv names the variable that enables the Postgres-backed tests.
const PostgresDSNEnv = "COMICSTORE_TEST_POSTGRES_DSN"

// OpenPostgres returns a client over a fresh schema in the database named by
// PostgresDSNEnv, skipping the test when the variable is unset. The pool is
// left unbounded so row locks are exercised across real connections.
func OpenPostgres(t *testing.T) *db.Client {
	t.Helper()

	dsn := os.Getenv(PostgresDSNEnv)
	if dsn == "" {
		t.Skipf("%s not set", PostgresDSNEnv)
	}
	schema := "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")

	admin := openPostgres(t, dsn)
	if err := admin.Exec("CREATE SCHEMA " + schema).Error; err != nil {
		t.Fatalf("create schema: %v", err)
	}
	t.Cleanup(func() {
		_ = admin.Exec("DROP SCHEMA " + schema + " CASCADE").Error
		closeGorm(admin)
	})

	conn := openPostgres(t, withSearchPath(dsn, schema))
	t.Cleanup(func() { closeGorm(conn) })

	if err := migrate.SyncSchema(context.Background(), conn); err != nil {
		t.Fatalf("sync schema: %v", err)
	}
	return db.NewFromGorm(conn)
}

func openPostgres(t *testing.T, dsn string) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:                 gormlogger.Discard,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	return conn
}

func closeGorm(conn *gorm.DB) {
	if sqlDB, err := conn.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// withSearchPath appends a search_path runtime parameter in whichever DSN
// form the caller used.
func withSearchPath(dsn, schema string) string {
	if strings.Contains(dsn, "://") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		return dsn + sep + "search_path=" + schema
	}
	return fmt.Sprintf("%s search_path=%s", dsn, schema)
}
