// Package testutil wires the shared clients to throwaway backends for tests.
package testutil

import (
	"fmt"
	"testing"

	"nefllix/src/config"
	"nefllix/src/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	AdminKey      = "test-admin-key"
	AllowedOrigin = "https://app.nefllix.test"
)

// SetupDB points config.DB at a fresh migrated in-memory SQLite database.
func SetupDB(t *testing.T) *gorm.DB {
	t.Helper()

	prev := config.DB
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", utils.GenerateID())
	db, err := config.OpenDatabase(sqlite.Open(dsn), "silent")
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection keeps every query on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, config.RunMigrations(db))

	t.Cleanup(func() {
		_ = sqlDB.Close()
		config.DB = prev
	})
	return db
}

// SetupRedis points config.RDB at a miniredis instance.
func SetupRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()

	prev := config.RDB
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	config.RDB = client

	t.Cleanup(func() {
		_ = client.Close()
		config.RDB = prev
	})
	return mr
}

// SetupApp installs a test configuration with an admin key and token secret.
func SetupApp(t *testing.T) *config.AppConfig {
	t.Helper()

	prev := config.App
	app := *prev
	app.AdminAPIKey = AdminKey
	app.ProfileTokenSecret = "test-profile-secret"
	app.MediaOriginURL = ""
	app.CORSOrigins = []string{AllowedOrigin}
	config.App = &app

	t.Cleanup(func() { config.App = prev })
	return &app
}
