package utils

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type taggedRow struct {
	ID    string     `gorm:"primaryKey"`
	Genre StringList `json:"genre"`
}

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func TestStringListMigratesAndRoundTrips(t *testing.T) {
	db := openSQLite(t)
	require.NoError(t, db.AutoMigrate(&taggedRow{}))

	in := taggedRow{ID: "a", Genre: StringList{"Sci-Fi", `Say "hi"`, "a,b"}}
	require.NoError(t, db.Create(&in).Error)

	var out taggedRow
	require.NoError(t, db.First(&out, "id = ?", "a").Error)
	assert.Equal(t, in.Genre, out.Genre)
}

func TestStringListDataTypes(t *testing.T) {
	assert.Equal(t, "text", StringList{}.GormDataType())
	assert.Equal(t, "text", StringList{}.GormDBDataType(openSQLite(t), nil))
	assert.Equal(t, "text[]", StringList{}.GormDBDataType(openPostgresDryRun(t), nil))
}

func TestWhereArrayContainsMatchesWholeElements(t *testing.T) {
	db := openSQLite(t)
	require.NoError(t, db.AutoMigrate(&taggedRow{}))
	rows := []taggedRow{
		{ID: "arrival", Genre: StringList{"Sci-Fi", "Drama"}},
		{ID: "heat", Genre: StringList{"Crime", "drama"}},
		{ID: "oddball", Genre: StringList{"sci fi", "100%_real"}},
		{ID: "empty", Genre: StringList{}},
	}
	require.NoError(t, db.Create(&rows).Error)

	ids := func(value string) []string {
		var found []taggedRow
		require.NoError(t, WhereArrayContains(db.Model(&taggedRow{}), "genre", value).Order("id").Find(&found).Error)
		out := []string{}
		for _, r := range found {
			out = append(out, r.ID)
		}
		return out
	}

	assert.Equal(t, []string{"arrival", "heat"}, ids("DRAMA"))
	assert.Equal(t, []string{"arrival"}, ids("sci-fi"))
	assert.Empty(t, ids("Sci"))
	assert.Empty(t, ids("Fi"))
	assert.Equal(t, []string{"oddball"}, ids("Sci Fi"))
	assert.Equal(t, []string{"oddball"}, ids("100%_real"))
	assert.Empty(t, ids("100%"))
	assert.Empty(t, ids("1000real"))
}

func openPostgresDryRun(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{DSN: "host=localhost user=test dbname=test sslmode=disable"}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db
}

func TestWhereArrayContainsPostgresSQL(t *testing.T) {
	db := openPostgresDryRun(t)
	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var found []taggedRow
		return WhereArrayContains(tx.Model(&taggedRow{}), "genre", "Drama").Find(&found)
	})
	assert.Contains(t, sql, "EXISTS (SELECT 1 FROM unnest(genre) AS elem WHERE lower(elem) = lower('Drama'))")
}
