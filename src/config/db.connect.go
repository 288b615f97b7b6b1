package config

import (
	"fmt"
	"strings"
	"time"

	"nefllix/src/logger"
	authModels "nefllix/src/modules/auth/models"
	libraryModels "nefllix/src/modules/library/models"
	movieModels "nefllix/src/modules/movies/models"
	profileModels "nefllix/src/modules/profiles/models"
	showModels "nefllix/src/modules/shows/models"
	userModels "nefllix/src/modules/users/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

// ConnectDatabase opens the Postgres connection and migrates the schema.
func ConnectDatabase() (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		GetEnv("DB_HOST", "localhost"),
		GetEnv("DB_PORT", "5432"),
		GetEnv("DB_USER", "postgres"),
		GetEnv("DB_PASS", ""),
		GetEnv("DB_NAME", "nefllix"),
		GetEnv("DB_SSLMODE", "disable"),
	)

	database, err := OpenDatabase(postgres.Open(dsn), GetEnv("DB_LOG_LEVEL", "warn"))
	if err != nil {
		return nil, err
	}

	sqlDB, err := database.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	logger.Info("[DB] connected to PostgreSQL")

	if err := RunMigrations(database); err != nil {
		return nil, err
	}
	return database, nil
}

// OpenDatabase opens a gorm connection for any dialector and makes it the shared DB.
func OpenDatabase(dialector gorm.Dialector, logLevel string) (*gorm.DB, error) {
	database, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormLogLevel(logLevel)),
		TranslateError: true,
		// Relations are plain id references; cascades happen in services.
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	DB = database
	return database, nil
}

func CheckConnection() bool {
	if DB == nil {
		return false
	}

	sqlDB, err := DB.DB()
	if err != nil {
		logger.Error("[DB] failed to get generic database object", "err", err)
		return false
	}

	if err := sqlDB.Ping(); err != nil {
		logger.Error("[DB] ping failed", "err", err)
		return false
	}

	var result int
	if err := DB.Raw("SELECT 1").Scan(&result).Error; err != nil {
		logger.Error("[DB] test query failed", "err", err)
		return false
	}
	return result == 1
}

func RunMigrations(db *gorm.DB) error {
	migrations := []func(*gorm.DB) error{
		userModels.MigrateUsers,
		authModels.MigrateAuth,
		profileModels.MigrateProfiles,
		libraryModels.MigrateLibrary,
		movieModels.MigrateMovies,
		showModels.MigrateShows,
	}

	for _, migrate := range migrations {
		if err := migrate(db); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	logger.Info("[DB] all migrations completed")
	return nil
}

func gormLogLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}
