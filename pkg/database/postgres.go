package database

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"legacybook/config"
	"legacybook/internal/domain/admin"
	"legacybook/internal/domain/submission"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Connect(cfg *config.Config) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		// Map driver errors onto gorm sentinels (ErrDuplicatedKey etc).
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		log.Fatalf("Failed to get generic database object: %v", err)
	}

	// Connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Println("Database connection established")
}

// Close releases the connection pool. Used by the migrate CLI.
func Close() {
	if DB == nil {
		return
	}
	if sqlDB, err := DB.DB(); err == nil {
		sqlDB.Close()
	}
}

// HealthCheck pings the underlying connection.
func HealthCheck() error {
	if DB == nil {
		return fmt.Errorf("database not connected")
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Migrate applies raw SQL migrations (extensions, enum types) followed by
// GORM AutoMigrate for the tables.
func Migrate(migrationsDir string) error {
	if err := ApplyRawMigrations(migrationsDir); err != nil {
		return err
	}
	return DB.AutoMigrate(
		&submission.Submission{},
		&admin.Profile{},
	)
}

// TableExists reports whether a table is present in the public schema.
func TableExists(name string) (bool, error) {
	var exists bool
	err := DB.Raw(
		"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_schema = 'public' AND table_name = ?)",
		name,
	).Scan(&exists).Error
	return exists, err
}

// TableCount returns the row count of a table.
func TableCount(name string) (int64, error) {
	var count int64
	err := DB.Table(name).Count(&count).Error
	return count, err
}

// DropAllTables drops the application tables and enum types. Destructive,
// only reachable through the migrate CLI's reset command.
func DropAllTables() error {
	statements := []string{
		"DROP TABLE IF EXISTS alumni_submissions CASCADE",
		"DROP TABLE IF EXISTS admin_profiles CASCADE",
		"DROP TYPE IF EXISTS review_status",
		"DROP TYPE IF EXISTS admin_role",
	}
	for _, stmt := range statements {
		if err := DB.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

// ApplyRawMigrations reads .sql files from the migrations directory and executes them.
func ApplyRawMigrations(migrationsDir string) error {
	files, err := os.ReadDir(migrationsDir)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, file := range files {
		if filepath.Ext(file.Name()) == ".sql" {
			path := filepath.Join(migrationsDir, file.Name())
			content, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read migration file %s: %w", file.Name(), err)
			}

			log.Printf("Applying migration: %s", file.Name())
			if err := DB.Exec(string(content)).Error; err != nil {
				return fmt.Errorf("failed to execute migration %s: %w", file.Name(), err)
			}
		}
	}
	return nil
}
