package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"legacybook/config"
	"legacybook/pkg/database"
)

const usage = `
Legacybook - Database CLI Tool

Usage:
  migrate [command] [flags]

Commands:
  up          Run all migrations (SQL + GORM)
  status      Show database connection status
  seed        Seed the first super_admin profile
  reset       Drop all tables and re-run migrations (DANGEROUS)

Flags:
  -migrations string   Path to migrations directory (default "migrations")
  -admin-email string  Super admin email for seeding (default "admin@legacybook.local")
  -admin-id string     Identity provider subject id for the super admin (optional)

Examples:
  go run cmd/migrate/main.go up
  go run cmd/migrate/main.go seed -admin-email ops@example.com
  go run cmd/migrate/main.go reset
`

func main() {
	migrationsDir := flag.String("migrations", "migrations", "Path to migrations directory")
	adminEmail := flag.String("admin-email", "admin@legacybook.local", "Super admin email for seeding")
	adminID := flag.String("admin-id", "", "Identity provider subject id for the super admin")

	flag.Usage = func() {
		fmt.Print(usage)
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	command := flag.Arg(0)

	cfg := config.LoadConfig()
	database.Connect(cfg)
	defer database.Close()

	switch command {
	case "up":
		runMigrationsUp(*migrationsDir)
	case "status":
		showStatus()
	case "seed":
		runSeed(*adminEmail, *adminID)
	case "reset":
		runReset(*migrationsDir)
	default:
		fmt.Printf("Unknown command: %s\n", command)
		flag.Usage()
		os.Exit(1)
	}
}

func runMigrationsUp(migrationsDir string) {
	log.Println("Running migrations...")

	if err := database.Migrate(migrationsDir); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("Migrations completed successfully")
}

func showStatus() {
	log.Println("Checking database status...")

	if err := database.HealthCheck(); err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Database connection: OK")

	for _, table := range []string{"alumni_submissions", "admin_profiles"} {
		exists, err := database.TableExists(table)
		if err != nil {
			log.Printf("Error checking table %s: %v", table, err)
			continue
		}
		if exists {
			count, _ := database.TableCount(table)
			log.Printf("Table %-20s exists (%d rows)", table, count)
		} else {
			log.Printf("Table %-20s does not exist", table)
		}
	}
}

func runSeed(email, id string) {
	log.Println("Seeding super admin profile...")

	profile, err := database.Seed(&database.SeedConfig{
		SuperAdminID:    id,
		SuperAdminEmail: email,
	})
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Super admin created/verified: %s (ID: %s)", profile.Email, profile.ID)
}

func runReset(migrationsDir string) {
	log.Println("WARNING: This will DROP all tables and re-run migrations!")

	if err := database.DropAllTables(); err != nil {
		log.Fatalf("Failed to drop tables: %v", err)
	}

	log.Println("Running migrations...")
	if err := database.Migrate(migrationsDir); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("Database reset completed")
}
