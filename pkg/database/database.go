package database

import (
	"database/sql"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/alimgiray/gcrm/migrations"
	"github.com/alimgiray/gcrm/pkg/logger"
	_ "github.com/mattn/go-sqlite3"
)

var DB *sql.DB

// Init opens the database at path, configures it and applies the schema
func Init(path string) error {
	db, err := Open(path)
	if err != nil {
		return err
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return err
	}

	DB = db
	return nil
}

// Open opens a SQLite database with foreign keys enforced on every connection
func Open(path string) (*sql.DB, error) {
	dsn := path + "?_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=ON&_busy_timeout=30000"

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(time.Hour)

	// Test the connection
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	if err = optimizeDatabase(db); err != nil {
		db.Close()
		return nil, err
	}

	logger.WithField("path", path).Info("Database connected successfully with WAL mode")
	return db, nil
}

// optimizeDatabase configures SQLite for concurrent request handling
func optimizeDatabase(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA cache_size=10000",
		"PRAGMA temp_store=MEMORY",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=30000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("%s: %w", pragma, err)
		}
	}

	return nil
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

// RunMigrations executes the embedded SQL scripts in name order
func RunMigrations(db *sql.DB) error {
	files, err := fs.ReadDir(migrations.FS, ".")
	if err != nil {
		return err
	}

	var names []string
	for _, file := range files {
		if strings.HasSuffix(file.Name(), ".sql") {
			names = append(names, file.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		sqlContent, err := fs.ReadFile(migrations.FS, name)
		if err != nil {
			return err
		}

		if _, err = db.Exec(string(sqlContent)); err != nil {
			return fmt.Errorf("migration %s: %w", name, err)
		}

		logger.Debugf("Executed SQL script: %s", name)
	}

	logger.Infof("All %d SQL scripts executed successfully", len(names))
	return nil
}
