package database

import (
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

// Supported database types.
const (
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
)

// Config selects and locates the database.
type Config struct {
	Type string // TypeSQLite or TypePostgres
	Path string // SQLite file path
	URL  string // Postgres connection string
}

// Connect opens the database described by cfg and creates the schema.
func Connect(cfg Config) (*sqlx.DB, error) {
	var (
		db  *sqlx.DB
		err error
	)

	switch cfg.Type {
	case TypePostgres:
		if cfg.URL == "" {
			return nil, errors.New("postgres connection string is empty")
		}
		db, err = sqlx.Connect("postgres", cfg.URL)
		if err != nil {
			return nil, errors.Wrap(err, "failed to connect to postgres")
		}
	case TypeSQLite, "":
		// Create data directory if it doesn't exist
		if dir := filepath.Dir(cfg.Path); dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, errors.Wrap(err, "failed to create data directory")
			}
		}
		db, err = sqlx.Connect("sqlite3", cfg.Path)
		if err != nil {
			return nil, errors.Wrap(err, "failed to connect to database")
		}

		// Enable foreign keys
		if _, err = db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, errors.Wrap(err, "failed to enable foreign keys")
		}

		db.SetMaxOpenConns(1) // SQLite doesn't support multiple writers
		db.SetMaxIdleConns(1)
	default:
		return nil, errors.Errorf("unsupported database type %q", cfg.Type)
	}

	if err := initializeSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// initializeSchema creates necessary tables if they don't exist.
// The statements are valid for both SQLite and Postgres.
func initializeSchema(db *sqlx.DB) error {
	// One JSON document per learner and domain
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS review_records (
			domain_key TEXT PRIMARY KEY,
			document TEXT NOT NULL,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return errors.Wrap(err, "failed to create review_records table")
	}

	// Imported deck items
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS items (
			domain TEXT NOT NULL,
			position INTEGER NOT NULL,
			item_key TEXT NOT NULL,
			answer TEXT NOT NULL,
			pronunciation TEXT NOT NULL DEFAULT '',
			translation TEXT NOT NULL DEFAULT '',
			example TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (domain, item_key)
		)
	`)
	if err != nil {
		return errors.Wrap(err, "failed to create items table")
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS learners (
			chat_id BIGINT PRIMARY KEY,
			username TEXT NOT NULL DEFAULT '',
			active_domain TEXT NOT NULL DEFAULT '',
			notification_hour INTEGER NOT NULL DEFAULT 17,
			notification_enabled BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return errors.Wrap(err, "failed to create learners table")
	}

	return nil
}
