package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

type Config struct {
	Path string
}

func DefaultConfig() Config {
	if p := os.Getenv("NOVELHUB_DB_PATH"); p != "" {
		return Config{Path: p}
	}
	return Config{Path: filepath.Join("data", "novels.db")}
}

func EnsureDataDir(cfg Config) error {
	return os.MkdirAll(filepath.Dir(cfg.Path), 0o755)
}

func Open(cfg Config) (*sql.DB, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("open sqlite: empty path")
	}
	if err := EnsureDataDir(cfg); err != nil {
		return nil, fmt.Errorf("ensure data dir: %w", err)
	}

	db, err := sql.Open("sqlite3", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pragma journal_mode: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return db, nil
}
