package cli

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"strings"
	"time"

	"novelhub/internal/catalog"
	"novelhub/internal/novel"
	"novelhub/pkg/database"
	"novelhub/pkg/models"
)

func isDBLocation(loc string) bool {
	loc = strings.TrimSpace(loc)
	return loc == "sqlite:" || loc == "sqlite"
}

// openDB opens and migrates the catalog database.
func (a *app) openDB() (*sql.DB, error) {
	db, err := database.Open(database.Config{Path: a.cfg.Database.Path})
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("db migrate failed: %w", err)
	}
	return db, nil
}

// sourceSet holds the sources for a command and the database behind any
// "sqlite:" location.
type sourceSet struct {
	Sources []catalog.Source
	DB      *sql.DB // nil unless a location needs it
}

func (s *sourceSet) Close() error {
	if s.DB == nil {
		return nil
	}
	return s.DB.Close()
}

// sources opens a catalog.Source per location, in order.
func (a *app) sources(locations ...string) (*sourceSet, error) {
	set := &sourceSet{}
	var repo *novel.Repo
	for _, loc := range locations {
		if isDBLocation(loc) {
			db, err := a.openDB()
			if err != nil {
				return nil, err
			}
			set.DB = db
			repo = novel.NewRepo(db)
			break
		}
	}

	client := &http.Client{Timeout: 15 * time.Second}
	for _, loc := range locations {
		src, err := catalog.Open(loc, repo, client)
		if err != nil {
			_ = set.Close()
			return nil, err
		}
		set.Sources = append(set.Sources, src)
	}
	return set, nil
}

func (a *app) load(ctx context.Context, location string) ([]models.Novel, error) {
	set, err := a.sources(location)
	if err != nil {
		return nil, err
	}
	defer set.Close()
	return set.Sources[0].Load(ctx)
}
