package novel

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"novelhub/pkg/models"
)

// Repo is the SQLite catalog of novels.
type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

const selectColumns = `SELECT id, title, image, status, genres, num_volumes, synopsis, url FROM novels`

// Upsert writes all novels in one transaction, replacing rows with the same id.
func (r *Repo) Upsert(ctx context.Context, novels []models.Novel) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO novels (id, title, image, status, genres, num_volumes, synopsis, url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
		  title = excluded.title,
		  image = excluded.image,
		  status = excluded.status,
		  genres = excluded.genres,
		  num_volumes = excluded.num_volumes,
		  synopsis = excluded.synopsis,
		  url = excluded.url
	`)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, n := range novels {
		if _, err := stmt.ExecContext(ctx,
			n.ID, n.Title, n.Image, n.Status, string(n.Genres), n.NumVolumes, n.Synopsis, n.URL,
		); err != nil {
			return fmt.Errorf("upsert novel %d: %w", n.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetByID returns (nil, nil) when no row has the id.
func (r *Repo) GetByID(ctx context.Context, id int) (*models.Novel, error) {
	row := r.DB.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	n, err := scanNovel(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan getByID: %w", err)
	}
	return &n, nil
}

func (r *Repo) Count(ctx context.Context, q ListQuery) (int, error) {
	where, args := buildWhere(q)
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM novels`+where, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count scan: %w", err)
	}
	return total, nil
}

// List returns matching novels ordered by id.
func (r *Repo) List(ctx context.Context, q ListQuery) ([]models.Novel, error) {
	where, args := buildWhere(q)
	rows, err := r.DB.QueryContext(ctx, selectColumns+where+` ORDER BY id ASC`, args...)
	if err != nil {
		return nil, fmt.Errorf("list query: %w", err)
	}
	defer rows.Close()

	out := make([]models.Novel, 0)
	for rows.Next() {
		n, err := scanNovel(rows)
		if err != nil {
			return nil, fmt.Errorf("list scan: %w", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNovel(s scanner) (models.Novel, error) {
	var (
		n          models.Novel
		image      sql.NullString
		status     sql.NullString
		genres     sql.NullString
		numVolumes sql.NullInt64
		synopsis   sql.NullString
		url        sql.NullString
	)
	if err := s.Scan(&n.ID, &n.Title, &image, &status, &genres, &numVolumes, &synopsis, &url); err != nil {
		return models.Novel{}, err
	}
	n.Image = image.String
	n.Status = status.String
	n.Genres = models.Genres(genres.String)
	if numVolumes.Valid {
		n.NumVolumes = int(numVolumes.Int64)
	}
	n.Synopsis = synopsis.String
	n.URL = url.String
	return n, nil
}

// likeEscaper makes a query match literally, like Filter's substring test.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func buildWhere(q ListQuery) (string, []any) {
	q = q.normalized()
	var where []string
	var args []any

	if q.Q != "" {
		where = append(where, `LOWER(title) LIKE ? ESCAPE '\'`)
		args = append(args, "%"+likeEscaper.Replace(q.Q)+"%")
	}
	if q.Status != "" {
		where = append(where, "LOWER(TRIM(status)) = ?")
		args = append(args, q.Status)
	}
	if len(where) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(where, " AND "), args
}
