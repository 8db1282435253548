package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/samber/lo"

	"github.com/agentit/Prompty-Veille/internal/model"
)

type SourceStorage struct {
	db *sqlx.DB
}

func NewSourceStorage(db *sqlx.DB) *SourceStorage {
	return &SourceStorage{db: db}
}

type dbSource struct {
	ID          string         `db:"id"`
	Name        string         `db:"name"`
	URL         string         `db:"url"`
	Category    sql.NullString `db:"category"`
	Tags        pq.StringArray `db:"tags"`
	Active      bool           `db:"active"`
	LastChecked sql.NullTime   `db:"last_checked"`
	CreatedAt   time.Time      `db:"created_at"`
}

const sourceColumns = `id, name, url, category, tags, active, last_checked, created_at`

// Sources returns every source, newest first.
func (s *SourceStorage) Sources(ctx context.Context) ([]model.Source, error) {
	var rows []dbSource
	if err := s.db.SelectContext(ctx, &rows,
		`SELECT `+sourceColumns+` FROM sources ORDER BY created_at DESC`,
	); err != nil {
		return nil, fmt.Errorf("select sources: %w", err)
	}

	return lo.Map(rows, func(r dbSource, _ int) model.Source { return r.toModel() }), nil
}

// ActiveSources returns the sources the checker must visit.
func (s *SourceStorage) ActiveSources(ctx context.Context) ([]model.Source, error) {
	var rows []dbSource
	if err := s.db.SelectContext(ctx, &rows,
		`SELECT `+sourceColumns+` FROM sources WHERE active ORDER BY created_at ASC`,
	); err != nil {
		return nil, fmt.Errorf("select active sources: %w", err)
	}

	return lo.Map(rows, func(r dbSource, _ int) model.Source { return r.toModel() }), nil
}

func (s *SourceStorage) SourceByID(ctx context.Context, id string) (model.Source, error) {
	var row dbSource
	err := s.db.GetContext(ctx, &row, `SELECT `+sourceColumns+` FROM sources WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Source{}, ErrNotFound
	}
	if err != nil {
		return model.Source{}, fmt.Errorf("select source %s: %w", id, err)
	}

	return row.toModel(), nil
}

func (s *SourceStorage) Add(ctx context.Context, in model.SourceInput) (model.Source, error) {
	src := model.Source{
		ID:        uuid.NewString(),
		Name:      in.Name,
		URL:       in.URL,
		Category:  in.Category,
		Tags:      strSlice(in.Tags),
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sources (id, name, url, category, tags, active, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		src.ID, src.Name, src.URL, nullStr(src.Category), pq.Array(src.Tags), src.Active, src.CreatedAt,
	)
	if err != nil {
		return model.Source{}, fmt.Errorf("insert source: %w", err)
	}

	return src, nil
}

// Update replaces name, url, category and tags, leaving the activity flag and
// check timestamps untouched.
func (s *SourceStorage) Update(ctx context.Context, id string, in model.SourceInput) (model.Source, error) {
	var row dbSource
	err := s.db.GetContext(ctx, &row,
		`UPDATE sources SET name = $1, url = $2, category = $3, tags = $4
		 WHERE id = $5
		 RETURNING `+sourceColumns,
		in.Name, in.URL, nullStr(in.Category), pq.Array(strSlice(in.Tags)), id,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Source{}, ErrNotFound
	}
	if err != nil {
		return model.Source{}, fmt.Errorf("update source %s: %w", id, err)
	}

	return row.toModel(), nil
}

func (s *SourceStorage) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sources WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete source %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Toggle flips the active flag and reports the new state.
func (s *SourceStorage) Toggle(ctx context.Context, id string) (bool, error) {
	var active bool
	err := s.db.GetContext(ctx, &active,
		`UPDATE sources SET active = NOT active WHERE id = $1 RETURNING active`, id,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return false, ErrNotFound
	}
	if err != nil {
		return false, fmt.Errorf("toggle source %s: %w", id, err)
	}
	return active, nil
}

func (s *SourceStorage) MarkChecked(ctx context.Context, id string, at time.Time) error {
	_, err := s.db.ExecContext(ctx, `UPDATE sources SET last_checked = $1 WHERE id = $2`, at.UTC(), id)
	if err != nil {
		return fmt.Errorf("mark source %s checked: %w", id, err)
	}
	return nil
}

func (s *SourceStorage) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT count(*) FROM sources`); err != nil {
		return 0, fmt.Errorf("count sources: %w", err)
	}
	return n, nil
}

func (s *SourceStorage) CountActive(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT count(*) FROM sources WHERE active`); err != nil {
		return 0, fmt.Errorf("count active sources: %w", err)
	}
	return n, nil
}

func (s *SourceStorage) DistinctCategories(ctx context.Context) ([]string, error) {
	var out []string
	err := s.db.SelectContext(ctx, &out,
		`SELECT DISTINCT category FROM sources WHERE category IS NOT NULL AND category <> ''`,
	)
	if err != nil {
		return nil, fmt.Errorf("select source categories: %w", err)
	}
	return out, nil
}

func (r dbSource) toModel() model.Source {
	return model.Source{
		ID:          r.ID,
		Name:        r.Name,
		URL:         r.URL,
		Category:    strPtr(r.Category),
		Tags:        strSlice(r.Tags),
		Active:      r.Active,
		LastChecked: timePtr(r.LastChecked),
		CreatedAt:   r.CreatedAt.UTC(),
	}
}
