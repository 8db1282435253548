package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/samber/lo"

	"github.com/agentit/Prompty-Veille/internal/model"
)

type SummaryStorage struct {
	db *sqlx.DB
}

func NewSummaryStorage(db *sqlx.DB) *SummaryStorage {
	return &SummaryStorage{db: db}
}

type dbSummary struct {
	ID         string         `db:"id"`
	SourceID   sql.NullString `db:"source_id"`
	SourceName string         `db:"source_name"`
	URL        string         `db:"url"`
	Title      string         `db:"title"`
	Content    string         `db:"content"`
	Summary    string         `db:"summary"`
	Category   sql.NullString `db:"category"`
	Tags       pq.StringArray `db:"tags"`
	IsNew      bool           `db:"is_new"`
	CreatedAt  time.Time      `db:"created_at"`
}

const summaryColumns = `id, source_id, source_name, url, title, content, summary, category, tags, is_new, created_at`

// SummaryFilter narrows List. Zero values mean "no constraint".
type SummaryFilter struct {
	Category string
	Tag      string
	IsNew    *bool
}

// summariesListQuery builds the filtered list statement; split out so the
// predicate assembly is testable without a database.
func summariesListQuery(f SummaryFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)

	if f.Category != "" {
		args = append(args, f.Category)
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if f.Tag != "" {
		args = append(args, f.Tag)
		conds = append(conds, fmt.Sprintf("$%d = ANY(tags)", len(args)))
	}
	if f.IsNew != nil {
		args = append(args, *f.IsNew)
		conds = append(conds, fmt.Sprintf("is_new = $%d", len(args)))
	}

	q := `SELECT ` + summaryColumns + ` FROM summaries`
	if len(conds) > 0 {
		q += ` WHERE ` + strings.Join(conds, " AND ")
	}
	q += ` ORDER BY created_at DESC`

	return q, args
}

// List returns summaries matching the filter, newest first.
func (s *SummaryStorage) List(ctx context.Context, f SummaryFilter) ([]model.Summary, error) {
	q, args := summariesListQuery(f)

	var rows []dbSummary
	if err := s.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, fmt.Errorf("select summaries: %w", err)
	}

	return lo.Map(rows, func(r dbSummary, _ int) model.Summary { return r.toModel() }), nil
}

func (s *SummaryStorage) SummaryByID(ctx context.Context, id string) (model.Summary, error) {
	var row dbSummary
	err := s.db.GetContext(ctx, &row, `SELECT `+summaryColumns+` FROM summaries WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Summary{}, ErrNotFound
	}
	if err != nil {
		return model.Summary{}, fmt.Errorf("select summary %s: %w", id, err)
	}

	return row.toModel(), nil
}

// SummariesByIDs returns the summaries that exist among ids, in the order the
// ids were given; unknown ids are silently skipped.
func (s *SummaryStorage) SummariesByIDs(ctx context.Context, ids []string) ([]model.Summary, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	q, args, err := sqlx.In(`SELECT `+summaryColumns+` FROM summaries WHERE id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("build summaries query: %w", err)
	}
	q = s.db.Rebind(q)

	var rows []dbSummary
	if err := s.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, fmt.Errorf("select summaries by ids: %w", err)
	}

	byID := lo.SliceToMap(rows, func(r dbSummary) (string, dbSummary) { return r.ID, r })

	out := make([]model.Summary, 0, len(rows))
	seen := map[string]bool{}
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if r, ok := byID[id]; ok {
			out = append(out, r.toModel())
		}
	}
	return out, nil
}

// Add stores the summary, assigning its ID and creation time.
func (s *SummaryStorage) Add(ctx context.Context, sum model.Summary) (model.Summary, error) {
	sum.ID = uuid.NewString()
	sum.CreatedAt = time.Now().UTC()
	sum.Tags = strSlice(sum.Tags)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO summaries (id, source_id, source_name, url, title, content, summary, category, tags, is_new, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		sum.ID, nullStr(sum.SourceID), sum.SourceName, sum.URL, sum.Title, sum.Content, sum.Summary,
		nullStr(sum.Category), pq.Array(sum.Tags), sum.IsNew, sum.CreatedAt,
	)
	if err != nil {
		return model.Summary{}, fmt.Errorf("insert summary: %w", err)
	}

	return sum, nil
}

func (s *SummaryStorage) MarkRead(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE summaries SET is_new = FALSE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark summary %s read: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SummaryStorage) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM summaries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete summary %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SummaryStorage) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT count(*) FROM summaries`); err != nil {
		return 0, fmt.Errorf("count summaries: %w", err)
	}
	return n, nil
}

func (s *SummaryStorage) CountNew(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT count(*) FROM summaries WHERE is_new`); err != nil {
		return 0, fmt.Errorf("count new summaries: %w", err)
	}
	return n, nil
}

func (s *SummaryStorage) DistinctTags(ctx context.Context) ([]string, error) {
	var out []string
	if err := s.db.SelectContext(ctx, &out, `SELECT DISTINCT unnest(tags) FROM summaries`); err != nil {
		return nil, fmt.Errorf("select summary tags: %w", err)
	}
	return out, nil
}

func (s *SummaryStorage) DistinctCategories(ctx context.Context) ([]string, error) {
	var out []string
	err := s.db.SelectContext(ctx, &out,
		`SELECT DISTINCT category FROM summaries WHERE category IS NOT NULL AND category <> ''`,
	)
	if err != nil {
		return nil, fmt.Errorf("select summary categories: %w", err)
	}
	return out, nil
}

func (r dbSummary) toModel() model.Summary {
	return model.Summary{
		ID:         r.ID,
		SourceID:   strPtr(r.SourceID),
		SourceName: r.SourceName,
		URL:        r.URL,
		Title:      r.Title,
		Content:    r.Content,
		Summary:    r.Summary,
		Category:   strPtr(r.Category),
		Tags:       strSlice(r.Tags),
		IsNew:      r.IsNew,
		CreatedAt:  r.CreatedAt.UTC(),
	}
}
