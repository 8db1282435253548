package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/agentit/Prompty-Veille/internal/model"
)

type ArticleStorage struct {
	db *sqlx.DB
}

func NewArticleStorage(db *sqlx.DB) *ArticleStorage {
	return &ArticleStorage{db: db}
}

type dbArticle struct {
	ID         string         `db:"id"`
	Title      string         `db:"title"`
	Theme      string         `db:"theme"`
	Content    string         `db:"content"`
	Sources    pq.StringArray `db:"sources"`
	SourceRefs []byte         `db:"source_references"`
	Tags       pq.StringArray `db:"tags"`
	CreatedAt  time.Time      `db:"created_at"`
}

const articleColumns = `id, title, theme, content, sources, source_references, tags, created_at`

// Add stores the article, assigning its ID and creation time.
func (s *ArticleStorage) Add(ctx context.Context, a model.Article) (model.Article, error) {
	a.ID = uuid.NewString()
	a.CreatedAt = time.Now().UTC()
	a.Sources = strSlice(a.Sources)
	a.Tags = strSlice(a.Tags)
	if a.SourceReferences == nil {
		a.SourceReferences = []model.SourceReference{}
	}

	refs, err := json.Marshal(a.SourceReferences)
	if err != nil {
		return model.Article{}, fmt.Errorf("marshal source references: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO articles (id, title, theme, content, sources, source_references, tags, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		a.ID, a.Title, a.Theme, a.Content, pq.Array(a.Sources), refs, pq.Array(a.Tags), a.CreatedAt,
	)
	if err != nil {
		return model.Article{}, fmt.Errorf("insert article: %w", err)
	}

	return a, nil
}

// Articles returns every article, newest first.
func (s *ArticleStorage) Articles(ctx context.Context) ([]model.Article, error) {
	var rows []dbArticle
	if err := s.db.SelectContext(ctx, &rows,
		`SELECT `+articleColumns+` FROM articles ORDER BY created_at DESC`,
	); err != nil {
		return nil, fmt.Errorf("select articles: %w", err)
	}

	out := make([]model.Article, 0, len(rows))
	for _, r := range rows {
		a, err := r.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func (s *ArticleStorage) ArticleByID(ctx context.Context, id string) (model.Article, error) {
	var row dbArticle
	err := s.db.GetContext(ctx, &row, `SELECT `+articleColumns+` FROM articles WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Article{}, ErrNotFound
	}
	if err != nil {
		return model.Article{}, fmt.Errorf("select article %s: %w", id, err)
	}

	return row.toModel()
}

func (s *ArticleStorage) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete article %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *ArticleStorage) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT count(*) FROM articles`); err != nil {
		return 0, fmt.Errorf("count articles: %w", err)
	}
	return n, nil
}

func (r dbArticle) toModel() (model.Article, error) {
	refs := []model.SourceReference{}
	if len(r.SourceRefs) > 0 {
		if err := json.Unmarshal(r.SourceRefs, &refs); err != nil {
			return model.Article{}, fmt.Errorf("unmarshal source references of %s: %w", r.ID, err)
		}
	}

	return model.Article{
		ID:               r.ID,
		Title:            r.Title,
		Theme:            r.Theme,
		Content:          r.Content,
		Sources:          strSlice(r.Sources),
		SourceReferences: refs,
		Tags:             strSlice(r.Tags),
		CreatedAt:        r.CreatedAt.UTC(),
	}, nil
}
