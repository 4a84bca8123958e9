package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"NewsPortal/internal/domain"
	"NewsPortal/internal/ports"
)

const (
	articlesTable = "articles"
	settingsTable = "admin_settings"
	settingsRowID = 1
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var articleColumns = []string{
	"id", "title", "content", "summary", "category", "author", "published_at",
	"image_url", "is_featured", "is_breaking", "views", "source", "source_url",
}

// filterable maps store field names to SQL columns.
var filterable = map[string]string{
	ports.FieldID:          "id",
	ports.FieldTitle:       "title",
	ports.FieldCategory:    "category",
	ports.FieldPublishedAt: "published_at",
	ports.FieldIsFeatured:  "is_featured",
	ports.FieldIsBreaking:  "is_breaking",
	ports.FieldViews:       "views",
	ports.FieldImageURL:    "image_url",
}

const schema = `
CREATE TABLE IF NOT EXISTS articles (
    id           TEXT PRIMARY KEY,
    title        TEXT NOT NULL,
    content      TEXT NOT NULL DEFAULT '',
    summary      TEXT NOT NULL DEFAULT '',
    category     TEXT NOT NULL,
    author       TEXT NOT NULL,
    published_at TIMESTAMPTZ NOT NULL,
    image_url    TEXT,
    is_featured  BOOLEAN NOT NULL DEFAULT FALSE,
    is_breaking  BOOLEAN NOT NULL DEFAULT FALSE,
    views        INTEGER NOT NULL DEFAULT 0 CHECK (views >= 0),
    source       TEXT,
    source_url   TEXT
);
CREATE INDEX IF NOT EXISTS articles_published_idx ON articles (published_at DESC);
CREATE INDEX IF NOT EXISTS articles_breaking_idx ON articles (is_breaking, published_at DESC);
CREATE TABLE IF NOT EXISTS admin_settings (
    id                     SMALLINT PRIMARY KEY CHECK (id = 1),
    llm_key                TEXT NOT NULL DEFAULT '',
    auto_news_enabled      BOOLEAN NOT NULL DEFAULT TRUE,
    breaking_news_interval INTEGER NOT NULL DEFAULT 10 CHECK (breaking_news_interval >= 1),
    auto_breaking_news     BOOLEAN NOT NULL DEFAULT TRUE,
    last_key_update        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    created_at             TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

// PostgresRepository persists articles and settings into Postgres.
type PostgresRepository struct {
	db *sqlx.DB
}

var (
	_ ports.ArticleStore  = (*PostgresRepository)(nil)
	_ ports.SettingsStore = (*PostgresRepository)(nil)
)

// NewPostgresRepository wires a sqlx.DB implementation.
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// OpenPostgres connects with the lib/pq driver.
func OpenPostgres(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return db, nil
}

// EnsureSchema creates tables and indexes when missing.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Ping checks connectivity.
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// FindOne returns the first matching article or nil.
func (r *PostgresRepository) FindOne(ctx context.Context, filter ports.Filter) (*domain.Article, error) {
	query, args, err := buildSelect(filter, ports.FindOptions{Limit: 1})
	if err != nil {
		return nil, err
	}

	var article domain.Article
	if err := r.db.GetContext(ctx, &article, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find article: %w", err)
	}
	return &article, nil
}

// FindMany returns matching articles honouring sort and paging.
func (r *PostgresRepository) FindMany(ctx context.Context, filter ports.Filter, opts ports.FindOptions) ([]domain.Article, error) {
	query, args, err := buildSelect(filter, opts)
	if err != nil {
		return nil, err
	}

	articles := []domain.Article{}
	if err := r.db.SelectContext(ctx, &articles, query, args...); err != nil {
		return nil, fmt.Errorf("find articles: %w", err)
	}
	return articles, nil
}

// InsertOne stores a new article.
func (r *PostgresRepository) InsertOne(ctx context.Context, a domain.Article) error {
	query, args, err := psql.Insert(articlesTable).
		Columns(articleColumns...).
		Values(a.ID, a.Title, a.Content, a.Summary, a.Category, a.Author, a.PublishedAt,
			a.ImageURL, a.IsFeatured, a.IsBreaking, a.Views, a.Source, a.SourceURL).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert article %s: %w", a.ID, err)
	}
	return nil
}

// UpdateOne patches the first matching article.
func (r *PostgresRepository) UpdateOne(ctx context.Context, filter ports.Filter, patch ports.Patch) (bool, error) {
	query, args, err := buildUpdate(filter, patch)
	if err != nil {
		return false, err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update article: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// Count returns the number of matching articles.
func (r *PostgresRepository) Count(ctx context.Context, filter ports.Filter) (int, error) {
	builder := psql.Select("COUNT(*)").From(articlesTable)
	where, err := whereClause(filter)
	if err != nil {
		return 0, err
	}
	if where != nil {
		builder = builder.Where(where)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count: %w", err)
	}

	var n int
	if err := r.db.GetContext(ctx, &n, query, args...); err != nil {
		return 0, fmt.Errorf("count articles: %w", err)
	}
	return n, nil
}

// Get loads the settings singleton or nil.
func (r *PostgresRepository) Get(ctx context.Context) (*domain.Settings, error) {
	query, args, err := psql.
		Select("llm_key", "auto_news_enabled", "breaking_news_interval", "auto_breaking_news", "last_key_update", "created_at").
		From(settingsTable).
		Where(sq.Eq{"id": settingsRowID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build settings select: %w", err)
	}

	var s domain.Settings
	if err := r.db.GetContext(ctx, &s, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load settings: %w", err)
	}
	return &s, nil
}

// Upsert writes the settings singleton.
func (r *PostgresRepository) Upsert(ctx context.Context, s domain.Settings) error {
	query, args, err := psql.Insert(settingsTable).
		Columns("id", "llm_key", "auto_news_enabled", "breaking_news_interval", "auto_breaking_news", "last_key_update", "created_at").
		Values(settingsRowID, s.LLMKey, s.AutoNewsEnabled, s.BreakingNewsInterval, s.AutoBreakingNews, s.LastKeyUpdate, s.CreatedAt).
		Suffix(`ON CONFLICT (id) DO UPDATE
              SET llm_key = EXCLUDED.llm_key,
                  auto_news_enabled = EXCLUDED.auto_news_enabled,
                  breaking_news_interval = EXCLUDED.breaking_news_interval,
                  auto_breaking_news = EXCLUDED.auto_breaking_news,
                  last_key_update = EXCLUDED.last_key_update`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build settings upsert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}
	return nil
}

func buildSelect(filter ports.Filter, opts ports.FindOptions) (string, []any, error) {
	builder := psql.Select(articleColumns...).From(articlesTable)

	where, err := whereClause(filter)
	if err != nil {
		return "", nil, err
	}
	if where != nil {
		builder = builder.Where(where)
	}

	if opts.SortField != "" {
		col, ok := filterable[opts.SortField]
		if !ok {
			return "", nil, fmt.Errorf("unsupported sort field %q", opts.SortField)
		}
		dir := "ASC"
		if opts.SortDesc {
			dir = "DESC"
		}
		builder = builder.OrderBy(col + " " + dir)
	}
	if opts.Skip > 0 {
		builder = builder.Offset(uint64(opts.Skip))
	}
	if opts.Limit > 0 {
		builder = builder.Limit(uint64(opts.Limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build select: %w", err)
	}
	return query, args, nil
}

func buildUpdate(filter ports.Filter, patch ports.Patch) (string, []any, error) {
	if len(patch.Set) == 0 && len(patch.Inc) == 0 {
		return "", nil, fmt.Errorf("empty patch")
	}

	builder := psql.Update(articlesTable)
	for field, value := range patch.Set {
		col, ok := filterable[field]
		if !ok {
			return "", nil, fmt.Errorf("field %s cannot be updated", field)
		}
		builder = builder.Set(col, value)
	}
	for field, delta := range patch.Inc {
		col, ok := filterable[field]
		if !ok {
			return "", nil, fmt.Errorf("field %s cannot be incremented", field)
		}
		builder = builder.Set(col, sq.Expr(col+" + ?", delta))
	}

	where, err := whereClause(filter)
	if err != nil {
		return "", nil, err
	}
	target := sq.Select("id").From(articlesTable).Limit(1)
	if where != nil {
		target = target.Where(where)
	}
	builder = builder.Where(sq.Expr("id = (?)", target))

	query, args, err := builder.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build update: %w", err)
	}
	return query, args, nil
}

func whereClause(filter ports.Filter) (sq.Sqlizer, error) {
	var all sq.And
	for _, p := range filter.All {
		cond, err := predicateSQL(p)
		if err != nil {
			return nil, err
		}
		all = append(all, cond)
	}

	if len(filter.Any) > 0 {
		var anyOf sq.Or
		for _, p := range filter.Any {
			cond, err := predicateSQL(p)
			if err != nil {
				return nil, err
			}
			anyOf = append(anyOf, cond)
		}
		all = append(all, anyOf)
	}

	if len(all) == 0 {
		return nil, nil
	}
	return all, nil
}

func predicateSQL(p ports.Predicate) (sq.Sqlizer, error) {
	col, ok := filterable[p.Field]
	if !ok {
		return nil, fmt.Errorf("unsupported filter field %q", p.Field)
	}

	switch p.Op {
	case ports.OpEq:
		return sq.Eq{col: p.Value}, nil
	case ports.OpContainsFold:
		s, ok := p.Value.(string)
		if !ok {
			return nil, fmt.Errorf("field %s expects string", p.Field)
		}
		return sq.ILike{col: "%" + escapeLike(s) + "%"}, nil
	case ports.OpGte:
		return sq.GtOrEq{col: p.Value}, nil
	}
	return nil, fmt.Errorf("unsupported operator %d on %s", p.Op, p.Field)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
