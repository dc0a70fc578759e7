package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"portfolio/internal/ids"
	"portfolio/internal/models"
)

// Schema maps a record type onto a table. Columns lists the mutable data
// columns; Values and Fields must return arguments and scan targets in the
// same order. id, created_at and updated_at are managed by the repository.
type Schema[T any] struct {
	models.Descriptor[T]
	Table   string
	Columns []string
	OrderBy string
	Values  func(*T) []any
	Fields  func(*T) []any
}

func (s Schema[T]) selectColumns() string {
	return "id, " + strings.Join(s.Columns, ", ") + ", created_at, updated_at"
}

// ContentRepository is the postgres store for one content collection.
type ContentRepository[T any] struct {
	pool   *pgxpool.Pool
	schema Schema[T]
}

func NewContentRepository[T any](pool *pgxpool.Pool, schema Schema[T]) *ContentRepository[T] {
	return &ContentRepository[T]{pool: pool, schema: schema}
}

func (r *ContentRepository[T]) scan(row pgx.Row) (T, error) {
	var item T
	meta := r.schema.Meta(&item)

	targets := make([]any, 0, len(r.schema.Columns)+3)
	targets = append(targets, &meta.ID)
	targets = append(targets, r.schema.Fields(&item)...)
	targets = append(targets, &meta.CreatedAt, &meta.UpdatedAt)

	if err := row.Scan(targets...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return item, ErrNotFound
		}
		return item, err
	}
	return item, nil
}

func (r *ContentRepository[T]) List(ctx context.Context) ([]T, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s`,
		r.schema.selectColumns(), r.schema.Table, r.schema.OrderBy)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.schema.Table, err)
	}
	defer rows.Close()

	items := make([]T, 0)
	for rows.Next() {
		item, err := r.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", r.schema.Table, err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// First returns the record that sorts first, the "active" one for singleton
// collections.
func (r *ContentRepository[T]) First(ctx context.Context) (T, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s LIMIT 1`,
		r.schema.selectColumns(), r.schema.Table, r.schema.OrderBy)
	return r.scan(r.pool.QueryRow(ctx, query))
}

func (r *ContentRepository[T]) Get(ctx context.Context, id string) (T, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, r.schema.selectColumns(), r.schema.Table)
	return r.scan(r.pool.QueryRow(ctx, query, id))
}

func (r *ContentRepository[T]) Create(ctx context.Context, item T) (T, error) {
	values := r.schema.Values(&item)
	placeholders := make([]string, len(values))
	for i := range values {
		placeholders[i] = fmt.Sprintf("$%d", i+2)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, %s, created_at, updated_at)
		VALUES ($1, %s, NOW(), NOW())
		RETURNING %s`,
		r.schema.Table,
		strings.Join(r.schema.Columns, ", "),
		strings.Join(placeholders, ", "),
		r.schema.selectColumns(),
	)

	args := append([]any{ids.New()}, values...)
	created, err := r.scan(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return created, fmt.Errorf("insert %s: %w", r.schema.Table, err)
	}
	return created, nil
}

// Update replaces every mutable column of the record identified by id.
func (r *ContentRepository[T]) Update(ctx context.Context, id string, item T) (T, error) {
	values := r.schema.Values(&item)
	assignments := make([]string, len(r.schema.Columns))
	for i, col := range r.schema.Columns {
		assignments[i] = fmt.Sprintf("%s = $%d", col, i+2)
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET %s, updated_at = NOW()
		WHERE id = $1
		RETURNING %s`,
		r.schema.Table,
		strings.Join(assignments, ", "),
		r.schema.selectColumns(),
	)

	args := append([]any{id}, values...)
	updated, err := r.scan(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, ErrNotFound) {
		return updated, ErrNotFound
	}
	if err != nil {
		return updated, fmt.Errorf("update %s: %w", r.schema.Table, err)
	}
	return updated, nil
}

func (r *ContentRepository[T]) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.schema.Table)
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", r.schema.Table, err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ContentRepository[T]) Count(ctx context.Context) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, r.schema.Table)
	var count int
	if err := r.pool.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("count %s: %w", r.schema.Table, err)
	}
	return count, nil
}
