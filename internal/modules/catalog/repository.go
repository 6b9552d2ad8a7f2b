package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/delordemm1/gooddeeds-api/internal/database"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
)

// Repository reads the catalog tables.
type Repository interface {
	ListActiveCategories(ctx context.Context) ([]Category, error)
	ListActiveProducts(ctx context.Context) ([]Product, error)
	RecentEvents(ctx context.Context, limit int) ([]Event, error)
	ToggleProductActive(ctx context.Context, id string) (*Product, error)
}

type repository struct {
	db   database.DBTX
	psql squirrel.StatementBuilderType
}

func NewRepository(db database.DBTX) Repository {
	return &repository{
		db:   db,
		psql: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var productColumns = []string{
	"id", "category_id", "name", "image_url", "price::float8 AS price", "currency", "is_active", "created_at",
}

func (r *repository) ListActiveCategories(ctx context.Context) ([]Category, error) {
	sql, args, err := r.psql.Select("id", "name", "icon", "is_active", "sort_order", "created_at").
		From("categories").
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("sort_order", "name").
		ToSql()
	if err != nil {
		return nil, err
	}

	var out []Category
	if err := pgxscan.Select(ctx, r.db, &out, sql, args...); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) ListActiveProducts(ctx context.Context) ([]Product, error) {
	sql, args, err := r.psql.Select(productColumns...).
		From("products").
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, err
	}

	var out []Product
	if err := pgxscan.Select(ctx, r.db, &out, sql, args...); err != nil {
		return nil, err
	}
	return out, nil
}

// RecentEvents returns active events, featured first, newest first.
func (r *repository) RecentEvents(ctx context.Context, limit int) ([]Event, error) {
	sql, args, err := r.psql.Select("id", "name", "image_url", "is_featured", "created_at").
		From("affected_events").
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("is_featured DESC", "created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, err
	}

	var out []Event
	if err := pgxscan.Select(ctx, r.db, &out, sql, args...); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) ToggleProductActive(ctx context.Context, id string) (*Product, error) {
	sql, args, err := r.psql.Update("products").
		Set("is_active", squirrel.Expr("NOT is_active")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(productColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, err
	}

	var p Product
	if err := pgxscan.Get(ctx, r.db, &p, sql, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound.WithCause(err)
		}
		return nil, err
	}
	return &p, nil
}
