package wishlist

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/delordemm1/gooddeeds-api/internal/database"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository persists beneficiary desired items.
type Repository interface {
	// ReplaceAll makes the stored set equal to items in one transaction.
	ReplaceAll(ctx context.Context, userID string, items []Item) error
	UpdateQuantity(ctx context.Context, userID, productID string, quantity int) error
	Remove(ctx context.Context, userID, productID string) error
	ListGrouped(ctx context.Context, userIDs []string) ([]groupedRow, error)
}

type repository struct {
	db   database.TxDB
	psql squirrel.StatementBuilderType
}

func NewRepository(db database.TxDB) Repository {
	return &repository{
		db:   db,
		psql: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *repository) ReplaceAll(ctx context.Context, userID string, items []Item) error {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}

	return database.RunInTx(ctx, r.db, func(tx pgx.Tx) error {
		if len(ids) > 0 {
			sql, args, err := r.psql.Select("count(*)").
				From("products").
				Where(squirrel.Eq{"id": ids, "is_active": true}).
				ToSql()
			if err != nil {
				return err
			}
			var active int
			if err := tx.QueryRow(ctx, sql, args...).Scan(&active); err != nil {
				return err
			}
			if active != len(ids) {
				return ErrUnknownProduct
			}
		}

		del := r.psql.Delete("beneficiary_desired_items").Where(squirrel.Eq{"user_id": userID})
		if len(ids) > 0 {
			del = del.Where(squirrel.NotEq{"product_id": ids})
		}
		sql, args, err := del.ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return err
		}

		if len(items) == 0 {
			return nil
		}

		now := time.Now()
		ins := r.psql.Insert("beneficiary_desired_items").
			Columns("id", "user_id", "product_id", "quantity", "created_at", "updated_at")
		for _, it := range items {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			ins = ins.Values(id.String(), userID, it.ProductID, it.Quantity, now, now)
		}
		sql, args, err = ins.
			Suffix("ON CONFLICT (user_id, product_id) DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = EXCLUDED.updated_at").
			ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			if database.IsForeignKeyViolation(err) {
				return ErrUnknownProduct.WithCause(err)
			}
			return err
		}
		return nil
	})
}

func (r *repository) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) error {
	sql, args, err := r.psql.Update("beneficiary_desired_items").
		Set("quantity", quantity).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"user_id": userID, "product_id": productID}).
		ToSql()
	if err != nil {
		return err
	}
	ct, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *repository) Remove(ctx context.Context, userID, productID string) error {
	sql, args, err := r.psql.Delete("beneficiary_desired_items").
		Where(squirrel.Eq{"user_id": userID, "product_id": productID}).
		ToSql()
	if err != nil {
		return err
	}
	ct, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}

// ListGrouped returns the desired items of every user in userIDs whose product
// and category are active, ordered for grouping.
func (r *repository) ListGrouped(ctx context.Context, userIDs []string) ([]groupedRow, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	sql, args, err := r.psql.Select(
		"d.user_id", "c.id AS category_id", "c.name AS category_name", "c.icon AS category_icon",
		"p.id AS product_id", "p.name", "p.image_url", "p.price::float8 AS price", "p.currency",
		"d.quantity",
	).
		From("beneficiary_desired_items d").
		Join("products p ON p.id = d.product_id").
		Join("categories c ON c.id = p.category_id").
		Where(squirrel.Eq{"d.user_id": userIDs, "p.is_active": true, "c.is_active": true}).
		OrderBy("d.user_id", "c.sort_order", "c.name", "p.name").
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []groupedRow
	if err := pgxscan.Select(ctx, r.db, &rows, sql, args...); err != nil {
		return nil, err
	}
	return rows, nil
}
