// AngelaMos | 2026
// repository.go

package taxonomy

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/angelamos/recipebox/internal/core"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

type Repository interface {
	List(ctx context.Context, kind Kind, ownerID string, params ListParams) ([]Item, error)
	GetByID(ctx context.Context, kind Kind, ownerID string, id int64) (*Item, error)
	GetOrCreate(ctx context.Context, kind Kind, ownerID, name string) (*Item, error)
	Rename(ctx context.Context, kind Kind, ownerID string, id int64, name string) (*Item, error)
	Delete(ctx context.Context, kind Kind, ownerID string, id int64) error
}

type repository struct {
	db core.DBTX
}

// NewRepository builds a label store over db, which may be a pool or an
// open transaction.
func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) List(
	ctx context.Context,
	kind Kind,
	ownerID string,
	params ListParams,
) ([]Item, error) {
	q := psql.Select("t.id", "t.user_id", "t.name").
		From(kind.Table() + " t").
		Where(squirrel.Eq{"t.user_id": ownerID}).
		OrderBy("t.name DESC", "t.id DESC")

	if params.AssignedOnly {
		q = q.Distinct().Join(fmt.Sprintf(
			"%s j ON j.%s = t.id",
			kind.JunctionTable(), kind.JunctionColumn(),
		))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list %s query: %w", kind, err)
	}

	items := []Item{}
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("list %ss: %w", kind, err)
	}

	return items, nil
}

func (r *repository) GetByID(
	ctx context.Context,
	kind Kind,
	ownerID string,
	id int64,
) (*Item, error) {
	query, args, err := psql.Select("id", "user_id", "name").
		From(kind.Table()).
		Where(squirrel.Eq{"id": id, "user_id": ownerID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get %s query: %w", kind, err)
	}

	var item Item
	err = r.db.GetContext(ctx, &item, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get %s: %w", kind, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", kind, err)
	}

	return &item, nil
}

// GetOrCreate returns the owner's item with an exact name match, creating
// it when absent. Name matching is case-sensitive, so "Thai" and "thai"
// are distinct items.
func (r *repository) GetOrCreate(
	ctx context.Context,
	kind Kind,
	ownerID, name string,
) (*Item, error) {
	query, args, err := psql.Select("id", "user_id", "name").
		From(kind.Table()).
		Where(squirrel.Eq{"user_id": ownerID, "name": name}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find %s query: %w", kind, err)
	}

	var item Item
	err = r.db.GetContext(ctx, &item, query, args...)
	if err == nil {
		return &item, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find %s: %w", kind, err)
	}

	insert, args, err := psql.Insert(kind.Table()).
		Columns("user_id", "name").
		Values(ownerID, name).
		Suffix("RETURNING id, user_id, name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build create %s query: %w", kind, err)
	}

	if err := r.db.GetContext(ctx, &item, insert, args...); err != nil {
		return nil, fmt.Errorf("create %s: %w", kind, err)
	}

	return &item, nil
}

func (r *repository) Rename(
	ctx context.Context,
	kind Kind,
	ownerID string,
	id int64,
	name string,
) (*Item, error) {
	query, args, err := psql.Update(kind.Table()).
		Set("name", name).
		Where(squirrel.Eq{"id": id, "user_id": ownerID}).
		Suffix("RETURNING id, user_id, name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build rename %s query: %w", kind, err)
	}

	var item Item
	err = r.db.GetContext(ctx, &item, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("rename %s: %w", kind, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("rename %s: %w", kind, err)
	}

	return &item, nil
}

func (r *repository) Delete(
	ctx context.Context,
	kind Kind,
	ownerID string,
	id int64,
) error {
	query, args, err := psql.Delete(kind.Table()).
		Where(squirrel.Eq{"id": id, "user_id": ownerID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete %s query: %w", kind, err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete %s: %w", kind, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s: %w", kind, err)
	}

	if rows == 0 {
		return fmt.Errorf("delete %s: %w", kind, core.ErrNotFound)
	}

	return nil
}
