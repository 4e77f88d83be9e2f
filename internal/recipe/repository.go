// AngelaMos | 2026
// repository.go

package recipe

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/angelamos/recipebox/internal/core"
	"github.com/angelamos/recipebox/internal/taxonomy"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// priceExpr converts the numeric(7,2) column to integer cents on read.
const priceExpr = "(r.price * 100)::bigint AS price_cents"

var recipeColumns = []string{
	"r.id", "r.user_id", "r.title", "r.description", "r.time_minutes",
	priceExpr, "r.link", "r.image_path", "r.created_at", "r.updated_at",
}

type Repository interface {
	List(ctx context.Context, ownerID string, params ListParams) ([]Recipe, error)
	GetByID(ctx context.Context, ownerID string, id int64) (*Recipe, error)
	Create(ctx context.Context, r *Recipe) error
	Update(ctx context.Context, r *Recipe) error
	Delete(ctx context.Context, ownerID string, id int64) (sql.NullString, error)
	ReplaceAssociations(ctx context.Context, recipeID int64, kind taxonomy.Kind, itemIDs []int64) error
	SetImagePath(ctx context.Context, ownerID string, id int64, path string) error
}

type repository struct {
	db core.DBTX
}

// NewRepository builds a recipe store over db, which may be a pool or an
// open transaction.
func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) List(
	ctx context.Context,
	ownerID string,
	params ListParams,
) ([]Recipe, error) {
	q := psql.Select(recipeColumns...).
		From("recipes r").
		Where(squirrel.Eq{"r.user_id": ownerID}).
		OrderBy("r.id DESC")

	// Each filter joins its junction once; a recipe matching any of the
	// listed ids qualifies, and DISTINCT collapses multi-match rows.
	if len(params.TagIDs) > 0 {
		q = q.Distinct().
			Join("recipe_tags rt ON rt.recipe_id = r.id").
			Where(squirrel.Eq{"rt.tag_id": params.TagIDs})
	}
	if len(params.IngredientIDs) > 0 {
		q = q.Distinct().
			Join("recipe_ingredients ri ON ri.recipe_id = r.id").
			Where(squirrel.Eq{"ri.ingredient_id": params.IngredientIDs})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list recipes query: %w", err)
	}

	recipes := []Recipe{}
	if err := r.db.SelectContext(ctx, &recipes, query, args...); err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}

	if err := r.loadAssociations(ctx, recipes); err != nil {
		return nil, err
	}

	return recipes, nil
}

func (r *repository) GetByID(
	ctx context.Context,
	ownerID string,
	id int64,
) (*Recipe, error) {
	query, args, err := psql.Select(recipeColumns...).
		From("recipes r").
		Where(squirrel.Eq{"r.id": id, "r.user_id": ownerID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get recipe query: %w", err)
	}

	var recipe Recipe
	err = r.db.GetContext(ctx, &recipe, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get recipe: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get recipe: %w", err)
	}

	single := []Recipe{recipe}
	if err := r.loadAssociations(ctx, single); err != nil {
		return nil, err
	}

	return &single[0], nil
}

func (r *repository) Create(ctx context.Context, recipe *Recipe) error {
	query, args, err := psql.Insert("recipes").
		Columns("user_id", "title", "description", "time_minutes",
			"price", "link").
		Values(
			recipe.UserID,
			recipe.Title,
			recipe.Description,
			recipe.TimeMinutes,
			squirrel.Expr("?::numeric / 100", recipe.PriceCents),
			recipe.Link,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create recipe query: %w", err)
	}

	row := struct {
		ID        int64        `db:"id"`
		CreatedAt sql.NullTime `db:"created_at"`
		UpdatedAt sql.NullTime `db:"updated_at"`
	}{}
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return fmt.Errorf("create recipe: %w", err)
	}

	recipe.ID = row.ID
	recipe.CreatedAt = row.CreatedAt.Time
	recipe.UpdatedAt = row.UpdatedAt.Time
	return nil
}

func (r *repository) Update(ctx context.Context, recipe *Recipe) error {
	query, args, err := psql.Update("recipes").
		Set("title", recipe.Title).
		Set("description", recipe.Description).
		Set("time_minutes", recipe.TimeMinutes).
		Set("price", squirrel.Expr("?::numeric / 100", recipe.PriceCents)).
		Set("link", recipe.Link).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": recipe.ID, "user_id": recipe.UserID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update recipe query: %w", err)
	}

	err = r.db.GetContext(ctx, &recipe.UpdatedAt, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update recipe: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update recipe: %w", err)
	}

	return nil
}

// Delete removes an owned recipe and reports the image path that was
// attached so the caller can clean up the stored object.
func (r *repository) Delete(
	ctx context.Context,
	ownerID string,
	id int64,
) (sql.NullString, error) {
	query, args, err := psql.Delete("recipes").
		Where(squirrel.Eq{"id": id, "user_id": ownerID}).
		Suffix("RETURNING image_path").
		ToSql()
	if err != nil {
		return sql.NullString{}, fmt.Errorf("build delete recipe query: %w", err)
	}

	var imagePath sql.NullString
	err = r.db.GetContext(ctx, &imagePath, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return sql.NullString{}, fmt.Errorf("delete recipe: %w", core.ErrNotFound)
	}
	if err != nil {
		return sql.NullString{}, fmt.Errorf("delete recipe: %w", err)
	}

	return imagePath, nil
}

// ReplaceAssociations clears the recipe's junction rows for the given
// kind and attaches the new set.
func (r *repository) ReplaceAssociations(
	ctx context.Context,
	recipeID int64,
	kind taxonomy.Kind,
	itemIDs []int64,
) error {
	clearQuery, args, err := psql.Delete(kind.JunctionTable()).
		Where(squirrel.Eq{"recipe_id": recipeID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build clear %ss query: %w", kind, err)
	}
	if _, err := r.db.ExecContext(ctx, clearQuery, args...); err != nil {
		return fmt.Errorf("clear recipe %ss: %w", kind, err)
	}

	if len(itemIDs) == 0 {
		return nil
	}

	insert := psql.Insert(kind.JunctionTable()).
		Columns("recipe_id", kind.JunctionColumn())
	for _, itemID := range itemIDs {
		insert = insert.Values(recipeID, itemID)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("build attach %ss query: %w", kind, err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("attach recipe %ss: %w", kind, err)
	}

	return nil
}

func (r *repository) SetImagePath(
	ctx context.Context,
	ownerID string,
	id int64,
	path string,
) error {
	query, args, err := psql.Update("recipes").
		Set("image_path", path).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "user_id": ownerID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build set image query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("set recipe image: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set recipe image: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("set recipe image: %w", core.ErrNotFound)
	}

	return nil
}

type assocRow struct {
	RecipeID int64 `db:"recipe_id"`
	taxonomy.Item
}

// loadAssociations fills Tags and Ingredients on each recipe with one
// junction query per kind.
func (r *repository) loadAssociations(
	ctx context.Context,
	recipes []Recipe,
) error {
	if len(recipes) == 0 {
		return nil
	}

	index := make(map[int64]*Recipe, len(recipes))
	ids := make([]int64, 0, len(recipes))
	for i := range recipes {
		recipes[i].Tags = []taxonomy.Item{}
		recipes[i].Ingredients = []taxonomy.Item{}
		index[recipes[i].ID] = &recipes[i]
		ids = append(ids, recipes[i].ID)
	}

	for _, kind := range []taxonomy.Kind{taxonomy.KindTag, taxonomy.KindIngredient} {
		query, args, err := psql.
			Select("j.recipe_id", "t.id", "t.user_id", "t.name").
			From(kind.JunctionTable()+" j").
			Join(fmt.Sprintf(
				"%s t ON t.id = j.%s",
				kind.Table(), kind.JunctionColumn(),
			)).
			Where(squirrel.Eq{"j.recipe_id": ids}).
			OrderBy("t.id").
			ToSql()
		if err != nil {
			return fmt.Errorf("build load %ss query: %w", kind, err)
		}

		rows := []assocRow{}
		if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
			return fmt.Errorf("load recipe %ss: %w", kind, err)
		}

		for _, row := range rows {
			recipe := index[row.RecipeID]
			if recipe == nil {
				continue
			}
			if kind == taxonomy.KindTag {
				recipe.Tags = append(recipe.Tags, row.Item)
			} else {
				recipe.Ingredients = append(recipe.Ingredients, row.Item)
			}
		}
	}

	return nil
}
