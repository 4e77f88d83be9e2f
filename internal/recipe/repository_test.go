// AngelaMos | 2026
// repository_test.go

package recipe

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepository(sqlx.NewDb(db, "pgx")), mock
}

func listRows(ids ...int64) *sqlmock.Rows {
	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "user_id", "title", "description", "time_minutes",
		"price_cents", "link", "image_path", "created_at", "updated_at",
	})
	for _, id := range ids {
		rows.AddRow(id, ownerID, "Recipe", "", 30, int64(550), "", nil, now, now)
	}
	return rows
}

func TestRepository_List_FiltersByTagIDs(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT DISTINCT r.id, .* FROM recipes r JOIN recipe_tags rt ON rt.recipe_id = r.id WHERE r.user_id = \$1 AND rt.tag_id IN \(\$2,\$3\) ORDER BY r.id DESC`).
		WithArgs(ownerID, int64(2), int64(7)).
		WillReturnRows(listRows(9, 4))
	mock.ExpectQuery(`SELECT j.recipe_id, t.id, t.user_id, t.name FROM recipe_tags j JOIN tags t ON t.id = j.tag_id WHERE j.recipe_id IN \(\$1,\$2\) ORDER BY t.id`).
		WithArgs(int64(9), int64(4)).
		WillReturnRows(sqlmock.NewRows(assocColumns()).
			AddRow(int64(9), int64(2), ownerID, "Vegan").
			AddRow(int64(4), int64(7), ownerID, "Dessert"))
	mock.ExpectQuery(`SELECT j.recipe_id, t.id, t.user_id, t.name FROM recipe_ingredients j JOIN ingredients t`).
		WillReturnRows(sqlmock.NewRows(assocColumns()))

	recipes, err := repo.List(context.Background(), ownerID, ListParams{
		TagIDs: []int64{2, 7},
	})
	require.NoError(t, err)
	require.Len(t, recipes, 2)
	assert.Equal(t, int64(9), recipes[0].ID)
	assert.Equal(t, int64(4), recipes[1].ID)
	require.Len(t, recipes[0].Tags, 1)
	assert.Equal(t, "Vegan", recipes[0].Tags[0].Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_List_CombinesTagAndIngredientFilters(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT DISTINCT r.id, .* FROM recipes r JOIN recipe_tags rt ON rt.recipe_id = r.id JOIN recipe_ingredients ri ON ri.recipe_id = r.id WHERE r.user_id = \$1 AND rt.tag_id IN \(\$2\) AND ri.ingredient_id IN \(\$3\) ORDER BY r.id DESC`).
		WithArgs(ownerID, int64(2), int64(5)).
		WillReturnRows(listRows(6))
	mock.ExpectQuery(`SELECT j.recipe_id, t.id, t.user_id, t.name FROM recipe_tags j JOIN tags t`).
		WillReturnRows(sqlmock.NewRows(assocColumns()))
	mock.ExpectQuery(`SELECT j.recipe_id, t.id, t.user_id, t.name FROM recipe_ingredients j JOIN ingredients t`).
		WillReturnRows(sqlmock.NewRows(assocColumns()))

	recipes, err := repo.List(context.Background(), ownerID, ListParams{
		TagIDs:        []int64{2},
		IngredientIDs: []int64{5},
	})
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, int64(6), recipes[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_List_UnfilteredOrdersByIDDescending(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT r.id, .* FROM recipes r WHERE r.user_id = \$1 ORDER BY r.id DESC`).
		WithArgs(ownerID).
		WillReturnRows(listRows(8, 3, 1))
	mock.ExpectQuery(`SELECT j.recipe_id, t.id, t.user_id, t.name FROM recipe_tags j JOIN tags t`).
		WillReturnRows(sqlmock.NewRows(assocColumns()))
	mock.ExpectQuery(`SELECT j.recipe_id, t.id, t.user_id, t.name FROM recipe_ingredients j JOIN ingredients t`).
		WillReturnRows(sqlmock.NewRows(assocColumns()))

	recipes, err := repo.List(context.Background(), ownerID, ListParams{})
	require.NoError(t, err)
	require.Len(t, recipes, 3)
	assert.Equal(t, int64(8), recipes[0].ID)
	assert.Equal(t, int64(1), recipes[2].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
