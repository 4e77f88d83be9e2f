// AngelaMos | 2026
// repository_test.go

package taxonomy

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelamos/recipebox/internal/core"
)

const ownerID = "4fd829d9-0678-4f79-a5e2-63164b6d61d0"

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepository(sqlx.NewDb(db, "pgx")), mock
}

func TestRepository_List_OrdersByNameDescending(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT t.id, t.user_id, t.name FROM tags t WHERE t.user_id = \$1 ORDER BY t.name DESC`).
		WithArgs(ownerID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name"}).
			AddRow(int64(2), ownerID, "Vegan").
			AddRow(int64(1), ownerID, "Dessert"))

	items, err := repo.List(context.Background(), KindTag, ownerID, ListParams{})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Vegan", items[0].Name)
	assert.Equal(t, "Dessert", items[1].Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_List_AssignedOnlyJoinsJunction(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT DISTINCT t.id, t.user_id, t.name FROM ingredients t JOIN recipe_ingredients j ON j.ingredient_id = t.id`).
		WithArgs(ownerID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name"}).
			AddRow(int64(3), ownerID, "Salt"))

	items, err := repo.List(
		context.Background(),
		KindIngredient,
		ownerID,
		ListParams{AssignedOnly: true},
	)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Salt", items[0].Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetOrCreate_FindsExisting(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT id, user_id, name FROM tags WHERE name = \$1 AND user_id = \$2 LIMIT 1`).
		WithArgs("Thai", ownerID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name"}).
			AddRow(int64(5), ownerID, "Thai"))

	item, err := repo.GetOrCreate(context.Background(), KindTag, ownerID, "Thai")
	require.NoError(t, err)
	assert.Equal(t, int64(5), item.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetOrCreate_CreatesMissing(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT id, user_id, name FROM tags WHERE`).
		WithArgs("Comfort food", ownerID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name"}))
	mock.ExpectQuery(`INSERT INTO tags \(user_id,name\) VALUES \(\$1,\$2\) RETURNING id, user_id, name`).
		WithArgs(ownerID, "Comfort food").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name"}).
			AddRow(int64(8), ownerID, "Comfort food"))

	item, err := repo.GetOrCreate(
		context.Background(),
		KindTag,
		ownerID,
		"Comfort food",
	)
	require.NoError(t, err)
	assert.Equal(t, int64(8), item.ID)
	assert.Equal(t, "Comfort food", item.Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Rename_NotOwnedReturnsNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`UPDATE tags SET name = \$1 WHERE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name"}))

	_, err := repo.Rename(context.Background(), KindTag, ownerID, 42, "Fusion")
	assert.ErrorIs(t, err, core.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Delete_NotOwnedReturnsNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`DELETE FROM ingredients WHERE`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), KindIngredient, ownerID, 42)
	assert.ErrorIs(t, err, core.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
