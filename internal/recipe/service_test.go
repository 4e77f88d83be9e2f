// AngelaMos | 2026
// service_test.go

package recipe

import (
	"context"
	"database/sql"
	"io"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ownerID = "4fd829d9-0678-4f79-a5e2-63164b6d61d0"

func newMockService(t *testing.T) (*Service, sqlmock.Sqlmock, *fakeStorage) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := &fakeStorage{objects: map[string][]byte{}}
	return NewService(sqlx.NewDb(db, "pgx"), store), mock, store
}

type fakeStorage struct {
	objects map[string][]byte
	deleted []string
}

func (f *fakeStorage) Put(
	_ context.Context,
	key string,
	r io.Reader,
	_ int64,
	_ string,
) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.objects[key] = data
	return nil
}

func (f *fakeStorage) Get(_ context.Context, key string) (io.ReadCloser, error) {
	return nil, nil
}

func (f *fakeStorage) Delete(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	delete(f.objects, key)
	return nil
}

func recipeRows(id int64, title string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "user_id", "title", "description", "time_minutes",
		"price_cents", "link", "image_path", "created_at", "updated_at",
	}).AddRow(id, ownerID, title, "", 30, int64(550), "", nil, now, now)
}

func assocColumns() []string {
	return []string{"recipe_id", "id", "user_id", "name"}
}

func expectReload(mock sqlmock.Sqlmock, recipeID int64, title string) {
	mock.ExpectQuery(`SELECT .* FROM recipes r WHERE`).
		WillReturnRows(recipeRows(recipeID, title))
	mock.ExpectQuery(`SELECT .* FROM recipe_tags j JOIN tags t`).
		WillReturnRows(sqlmock.NewRows(assocColumns()))
	mock.ExpectQuery(`SELECT .* FROM recipe_ingredients j JOIN ingredients t`).
		WillReturnRows(sqlmock.NewRows(assocColumns()))
}

func TestService_Create_ReusesExistingTag(t *testing.T) {
	svc, mock, _ := newMockService(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO recipes`).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "created_at", "updated_at"},
		).AddRow(int64(1), now, now))

	// "Thai" already exists for this owner, so no tag insert happens.
	mock.ExpectQuery(`SELECT id, user_id, name FROM tags WHERE`).
		WithArgs("Thai", ownerID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name"}).
			AddRow(int64(5), ownerID, "Thai"))
	mock.ExpectExec(`DELETE FROM recipe_tags WHERE recipe_id`).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO recipe_tags \(recipe_id,tag_id\)`).
		WithArgs(int64(1), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	// "Salt" is unknown and gets created.
	mock.ExpectQuery(`SELECT id, user_id, name FROM ingredients WHERE`).
		WithArgs("Salt", ownerID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name"}))
	mock.ExpectQuery(`INSERT INTO ingredients \(user_id,name\)`).
		WithArgs(ownerID, "Salt").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name"}).
			AddRow(int64(9), ownerID, "Salt"))
	mock.ExpectExec(`DELETE FROM recipe_ingredients WHERE recipe_id`).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO recipe_ingredients \(recipe_id,ingredient_id\)`).
		WithArgs(int64(1), int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	expectReload(mock, 1, "Thai curry")
	mock.ExpectCommit()

	created, err := svc.Create(context.Background(), ownerID, CreateInput{
		Title:       "Thai curry",
		TimeMinutes: 30,
		PriceCents:  550,
		Tags:        []string{"Thai"},
		Ingredients: []string{"Salt"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Create_DeduplicatesNames(t *testing.T) {
	svc, mock, _ := newMockService(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO recipes`).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "created_at", "updated_at"},
		).AddRow(int64(2), now, now))

	// Both lookups resolve to the same row; only one junction row is
	// attached.
	for i := 0; i < 2; i++ {
		mock.ExpectQuery(`SELECT id, user_id, name FROM tags WHERE`).
			WithArgs("Thai", ownerID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name"}).
				AddRow(int64(5), ownerID, "Thai"))
	}
	mock.ExpectExec(`DELETE FROM recipe_tags WHERE recipe_id`).
		WithArgs(int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO recipe_tags \(recipe_id,tag_id\) VALUES \(\$1,\$2\)`).
		WithArgs(int64(2), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectExec(`DELETE FROM recipe_ingredients WHERE recipe_id`).
		WithArgs(int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	expectReload(mock, 2, "Thai curry")
	mock.ExpectCommit()

	_, err := svc.Create(context.Background(), ownerID, CreateInput{
		Title:       "Thai curry",
		TimeMinutes: 30,
		PriceCents:  550,
		Tags:        []string{"Thai", "Thai"},
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Update_EmptyTagsClearsAssociations(t *testing.T) {
	svc, mock, _ := newMockService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM recipes r WHERE`).
		WillReturnRows(recipeRows(3, "Old title"))
	mock.ExpectQuery(`SELECT .* FROM recipe_tags j JOIN tags t`).
		WillReturnRows(sqlmock.NewRows(assocColumns()).
			AddRow(int64(3), int64(5), ownerID, "Thai"))
	mock.ExpectQuery(`SELECT .* FROM recipe_ingredients j JOIN ingredients t`).
		WillReturnRows(sqlmock.NewRows(assocColumns()))

	mock.ExpectQuery(`UPDATE recipes SET`).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).
			AddRow(time.Now()))

	// An explicit empty list clears the set and attaches nothing.
	mock.ExpectExec(`DELETE FROM recipe_tags WHERE recipe_id`).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	expectReload(mock, 3, "Old title")
	mock.ExpectCommit()

	empty := []string{}
	_, err := svc.Update(context.Background(), ownerID, 3, UpdateInput{
		Tags: &empty,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Update_AbsentTagsLeaveAssociations(t *testing.T) {
	svc, mock, _ := newMockService(t)

	title := "New title"

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM recipes r WHERE`).
		WillReturnRows(recipeRows(4, "Old title"))
	mock.ExpectQuery(`SELECT .* FROM recipe_tags j JOIN tags t`).
		WillReturnRows(sqlmock.NewRows(assocColumns()).
			AddRow(int64(4), int64(5), ownerID, "Thai"))
	mock.ExpectQuery(`SELECT .* FROM recipe_ingredients j JOIN ingredients t`).
		WillReturnRows(sqlmock.NewRows(assocColumns()))

	mock.ExpectQuery(`UPDATE recipes SET`).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).
			AddRow(time.Now()))

	// No junction statements: a nil list leaves associations alone.
	expectReload(mock, 4, title)
	mock.ExpectCommit()

	_, err := svc.Update(context.Background(), ownerID, 4, UpdateInput{
		Title: &title,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Delete_RemovesStoredImage(t *testing.T) {
	svc, mock, store := newMockService(t)

	mock.ExpectQuery(`DELETE FROM recipes WHERE`).
		WillReturnRows(sqlmock.NewRows([]string{"image_path"}).
			AddRow(sql.NullString{String: "uploads/recipe/abc.png", Valid: true}))

	err := svc.Delete(context.Background(), ownerID, 7)
	require.NoError(t, err)
	assert.Equal(t, []string{"uploads/recipe/abc.png"}, store.deleted)
	require.NoError(t, mock.ExpectationsWereMet())
}
