// AngelaMos | 2026
// handler_test.go

package taxonomy

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelamos/recipebox/internal/middleware"
)

func newTestRouter(t *testing.T) (chi.Router, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	handler := NewHandler(NewService(NewRepository(sqlx.NewDb(db, "pgx"))))
	router := chi.NewRouter()
	handler.RegisterRoutes(router)
	return router, mock
}

func authed(r *http.Request) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.UserIDKey, ownerID)
	return r.WithContext(ctx)
}

func TestHandler_ListTags(t *testing.T) {
	router, mock := newTestRouter(t)

	mock.ExpectQuery(`SELECT t.id, t.user_id, t.name FROM tags t`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name"}).
			AddRow(int64(2), ownerID, "Vegan").
			AddRow(int64(1), ownerID, "Dessert"))

	req := httptest.NewRequest(http.MethodGet, "/tags/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authed(req))

	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Success bool           `json:"success"`
		Data    []ItemResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 2)
	assert.Equal(t, "Vegan", envelope.Data[0].Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_RenameIngredient(t *testing.T) {
	router, mock := newTestRouter(t)

	mock.ExpectQuery(`UPDATE ingredients SET name = \$1`).
		WithArgs("Sea salt", int64(3), ownerID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name"}).
			AddRow(int64(3), ownerID, "Sea salt"))

	req := httptest.NewRequest(
		http.MethodPatch,
		"/ingredients/3/",
		strings.NewReader(`{"name":"Sea salt"}`),
	)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authed(req))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Sea salt")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Rename_MissingName(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(
		http.MethodPatch,
		"/tags/3/",
		strings.NewReader(`{}`),
	)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authed(req))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Delete_NonNumericID(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodDelete, "/tags/abc/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authed(req))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
