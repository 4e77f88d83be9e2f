// AngelaMos | 2026
// handler.go

package taxonomy

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/angelamos/recipebox/internal/core"
	"github.com/angelamos/recipebox/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// RegisterRoutes mounts tag and ingredient endpoints. The caller mounts
// this under the recipe prefix behind the authenticator.
func (h *Handler) RegisterRoutes(r chi.Router) {
	for _, kind := range []Kind{KindTag, KindIngredient} {
		kind := kind
		r.Route("/"+kind.Table(), func(r chi.Router) {
			r.Get("/", h.list(kind))
			r.Route("/{id}", func(r chi.Router) {
				r.Put("/", h.rename(kind))
				r.Patch("/", h.rename(kind))
				r.Delete("/", h.delete(kind))
			})
		})
	}
}

func (h *Handler) list(kind Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.GetUserID(r.Context())
		if userID == "" {
			core.Unauthorized(w, "")
			return
		}

		params := ListParams{
			AssignedOnly: parseBoolParam(
				r.URL.Query().Get("assigned_only"),
			),
		}

		items, err := h.service.List(r.Context(), kind, userID, params)
		if err != nil {
			core.InternalServerError(w, err)
			return
		}

		core.OK(w, ToItemResponseList(items))
	}
}

func (h *Handler) rename(kind Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.GetUserID(r.Context())
		if userID == "" {
			core.Unauthorized(w, "")
			return
		}

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			core.NotFound(w, string(kind))
			return
		}

		var req RenameRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			core.BadRequest(w, "invalid request body")
			return
		}

		if err := h.validator.Struct(req); err != nil {
			core.ValidationErrors(w, err)
			return
		}

		item, err := h.service.Rename(r.Context(), kind, userID, id, req.Name)
		if err != nil {
			if errors.Is(err, core.ErrNotFound) {
				core.NotFound(w, string(kind))
				return
			}
			core.InternalServerError(w, err)
			return
		}

		core.OK(w, ToItemResponse(item))
	}
}

func (h *Handler) delete(kind Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.GetUserID(r.Context())
		if userID == "" {
			core.Unauthorized(w, "")
			return
		}

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			core.NotFound(w, string(kind))
			return
		}

		err = h.service.Delete(r.Context(), kind, userID, id)
		if err != nil {
			if errors.Is(err, core.ErrNotFound) {
				core.NotFound(w, string(kind))
				return
			}
			core.InternalServerError(w, err)
			return
		}

		core.NoContent(w)
	}
}

// parseBoolParam follows the loose query convention where "1" and "true"
// switch a flag on and everything else leaves it off.
func parseBoolParam(v string) bool {
	return v == "1" || v == "true"
}
