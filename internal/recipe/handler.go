// AngelaMos | 2026
// handler.go

package recipe

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/angelamos/recipebox/internal/core"
	"github.com/angelamos/recipebox/internal/middleware"
)

type Handler struct {
	service        *Service
	validator      *validator.Validate
	maxUploadBytes int64
}

func NewHandler(service *Service, maxUploadBytes int64) *Handler {
	return &Handler{
		service:        service,
		validator:      validator.New(validator.WithRequiredStructEnabled()),
		maxUploadBytes: maxUploadBytes,
	}
}

// RegisterRoutes mounts recipe endpoints. The caller mounts this under
// the recipe prefix behind the authenticator.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/recipes", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Put("/", h.Put)
			r.Patch("/", h.Patch)
			r.Delete("/", h.Delete)
			r.Post("/upload_image", h.UploadImage)
		})
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	var params ListParams
	var err error
	if params.TagIDs, err = parseIDList(r.URL.Query().Get("tags")); err != nil {
		core.BadRequest(w, "tags must be a comma-separated list of ids")
		return
	}
	params.IngredientIDs, err = parseIDList(r.URL.Query().Get("ingredients"))
	if err != nil {
		core.BadRequest(w, "ingredients must be a comma-separated list of ids")
		return
	}

	recipes, err := h.service.List(r.Context(), userID, params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToListItems(recipes))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		core.NotFound(w, "recipe")
		return
	}

	recipe, err := h.service.Get(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "recipe")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToDetail(recipe))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	var req CreateRecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.ValidationErrors(w, err)
		return
	}

	priceCents, err := ParsePrice(req.Price)
	if err != nil {
		core.JSONError(w, core.ValidationFailedError(
			"price must be a non-negative decimal with at most two places",
		))
		return
	}

	input := CreateInput{
		Title:       req.Title,
		TimeMinutes: *req.TimeMinutes,
		PriceCents:  priceCents,
		Description: req.Description,
		Link:        req.Link,
		Tags:        refNames(req.Tags),
		Ingredients: refNames(req.Ingredients),
	}

	recipe, err := h.service.Create(r.Context(), userID, input)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, ToDetail(recipe))
}

func (h *Handler) Put(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		core.NotFound(w, "recipe")
		return
	}

	var req PutRecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.ValidationErrors(w, err)
		return
	}

	priceCents, err := ParsePrice(req.Price)
	if err != nil {
		core.JSONError(w, core.ValidationFailedError(
			"price must be a non-negative decimal with at most two places",
		))
		return
	}

	input := UpdateInput{
		Title:       &req.Title,
		TimeMinutes: req.TimeMinutes,
		PriceCents:  &priceCents,
		Description: req.Description,
		Link:        req.Link,
	}
	if req.Tags != nil {
		names := refNames(*req.Tags)
		input.Tags = &names
	}
	if req.Ingredients != nil {
		names := refNames(*req.Ingredients)
		input.Ingredients = &names
	}

	h.update(w, r, userID, id, input)
}

func (h *Handler) Patch(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		core.NotFound(w, "recipe")
		return
	}

	var req PatchRecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.ValidationErrors(w, err)
		return
	}

	input := UpdateInput{
		Title:       req.Title,
		TimeMinutes: req.TimeMinutes,
		Description: req.Description,
		Link:        req.Link,
	}
	if req.Price != nil {
		priceCents, err := ParsePrice(*req.Price)
		if err != nil {
			core.JSONError(w, core.ValidationFailedError(
				"price must be a non-negative decimal with at most two places",
			))
			return
		}
		input.PriceCents = &priceCents
	}
	if req.Tags != nil {
		names := refNames(*req.Tags)
		input.Tags = &names
	}
	if req.Ingredients != nil {
		names := refNames(*req.Ingredients)
		input.Ingredients = &names
	}

	h.update(w, r, userID, id, input)
}

func (h *Handler) update(
	w http.ResponseWriter,
	r *http.Request,
	userID string,
	id int64,
	input UpdateInput,
) {
	recipe, err := h.service.Update(r.Context(), userID, id, input)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "recipe")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToDetail(recipe))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		core.NotFound(w, "recipe")
		return
	}

	if err := h.service.Delete(r.Context(), userID, id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "recipe")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		core.NotFound(w, "recipe")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		core.BadRequest(w, "invalid multipart form")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		core.BadRequest(w, "image file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		core.BadRequest(w, "could not read image file")
		return
	}

	recipe, err := h.service.UploadImage(r.Context(), userID, id, data)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotImage):
			core.JSONError(w, core.ValidationFailedError(
				"upload a valid image file",
			))
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "recipe")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.OK(w, ToImageResponse(recipe))
}

// parseIDList parses a comma-separated id filter like "1,2,3". An empty
// value means no filter.
func parseIDList(raw string) ([]int64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
