// AngelaMos | 2026
// dto.go

package recipe

import (
	"github.com/angelamos/recipebox/internal/taxonomy"
)

// NameRef references a tag or ingredient by name. Unknown names are
// created for the owner during reconciliation.
type NameRef struct {
	Name string `json:"name" validate:"required,max=255"`
}

type CreateRecipeRequest struct {
	Title       string    `json:"title" validate:"required,max=255"`
	TimeMinutes *int      `json:"time_minutes" validate:"required,min=0"`
	Price       string    `json:"price" validate:"required"`
	Description string    `json:"description"`
	Link        string    `json:"link" validate:"max=255"`
	Tags        []NameRef `json:"tags" validate:"omitempty,dive"`
	Ingredients []NameRef `json:"ingredients" validate:"omitempty,dive"`
}

// PutRecipeRequest is the full-update payload. Core fields are required;
// association lists and text extras stay untouched when omitted.
type PutRecipeRequest struct {
	Title       string     `json:"title" validate:"required,max=255"`
	TimeMinutes *int       `json:"time_minutes" validate:"required,min=0"`
	Price       string     `json:"price" validate:"required"`
	Description *string    `json:"description"`
	Link        *string    `json:"link" validate:"omitempty,max=255"`
	Tags        *[]NameRef `json:"tags" validate:"omitempty,dive"`
	Ingredients *[]NameRef `json:"ingredients" validate:"omitempty,dive"`
}

// PatchRecipeRequest is the partial-update payload. Nil means leave the
// field alone; a present association list, even an empty one, replaces
// the recipe's current set.
type PatchRecipeRequest struct {
	Title       *string    `json:"title" validate:"omitempty,max=255"`
	TimeMinutes *int       `json:"time_minutes" validate:"omitempty,min=0"`
	Price       *string    `json:"price"`
	Description *string    `json:"description"`
	Link        *string    `json:"link" validate:"omitempty,max=255"`
	Tags        *[]NameRef `json:"tags" validate:"omitempty,dive"`
	Ingredients *[]NameRef `json:"ingredients" validate:"omitempty,dive"`
}

// UpdateInput is the normalized form both update verbs reduce to.
type UpdateInput struct {
	Title       *string
	TimeMinutes *int
	PriceCents  *int64
	Description *string
	Link        *string
	Tags        *[]string
	Ingredients *[]string
}

type CreateInput struct {
	Title       string
	TimeMinutes int
	PriceCents  int64
	Description string
	Link        string
	Tags        []string
	Ingredients []string
}

type ListParams struct {
	TagIDs        []int64
	IngredientIDs []int64
}

// RecipeListItem is the list shape: nested associations but no
// description or image.
type RecipeListItem struct {
	ID          int64                   `json:"id"`
	Title       string                  `json:"title"`
	TimeMinutes int                     `json:"time_minutes"`
	Price       string                  `json:"price"`
	Link        string                  `json:"link"`
	Tags        []taxonomy.ItemResponse `json:"tags"`
	Ingredients []taxonomy.ItemResponse `json:"ingredients"`
}

// RecipeDetail expands associations into full objects and carries the
// image location when one has been uploaded.
type RecipeDetail struct {
	ID          int64                   `json:"id"`
	Title       string                  `json:"title"`
	TimeMinutes int                     `json:"time_minutes"`
	Price       string                  `json:"price"`
	Description string                  `json:"description"`
	Link        string                  `json:"link"`
	Tags        []taxonomy.ItemResponse `json:"tags"`
	Ingredients []taxonomy.ItemResponse `json:"ingredients"`
	Image       *string                 `json:"image"`
}

type RecipeImageResponse struct {
	ID    int64   `json:"id"`
	Image *string `json:"image"`
}

func refNames(refs []NameRef) []string {
	names := make([]string, 0, len(refs))
	for _, ref := range refs {
		names = append(names, ref.Name)
	}
	return names
}

func ToListItem(r *Recipe) RecipeListItem {
	return RecipeListItem{
		ID:          r.ID,
		Title:       r.Title,
		TimeMinutes: r.TimeMinutes,
		Price:       FormatPrice(r.PriceCents),
		Link:        r.Link,
		Tags:        taxonomy.ToItemResponseList(r.Tags),
		Ingredients: taxonomy.ToItemResponseList(r.Ingredients),
	}
}

func ToListItems(recipes []Recipe) []RecipeListItem {
	out := make([]RecipeListItem, 0, len(recipes))
	for i := range recipes {
		out = append(out, ToListItem(&recipes[i]))
	}
	return out
}

func ToDetail(r *Recipe) RecipeDetail {
	detail := RecipeDetail{
		ID:          r.ID,
		Title:       r.Title,
		TimeMinutes: r.TimeMinutes,
		Price:       FormatPrice(r.PriceCents),
		Description: r.Description,
		Link:        r.Link,
		Tags:        taxonomy.ToItemResponseList(r.Tags),
		Ingredients: taxonomy.ToItemResponseList(r.Ingredients),
	}
	if r.ImagePath.Valid {
		detail.Image = &r.ImagePath.String
	}
	return detail
}

func ToImageResponse(r *Recipe) RecipeImageResponse {
	resp := RecipeImageResponse{ID: r.ID}
	if r.ImagePath.Valid {
		resp.Image = &r.ImagePath.String
	}
	return resp
}
