// AngelaMos | 2026
// dto.go

package taxonomy

type RenameRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

type ItemResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type ListParams struct {
	// AssignedOnly keeps only items attached to at least one recipe.
	AssignedOnly bool
}

func ToItemResponse(item *Item) ItemResponse {
	return ItemResponse{ID: item.ID, Name: item.Name}
}

func ToItemResponseList(items []Item) []ItemResponse {
	out := make([]ItemResponse, 0, len(items))
	for i := range items {
		out = append(out, ToItemResponse(&items[i]))
	}
	return out
}
