// AngelaMos | 2026
// dto_test.go

package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/angelamos/recipebox/internal/taxonomy"
)

func TestToListItem_NestsAssociations(t *testing.T) {
	r := &Recipe{
		ID:          7,
		Title:       "Pad Thai",
		TimeMinutes: 25,
		PriceCents:  799,
		Tags: []taxonomy.Item{
			{ID: 2, UserID: ownerID, Name: "Thai"},
		},
		Ingredients: []taxonomy.Item{
			{ID: 5, UserID: ownerID, Name: "Rice noodles"},
		},
	}

	item := ToListItem(r)

	assert.Equal(t, int64(7), item.ID)
	assert.Equal(t, "7.99", item.Price)
	assert.Equal(
		t,
		[]taxonomy.ItemResponse{{ID: 2, Name: "Thai"}},
		item.Tags,
	)
	assert.Equal(
		t,
		[]taxonomy.ItemResponse{{ID: 5, Name: "Rice noodles"}},
		item.Ingredients,
	)
}

func TestToListItem_EmptyAssociationsStayNonNil(t *testing.T) {
	item := ToListItem(&Recipe{
		ID:          1,
		Tags:        []taxonomy.Item{},
		Ingredients: []taxonomy.Item{},
	})

	assert.NotNil(t, item.Tags)
	assert.NotNil(t, item.Ingredients)
}
