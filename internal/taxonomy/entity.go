// AngelaMos | 2026
// entity.go

package taxonomy

// Kind selects which label table an operation targets. Tags and
// ingredients carry identical shapes and rules, so one package serves
// both and the kind picks the tables.
type Kind string

const (
	KindTag        Kind = "tag"
	KindIngredient Kind = "ingredient"
)

func (k Kind) Table() string {
	if k == KindIngredient {
		return "ingredients"
	}
	return "tags"
}

func (k Kind) JunctionTable() string {
	if k == KindIngredient {
		return "recipe_ingredients"
	}
	return "recipe_tags"
}

func (k Kind) JunctionColumn() string {
	if k == KindIngredient {
		return "ingredient_id"
	}
	return "tag_id"
}

// Item is a user-owned label: a tag or an ingredient.
type Item struct {
	ID     int64  `db:"id"`
	UserID string `db:"user_id"`
	Name   string `db:"name"`
}
