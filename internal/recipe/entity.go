// AngelaMos | 2026
// entity.go

package recipe

import (
	"database/sql"
	"time"

	"github.com/angelamos/recipebox/internal/taxonomy"
)

// Recipe is a user-owned recipe. Price is carried as integer cents; the
// database column is numeric(7,2) and queries convert at the boundary.
type Recipe struct {
	ID          int64          `db:"id"`
	UserID      string         `db:"user_id"`
	Title       string         `db:"title"`
	Description string         `db:"description"`
	TimeMinutes int            `db:"time_minutes"`
	PriceCents  int64          `db:"price_cents"`
	Link        string         `db:"link"`
	ImagePath   sql.NullString `db:"image_path"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`

	Tags        []taxonomy.Item `db:"-"`
	Ingredients []taxonomy.Item `db:"-"`
}
