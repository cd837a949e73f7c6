package models

// UnknownName is the placeholder stored when no real display name is
// available for a user yet. The backfill job targets rows carrying it.
const UnknownName = "Unknown"

// Project status values.
const (
	StatusLost  = "lost"
	StatusFound = "found"
)

// Project categories.
const (
	CategoryHuman  = "human"
	CategoryAnimal = "animal"
	CategoryPlant  = "plant"
)

// User mirrors an identity-provider account. The id is issued by the
// provider and immutable once created.
type User struct {
	ID      string `json:"id" db:"id"`
	Name    string `json:"name" db:"name"`
	Email   string `json:"email,omitempty" db:"email"`
	Phone   string `json:"phone,omitempty" db:"phone"`
	Created int64  `json:"created" db:"created"`
}

// Project is a lost/found item report.
type Project struct {
	ID          int64    `json:"id" db:"id"`
	Title       string   `json:"title" db:"title"`
	Description string   `json:"description" db:"description"`
	Status      string   `json:"status" db:"status"`
	Category    string   `json:"category" db:"category"`
	Lat         float64  `json:"lat" db:"lat"`
	Lng         float64  `json:"lng" db:"lng"`
	ImageURL    *string  `json:"image_url,omitempty" db:"image_url"`
	Created     int64    `json:"created" db:"created"`
	UserID      string   `json:"user_id" db:"user_id"`
	Creator     *Creator `json:"creator,omitempty" db:"-"`
}

// Creator is the lightweight user summary embedded in project listings.
// When the owning user row is gone both Name and Email fall back to
// the Unknown sentinel instead of failing the listing.
type Creator struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Like struct {
	ID        int64  `json:"id" db:"id"`
	UserID    string `json:"user_id" db:"user_id"`
	ProjectID int64  `json:"project_id" db:"project_id"`
	Created   int64  `json:"created" db:"created"`
}

type Comment struct {
	ID        int64  `json:"id" db:"id"`
	Content   string `json:"content" db:"content"`
	Created   int64  `json:"created" db:"created"`
	UserID    string `json:"user_id" db:"user_id"`
	ProjectID int64  `json:"project_id" db:"project_id"`
}

// ValidStatus reports whether s is one of the closed status set.
func ValidStatus(s string) bool {
	return s == StatusLost || s == StatusFound
}

// ValidCategory reports whether c is one of the closed category set.
func ValidCategory(c string) bool {
	return c == CategoryHuman || c == CategoryAnimal || c == CategoryPlant
}
