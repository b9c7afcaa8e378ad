// Package directory holds the records the seeder creates in the directory
// database: users, listings and taxonomy terms.
package directory

import (
	"regexp"
	"strings"
	"time"
)

// User is a site member.
type User struct {
	ID           int64     `db:"id"`
	Login        string    `db:"login"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	DisplayName  string    `db:"display_name"`
	CreatedAt    time.Time `db:"created_at"`
}

// Listing is a directory entry owned by a user.
type Listing struct {
	ID            int64     `db:"id"`
	AuthorID      int64     `db:"author_id"`
	Title         string    `db:"title"`
	Content       string    `db:"content"`
	Status        string    `db:"status"`
	FeaturedImage string    `db:"featured_image"`
	CreatedAt     time.Time `db:"created_at"`
}

// Listing statuses.
const (
	StatusPublish = "publish"
	StatusPending = "pending"
	StatusExpired = "expired"
	StatusDraft   = "draft"
)

// ListingStatuses are the statuses "generate status" picks from.
var ListingStatuses = []string{StatusPublish, StatusPending, StatusExpired, StatusDraft}

// Term is one taxonomy entry. ParentID is 0 for top-level terms.
type Term struct {
	ID       int64  `db:"id"`
	Taxonomy string `db:"taxonomy"`
	Name     string `db:"name"`
	Slug     string `db:"slug"`
	ParentID int64  `db:"parent_id"`
}

// Taxonomy describes a listing vocabulary.
type Taxonomy struct {
	Name         string
	Label        string
	Hierarchical bool
}

// ListingTaxonomies are the test vocabularies registered on listings.
var ListingTaxonomies = []Taxonomy{
	{Name: "taxonomy1", Label: "Taxonomy 1", Hierarchical: true},
	{Name: "taxonomy2", Label: "Taxonomy 2"},
	{Name: "taxonomy3", Label: "Taxonomy 3"},
	{Name: "taxonomy4", Label: "Taxonomy 4", Hierarchical: true},
}

// FindTaxonomy looks up a listing taxonomy by name.
func FindTaxonomy(name string) (Taxonomy, bool) {
	for _, t := range ListingTaxonomies {
		if t.Name == name {
			return t, true
		}
	}
	return Taxonomy{}, false
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases s and joins alphanumeric runs with dashes.
func Slugify(s string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

// VersionOption is the options-table key holding the plugin version.
const VersionOption = "posterno_version"
