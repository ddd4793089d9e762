// Package content serves the portfolio records shown over the backdrop:
// the education and about cards of the landing section, then projects,
// clubs and research.
//
// A [Store] lists the records of one [Category] in display order. Two
// backends exist: [TOMLStore] reads a TOML registry (an embedded default or
// a file) and [MongoStore] reads the "records" collection of a MongoDB
// database. [CachedStore] puts a [cache.Cache] in front of either.
package content

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/ridgeline/pkg/errors"
)

// Category groups records into one page section.
type Category string

// Categories in page order.
const (
	Education Category = "education"
	About     Category = "about"
	Projects  Category = "projects"
	Clubs     Category = "clubs"
	Research  Category = "research"
)

// Categories returns every category in page order.
func Categories() []Category {
	return []Category{Education, About, Projects, Clubs, Research}
}

// ParseCategory validates a category name. Matching is case-insensitive.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(Categories(), c) {
		return c, nil
	}
	names := make([]string, 0, len(Categories()))
	for _, cat := range Categories() {
		names = append(names, string(cat))
	}
	return "", errors.New(errors.ErrCodeInvalidCategory, "unknown category %q (must be one of: %s)", s, strings.Join(names, ", "))
}

// Record is one card in a section.
type Record struct {
	Category    Category `toml:"-" json:"category" bson:"category"`
	Title       string   `toml:"title" json:"title" bson:"title"`
	Description string   `toml:"description" json:"description" bson:"description"`
	Tags        []string `toml:"tags" json:"tags,omitempty" bson:"tags,omitempty"`
	Role        string   `toml:"role" json:"role,omitempty" bson:"role,omitempty"`
	Media       Media    `toml:"media" json:"media" bson:"media"`
	Links       []Link   `toml:"links" json:"links,omitempty" bson:"links,omitempty"`
	Stats       []Stat   `toml:"stats" json:"stats,omitempty" bson:"stats,omitempty"`
	Color       string   `toml:"color" json:"color,omitempty" bson:"color,omitempty"`
	Date        string   `toml:"date" json:"date,omitempty" bson:"date,omitempty"`
	Field       string   `toml:"field" json:"field,omitempty" bson:"field,omitempty"`
	Status      string   `toml:"status" json:"status,omitempty" bson:"status,omitempty"`
	Order       int      `toml:"order" json:"order" bson:"order"`

	// Degree details, set on education records.
	Institution string   `toml:"institution" json:"institution,omitempty" bson:"institution,omitempty"`
	Honors      string   `toml:"honors" json:"honors,omitempty" bson:"honors,omitempty"`
	Tracks      []string `toml:"tracks" json:"tracks,omitempty" bson:"tracks,omitempty"`
	Courses     []Course `toml:"courses" json:"courses,omitempty" bson:"courses,omitempty"`
}

// Course is a coursework chip; Name is shown as its tooltip.
type Course struct {
	Code string `toml:"code" json:"code" bson:"code"`
	Name string `toml:"name" json:"name,omitempty" bson:"name,omitempty"`
}

// Paragraphs splits Description on blank lines.
func (r Record) Paragraphs() []string {
	var out []string
	for _, p := range strings.Split(r.Description, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Media points at a record's icon and image carousel.
type Media struct {
	Icon     string `toml:"icon" json:"icon,omitempty" bson:"icon,omitempty"`
	Folder   string `toml:"folder" json:"folder,omitempty" bson:"folder,omitempty"`
	BaseName string `toml:"base_name" json:"base_name,omitempty" bson:"base_name,omitempty"`
	Count    int    `toml:"count" json:"count,omitempty" bson:"count,omitempty"`
	Ext      string `toml:"ext" json:"ext,omitempty" bson:"ext,omitempty"`
}

// Images returns the carousel paths, numbered from 1. Ext defaults to png.
func (m Media) Images() []string {
	ext := m.Ext
	if ext == "" {
		ext = "png"
	}
	out := make([]string, m.Count)
	for i := range out {
		out[i] = fmt.Sprintf("%s%s%d.%s", m.Folder, m.BaseName, i+1, ext)
	}
	return out
}

// Link is a labelled URL.
type Link struct {
	Label string `toml:"label" json:"label" bson:"label"`
	URL   string `toml:"url" json:"url" bson:"url"`
}

// Stat is a highlighted figure such as "700+ Students Taught".
type Stat struct {
	Value string `toml:"value" json:"value" bson:"value"`
	Label string `toml:"label" json:"label" bson:"label"`
}

// Store lists records by category.
type Store interface {
	// List returns the records of c sorted by Order, then Title.
	// An unknown category fails with INVALID_CATEGORY.
	List(ctx context.Context, c Category) ([]Record, error)

	// Categories returns the categories the store serves.
	Categories() []Category

	// Close releases backend resources.
	Close() error
}

// Validate checks the fields every record needs.
func (r Record) Validate() error {
	v := errors.NewValidation(errors.ErrCodeInvalidInput)
	v.Check(strings.TrimSpace(r.Title) != "", "title", "is required")
	if _, err := ParseCategory(string(r.Category)); err != nil {
		v.Add("category", "unknown category %q", r.Category)
	}
	v.Check(r.Media.Count >= 0, "media.count", "must not be negative")
	for i, c := range r.Courses {
		v.Check(strings.TrimSpace(c.Code) != "", fmt.Sprintf("courses[%d].code", i), "is required")
	}
	for i, l := range r.Links {
		if err := errors.ValidateURL(l.URL); err != nil {
			v.Add(fmt.Sprintf("links[%d]", i), "%s", errors.UserMessage(err))
		}
	}
	return v.Err()
}

func sortRecords(recs []Record) {
	slices.SortStableFunc(recs, func(a, b Record) int {
		if a.Order != b.Order {
			return a.Order - b.Order
		}
		return strings.Compare(a.Title, b.Title)
	})
}

func checkCategory(c Category) error {
	_, err := ParseCategory(string(c))
	return err
}
