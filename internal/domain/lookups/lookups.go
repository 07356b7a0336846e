package lookups

import (
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrNotFound     = errors.New("lookup not found")
	ErrNameRequired = errors.New("missing name")
)

// Location is a static city/region lookup used by exhibition listings.
type Location struct {
	Id     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Slug   string    `json:"slug"`
	Active bool      `json:"active"`
}

// EventType is a static category lookup used by exhibition listings.
type EventType struct {
	Id     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Slug   string    `json:"slug"`
	Active bool      `json:"active"`
}

var (
	nonSlug    = regexp.MustCompile(`[^a-z0-9-]`)
	dashRuns   = regexp.MustCompile(`-+`)
	edgeDashes = regexp.MustCompile(`^-|-$`)
)

// Slugify lowercases, collapses whitespace to dashes and strips the rest.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Join(strings.Fields(s), "-")
	s = nonSlug.ReplaceAllString(s, "")
	s = dashRuns.ReplaceAllString(s, "-")
	return edgeDashes.ReplaceAllString(s, "")
}
