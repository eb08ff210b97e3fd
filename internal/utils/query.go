package utils

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// Pagination is the page/limit pair read from a listing query string.
type Pagination struct {
	Page  int
	Limit int
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// ParsePagination reads ?page and ?limit. Missing or invalid values fall
// back to page 1 and DefaultPageLimit; limit is capped at MaxPageLimit.
func ParsePagination(r *http.Request) Pagination {
	q := r.URL.Query()

	page, err := strconv.Atoi(q.Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(q.Get("limit"))
	if err != nil || limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}

	return Pagination{Page: page, Limit: limit}
}

// ParseBool reads an optional boolean query parameter.
func ParseBool(r *http.Request, key string) *bool {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &v
}

// Sort is a whitelisted ORDER BY clause.
type Sort struct {
	Column string
	Desc   bool
}

func (s Sort) SQL() string {
	if s.Desc {
		return s.Column + " DESC"
	}
	return s.Column + " ASC"
}

// ParseSort maps ?sort=field or ?sort=-field onto a column in allowed.
// Unknown fields yield fallback.
func ParseSort(r *http.Request, allowed map[string]string, fallback Sort) Sort {
	raw := strings.TrimSpace(r.URL.Query().Get("sort"))
	if raw == "" {
		return fallback
	}

	desc := strings.HasPrefix(raw, "-")
	col, ok := allowed[strings.TrimPrefix(raw, "-")]
	if !ok {
		return fallback
	}
	return Sort{Column: col, Desc: desc}
}

func IsUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// CanonicalID returns the lowercase hyphenated form of a uuid written in
// any form uuid.Parse accepts. Anything else comes back trimmed but
// otherwise unchanged.
func CanonicalID(s string) string {
	s = strings.TrimSpace(s)
	id, err := uuid.Parse(s)
	if err != nil {
		return s
	}
	return id.String()
}

func StrPtr(s string) *string {
	return &s
}
