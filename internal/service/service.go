// Package service implements the business rules on top of the repositories.
package service

import (
	"strings"
	"time"

	"salon-booking/internal/apperr"
	"salon-booking/internal/domain"
)

// Actor is the authenticated caller of an operation.
type Actor struct {
	ID   string
	Role domain.Role
}

func (a Actor) Admin() bool { return a.Role.Privileged() }

// cleanOpt trims s and maps empty values to nil.
func cleanOpt(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func sameOpt(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

const dateLayout = "2006-01-02"

// parseDate accepts YYYY-MM-DD or RFC 3339.
func parseDate(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, apperr.BadRequest(field + " must be a valid ISO 8601 date")
}

// dedupe keeps the first occurrence of every id.
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
