// Package search implements the literal substring filter shared by every listing path.
//
// Matching is case-insensitive containment of the query in the title, language,
// summary or any tag. Surrounding spaces are part of the query; trimming only decides
// whether the query is blank. There is no tokenizing, ranking or stemming. SQL backends build their
// predicate from Normalize so server-side and in-memory filtering select the same rows.
package search

import (
	"strings"

	"github.com/Devesh36/CodeBits/internal/domain"
)

// Normalize returns the needle used for matching, or "" when the query is blank.
func Normalize(query string) string {
	if IsBlank(query) {
		return ""
	}
	return strings.ToLower(query)
}

// IsBlank reports whether query selects everything.
func IsBlank(query string) bool {
	return strings.TrimSpace(query) == ""
}

// Filter returns the snippets matching query in their original order.
// A blank query returns the input slice itself.
func Filter(snippets []domain.Snippet, query string) []domain.Snippet {
	needle := Normalize(query)
	if needle == "" {
		return snippets
	}
	out := make([]domain.Snippet, 0, len(snippets))
	for _, s := range snippets {
		if matchNeedle(s, needle) {
			out = append(out, s)
		}
	}
	return out
}

// Matches reports whether s satisfies query. Every snippet matches a blank query.
func Matches(s domain.Snippet, query string) bool {
	needle := Normalize(query)
	if needle == "" {
		return true
	}
	return matchNeedle(s, needle)
}

func matchNeedle(s domain.Snippet, needle string) bool {
	if contains(s.Title, needle) || contains(s.Language, needle) {
		return true
	}
	if s.Summary != nil && contains(*s.Summary, needle) {
		return true
	}
	for _, tag := range s.Tags {
		if contains(tag, needle) {
			return true
		}
	}
	return false
}

func contains(field, needle string) bool {
	return strings.Contains(strings.ToLower(field), needle)
}
