// Package domain contains domain models for the application.
package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Field limits enforced before any persistence attempt.
const (
	MaxTitleLength       = 100
	MaxBodyLength        = 10000
	MaxDisplayNameLength = 100
)

// Snippet represents a stored code fragment with its metadata.
type Snippet struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Title     string    `json:"title"`
	Body      string    `json:"code"`
	Language  string    `json:"language"`
	Tags      []string  `json:"tags"`
	Summary   *string   `json:"summary"`
	Public    bool      `json:"is_public"`
	Stars     int       `json:"stars"`
	CreatedAt time.Time `json:"created_at"`
}

// VisibleTo reports whether actor may read the snippet.
func (s Snippet) VisibleTo(actor string) bool {
	return s.Public || (actor != "" && actor == s.OwnerID)
}

// Validate checks the title, body and language constraints and returns the first violation.
func (s Snippet) Validate() error {
	return ValidateContent(s.Title, s.Body, s.Language)
}

// ValidateContent applies the snippet content rules in a fixed order: title, body, language.
func ValidateContent(title, body, language string) error {
	title = strings.TrimSpace(title)
	switch {
	case title == "":
		return &ValidationError{Field: "title", Message: "Title is required"}
	case utf8.RuneCountInString(title) > MaxTitleLength:
		return &ValidationError{Field: "title", Message: "Title too long"}
	case strings.TrimSpace(body) == "":
		return &ValidationError{Field: "code", Message: "Code is required"}
	case utf8.RuneCountInString(body) > MaxBodyLength:
		return &ValidationError{Field: "code", Message: "Code too long"}
	case strings.TrimSpace(language) == "":
		return &ValidationError{Field: "language", Message: "Language is required"}
	}
	return nil
}

// StarResult is the outcome of a star toggle as derived from the ledger.
type StarResult struct {
	Starred bool `json:"starred"`
	Count   int  `json:"count"`
}

// Tier is a profile's plan.
type Tier string

const (
	TierFree Tier = "free"
	TierPro  Tier = "pro"
)

// Profile is the minimal identity record referenced by snippet owners and stargazers.
type Profile struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"full_name"`
	Tier        Tier   `json:"tier"`
}

// IsPro reports whether the profile is on the paid tier.
func (p Profile) IsPro() bool { return p.Tier == TierPro }

// Order selects the sort key of the discovery list.
type Order string

const (
	OrderStars  Order = "stars"
	OrderRecent Order = "recent"
)

// ParseOrder maps a query parameter to an Order, defaulting to stars.
func ParseOrder(s string) (Order, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(OrderStars):
		return OrderStars, true
	case string(OrderRecent), "created_at", "new":
		return OrderRecent, true
	}
	return "", false
}
