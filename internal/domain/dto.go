package domain

// CreateSnippetRequestDTO represents the expected request body for creating a snippet.
// Length rules live in ValidateContent so the service reports the first violated rule.
type CreateSnippetRequestDTO struct {
	Title    string `json:"title"`
	Code     string `json:"code"`
	Language string `json:"language"`
	IsPublic bool   `json:"is_public"`
}

// UpdateVisibilityRequestDTO toggles a snippet between public and private.
type UpdateVisibilityRequestDTO struct {
	IsPublic *bool `json:"is_public" binding:"required"`
}

// UpdateProfileRequestDTO carries the editable profile fields.
type UpdateProfileRequestDTO struct {
	FullName string `json:"full_name"`
}

// AnalyzeRequestDTO is the enrichment request body.
type AnalyzeRequestDTO struct {
	Code     string `json:"code" binding:"required"`
	Language string `json:"language"`
}

// AnalyzeResponseDTO is the enrichment response body; Summary is null on failure.
type AnalyzeResponseDTO struct {
	Tags    []string `json:"tags"`
	Summary *string  `json:"summary"`
	Error   string   `json:"error,omitempty"`
}

// SnippetResponseDTO represents the response for a single snippet.
type SnippetResponseDTO struct {
	ID        string   `json:"id"`
	OwnerID   string   `json:"owner_id"`
	Title     string   `json:"title"`
	Code      string   `json:"code"`
	Language  string   `json:"language"`
	Tags      []string `json:"tags"`
	Summary   *string  `json:"summary"`
	IsPublic  bool     `json:"is_public"`
	Stars     int      `json:"stars"`
	Starred   bool     `json:"starred"`
	CreatedAt string   `json:"created_at"`
}

// ListSnippetsResponseDTO represents the response for listing snippets.
// Query echoes the applied filter so clients can tell "no query" from "no matches".
type ListSnippetsResponseDTO struct {
	Query   string               `json:"query,omitempty"`
	Order   string               `json:"order,omitempty"`
	Limit   int                  `json:"limit"`
	Matched int                  `json:"matched"`
	Items   []SnippetResponseDTO `json:"items"`
}

// StarResponseDTO is returned by the toggle endpoint.
type StarResponseDTO struct {
	SnippetID string `json:"snippet_id"`
	Starred   bool   `json:"starred"`
	Stars     int    `json:"stars"`
}

// StarredLookupResponseDTO lists which of the requested snippets the caller has starred.
type StarredLookupResponseDTO struct {
	Starred []string `json:"starred"`
}

// ShareResponseDTO carries a share URL for one target platform.
type ShareResponseDTO struct {
	Target string `json:"target"`
	URL    string `json:"url"`
}

// ProfileResponseDTO represents a profile.
type ProfileResponseDTO struct {
	UserID   string `json:"user_id"`
	FullName string `json:"full_name"`
	IsPro    bool   `json:"is_pro"`
}
