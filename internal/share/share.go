// Package share builds outbound share links for snippets.
package share

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/Devesh36/CodeBits/internal/domain"
)

// Target is a closed set of share destinations.
type Target int

const (
	Twitter Target = iota + 1
	LinkedIn
	Facebook
	WhatsApp
	CopyLink
)

var targetNames = map[Target]string{
	Twitter:  "twitter",
	LinkedIn: "linkedin",
	Facebook: "facebook",
	WhatsApp: "whatsapp",
	CopyLink: "copy",
}

func (t Target) String() string {
	if n, ok := targetNames[t]; ok {
		return n
	}
	return fmt.Sprintf("Target(%d)", int(t))
}

// ParseTarget maps a name to a Target. "x" is accepted for Twitter and "copy-link" for CopyLink.
func ParseTarget(s string) (Target, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "twitter", "x":
		return Twitter, true
	case "linkedin":
		return LinkedIn, true
	case "facebook":
		return Facebook, true
	case "whatsapp":
		return WhatsApp, true
	case "copy", "copy-link":
		return CopyLink, true
	}
	return 0, false
}

// Text is the message attached to shares that carry one.
func Text(s domain.Snippet) string {
	return fmt.Sprintf("Check out this %s code snippet: %s", s.Language, s.Title)
}

// SnippetURL is the canonical page of a snippet under baseURL.
func SnippetURL(baseURL, id string) string {
	return strings.TrimSuffix(baseURL, "/") + "/snippet/" + url.PathEscape(id)
}

// Link returns the URL to open for target.
func Link(t Target, baseURL string, s domain.Snippet) (string, error) {
	page := SnippetURL(baseURL, s.ID)
	switch t {
	case Twitter:
		return "https://twitter.com/intent/tweet?" + url.Values{"text": {Text(s)}, "url": {page}}.Encode(), nil
	case LinkedIn:
		return "https://www.linkedin.com/sharing/share-offsite/?" + url.Values{"url": {page}}.Encode(), nil
	case Facebook:
		return "https://www.facebook.com/sharer/sharer.php?" + url.Values{"u": {page}}.Encode(), nil
	case WhatsApp:
		return "https://wa.me/?" + url.Values{"text": {Text(s) + " " + page}}.Encode(), nil
	case CopyLink:
		return page, nil
	}
	return "", fmt.Errorf("unknown share target %v", t)
}
