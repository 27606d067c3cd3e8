// Package classify decides whether a catalog event qualifies for a
// notification and extracts an access credential from its free text.
package classify

import (
	"regexp"

	"github.com/ctfwatch/ctfwatch/internal/model"
)

// Credential extraction is heuristic by design: a code phrased in an
// unrecognized way is missed, and an unrelated alphanumeric string can
// match. Both are accepted; a negative result is re-evaluated on every
// future run because it never creates a tracking record.
var (
	// URL query parameters take precedence over labeled tokens.
	urlCredentialRE = regexp.MustCompile(`(?i)[?&](?:code|token|access_code|invite)=([A-Za-z0-9_\-]{4,80})`)

	labelCredentialRE = regexp.MustCompile(`(?i)(?:token|access\s*(?:code|key)|join\s*(?:code|key)|invite\s*code)\s*[:=\-]?\s*([A-Za-z0-9_\-]{4,40})`)
)

// ExtractCredential finds a short access token in free text. It returns
// the empty string when neither pattern matches.
func ExtractCredential(text string) string {
	if text == "" {
		return ""
	}
	if m := urlCredentialRE.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := labelCredentialRE.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

// Classify reports whether the event is eligible for a notification and
// returns the extracted credential, if any. Events that do not require a
// code are always eligible and skip the credential search; events that do
// are eligible only when a credential can be extracted from the
// concatenated free-text fields.
func Classify(detail *model.EventDetail) (bool, string) {
	if detail == nil {
		return false, ""
	}
	if !detail.HasCode {
		return true, ""
	}
	credential := ExtractCredential(detail.FreeText())
	if credential == "" {
		return false, ""
	}
	return true, credential
}
