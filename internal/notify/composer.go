// Package notify renders watcher notifications and delivers them over SMTP.
package notify

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/ctfwatch/ctfwatch/internal/model"
)

// Message is a rendered notification with an HTML body and a plain-text
// fallback.
type Message struct {
	Subject string
	Text    string
	HTML    string
}

const (
	timestampLayout    = "2006-01-02 15:04 UTC"
	unknownPlaceholder = "Unknown"
)

// formatTimestamp renders a catalog timestamp in UTC. An empty value
// renders as the Unknown placeholder; an unparseable one is echoed as-is.
func formatTimestamp(s string) string {
	if s == "" {
		return unknownPlaceholder
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return s
	}
	return t.UTC().Format(timestampLayout)
}

// ResolveBanner picks the first usable image reference from the detail
// record and resolves it to an absolute URL. Scheme-prefixed values pass
// through, protocol-relative values get https:, root-relative values get
// the catalog origin, and anything else is skipped.
func ResolveBanner(detail *model.EventDetail, origin string) string {
	if detail == nil {
		return ""
	}
	for _, v := range detail.BannerCandidates() {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		switch {
		case strings.HasPrefix(v, "http"):
			return v
		case strings.HasPrefix(v, "//"):
			return "https:" + v
		case strings.HasPrefix(v, "/"):
			return origin + v
		}
	}
	return ""
}

// ComposeDiscovery renders the one-shot alert for a newly eligible event.
// It is a pure function; the organizer falls back from summary to detail
// to the Unknown placeholder.
func ComposeDiscovery(summary model.EventSummary, detail *model.EventDetail, credential, origin, eventURL string) Message {
	org := summary.OrgName
	if org == "" && detail != nil {
		org = detail.OrgName
	}
	if org == "" {
		org = unknownPlaceholder
	}

	startsAt := summary.StartsAt
	endsAt := summary.EndsAt
	if startsAt == "" && detail != nil {
		startsAt = detail.StartsAt
	}
	if endsAt == "" && detail != nil {
		endsAt = detail.EndsAt
	}
	starts := formatTimestamp(startsAt)
	ends := formatTimestamp(endsAt)
	banner := ResolveBanner(detail, origin)

	var text strings.Builder
	fmt.Fprintf(&text, "New CTF detected: %s\n\n", summary.Name)
	fmt.Fprintf(&text, "Organiser: %s\n", org)
	fmt.Fprintf(&text, "Starts:    %s\n", starts)
	fmt.Fprintf(&text, "Ends:      %s\n", ends)
	fmt.Fprintf(&text, "Event:     %s\n", eventURL)
	if credential != "" {
		fmt.Fprintf(&text, "Access token: %s\n", credential)
	}

	var htmlBody strings.Builder
	htmlBody.WriteString("<h2>New CTF Detected</h2>\n")
	fmt.Fprintf(&htmlBody, "<p><b>%s</b></p>\n", html.EscapeString(summary.Name))
	fmt.Fprintf(&htmlBody, "<p><b>Organiser:</b> %s<br>\n", html.EscapeString(org))
	fmt.Fprintf(&htmlBody, "<b>Starts:</b> %s<br>\n", html.EscapeString(starts))
	fmt.Fprintf(&htmlBody, "<b>Ends:</b> %s<br>\n", html.EscapeString(ends))
	fmt.Fprintf(&htmlBody, "<a href=\"%s\">View event</a></p>\n", eventURL)
	if credential != "" {
		fmt.Fprintf(&htmlBody, "<p><b>Access token:</b> <code>%s</code></p>\n", html.EscapeString(credential))
	}
	if banner != "" {
		fmt.Fprintf(&htmlBody, "<img src=\"%s\" alt=\"CTF banner\" width=\"500\"><br>\n", banner)
	}

	return Message{
		Subject: fmt.Sprintf("New CTF: %s", summary.Name),
		Text:    text.String(),
		HTML:    htmlBody.String(),
	}
}

// ComposeReminder renders the single starts-soon alert for a tracked event.
func ComposeReminder(name, slug, startsAt, eventURL string) Message {
	starts := formatTimestamp(startsAt)

	var text strings.Builder
	fmt.Fprintf(&text, "%s starts soon.\n\n", name)
	fmt.Fprintf(&text, "Starts: %s\n", starts)
	fmt.Fprintf(&text, "Event:  %s\n", eventURL)

	var htmlBody strings.Builder
	htmlBody.WriteString("<h2>CTF Starting Soon</h2>\n")
	fmt.Fprintf(&htmlBody, "<p><b>%s</b></p>\n", html.EscapeString(name))
	fmt.Fprintf(&htmlBody, "<p><b>Starts:</b> %s<br>\n", html.EscapeString(starts))
	fmt.Fprintf(&htmlBody, "<a href=\"%s\">View event</a></p>\n", eventURL)

	return Message{
		Subject: fmt.Sprintf("Starting soon: %s", name),
		Text:    text.String(),
		HTML:    htmlBody.String(),
	}
}
