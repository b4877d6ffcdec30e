package draft

import (
	"github.com/microcosm-cc/bluemonday"
)

// newPolicy builds the sanitization policy applied to every body_html.
//
// The allow-list mirrors the tags the prompt instructs the model to use.
// bluemonday walks the actual tag tree, so script blocks, event-handler
// attributes, and script-scheme URLs are dropped even when obfuscated in
// ways a pattern-based stripper would miss. Disallowed links lose their
// href rather than the whole element.
func newPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("h2", "h3", "p", "br", "hr", "b", "i", "strong", "em",
		"ul", "ol", "li", "span", "pre")
	p.AllowAttrs("style").OnElements("h2", "h3", "p", "hr", "span", "li")
	p.AllowAttrs("href").OnElements("a")
	p.AllowElements("a")
	p.AllowURLSchemes("http", "https", "mailto")
	return p
}

// sanitizeHTML neutralizes script-execution vectors in model-authored
// markup. Best-effort hardening for email bodies, not a security boundary.
func sanitizeHTML(policy *bluemonday.Policy, html string) string {
	if html == "" {
		return html
	}
	return policy.Sanitize(html)
}
