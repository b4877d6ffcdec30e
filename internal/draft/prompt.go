package draft

import (
	"fmt"
	"strings"

	"github.com/mailsmith/mailsmith/internal/config"
)

// Defaults applied when the caller leaves the corresponding hint empty.
const (
	defaultArea     = "General"
	defaultStyle    = "formal, human, concise, confident"
	defaultTemplate = "default_professional"
)

// signatureHTML renders the fixed signature block appended verbatim to every
// draft. It is built once per invocation from the sender identity.
func signatureHTML(sender config.Sender) string {
	return strings.TrimSpace(fmt.Sprintf(`
<p style="margin-top:20px; font-size:14px; line-height:1.5;">
Regards,<br>
<b>%s</b><br>
<i>%s, %s</i><br>
<span style="font-size:12px; color:#555;">%s<br>%s</span>
</p>`, sender.Name, sender.Title, sender.Company, sender.Phone, sender.Email))
}

// templateGuidance returns the instructional block for a template hint,
// falling back to the default block when the hint is absent or unknown.
func templateGuidance(templateHint string) string {
	blocks := map[string]string{
		"recruitment_announcement": `
- Use a friendly corporate tone with a brief intro and clear sections.
- Include <h2 style="font-size:20px;"> headings, <ul>/<li> bullets, and short paragraphs.
- Suggested sections: Eligibility Criteria, Role/Benefits (optional), Next Steps / How to Apply.
`,
		"partnership_pitch": `
- Value-first tone; highlight outcomes.
- Include headings, bullets, and a clear CTA (<b>Next Steps</b>).
`,
		"appreciation_note": `
- Warm, sincere tone; tasteful <i>italics</i> and <b>bold</b> for emphasis.
- Keep it concise and human.
`,
		defaultTemplate: `
- Concise professional tone with scannable formatting.
`,
	}
	key := strings.ToLower(strings.TrimSpace(templateHint))
	if block, ok := blocks[key]; ok {
		return block
	}
	return blocks[defaultTemplate]
}

const formattingRules = `
"body_html" must be a professional HTML fragment (NOT a full <html> doc). Use:
- <h2 style="font-size:20px; margin:0 0 8px 0;"> and <h3 style="font-size:16px; margin:12px 0 6px;"> for headings
- <b> and <i> for emphasis (sparingly, human-like)
- <ul>, <ol>, <li> for lists
- <span style="font-size:15px; color:#333;"> for mild highlights
- <hr style="border:none; border-top:1px solid #eee; margin:16px 0;"> to separate sections
- <p style="margin:8px 0;"> paragraphs and <br> for subtle spacing
Vary headings and emphasis slightly across drafts so they feel naturally written (not identical).
Avoid walls of text; prefer short paragraphs and scannable bullets.
`

// buildPrompt assembles the full generation prompt: the verbatim user
// intent, the area/style/template hints, the matching guidance block, the
// formatting rules, and the signature that every draft must end with.
func buildPrompt(userIntent, area, style, templateHint string, sender config.Sender) string {
	return strings.TrimSpace(fmt.Sprintf(`
You are an expert corporate email writer.

User request / purpose (verbatim):
%s

Professional area: %s
Desired template: %s
Style/tone cues: %s

Template guidance:
%s

Write THREE complete email drafts as VALID JSON ONLY.
Each draft MUST have keys: "subject" and "body_html".

%s

Do NOT include placeholders like [Your Name].
End each email with this exact signature (append as-is):

%s

IMPORTANT OUTPUT RULES:
- Output ONLY a JSON array (no markdown, no commentary, no code fences).
- Example:
[
  {"subject":"...", "body_html":"..."},
  {"subject":"...", "body_html":"..."},
  {"subject":"...", "body_html":"..."}
]`, userIntent, area, templateHint, style, templateGuidance(templateHint), formattingRules, signatureHTML(sender)))
}
