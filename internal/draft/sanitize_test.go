package draft

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeHTMLRemovesScripts(t *testing.T) {
	policy := newPolicy()

	out := sanitizeHTML(policy, `<p>Hello</p><script>alert("x")</script>`)
	assert.NotContains(t, out, "script")
	assert.NotContains(t, out, "alert")
	assert.Contains(t, out, "<p>Hello</p>")
}

func TestSanitizeHTMLStripsEventHandlers(t *testing.T) {
	policy := newPolicy()

	out := sanitizeHTML(policy, `<p onclick="steal()">Hi</p><span onmouseover='x()'>there</span>`)
	assert.NotContains(t, out, "onclick")
	assert.NotContains(t, out, "onmouseover")
	assert.Contains(t, out, "Hi")
	assert.Contains(t, out, "there")
}

func TestSanitizeHTMLDropsScriptSchemeLinks(t *testing.T) {
	policy := newPolicy()

	out := sanitizeHTML(policy, `<a href="javascript:alert(1)">click</a>`)
	assert.NotContains(t, out, "javascript:")
	assert.Contains(t, out, "click")
}

func TestSanitizeHTMLKeepsAllowedMarkup(t *testing.T) {
	policy := newPolicy()

	in := `<h2 style="font-size:20px;">Title</h2><ul><li>one</li></ul>` +
		`<a href="https://example.com">site</a><a href="mailto:a@b.c">mail</a>`
	out := sanitizeHTML(policy, in)

	assert.Contains(t, out, "<h2")
	assert.Contains(t, out, "<li>one</li>")
	assert.Contains(t, out, `href="https://example.com"`)
	assert.Contains(t, out, `href="mailto:a@b.c"`)
}

func TestSanitizeHTMLIdempotent(t *testing.T) {
	policy := newPolicy()

	inputs := []string{
		`<p>plain</p>`,
		`<h2 style="font-size:20px;">T</h2><script>x()</script>`,
		`<a href="javascript:x">link</a><span onload="y">s</span>`,
		`already escaped &lt;tag&gt; &amp; entity`,
	}
	for _, in := range inputs {
		once := sanitizeHTML(policy, in)
		twice := sanitizeHTML(policy, once)
		assert.Equal(t, once, twice)
	}
}

func TestSanitizeHTMLEmptyInput(t *testing.T) {
	policy := newPolicy()
	assert.Empty(t, sanitizeHTML(policy, ""))
}
