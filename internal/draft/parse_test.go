package draft

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseObjectsArray(t *testing.T) {
	text := `Here are your drafts:
[
  {"subject": "One", "body_html": "<p>a</p>"},
  {"subject": "Two", "body_html": "<p>b</p>"},
  {"subject": "Three", "body_html": "<p>c</p>"}
]
Hope these help!`

	objs, err := parseObjects(text)
	require.NoError(t, err)
	require.Len(t, objs, 3)
	assert.Equal(t, "One", objs[0]["subject"])
	assert.Equal(t, "<p>c</p>", objs[2]["body_html"])
}

func TestParseObjectsBareArray(t *testing.T) {
	objs, err := parseObjects(`[{"subject":"S","body_html":"<p>x</p>"}]`)
	require.NoError(t, err)
	require.Len(t, objs, 1)
}

func TestParseObjectsSkipsNonObjectElements(t *testing.T) {
	objs, err := parseObjects(`["not an object", {"subject":"S"}, 42]`)
	require.NoError(t, err)
	require.Len(t, objs, 1)
	assert.Equal(t, "S", objs[0]["subject"])
}

func TestParseObjectsBraceFallback(t *testing.T) {
	// No valid array, but individual objects are recoverable.
	text := `{"subject": "One", "body_html": "<p>a</p>"}
some commentary
{"subject": "Two", "body_html": "<p>b</p>"}`

	objs, err := parseObjects(text)
	require.NoError(t, err)
	require.Len(t, objs, 2)
	assert.Equal(t, "Two", objs[1]["subject"])
}

func TestParseObjectsFallbackSkipsInvalid(t *testing.T) {
	text := `{not json} {"subject": "Good"}`

	objs, err := parseObjects(text)
	require.NoError(t, err)
	require.Len(t, objs, 1)
	assert.Equal(t, "Good", objs[0]["subject"])
}

func TestParseObjectsNothingRecoverable(t *testing.T) {
	_, err := parseObjects("I'm sorry, I can't produce drafts right now.")
	require.Error(t, err)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Raw, "sorry")
}

func TestParseObjectsEmptyInput(t *testing.T) {
	_, err := parseObjects("")

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
}
