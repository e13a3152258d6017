package bookmark

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateRenderParseRoundTrip(t *testing.T) {
	id := int64(42)
	tmpl := &Template{
		ID:         &id,
		URL:        "https://example.com",
		Title:      "Example",
		Tags:       NewTagSet("a,b"),
		Comments:   "a useful site\nwith two lines",
		Embeddable: true,
	}

	doc := tmpl.Render()
	parsed, err := ParseTemplate(doc)
	require.NoError(t, err)

	assert.Equal(t, *tmpl.ID, *parsed.ID)
	assert.Equal(t, tmpl.URL, parsed.URL)
	assert.Equal(t, tmpl.Title, parsed.Title)
	assert.True(t, tmpl.Tags.Equal(parsed.Tags))
	assert.Equal(t, tmpl.Comments, parsed.Comments)
	assert.Equal(t, tmpl.Embeddable, parsed.Embeddable)
}

func TestTemplatePreservesEmbeddedMarkerLookalikes(t *testing.T) {
	doc := markerID + "\n\n\n" +
		markerURL + "\nshell::echo hi\n\n" +
		markerTitle + "\nFenced\n\n" +
		markerTags + "\n_shell_\n\n" +
		markerComments + "\n```\n=== NOT A REAL MARKER ===\n```\n\n" +
		markerEmbeddable + "\nfalse\n\n" +
		markerEnd + "\n"

	parsed, err := ParseTemplate(doc)
	require.NoError(t, err)
	assert.Contains(t, parsed.Comments, "=== NOT A REAL MARKER ===")
}

func TestTemplateEmbeddableVariants(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want bool
	}{
		{"true", true}, {"yes", true}, {"1", true},
		{"false", false}, {"no", false}, {"0", false}, {"", false},
	} {
		doc := markerID + "\n\n" + markerURL + "\nx\n" + markerTitle + "\nx\n" +
			markerTags + "\n\n" + markerComments + "\n\n" +
			markerEmbeddable + "\n" + tc.in + "\n" + markerEnd + "\n"
		parsed, err := ParseTemplate(doc)
		require.NoError(t, err)
		assert.Equal(t, tc.want, parsed.Embeddable, "input %q", tc.in)
	}
}

func TestTemplateRejectsInvalidEmbeddable(t *testing.T) {
	doc := markerID + "\n\n" + markerURL + "\nx\n" + markerTitle + "\nx\n" +
		markerTags + "\n\n" + markerComments + "\n\n" +
		markerEmbeddable + "\nmaybe\n" + markerEnd + "\n"
	_, err := ParseTemplate(doc)
	assert.Error(t, err)
}
