package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysid/bkmr/pkg/bookmark"
)

func TestPrintIDsCSV(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, 0, true)
	p.PrintIDsCSV([]*bookmark.Bookmark{{ID: 1}, {ID: 2}, {ID: 3}})
	assert.Equal(t, "1,2,3\n", buf.String())
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, 0, true)
	require.NoError(t, p.PrintJSON([]*bookmark.Bookmark{
		{ID: 1, URL: "https://x", Title: "X", Tags: bookmark.NewTagSet("a,b")},
	}))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "X", decoded[0]["title"])
}

func TestPrintShellStubsOnlyForShellTagged(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, 0, true)
	p.PrintShellStubs([]*bookmark.Bookmark{
		{ID: 1, Tags: bookmark.NewTagSet("_shell_")},
		{ID: 2, Tags: bookmark.NewTagSet("_snip_")},
	})
	out := buf.String()
	assert.Contains(t, out, "bkmr_1()")
	assert.NotContains(t, out, "bkmr_2()")
}
