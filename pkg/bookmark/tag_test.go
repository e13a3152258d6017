package bookmark

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTagRejectsInvalid(t *testing.T) {
	_, err := NewTag("")
	assert.Error(t, err)

	_, err = NewTag("has,comma")
	assert.Error(t, err)

	_, err = NewTag("has space")
	assert.Error(t, err)
}

func TestNewTagSetFormatRoundTrip(t *testing.T) {
	set := NewTagSet("B, a ,, A,c")
	require.Len(t, set, 3)
	assert.Equal(t, ",a,b,c,", set.Format())

	reparsed := ParseTagCSV(set.Format())
	assert.True(t, set.Equal(reparsed))
}

func TestTagSetAlgebra(t *testing.T) {
	ab := NewTagSet("a,b")
	b := NewTagSet("b")
	bc := NewTagSet("b,c")

	assert.True(t, b.IsSubsetOf(ab))
	assert.False(t, ab.IsSubsetOf(b))
	assert.True(t, ab.Intersects(bc))
	assert.True(t, TagSet{}.IsSubsetOf(ab), "AllTags(empty) is true for every bookmark")
	assert.False(t, TagSet{}.Intersects(ab), "AnyTag(empty) is false")
	assert.True(t, ab.Equal(NewTagSet("b,a")))
	assert.False(t, ab.Equal(bc))
}

func TestTagSetPrefix(t *testing.T) {
	set := NewTagSet("log-debug,other")
	assert.True(t, set.HasPrefix("log-"))
	assert.False(t, set.HasPrefix("zzz"))
}

func TestTagSetVisibleExcludesSystemTags(t *testing.T) {
	set := NewTagSet("_snip_,python,universal")
	visible := set.Visible()
	assert.True(t, visible.Has("python"))
	assert.False(t, visible.Has(SysSnippet))
	assert.False(t, visible.Has(SysUniversal))
}
