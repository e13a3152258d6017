package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/sysid/bkmr/pkg/bookmark"
)

func mkBookmark(id int64, tags string, updated time.Time) *bookmark.Bookmark {
	return &bookmark.Bookmark{ID: id, Tags: bookmark.NewTagSet(tags), UpdatedAt: updated}
}

func TestTagAlgebraScenarioE(t *testing.T) {
	now := time.Now()
	b1 := mkBookmark(1, "a,b", now)
	b2 := mkBookmark(2, "b,c", now)
	b3 := mkBookmark(3, "c,d", now)

	q := &BookmarkQuery{
		TagsAll:    bookmark.NewTagSet("b"),
		TagsAnyNot: bookmark.NewTagSet("c"),
	}
	result := q.ApplyNonTextFilters([]*bookmark.Bookmark{b1, b2, b3})

	assert.Len(t, result, 1)
	assert.Equal(t, int64(1), result[0].ID)
}

func TestNotSpecification(t *testing.T) {
	spec := AllTags(bookmark.NewTagSet("a"))
	b := mkBookmark(1, "a,b", time.Now())

	assert.True(t, spec.IsSatisfiedBy(b))
	assert.False(t, spec.Not().IsSatisfiedBy(b))
}

func TestLimitOffset(t *testing.T) {
	now := time.Now()
	var all []*bookmark.Bookmark
	for i := int64(1); i <= 5; i++ {
		all = append(all, mkBookmark(i, "", now))
	}
	q := &BookmarkQuery{Offset: 2, Limit: 2}
	result := q.ApplyNonTextFilters(all)
	assert.Len(t, result, 2)
	assert.Equal(t, int64(3), result[0].ID)
}

func TestTextSearchSubstring(t *testing.T) {
	b := &bookmark.Bookmark{Title: "Go Concurrency", Description: "channels", Tags: bookmark.NewTagSet("go")}
	spec := TextSearch("concurrency")
	assert.True(t, spec.IsSatisfiedBy(b))
	assert.False(t, TextSearch("python").IsSatisfiedBy(b))
}
