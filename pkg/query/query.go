package query

import (
	"sort"

	"github.com/sysid/bkmr/pkg/bookmark"
)

// SortDir selects the direction for sort-by-updated-at.
type SortDir int

const (
	SortNone SortDir = iota
	SortDescending
	SortAscending
)

// BookmarkQuery is the structured search request: an optional FTS text
// term, five structured tag filters, a prefix set, sort/limit/offset, and
// an optional composable Specification.
type BookmarkQuery struct {
	Text string

	TagsExact  bookmark.TagSet // ExactTags
	TagsAll    bookmark.TagSet // AllTags (must have all)
	TagsAllNot bookmark.TagSet // none-of-all: must NOT have all of this set
	TagsAny    bookmark.TagSet // AnyTag
	TagsAnyNot bookmark.TagSet // none-of-any: must have none of this set
	TagsPrefix []string

	Sort   SortDir
	Limit  int // 0 means unlimited
	Offset int

	Spec Specification // optional extra composable predicate
}

// HasText reports whether the query carries a non-empty FTS term.
func (q *BookmarkQuery) HasText() bool {
	return q.Text != ""
}

// ApplyNonTextFilters applies every filter except the FTS text term, in
// the canonical order: specification → tags-exact → tags-all →
// tags-all-not → tags-any → tags-any-not → tags-prefix → sort by
// updated-at → offset → limit.
func (q *BookmarkQuery) ApplyNonTextFilters(bookmarks []*bookmark.Bookmark) []*bookmark.Bookmark {
	out := bookmarks

	if q.Spec != nil {
		out = filter(out, q.Spec)
	}
	if len(q.TagsExact) > 0 {
		out = filter(out, ExactTags(q.TagsExact))
	}
	if len(q.TagsAll) > 0 {
		out = filter(out, AllTags(q.TagsAll))
	}
	if len(q.TagsAllNot) > 0 {
		out = filter(out, AllTags(q.TagsAllNot).Not())
	}
	if len(q.TagsAny) > 0 {
		out = filter(out, AnyTag(q.TagsAny))
	}
	if len(q.TagsAnyNot) > 0 {
		out = filter(out, AnyTag(q.TagsAnyNot).Not())
	}
	for _, prefix := range q.TagsPrefix {
		out = filter(out, TagPrefix(prefix))
	}

	switch q.Sort {
	case SortDescending:
		sort.SliceStable(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	case SortAscending:
		sort.SliceStable(out, func(i, j int) bool { return out[i].UpdatedAt.Before(out[j].UpdatedAt) })
	}

	if q.Offset > 0 {
		if q.Offset >= len(out) {
			return nil
		}
		out = out[q.Offset:]
	}
	if q.Limit > 0 && q.Limit < len(out) {
		out = out[:q.Limit]
	}
	return out
}

func filter(in []*bookmark.Bookmark, spec Specification) []*bookmark.Bookmark {
	out := in[:0:0]
	for _, b := range in {
		if spec.IsSatisfiedBy(b) {
			out = append(out, b)
		}
	}
	return out
}
