package bookmark

import (
	"sort"
	"strings"

	"github.com/sysid/bkmr/pkg/bkmrerr"
)

// Tag is a lowercased, validated tag value.
type Tag string

// NewTag validates and lowercases a single tag. It rejects empty values,
// commas, and whitespace.
func NewTag(s string) (Tag, error) {
	t := strings.ToLower(strings.TrimSpace(s))
	if t == "" {
		return "", bkmrerr.ErrInvalidTag
	}
	if strings.ContainsAny(t, ", \t\n\r") {
		return "", bkmrerr.ErrInvalidTag
	}
	return Tag(t), nil
}

// TagSet is a set of validated tags, always kept case-folded and unique.
type TagSet map[Tag]struct{}

// NewTagSet parses a comma-separated string into a TagSet, trimming
// whitespace, lowercasing, and dropping empty entries. Invalid individual
// tokens (such as "a b", which keeps its inner whitespace after the comma
// split and trim) are skipped.
func NewTagSet(csv string) TagSet {
	set := TagSet{}
	for _, raw := range strings.Split(csv, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		t, err := NewTag(raw)
		if err != nil {
			continue
		}
		set[t] = struct{}{}
	}
	return set
}

// Has reports whether the set contains t.
func (s TagSet) Has(t Tag) bool {
	_, ok := s[t]
	return ok
}

// Add inserts t into the set.
func (s TagSet) Add(t Tag) {
	s[t] = struct{}{}
}

// Sorted returns the set's members in ascending lexical order.
func (s TagSet) Sorted() []Tag {
	out := make([]Tag, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Format renders the canonical persisted form: a comma-delimited string
// with leading and trailing commas, enabling SQL LIKE '%,tag,%' matching.
// An empty set formats to ",".
func (s TagSet) Format() string {
	var b strings.Builder
	b.WriteByte(',')
	for _, t := range s.Sorted() {
		b.WriteString(string(t))
		b.WriteByte(',')
	}
	return b.String()
}

// ParseTagCSV is an alias of NewTagSet kept for call sites that parse tags
// from a persisted ",a,b,c," string (Split on "," handles the leading and
// trailing empty tokens the same way a plain CSV does).
func ParseTagCSV(stored string) TagSet {
	return NewTagSet(stored)
}

// IsSubsetOf reports whether every tag in s is also in other (AllTags).
func (s TagSet) IsSubsetOf(other TagSet) bool {
	for t := range s {
		if !other.Has(t) {
			return false
		}
	}
	return true
}

// Intersects reports whether s and other share at least one tag (AnyTag).
func (s TagSet) Intersects(other TagSet) bool {
	small, big := s, other
	if len(big) < len(small) {
		small, big = big, small
	}
	for t := range small {
		if big.Has(t) {
			return true
		}
	}
	return false
}

// Equal reports set equality (ExactTags).
func (s TagSet) Equal(other TagSet) bool {
	if len(s) != len(other) {
		return false
	}
	return s.IsSubsetOf(other)
}

// HasPrefix reports whether any tag in s starts with prefix.
func (s TagSet) HasPrefix(prefix string) bool {
	prefix = strings.ToLower(prefix)
	for t := range s {
		if strings.HasPrefix(string(t), prefix) {
			return true
		}
	}
	return false
}

// Visible returns the subset of tags that are not system tags, used to
// build the canonical embedding source text.
func (s TagSet) Visible() TagSet {
	out := TagSet{}
	for t := range s {
		if !IsSystemTag(t) {
			out.Add(t)
		}
	}
	return out
}
