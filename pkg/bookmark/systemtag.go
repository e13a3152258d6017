package bookmark

import (
	"log/slog"
	"strings"
)

// System tags recognized by the action resolver and LSP completion path.
// The action and import tags are underscore-wrapped; universal and plain
// are the two LSP hint tags and carry no underscores.
const (
	SysSnippet   Tag = "_snip_"
	SysImported  Tag = "_imported_"
	SysShell     Tag = "_shell_"
	SysMarkdown  Tag = "_md_"
	SysEnv       Tag = "_env_"
	SysUniversal Tag = "universal"
	SysPlain     Tag = "plain"
)

var knownSystemTags = map[Tag]struct{}{
	SysSnippet:   {},
	SysImported:  {},
	SysShell:     {},
	SysMarkdown:  {},
	SysEnv:       {},
	SysUniversal: {},
	SysPlain:     {},
}

// IsSystemTag reports whether t is reserved (any recognized kind, or any
// other underscore-wrapped token — which is reserved but unknown).
func IsSystemTag(t Tag) bool {
	if _, ok := knownSystemTags[t]; ok {
		return true
	}
	return isUnderscoreWrapped(t)
}

func isUnderscoreWrapped(t Tag) bool {
	s := string(t)
	return strings.HasPrefix(s, "_") || strings.HasSuffix(s, "_")
}

// WarnUnknownSystemTags logs a warning for any tag that looks
// underscore-reserved but is not one of the recognized kinds; such tags
// pass through unchanged.
func WarnUnknownSystemTags(tags TagSet) {
	for t := range tags {
		if _, known := knownSystemTags[t]; known {
			continue
		}
		if isUnderscoreWrapped(t) {
			slog.Warn("unknown reserved system tag, passing through unchanged", "tag", string(t))
		}
	}
}

// IsSnippet, IsShell, IsMarkdown, IsEnv, IsUniversal, IsPlain report whether
// the tag set carries the corresponding system tag.
func (s TagSet) IsSnippet() bool   { return s.Has(SysSnippet) }
func (s TagSet) IsImported() bool  { return s.Has(SysImported) }
func (s TagSet) IsShell() bool     { return s.Has(SysShell) }
func (s TagSet) IsMarkdown() bool  { return s.Has(SysMarkdown) }
func (s TagSet) IsEnv() bool       { return s.Has(SysEnv) }
func (s TagSet) IsUniversal() bool { return s.Has(SysUniversal) }
func (s TagSet) IsPlain() bool     { return s.Has(SysPlain) }
