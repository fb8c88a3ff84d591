package core

import (
	"regexp"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/MisterPotz/eclipse-vscode-light-converter/internal/types"
)

// ArtifactMatcher selects the archives that belong to one symbolic name.
type ArtifactMatcher struct {
	any          *regexp.Regexp
	primary      *regexp.Regexp
	sourceMarker string
}

func NewArtifactMatcher(name string, layout types.Layout) ArtifactMatcher {
	layout = layout.WithDefaults()
	quoted := regexp.QuoteMeta(name)
	ext := regexp.QuoteMeta(layout.ArchiveExtension)
	source := regexp.QuoteMeta(layout.SourceMarker)
	return ArtifactMatcher{
		any:          regexp.MustCompile(`^` + quoted + `(?:` + source + `)?_([.a-zA-Z0-9-]+)` + ext + `$`),
		primary:      regexp.MustCompile(`^` + quoted + `_([.a-zA-Z0-9-]+)` + ext + `$`),
		sourceMarker: layout.SourceMarker,
	}
}

// Match returns every primary or source archive among files, ordered by
// version and then by filename.
func (m ArtifactMatcher) Match(files []string) []string {
	var matched []string
	for _, file := range files {
		if m.any.MatchString(file) {
			matched = append(matched, file)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if c := compareArtifactVersions(m.version(matched[i]), m.version(matched[j])); c != 0 {
			return c < 0
		}
		return matched[i] < matched[j]
	})
	return matched
}

// Primary filters matched archives down to those that can carry metadata.
func (m ArtifactMatcher) Primary(matched []string) []string {
	var primary []string
	for _, file := range matched {
		if m.primary.MatchString(file) {
			primary = append(primary, file)
		}
	}
	return primary
}

func (m ArtifactMatcher) version(file string) string {
	matches := m.any.FindStringSubmatch(file)
	if matches == nil {
		return ""
	}
	return matches[1]
}

// compareArtifactVersions orders OSGi style versions
// (major.minor.micro.qualifier). Versions that cannot be parsed sort after
// parseable ones and compare lexically among themselves.
func compareArtifactVersions(a, b string) int {
	va, okA := parseArtifactVersion(a)
	vb, okB := parseArtifactVersion(b)
	switch {
	case okA && okB:
		if c := va.Compare(vb); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	case okA:
		return -1
	case okB:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

func parseArtifactVersion(raw string) (*semver.Version, bool) {
	if raw == "" {
		return nil, false
	}
	parts := strings.SplitN(raw, ".", 4)
	candidate := strings.Join(parts[:min(3, len(parts))], ".")
	if len(parts) == 4 && parts[3] != "" {
		// the qualifier is carried as build metadata so it never affects
		// precedence; ties are broken by the raw string
		candidate += "+" + parts[3]
	}
	version, err := semver.NewVersion(candidate)
	if err != nil {
		return nil, false
	}
	return version, true
}
