package core

import (
	"regexp"
	"strings"

	"github.com/MisterPotz/eclipse-vscode-light-converter/internal/types"
)

var (
	// headerPattern recognizes the start of any manifest header. Continuation
	// lines start with whitespace and `name:=value` directives are not
	// headers.
	headerPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*:([^=]|$)`)

	provisioningPattern = regexp.MustCompile(`^\s*requires\s*\.\s*(\d+)\s*\.\s*name\s*=(.*)$`)
)

// MetadataParser turns bundle metadata documents into dependency lists.
type MetadataParser struct {
	keyword    string
	reexport   string
	blockStart *regexp.Regexp
}

func NewMetadataParser(layout types.Layout) MetadataParser {
	layout = layout.WithDefaults()
	return MetadataParser{
		keyword:    layout.DeclarationKey,
		reexport:   layout.ReexportToken,
		blockStart: regexp.MustCompile(`^` + regexp.QuoteMeta(layout.DeclarationKey) + `:\s*(.*)$`),
	}
}

// ParseDeclarations extracts the dependency declaration block from the
// lines of a manifest. A document without the block yields nil.
func (p MetadataParser) ParseDeclarations(lines []string) []types.Dependency {
	block, ok := p.declarationBlock(lines)
	if !ok {
		return nil
	}
	var deps []types.Dependency
	for _, field := range SplitTopLevel(block) {
		dep, ok := p.parseField(field)
		if !ok {
			continue
		}
		deps = append(deps, dep)
	}
	return deps
}

// ParseProvisioning extracts `requires.N.name = value` entries. Every
// provisioning requirement is exported.
func (p MetadataParser) ParseProvisioning(lines []string) []types.Dependency {
	var deps []types.Dependency
	for _, line := range lines {
		matches := provisioningPattern.FindStringSubmatch(strings.TrimRight(line, "\r\n"))
		if matches == nil {
			continue
		}
		name := strings.TrimSpace(matches[2])
		if name == "" {
			continue
		}
		deps = append(deps, types.Dependency{Name: name, Exported: true})
	}
	return deps
}

func (p MetadataParser) declarationBlock(lines []string) (string, bool) {
	start := -1
	end := len(lines)
	for i, line := range lines {
		line = strings.TrimRight(line, "\r\n")
		if start < 0 {
			if p.blockStart.MatchString(line) {
				start = i
			}
			continue
		}
		if headerPattern.MatchString(line) {
			end = i
			break
		}
	}
	if start < 0 {
		return "", false
	}
	var builder strings.Builder
	for _, line := range lines[start:end] {
		builder.WriteString(strings.TrimSpace(line))
	}
	joined := strings.TrimPrefix(builder.String(), p.keyword+":")
	return strings.TrimSpace(joined), true
}

func (p MetadataParser) parseField(field string) (types.Dependency, bool) {
	field = strings.TrimSpace(field)
	name := strings.TrimSpace(strings.SplitN(field, ";", 2)[0])
	if name == "" {
		return types.Dependency{}, false
	}
	return types.Dependency{
		Name:     name,
		Exported: strings.Contains(field, p.reexport),
	}, true
}

// SplitTopLevel splits value on commas that are not inside a double-quoted
// segment. A backslash escapes the following character.
func SplitTopLevel(value string) []string {
	var fields []string
	inQuotes := false
	escaped := false
	last := 0
	for i := 0; i < len(value); i++ {
		switch c := value[i]; {
		case escaped:
			escaped = false
		case c == '\\':
			escaped = true
		case c == '"':
			inQuotes = !inQuotes
		case c == ',' && !inQuotes:
			fields = append(fields, value[last:i])
			last = i + 1
		}
	}
	return append(fields, value[last:])
}
