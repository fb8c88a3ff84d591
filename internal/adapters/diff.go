package adapters

import (
	"strings"

	difflib "github.com/pmezard/go-difflib/difflib"

	"github.com/MisterPotz/eclipse-vscode-light-converter/internal/types"
)

const diffContext = 3

// UnifiedDiff renders a descriptor edit as a unified patch. An unchanged
// edit renders as the empty string.
func UnifiedDiff(edit types.DescriptorEdit) string {
	if !edit.Changed {
		return ""
	}
	patch, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        splitLinesKeepNL(edit.Before),
		B:        splitLinesKeepNL(edit.After),
		FromFile: "a/" + strings.TrimPrefix(edit.Path, "/"),
		ToFile:   "b/" + strings.TrimPrefix(edit.Path, "/"),
		Context:  diffContext,
	})
	if err != nil {
		return ""
	}
	return patch
}

func splitLinesKeepNL(s string) []string {
	if s == "" {
		return []string{}
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
