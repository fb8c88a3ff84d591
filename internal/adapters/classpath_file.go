package adapters

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"github.com/MisterPotz/eclipse-vscode-light-converter/internal/ports"
	"github.com/MisterPotz/eclipse-vscode-light-converter/internal/shared"
	"github.com/MisterPotz/eclipse-vscode-light-converter/internal/types"
)

const libraryEntryFormat = `<classpathentry exported="true" kind="lib" path="%s"/>`

// ClasspathFileAdapter applies resolved artifacts to classpath descriptor
// files on disk. With DryRun set it computes edits without writing them.
type ClasspathFileAdapter struct {
	Layout types.Layout
	DryRun bool
}

func NewClasspathFileAdapter(layout types.Layout) ClasspathFileAdapter {
	return ClasspathFileAdapter{Layout: layout.WithDefaults()}
}

func (a ClasspathFileAdapter) Merge(path string, artifactPaths []string) (types.DescriptorEdit, error) {
	before, mode, err := readDescriptor(path)
	if err != nil {
		return types.DescriptorEdit{}, err
	}
	after, err := MergeDescriptor(before, artifactPaths, a.Layout)
	if err != nil {
		return types.DescriptorEdit{}, withPath(err, path)
	}
	return a.apply(path, before, after, mode)
}

func (a ClasspathFileAdapter) Revert(path string) (types.DescriptorEdit, error) {
	before, mode, err := readDescriptor(path)
	if err != nil {
		if errbuilder.CodeOf(err) == errbuilder.CodeNotFound {
			// nothing was ever merged into a file that does not exist
			return types.DescriptorEdit{Path: path}, nil
		}
		return types.DescriptorEdit{}, err
	}
	after, err := RevertDescriptor(before, a.Layout)
	if err != nil {
		return types.DescriptorEdit{}, withPath(err, path)
	}
	return a.apply(path, before, after, mode)
}

func (a ClasspathFileAdapter) apply(path string, before string, after string, mode fs.FileMode) (types.DescriptorEdit, error) {
	edit := types.DescriptorEdit{Path: path, Before: before, After: after, Changed: before != after}
	if !edit.Changed || a.DryRun {
		return edit, nil
	}
	if err := os.WriteFile(path, []byte(after), mode); err != nil {
		return types.DescriptorEdit{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write classpath descriptor " + path).
			WithCause(err)
	}
	return edit, nil
}

// MergeDescriptor inserts the marker line and one library entry per
// artifact path directly before the closing tag. Content that already
// carries the marker is returned unchanged.
func MergeDescriptor(content string, artifactPaths []string, layout types.Layout) (string, error) {
	layout = layout.WithDefaults()
	if strings.Contains(content, layout.MarkerLine) {
		return content, nil
	}
	lines := strings.SplitAfter(content, "\n")
	closing := findClosingTag(lines, layout.ClosingTag, 0)
	if closing < 0 {
		return "", missingClosingTag(layout.ClosingTag)
	}
	eol := shared.LineEnding(content)
	out := make([]string, 0, len(lines)+len(artifactPaths)+1)
	out = append(out, lines[:closing]...)
	out = append(out, "\t"+layout.MarkerLine+eol)
	for _, artifact := range artifactPaths {
		out = append(out, "\t"+libraryEntry(artifact)+eol)
	}
	out = append(out, lines[closing:]...)
	return strings.Join(out, ""), nil
}

// RevertDescriptor removes everything from the last marker line up to the
// closing tag that follows it. Content without a marker is returned
// unchanged.
func RevertDescriptor(content string, layout types.Layout) (string, error) {
	layout = layout.WithDefaults()
	lines := strings.SplitAfter(content, "\n")
	marker := -1
	for i, line := range lines {
		if strings.Contains(line, layout.MarkerLine) {
			marker = i
		}
	}
	if marker < 0 {
		return content, nil
	}
	closing := findClosingTag(lines, layout.ClosingTag, marker+1)
	if closing < 0 {
		return "", missingClosingTag(layout.ClosingTag)
	}
	out := make([]string, 0, len(lines)-(closing-marker))
	out = append(out, lines[:marker]...)
	out = append(out, lines[closing:]...)
	return strings.Join(out, ""), nil
}

func findClosingTag(lines []string, tag string, from int) int {
	for i := from; i < len(lines); i++ {
		if strings.HasPrefix(strings.TrimSpace(lines[i]), tag) {
			return i
		}
	}
	return -1
}

func libraryEntry(artifact string) string {
	var escaped bytes.Buffer
	_ = xml.EscapeText(&escaped, []byte(filepath.ToSlash(artifact)))
	return fmt.Sprintf(libraryEntryFormat, escaped.String())
}

func readDescriptor(path string) (string, fs.FileMode, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", 0, errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg("classpath descriptor not found: " + path).
				WithCause(err)
		}
		return "", 0, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to stat classpath descriptor " + path).
			WithCause(err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return "", 0, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read classpath descriptor " + path).
			WithCause(err)
	}
	return string(content), info.Mode().Perm(), nil
}

func missingClosingTag(tag string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg("closing tag " + tag + " not found")
}

func withPath(err error, path string) error {
	var builder *errbuilder.ErrBuilder
	if !errors.As(err, &builder) {
		return err
	}
	return errbuilder.New().
		WithCode(errbuilder.CodeOf(err)).
		WithMsg(builder.Msg + " in " + path)
}

var _ ports.ClasspathPort = ClasspathFileAdapter{}
