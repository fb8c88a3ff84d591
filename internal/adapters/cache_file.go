package adapters

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"github.com/MisterPotz/eclipse-vscode-light-converter/internal/ports"
	"github.com/MisterPotz/eclipse-vscode-light-converter/internal/shared"
	"github.com/MisterPotz/eclipse-vscode-light-converter/internal/types"
)

// CacheFileAdapter stores one closure per file, one dependency name per
// line, under Dir.
type CacheFileAdapter struct {
	Dir    string
	Suffix string
	// DryRun turns Store, Delete and Purge into no-ops.
	DryRun bool
}

func NewCacheFileAdapter(dir string, layout types.Layout) CacheFileAdapter {
	return CacheFileAdapter{Dir: dir, Suffix: layout.WithDefaults().CacheSuffix}
}

// EntryPath is the cache file holding the closure of name.
func (a CacheFileAdapter) EntryPath(name string) string {
	return filepath.Join(a.Dir, sanitizeCacheName(name)+a.Suffix)
}

func (a CacheFileAdapter) Load(name string) ([]string, bool, error) {
	if a.Dir == "" {
		return nil, false, nil
	}
	content, err := os.ReadFile(a.EntryPath(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read cache entry for " + name).
			WithCause(err)
	}
	var names []string
	for _, line := range shared.SplitLines(string(content)) {
		if line = strings.TrimSpace(line); line != "" {
			names = append(names, line)
		}
	}
	return names, true, nil
}

func (a CacheFileAdapter) Store(name string, names []string) error {
	if a.DryRun {
		return nil
	}
	if a.Dir == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("cache directory is empty")
	}
	if err := os.MkdirAll(a.Dir, 0755); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create cache directory").
			WithCause(err)
	}
	var builder strings.Builder
	for _, dep := range names {
		builder.WriteString(dep)
		builder.WriteString("\n")
	}
	if err := os.WriteFile(a.EntryPath(name), []byte(builder.String()), 0644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write cache entry for " + name).
			WithCause(err)
	}
	return nil
}

func (a CacheFileAdapter) Delete(name string) error {
	if a.DryRun || a.Dir == "" {
		return nil
	}
	if err := os.Remove(a.EntryPath(name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to delete cache entry for " + name).
			WithCause(err)
	}
	return nil
}

// Purge removes every entry carrying the cache suffix. Other files in the
// directory are left alone.
func (a CacheFileAdapter) Purge() (int, error) {
	if a.Dir == "" {
		return 0, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("cache directory is empty")
	}
	entries, err := os.ReadDir(a.Dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to list cache directory").
			WithCause(err)
	}
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), a.Suffix) {
			continue
		}
		removed++
		if a.DryRun {
			continue
		}
		if err := os.Remove(filepath.Join(a.Dir, entry.Name())); err != nil {
			return removed - 1, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to delete cache entry " + entry.Name()).
				WithCause(err)
		}
	}
	return removed, nil
}

func sanitizeCacheName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, name)
}

var _ ports.CachePort = CacheFileAdapter{}
