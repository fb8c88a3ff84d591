package adapters

import (
	"archive/zip"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"github.com/MisterPotz/eclipse-vscode-light-converter/internal/ports"
	"github.com/MisterPotz/eclipse-vscode-light-converter/internal/shared"
	"github.com/MisterPotz/eclipse-vscode-light-converter/internal/types"
)

// ArtifactPoolAdapter reads archives from the plugin pool of a
// provisioning repository. Directory listings and archive documents are
// memoized; documents are re-read when the archive's modtime changes.
type ArtifactPoolAdapter struct {
	Dir string

	mu      sync.Mutex
	listing []string
	listed  bool
	docs    map[string]archiveDocEntry
}

type archiveDocEntry struct {
	modTime time.Time
	lines   []string
	found   bool
}

func NewArtifactPoolAdapter(repository string, layout types.Layout) *ArtifactPoolAdapter {
	layout = layout.WithDefaults()
	return &ArtifactPoolAdapter{
		Dir:  filepath.Join(repository, filepath.FromSlash(layout.PoolDir)),
		docs: map[string]archiveDocEntry{},
	}
}

func (a *ArtifactPoolAdapter) ListArtifacts() ([]string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.listed {
		return a.listing, nil
	}
	entries, err := os.ReadDir(a.Dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg("artifact pool not found: " + a.Dir).
				WithCause(err)
		}
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to list artifact pool").
			WithCause(err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	a.listing = names
	a.listed = true
	return names, nil
}

func (a *ArtifactPoolAdapter) ArtifactPath(filename string) string {
	return filepath.Join(a.Dir, filename)
}

func (a *ArtifactPoolAdapter) ReadArchiveDocument(filename string, entry string) ([]string, bool, error) {
	path := a.ArtifactPath(filename)
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to stat artifact " + filename).
			WithCause(err)
	}
	key := filename + "!" + entry
	a.mu.Lock()
	if cached, ok := a.docs[key]; ok && cached.modTime.Equal(info.ModTime()) {
		a.mu.Unlock()
		return cached.lines, cached.found, nil
	}
	a.mu.Unlock()

	lines, found, err := readZipEntry(path, entry)
	if err != nil {
		return nil, false, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read " + entry + " from " + filename).
			WithCause(err)
	}
	a.mu.Lock()
	a.docs[key] = archiveDocEntry{modTime: info.ModTime(), lines: lines, found: found}
	a.mu.Unlock()
	return lines, found, nil
}

func readZipEntry(path string, entry string) ([]string, bool, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return nil, false, err
	}
	defer reader.Close()

	file, err := reader.Open(strings.TrimPrefix(entry, "/"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer file.Close()
	content, err := io.ReadAll(file)
	if err != nil {
		return nil, false, err
	}
	return shared.SplitLines(string(content)), true, nil
}

var _ ports.RepositoryPort = (*ArtifactPoolAdapter)(nil)
