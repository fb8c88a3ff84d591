package adapters

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"github.com/MisterPotz/eclipse-vscode-light-converter/internal/ports"
	"github.com/MisterPotz/eclipse-vscode-light-converter/internal/types"
)

// SettingsFileAdapter owns a single key of an editor settings document.
// Every other key is carried over untouched.
type SettingsFileAdapter struct {
	Key    string
	DryRun bool
}

func NewSettingsFileAdapter(layout types.Layout) SettingsFileAdapter {
	return SettingsFileAdapter{Key: layout.WithDefaults().SettingsLibraries}
}

func (a SettingsFileAdapter) MergeLibraries(path string, libraries []string) (bool, error) {
	settings, exists, err := readSettings(path)
	if err != nil {
		return false, err
	}
	if libraries == nil {
		libraries = []string{}
	}
	encoded, err := json.Marshal(libraries)
	if err != nil {
		return false, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode referenced libraries").
			WithCause(err)
	}
	if current, ok := settings[a.Key]; ok && sameLibraries(current, libraries) {
		return false, nil
	}
	settings[a.Key] = encoded
	if a.DryRun {
		return true, nil
	}
	if !exists {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return false, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to create settings directory").
				WithCause(err)
		}
	}
	return true, writeSettings(path, settings)
}

func (a SettingsFileAdapter) RemoveLibraries(path string) (bool, error) {
	settings, exists, err := readSettings(path)
	if err != nil || !exists {
		return false, err
	}
	if _, ok := settings[a.Key]; !ok {
		return false, nil
	}
	delete(settings, a.Key)
	if a.DryRun {
		return true, nil
	}
	return true, writeSettings(path, settings)
}

func readSettings(path string) (map[string]json.RawMessage, bool, error) {
	settings := map[string]json.RawMessage{}
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return settings, false, nil
		}
		return nil, false, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read settings " + path).
			WithCause(err)
	}
	if len(bytes.TrimSpace(content)) == 0 {
		return settings, true, nil
	}
	if err := json.Unmarshal(content, &settings); err != nil {
		return nil, false, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("settings " + path + " is not a plain JSON object").
			WithCause(err)
	}
	return settings, true, nil
}

func writeSettings(path string, settings map[string]json.RawMessage) error {
	content, err := json.MarshalIndent(settings, "", "    ")
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode settings").
			WithCause(err)
	}
	if err := os.WriteFile(path, append(content, '\n'), 0644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write settings " + path).
			WithCause(err)
	}
	return nil
}

func sameLibraries(raw json.RawMessage, libraries []string) bool {
	var current []string
	if err := json.Unmarshal(raw, &current); err != nil {
		return false
	}
	return slices.Equal(current, libraries)
}

var _ ports.EditorSettingsPort = SettingsFileAdapter{}
