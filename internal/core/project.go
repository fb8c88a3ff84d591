package core

import (
	"path/filepath"

	"github.com/MisterPotz/eclipse-vscode-light-converter/internal/ports"
	"github.com/MisterPotz/eclipse-vscode-light-converter/internal/types"
)

// Project is one module of a local workspace. Its bundle name is the base
// name of the module directory.
type Project struct {
	Root   string
	Module string
}

func NewProject(root string, module string) Project {
	return Project{
		Root:   filepath.Clean(root),
		Module: filepath.Clean(module),
	}
}

func (p Project) Name() string {
	return filepath.Base(p.Module)
}

func (p Project) Dir() string {
	return filepath.Join(p.Root, p.Module)
}

func (p Project) ClasspathPath(layout types.Layout) string {
	return filepath.Join(p.Dir(), filepath.FromSlash(layout.WithDefaults().ClasspathFile))
}

func (p Project) SettingsPath(layout types.Layout) string {
	return filepath.Join(p.Dir(), filepath.FromSlash(layout.WithDefaults().SettingsPath))
}

// Siblings returns the module names present directly under the root.
func (p Project) Siblings(workspace ports.WorkspacePort) (map[string]struct{}, error) {
	siblings := map[string]struct{}{}
	if workspace == nil {
		return siblings, nil
	}
	names, err := workspace.SiblingModules(p.Root)
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		siblings[name] = struct{}{}
	}
	return siblings, nil
}
