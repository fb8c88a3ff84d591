package ports

import "github.com/MisterPotz/eclipse-vscode-light-converter/internal/types"

// ClasspathPort applies or reverts resolved artifacts against a classpath
// descriptor file.
type ClasspathPort interface {
	Merge(path string, artifactPaths []string) (types.DescriptorEdit, error)
	Revert(path string) (types.DescriptorEdit, error)
}
