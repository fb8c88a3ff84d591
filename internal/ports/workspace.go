package ports

// WorkspacePort reads the local project tree.
type WorkspacePort interface {
	// SiblingModules lists the module directory names directly under root.
	SiblingModules(root string) ([]string, error)

	// ReadModuleDocument returns the lines of a document relative to a
	// module directory. A missing document yields (nil, false, nil).
	ReadModuleDocument(moduleDir string, docPath string) ([]string, bool, error)
}
