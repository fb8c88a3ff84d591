package ports

// EditorSettingsPort merges referenced libraries into an editor settings
// document.
type EditorSettingsPort interface {
	MergeLibraries(path string, libraries []string) (bool, error)
	RemoveLibraries(path string) (bool, error)
}
