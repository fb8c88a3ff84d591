package ports

// RepositoryPort exposes the artifact pool of a provisioning repository.
type RepositoryPort interface {
	// ListArtifacts returns the archive filenames present in the pool.
	ListArtifacts() ([]string, error)

	// ArtifactPath joins the pool directory with an archive filename.
	ArtifactPath(filename string) string

	// ReadArchiveDocument returns the lines of a document stored inside an
	// archive. A missing document yields (nil, false, nil).
	ReadArchiveDocument(filename string, entry string) ([]string, bool, error)
}
