package types

// Dependency is one entry of a bundle's declared requirements.
type Dependency struct {
	Name     string `yaml:"name"`
	Exported bool   `yaml:"exported"`
}
