package types

type BundleRecord struct {
	Name      string   `yaml:"name"`
	Artifacts []string `yaml:"artifacts"`
}

type ModuleReport struct {
	Module    string         `yaml:"module"`
	Bundle    string         `yaml:"bundle"`
	Direction Direction      `yaml:"direction"`
	FromCache bool           `yaml:"from_cache"`
	Changed   bool           `yaml:"changed"`
	Bundles   []BundleRecord `yaml:"bundles,omitempty"`
}

type ResolutionReport struct {
	ProjectRoot string         `yaml:"project_root"`
	Repository  string         `yaml:"repository,omitempty"`
	CreatedAt   string         `yaml:"created_at"`
	Modules     []ModuleReport `yaml:"modules"`
}

// DescriptorEdit describes the effect of a merge or revert on one file.
type DescriptorEdit struct {
	Path    string
	Before  string
	After   string
	Changed bool
}
