package types

// Layout holds the fixed names the engine relies on: where artifacts live
// inside a provisioning repository, which documents carry metadata, and how
// the classpath descriptor is patched. DefaultLayout matches a stock
// Eclipse/p2 setup; every field can be overridden from configuration.
type Layout struct {
	PoolDir           string `yaml:"pool_dir" mapstructure:"pool_dir"`
	ArchiveExtension  string `yaml:"archive_extension" mapstructure:"archive_extension"`
	SourceMarker      string `yaml:"source_marker" mapstructure:"source_marker"`
	ManifestPath      string `yaml:"manifest_path" mapstructure:"manifest_path"`
	ProvisioningPath  string `yaml:"provisioning_path" mapstructure:"provisioning_path"`
	DeclarationKey    string `yaml:"declaration_key" mapstructure:"declaration_key"`
	ReexportToken     string `yaml:"reexport_token" mapstructure:"reexport_token"`
	ClasspathFile     string `yaml:"classpath_file" mapstructure:"classpath_file"`
	ClosingTag        string `yaml:"closing_tag" mapstructure:"closing_tag"`
	MarkerLine        string `yaml:"marker_line" mapstructure:"marker_line"`
	CacheSuffix       string `yaml:"cache_suffix" mapstructure:"cache_suffix"`
	SettingsPath      string `yaml:"settings_path" mapstructure:"settings_path"`
	SettingsLibraries string `yaml:"settings_libraries" mapstructure:"settings_libraries"`
}

func DefaultLayout() Layout {
	return Layout{
		PoolDir:           "pool/plugins",
		ArchiveExtension:  ".jar",
		SourceMarker:      ".source",
		ManifestPath:      "META-INF/MANIFEST.MF",
		ProvisioningPath:  "META-INF/p2.inf",
		DeclarationKey:    "Require-Bundle",
		ReexportToken:     "reexport",
		ClasspathFile:     ".classpath",
		ClosingTag:        "</classpath>",
		MarkerLine:        "<!-- classpath-installer: resolved bundles -->",
		CacheSuffix:       ".deps",
		SettingsPath:      ".vscode/settings.json",
		SettingsLibraries: "java.project.referencedLibraries",
	}
}

// WithDefaults fills every empty field from DefaultLayout.
func (l Layout) WithDefaults() Layout {
	d := DefaultLayout()
	fill := func(value *string, fallback string) {
		if *value == "" {
			*value = fallback
		}
	}
	fill(&l.PoolDir, d.PoolDir)
	fill(&l.ArchiveExtension, d.ArchiveExtension)
	fill(&l.SourceMarker, d.SourceMarker)
	fill(&l.ManifestPath, d.ManifestPath)
	fill(&l.ProvisioningPath, d.ProvisioningPath)
	fill(&l.DeclarationKey, d.DeclarationKey)
	fill(&l.ReexportToken, d.ReexportToken)
	fill(&l.ClasspathFile, d.ClasspathFile)
	fill(&l.ClosingTag, d.ClosingTag)
	fill(&l.MarkerLine, d.MarkerLine)
	fill(&l.CacheSuffix, d.CacheSuffix)
	fill(&l.SettingsPath, d.SettingsPath)
	fill(&l.SettingsLibraries, d.SettingsLibraries)
	return l
}
