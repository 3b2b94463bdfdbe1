package types

// ToolsConfig holds binary name or path overrides for the external toolchain.
// Empty fields fall back to the standard binary names (pandoc, pandoc-mermaid,
// latexmk, mmdc).
type ToolsConfig struct {
	// Pandoc is the document converter binary.
	Pandoc string `json:"pandoc" yaml:"pandoc"`

	// MermaidFilter is the pandoc filter that renders fenced mermaid blocks.
	MermaidFilter string `json:"mermaid_filter" yaml:"mermaid_filter"`

	// Latexmk is the LaTeX compiler driver binary.
	Latexmk string `json:"latexmk" yaml:"latexmk"`

	// Mmdc is the Mermaid CLI renderer invoked by the filter.
	Mmdc string `json:"mmdc" yaml:"mmdc"`
}

// JournalConfig holds settings for the optional build journal.
// Per docs/ARCHITECTURE § Build Journal.
type JournalConfig struct {
	// Enabled turns on build-history recording. Off by default: the journal
	// writes under .marktex/, outside the documented output trees.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Path is the journal database location, relative to the repository root
	// unless absolute. Empty means .marktex/journal.db.
	Path string `json:"path" yaml:"path"`
}

// BuildConfig groups the settings one build invocation needs.
type BuildConfig struct {
	// Mode selects which artifacts are produced (both, pdf-only, tex-only).
	Mode Mode `json:"mode" yaml:"mode"`

	// RepoRoot is an explicit repository root. Empty means auto-discover by
	// walking up from each source file.
	RepoRoot string `json:"repo_root" yaml:"repo_root"`

	// SourceRoots lists nested documentation roots (relative to the
	// repository root) whose prefix is stripped when mirroring, e.g. "docs".
	SourceRoots []string `json:"source_roots" yaml:"source_roots"`

	// Tools carries the toolchain binary overrides.
	Tools ToolsConfig `json:"tools" yaml:"tools"`

	// Journal carries the build-journal settings.
	Journal JournalConfig `json:"journal" yaml:"journal"`
}
