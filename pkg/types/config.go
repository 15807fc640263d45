package types

// Format identifies an interchange encoding for Article documents.
type Format string

const (
	// FormatAuto selects the format from the file extension.
	FormatAuto  Format = "auto"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatJSONL Format = "jsonl"
)

// Engine selects the validation implementation.
type Engine string

const (
	// EngineNative validates with the Go builder in pkg/schema.
	EngineNative Engine = "native"

	// EngineCUE validates with the embedded CUE definition first, then builds
	// the record natively.
	EngineCUE Engine = "cue"
)

// ValidationConfig holds settings for the validate stage.
type ValidationConfig struct {
	// Engine selects native or cue validation (default native).
	Engine Engine `json:"engine" yaml:"engine"`

	// Format forces an input format; auto uses the file extension.
	Format Format `json:"format" yaml:"format"`

	// MaxIssues caps the issue lines printed per invalid record (0 = all).
	MaxIssues int `json:"max_issues" yaml:"max_issues"`
}

// OutputConfig holds settings for writing Article documents.
type OutputConfig struct {
	// Indent is the number of spaces used by the JSON and YAML encoders
	// (default 2).
	Indent int `json:"indent" yaml:"indent"`
}

// ConvertConfig holds settings for the convert stage.
type ConvertConfig struct {
	OutputConfig `yaml:",inline"`

	// To is the target format: json or yaml.
	To Format `json:"to" yaml:"to"`

	// From forces the input format; auto uses the file extension.
	From Format `json:"from" yaml:"from"`
}

// FetchConfig holds settings for reading documents from http(s) URLs.
type FetchConfig struct {
	// SecretsDir holds one bearer token file per host (default .secrets).
	SecretsDir string `json:"secrets_dir" yaml:"secrets_dir"`
}

// CLIConfig groups all stage configurations, mirroring isoform-kb.yaml.
type CLIConfig struct {
	Validate ValidationConfig `json:"validate" yaml:"validate"`
	Convert  ConvertConfig    `json:"convert" yaml:"convert"`
	Output   OutputConfig     `json:"output" yaml:"output"`
	Fetch    FetchConfig      `json:"fetch" yaml:"fetch"`
}
