package config

import "time"

// Config represents the complete reporter configuration.
type Config struct {
	Log      LogConfig      `json:"log" mapstructure:"log"`
	Source   string         `json:"source" mapstructure:"source"` // Where inventory is read from: kubectl or api
	Kubectl  KubectlConfig  `json:"kubectl" mapstructure:"kubectl"`
	Platform PlatformConfig `json:"platform" mapstructure:"platform"`
	Report   ReportConfig   `json:"report" mapstructure:"report"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `json:"level" mapstructure:"level"` // Logging level: debug, info, warning, error
	Dir   string `json:"dir" mapstructure:"dir"`     // Optional directory for a log file; empty logs to stderr only
}

// KubectlConfig holds cluster access settings. Binary is only used by the
// kubectl source; the API source honours the rest.
type KubectlConfig struct {
	Binary     string        `json:"binary" mapstructure:"binary"`
	Kubeconfig string        `json:"kubeconfig" mapstructure:"kubeconfig"`
	Context    string        `json:"context" mapstructure:"context"`
	Timeout    time.Duration `json:"timeout" mapstructure:"timeout"` // Per-query timeout; zero disables it
}

// PlatformConfig locates the Kommander platform objects.
type PlatformConfig struct {
	BootstrapNamespace string `json:"bootstrapNamespace" mapstructure:"bootstrapNamespace"`
	BootstrapConfigMap string `json:"bootstrapConfigMap" mapstructure:"bootstrapConfigMap"`
	LicenseNamespace   string `json:"licenseNamespace" mapstructure:"licenseNamespace"`
}

// ReportConfig controls what is reported and how it is written.
type ReportConfig struct {
	Format         string `json:"format" mapstructure:"format"`                 // text, html or json
	OutputFile     string `json:"outputFile" mapstructure:"outputFile"`         // Empty writes to stdout
	RegistrySchema string `json:"registrySchema" mapstructure:"registrySchema"` // urls or credentials
	ResolveNodes   bool   `json:"resolveNodes" mapstructure:"resolveNodes"`
	Color          bool   `json:"color" mapstructure:"color"`
}

// WritesToStdout reports whether the report goes to standard output.
func (r ReportConfig) WritesToStdout() bool {
	return r.OutputFile == "" || r.OutputFile == "-"
}
