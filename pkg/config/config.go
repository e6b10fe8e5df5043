package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/nkp-tools/nkp-as-built/pkg/logger"
)

const (
	// Default configuration values
	defaultLogLevel           = "info"
	defaultSource             = SourceKubectl
	defaultKubectlBinary      = "kubectl"
	defaultBootstrapNamespace = "default"
	defaultBootstrapConfigMap = "kommander-bootstrap-configuration"
	defaultLicenseNamespace   = "kommander"
	defaultFormat             = "text"
	defaultRegistrySchema     = "urls"

	// DefaultHTMLFile and DefaultJSONFile receive html and json reports
	// unless an output file is given.
	DefaultHTMLFile = "cluster_details.html"
	DefaultJSONFile = "cluster_details.json"

	// Environment variable prefix
	envPrefix = "NKP_AS_BUILT"
)

// Inventory sources.
const (
	SourceKubectl = "kubectl"
	SourceAPI     = "api"
)

// Singleton instance for configuration
var (
	configInstance *Config
	configMutex    sync.RWMutex
)

// flagKeys maps command line flag names to configuration keys.
var flagKeys = map[string]string{
	"log-level":         "log.level",
	"log-dir":           "log.dir",
	"source":            "source",
	"kubectl":           "kubectl.binary",
	"kubeconfig":        "kubectl.kubeconfig",
	"context":           "kubectl.context",
	"timeout":           "kubectl.timeout",
	"namespace":         "platform.bootstrapNamespace",
	"license-namespace": "platform.licenseNamespace",
	"output":            "report.format",
	"output-file":       "report.outputFile",
	"registry-schema":   "report.registrySchema",
	"resolve-nodes":     "report.resolveNodes",
}

// GetConfig returns the singleton configuration instance.
// Returns nil if configuration has not been loaded yet. Use LoadConfig() first.
func GetConfig() *Config {
	configMutex.RLock()
	defer configMutex.RUnlock()
	return configInstance
}

// LoadConfig builds the configuration from, in increasing precedence,
// defaults, an optional config file (yaml or json), environment variables
// with the NKP_AS_BUILT_ prefix and any flags in flags that were set.
// For example: NKP_AS_BUILT_KUBECTL_CONTEXT=mgmt-admin
func LoadConfig(configPath string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	registerDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file at %s: %w", configPath, err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			flag := flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("failed to bind flag --%s: %w", name, err)
			}
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	config.SetDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	configMutex.Lock()
	defer configMutex.Unlock()
	configInstance = config

	return config, nil
}

// registerDefaults declares every key so environment variables are seen by
// Unmarshal.
func registerDefaults(v *viper.Viper) {
	v.SetDefault("log.level", defaultLogLevel)
	v.SetDefault("log.dir", "")
	v.SetDefault("source", defaultSource)
	v.SetDefault("kubectl.binary", defaultKubectlBinary)
	v.SetDefault("kubectl.kubeconfig", "")
	v.SetDefault("kubectl.context", "")
	v.SetDefault("kubectl.timeout", "0s")
	v.SetDefault("platform.bootstrapNamespace", defaultBootstrapNamespace)
	v.SetDefault("platform.bootstrapConfigMap", defaultBootstrapConfigMap)
	v.SetDefault("platform.licenseNamespace", defaultLicenseNamespace)
	v.SetDefault("report.format", defaultFormat)
	v.SetDefault("report.outputFile", "")
	v.SetDefault("report.registrySchema", defaultRegistrySchema)
	v.SetDefault("report.resolveNodes", false)
	v.SetDefault("report.color", true)
}

// SetDefaults sets default values for any missing configuration fields
func (c *Config) SetDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = defaultLogLevel
	}
	if c.Source == "" {
		c.Source = defaultSource
	}
	if c.Kubectl.Binary == "" {
		c.Kubectl.Binary = defaultKubectlBinary
	}

	if c.Platform.BootstrapNamespace == "" {
		c.Platform.BootstrapNamespace = defaultBootstrapNamespace
	}
	if c.Platform.BootstrapConfigMap == "" {
		c.Platform.BootstrapConfigMap = defaultBootstrapConfigMap
	}
	if c.Platform.LicenseNamespace == "" {
		c.Platform.LicenseNamespace = defaultLicenseNamespace
	}

	c.Report.Format = strings.ToLower(c.Report.Format)
	if c.Report.Format == "" {
		c.Report.Format = defaultFormat
	}
	c.Report.RegistrySchema = strings.ToLower(strings.TrimSpace(c.Report.RegistrySchema))
	if c.Report.RegistrySchema == "" {
		c.Report.RegistrySchema = defaultRegistrySchema
	}

	// html and json are documents, not terminal output
	if c.Report.OutputFile == "" {
		switch c.Report.Format {
		case "html":
			c.Report.OutputFile = DefaultHTMLFile
		case "json":
			c.Report.OutputFile = DefaultJSONFile
		}
	}
}

var validSources = map[string]bool{
	SourceKubectl: true,
	SourceAPI:     true,
}

var validFormats = map[string]bool{
	"text": true,
	"html": true,
	"json": true,
}

var validRegistrySchemas = map[string]bool{
	"urls":        true,
	"credentials": true,
}

// Validate validates the configuration and ensures all required fields are set
func (c *Config) Validate() error {
	if err := logger.ValidateLogLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log.level: %w", err)
	}

	if !validSources[c.Source] {
		return fmt.Errorf("invalid source: %s. Valid values are: kubectl, api", c.Source)
	}
	if c.Kubectl.Timeout < 0 {
		return fmt.Errorf("kubectl.timeout must not be negative, got %s", c.Kubectl.Timeout)
	}

	if !validFormats[c.Report.Format] {
		return fmt.Errorf("invalid report.format: %s. Valid values are: text, html, json", c.Report.Format)
	}
	if !validRegistrySchemas[c.Report.RegistrySchema] {
		return fmt.Errorf("invalid report.registrySchema: %s. Valid values are: urls, credentials", c.Report.RegistrySchema)
	}

	return nil
}
