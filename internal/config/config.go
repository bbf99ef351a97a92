// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"textmark/internal/catalog"
	"textmark/internal/logging"
	"textmark/internal/paths"
)

// ReportFormats lists the run report formats a config may select
var ReportFormats = []string{"text", "json", "yaml", "csv", "junit"}

// Config represents the application configuration
type Config struct {
	// Default settings
	Defaults struct {
		Format             string `yaml:"format"`
		NoColor            bool   `yaml:"no_color"`
		Verbose            bool   `yaml:"verbose"`
		Debug              bool   `yaml:"debug"`
		CaseSensitive      bool   `yaml:"case_sensitive"`
		UseBuiltinCatalogs bool   `yaml:"use_builtin_catalogs"`
	} `yaml:"defaults"`

	// Catalogs are appended after the built-in catalogs
	Catalogs []catalog.Definition `yaml:"catalogs"`

	// CatalogFiles are YAML, TOML or JSON catalog files loaded after Catalogs
	CatalogFiles []string `yaml:"catalog_files"`

	Export struct {
		Path string `yaml:"path"`
	} `yaml:"export"`

	History struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
		Limit   int    `yaml:"limit"`
	} `yaml:"history"`

	Watch struct {
		Delay time.Duration `yaml:"delay"`
	} `yaml:"watch"`

	Logging logging.Config `yaml:"logging"`

	// Profiles for different marking scenarios
	Profiles map[string]Profile `yaml:"profiles"`
}

// Profile overrides defaults for one kind of run
type Profile struct {
	Description   string               `yaml:"description"`
	Format        string               `yaml:"format"`
	CaseSensitive bool                 `yaml:"case_sensitive"`
	NoBuiltin     bool                 `yaml:"no_builtin"`
	BuiltinOnly   bool                 `yaml:"builtin_only"`
	Catalogs      []catalog.Definition `yaml:"catalogs"`
	CatalogFiles  []string             `yaml:"catalog_files"`
	Export        string               `yaml:"export"`
}

// LoadConfig loads configuration from the specified file path
func LoadConfig(configPath string) (*Config, error) {
	config := defaultConfig()

	// If no config file specified, return default config
	if configPath == "" {
		return config, nil
	}

	cleanPath := filepath.Clean(configPath)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	defaultUseBuiltin := config.Defaults.UseBuiltinCatalogs

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	// yaml leaves omitted bools false, so restore defaults that are true
	if !containsField(data, "defaults", "use_builtin_catalogs") {
		config.Defaults.UseBuiltinCatalogs = defaultUseBuiltin
	}
	if config.Profiles == nil {
		config.Profiles = make(map[string]Profile)
	}

	ApplyPathDefaults(config, filepath.Dir(cleanPath))

	if err := ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

func defaultConfig() *Config {
	config := &Config{
		Profiles: make(map[string]Profile),
	}
	config.Defaults.Format = "text"
	config.Defaults.UseBuiltinCatalogs = true
	config.History.Limit = 20
	config.Watch.Delay = 200 * time.Millisecond
	config.Logging.Level = "warn"
	config.Logging.Format = "console"

	config.Profiles["strict"] = Profile{
		Description:   "Case sensitive matching with the built-in catalogs only",
		Format:        "text",
		CaseSensitive: true,
		BuiltinOnly:   true,
	}
	return config
}

// FindConfigFile looks for a configuration file in standard locations
func FindConfigFile() string {
	for _, name := range []string{"textmark.yaml", "textmark.yml", ".textmark.yaml", ".textmark.yml"} {
		if fileExists(name) {
			return name
		}
	}

	standardConfig := paths.GetConfigFile()
	if fileExists(standardConfig) {
		return standardConfig
	}

	if home, err := os.UserHomeDir(); err == nil {
		homeConfig := filepath.Join(home, ".textmark.yaml")
		if fileExists(homeConfig) {
			return homeConfig
		}
	}
	return ""
}

// fileExists checks if a file exists and is not a directory
func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// ListProfiles returns the sorted profile names
func (c *Config) ListProfiles() []string {
	profiles := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		profiles = append(profiles, name)
	}
	sort.Strings(profiles)
	return profiles
}

// GetProfile returns a profile by name, or nil if not found
func (c *Config) GetProfile(name string) *Profile {
	if profile, exists := c.Profiles[name]; exists {
		return &profile
	}
	return nil
}

// ApplyProfile overlays the named profile onto the defaults
func (c *Config) ApplyProfile(name string) error {
	profile := c.GetProfile(name)
	if profile == nil {
		return fmt.Errorf("profile %q not found (available: %v)", name, c.ListProfiles())
	}

	if profile.Format != "" {
		c.Defaults.Format = profile.Format
	}
	if profile.CaseSensitive {
		c.Defaults.CaseSensitive = true
	}
	if profile.NoBuiltin {
		c.Defaults.UseBuiltinCatalogs = false
	}
	if profile.BuiltinOnly {
		// Configured catalogs are dropped; the profile's own still apply
		c.Defaults.UseBuiltinCatalogs = true
		c.Catalogs = nil
		c.CatalogFiles = nil
	}
	if profile.Export != "" {
		c.Export.Path = profile.Export
	}
	c.Catalogs = append(c.Catalogs, profile.Catalogs...)
	c.CatalogFiles = append(c.CatalogFiles, profile.CatalogFiles...)
	return nil
}

// ResolveCatalogs returns the catalogs of a run: built-ins when enabled,
// then inline definitions, then catalog files
func (c *Config) ResolveCatalogs() ([]catalog.Catalog, error) {
	var builtin []catalog.Catalog
	if c.Defaults.UseBuiltinCatalogs {
		builtin = catalog.Builtin()
	}

	inline, err := catalog.FromDefinitions(c.Catalogs)
	if err != nil {
		return nil, fmt.Errorf("inline catalogs: %w", err)
	}
	fromFiles, err := catalog.LoadFiles(c.CatalogFiles)
	if err != nil {
		return nil, err
	}
	return catalog.Merge(builtin, inline, fromFiles)
}

// HistoryPath returns the history database path, defaulting to the config dir
func (c *Config) HistoryPath() string {
	if c.History.Path != "" {
		return c.History.Path
	}
	return paths.GetHistoryFile()
}

// containsField checks if a nested field exists in the YAML data
func containsField(data []byte, path ...string) bool {
	var yamlData map[string]interface{}
	if err := yaml.Unmarshal(data, &yamlData); err != nil {
		return false
	}

	current := yamlData
	for i, key := range path {
		if i == len(path)-1 {
			_, exists := current[key]
			return exists
		}
		next, ok := current[key].(map[string]interface{})
		if !ok {
			return false
		}
		current = next
	}
	return false
}

// ApplyPathDefaults normalizes paths and resolves relative catalog files
// against baseDir, the directory of the config file
func ApplyPathDefaults(config *Config, baseDir string) {
	if config == nil {
		return
	}

	resolve := func(p string) string {
		p = paths.NormalizePath(p)
		if p == "" || filepath.IsAbs(p) || baseDir == "" {
			return p
		}
		return filepath.Join(baseDir, p)
	}

	for i, p := range config.CatalogFiles {
		config.CatalogFiles[i] = resolve(p)
	}
	config.Export.Path = paths.NormalizePath(config.Export.Path)
	config.History.Path = paths.NormalizePath(config.History.Path)

	for name, profile := range config.Profiles {
		for i, p := range profile.CatalogFiles {
			profile.CatalogFiles[i] = resolve(p)
		}
		profile.Export = paths.NormalizePath(profile.Export)
		config.Profiles[name] = profile
	}
}

// ValidateConfig checks formats, paths, logging settings and inline catalogs
func ValidateConfig(config *Config) error {
	if config == nil {
		return fmt.Errorf("configuration cannot be nil")
	}

	formats := make([]interface{}, len(ReportFormats))
	for i, f := range ReportFormats {
		formats[i] = f
	}

	err := validation.Errors{
		"defaults.format": validation.Validate(config.Defaults.Format, validation.Required, validation.In(formats...)),
		"history.limit":   validation.Validate(config.History.Limit, validation.Min(0)),
		"watch.delay":     validation.Validate(config.Watch.Delay, validation.Min(time.Duration(0))),
		"logging.level":   validation.Validate(config.Logging.Level, validation.By(validLogLevel)),
		"logging.format":  validation.Validate(config.Logging.Format, validation.In("", "console", "json")),
	}.Filter()
	if err != nil {
		return err
	}

	if err := validateConfigPaths(config); err != nil {
		return fmt.Errorf("path validation failed: %w", err)
	}

	if _, err := catalog.FromDefinitions(config.Catalogs); err != nil {
		return fmt.Errorf("catalogs: %w", err)
	}

	for name, profile := range config.Profiles {
		if profile.Format != "" {
			if err := validation.Validate(profile.Format, validation.In(formats...)); err != nil {
				return fmt.Errorf("profile '%s' format: %w", name, err)
			}
		}
		if _, err := catalog.FromDefinitions(profile.Catalogs); err != nil {
			return fmt.Errorf("profile '%s' catalogs: %w", name, err)
		}
	}

	return nil
}

func validLogLevel(value interface{}) error {
	level, _ := value.(string)
	if level == "" || logging.ValidLevel(level) {
		return nil
	}
	return validation.NewError("validation_log_level", "must be one of debug, info, warn, error")
}

// validateConfigPaths validates all paths in the configuration
func validateConfigPaths(config *Config) error {
	check := []struct {
		what string
		path string
	}{
		{"export path", config.Export.Path},
		{"history path", config.History.Path},
	}
	for _, p := range config.CatalogFiles {
		check = append(check, struct {
			what string
			path string
		}{"catalog file", p})
	}
	for _, c := range check {
		if err := paths.ValidatePath(c.path); err != nil {
			return fmt.Errorf("invalid %s: %w", c.what, err)
		}
	}

	for profileName, profile := range config.Profiles {
		if err := paths.ValidatePath(profile.Export); err != nil {
			return fmt.Errorf("invalid export path in profile '%s': %w", profileName, err)
		}
	}
	return nil
}

// LoadConfigOrDefault loads configuration from configFile (or searches standard locations
// when configFile is empty). If loading fails, it returns a default configuration.
func LoadConfigOrDefault(configFile string) *Config {
	configPath := configFile
	if configPath == "" {
		configPath = FindConfigFile()
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		cfg, _ = LoadConfig("")
	}
	return cfg
}
