// Package site is a small filesystem-backed site generator used to host the
// featuredocs plugin: it loads a YAML site declaration, discovers markdown
// pages, drives the plugin lifecycle hooks, and materializes an HTML tree
// with directory-style URLs.
package site

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	featuredocs "github.com/goliatone/go-featuredocs"
)

var (
	// ErrDocsDirMissing indicates the configured docs directory does not exist.
	ErrDocsDirMissing = errors.New("site config: docs directory does not exist")
	// ErrHighlightEntryShape indicates a step_highlight list element that is
	// not a single-key mapping.
	ErrHighlightEntryShape = errors.New("site config: step_highlight entries must be single-key mappings")
)

// Config is the YAML site declaration.
type Config struct {
	SiteName string        `yaml:"site_name"`
	DocsDir  string        `yaml:"docs_dir"`
	SiteDir  string        `yaml:"site_dir"`
	Nav      []any         `yaml:"nav"`
	Plugins  PluginsConfig `yaml:"plugins"`

	// BaseDir is the absolute directory of the loaded config file. Relative
	// paths in the declaration resolve against it.
	BaseDir string `yaml:"-"`
}

// PluginsConfig lists plugin sections. Only featuredocs is known to this
// harness.
type PluginsConfig struct {
	FeatureDocs *FeatureDocsOptions `yaml:"featuredocs"`
}

// FeatureDocsOptions is the raw featuredocs plugin section. Pointer booleans
// distinguish "absent" from "false" so defaults apply correctly.
type FeatureDocsOptions struct {
	FeaturesDir   string              `yaml:"features_dir"`
	NavHeading    string              `yaml:"nav_heading"`
	Populate      *bool               `yaml:"populate"`
	WarnMissing   *bool               `yaml:"warn_missing"`
	StepHighlight []map[string]string `yaml:"step_highlight"`
	Parser        struct {
		Command string   `yaml:"command"`
		Args    []string `yaml:"args"`
	} `yaml:"parser"`
}

// Load reads and validates a site declaration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("site config: read %s: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("site config: parse %s: %w", path, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("site config: resolve %s: %w", path, err)
	}
	cfg.BaseDir = filepath.Dir(abs)
	cfg.applyDefaults()

	if info, err := os.Stat(cfg.AbsDocsDir()); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrDocsDirMissing, cfg.DocsDir)
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.SiteName) == "" {
		c.SiteName = "Documentation"
	}
	if strings.TrimSpace(c.DocsDir) == "" {
		c.DocsDir = "docs"
	}
	if strings.TrimSpace(c.SiteDir) == "" {
		c.SiteDir = "site"
	}
}

// AbsDocsDir returns the docs directory resolved against the config location.
func (c *Config) AbsDocsDir() string {
	return c.resolve(c.DocsDir)
}

// AbsSiteDir returns the output directory resolved against the config location.
func (c *Config) AbsSiteDir() string {
	return c.resolve(c.SiteDir)
}

func (c *Config) resolve(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(c.BaseDir, dir)
}

// PluginConfig translates the raw featuredocs section into the plugin's
// typed configuration, resolving the features directory against the config
// location and preserving step_highlight order.
func (o *FeatureDocsOptions) PluginConfig(baseDir string) (featuredocs.Config, error) {
	cfg := featuredocs.DefaultConfig()
	if o == nil {
		cfg.FeaturesDir = filepath.Join(baseDir, cfg.FeaturesDir)
		return cfg, nil
	}

	if strings.TrimSpace(o.FeaturesDir) != "" {
		cfg.FeaturesDir = o.FeaturesDir
	}
	if !filepath.IsAbs(cfg.FeaturesDir) {
		cfg.FeaturesDir = filepath.Join(baseDir, cfg.FeaturesDir)
	}
	if strings.TrimSpace(o.NavHeading) != "" {
		cfg.NavHeading = o.NavHeading
	}
	if o.Populate != nil {
		cfg.Populate = *o.Populate
	}
	if o.WarnMissing != nil {
		cfg.WarnMissing = *o.WarnMissing
	}
	if o.Parser.Command != "" {
		cfg.Parser.Command = o.Parser.Command
		cfg.Parser.Args = o.Parser.Args
	}

	for _, entry := range o.StepHighlight {
		if len(entry) != 1 {
			return featuredocs.Config{}, fmt.Errorf("%w, got %d keys", ErrHighlightEntryShape, len(entry))
		}
		for pattern, language := range entry {
			cfg.StepHighlight = append(cfg.StepHighlight, featuredocs.HighlightEntry{
				Pattern:  pattern,
				Language: language,
			})
		}
	}
	return cfg, nil
}
