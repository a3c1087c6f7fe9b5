package site

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	featuredocs "github.com/goliatone/go-featuredocs"
)

func writeConfig(t *testing.T, baseDir, content string) string {
	t.Helper()
	path := filepath.Join(baseDir, "site.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	baseDir := t.TempDir()
	if err := os.Mkdir(filepath.Join(baseDir, "docs"), 0o755); err != nil {
		t.Fatalf("mkdir docs: %v", err)
	}
	path := writeConfig(t, baseDir, "nav:\n  - index.md\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.SiteName != "Documentation" {
		t.Fatalf("unexpected site name %q", cfg.SiteName)
	}
	if cfg.DocsDir != "docs" || cfg.SiteDir != "site" {
		t.Fatalf("unexpected dirs %q %q", cfg.DocsDir, cfg.SiteDir)
	}
	if cfg.BaseDir != baseDir {
		t.Fatalf("base dir should be the config directory, got %q", cfg.BaseDir)
	}
	if !reflect.DeepEqual(cfg.Nav, []any{"index.md"}) {
		t.Fatalf("unexpected nav %#v", cfg.Nav)
	}
}

func TestLoadRejectsMissingDocsDir(t *testing.T) {
	baseDir := t.TempDir()
	path := writeConfig(t, baseDir, "site_name: Example\n")

	if _, err := Load(path); !errors.Is(err, ErrDocsDirMissing) {
		t.Fatalf("expected ErrDocsDirMissing, got %v", err)
	}
}

func TestLoadParsesPluginSection(t *testing.T) {
	baseDir := t.TempDir()
	if err := os.Mkdir(filepath.Join(baseDir, "docs"), 0o755); err != nil {
		t.Fatalf("mkdir docs: %v", err)
	}
	path := writeConfig(t, baseDir, `site_name: Example
plugins:
  featuredocs:
    features_dir: specs
    nav_heading: Specifications
    populate: false
    warn_missing: false
    step_highlight:
      - the request body: json
      - the response: json
    parser:
      command: gherkin-go
      args: ["--no-source"]
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	opts := cfg.Plugins.FeatureDocs
	if opts == nil {
		t.Fatalf("featuredocs section should be present")
	}
	if opts.FeaturesDir != "specs" || opts.NavHeading != "Specifications" {
		t.Fatalf("unexpected options %+v", opts)
	}
	if opts.Populate == nil || *opts.Populate {
		t.Fatalf("populate should parse as false")
	}
	if opts.WarnMissing == nil || *opts.WarnMissing {
		t.Fatalf("warn_missing should parse as false")
	}
	if len(opts.StepHighlight) != 2 {
		t.Fatalf("unexpected step_highlight %v", opts.StepHighlight)
	}
	if opts.Parser.Command != "gherkin-go" {
		t.Fatalf("unexpected parser command %q", opts.Parser.Command)
	}
}

func TestPluginConfigDefaults(t *testing.T) {
	baseDir := t.TempDir()

	var opts *FeatureDocsOptions
	cfg, err := opts.PluginConfig(baseDir)
	if err != nil {
		t.Fatalf("PluginConfig: %v", err)
	}

	if cfg.FeaturesDir != filepath.Join(baseDir, "features") {
		t.Fatalf("features dir should resolve against base, got %q", cfg.FeaturesDir)
	}
	if cfg.NavHeading != "Features" || !cfg.Populate || !cfg.WarnMissing {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}

func TestPluginConfigOverridesAndOrder(t *testing.T) {
	baseDir := t.TempDir()
	populate := false

	opts := &FeatureDocsOptions{
		FeaturesDir: "specs",
		NavHeading:  "Specifications",
		Populate:    &populate,
		StepHighlight: []map[string]string{
			{"first": "json"},
			{"second": "yaml"},
			{"third": "text"},
		},
	}
	cfg, err := opts.PluginConfig(baseDir)
	if err != nil {
		t.Fatalf("PluginConfig: %v", err)
	}

	if cfg.FeaturesDir != filepath.Join(baseDir, "specs") {
		t.Fatalf("unexpected features dir %q", cfg.FeaturesDir)
	}
	if cfg.NavHeading != "Specifications" || cfg.Populate || !cfg.WarnMissing {
		t.Fatalf("overrides not applied: %+v", cfg)
	}

	want := []featuredocs.HighlightEntry{
		{Pattern: "first", Language: "json"},
		{Pattern: "second", Language: "yaml"},
		{Pattern: "third", Language: "text"},
	}
	if !reflect.DeepEqual(cfg.StepHighlight, want) {
		t.Fatalf("step_highlight order not preserved:\n got %v\nwant %v", cfg.StepHighlight, want)
	}
}

func TestPluginConfigRejectsMultiKeyHighlight(t *testing.T) {
	opts := &FeatureDocsOptions{
		StepHighlight: []map[string]string{
			{"first": "json", "second": "yaml"},
		},
	}
	if _, err := opts.PluginConfig(t.TempDir()); !errors.Is(err, ErrHighlightEntryShape) {
		t.Fatalf("expected ErrHighlightEntryShape, got %v", err)
	}
}
