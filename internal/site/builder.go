package site

import (
	"context"
	"fmt"
	"html"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	featuredocs "github.com/goliatone/go-featuredocs"
	"github.com/goliatone/go-featuredocs/internal/logging"
	"github.com/goliatone/go-featuredocs/pkg/interfaces"
)

// BuildResult summarizes one completed build pass.
type BuildResult struct {
	// ID correlates log entries belonging to the same pass.
	ID        uuid.UUID
	Pages     int
	Duration  time.Duration
	OutputDir string
}

// Builder drives one full site build: plugin hooks, page discovery, markdown
// conversion, and file materialization. A builder survives serve rebuilds;
// the plugin's rendered-document cache carries over between passes.
type Builder struct {
	cfg      *Config
	plugin   *featuredocs.Plugin
	markdown *MarkdownRenderer
	provider interfaces.LoggerProvider
	logger   interfaces.Logger

	// watch holds the extra paths plugins registered during the last pass.
	watch []string
}

// NewBuilder constructs the harness and the plugin from a loaded site
// declaration.
func NewBuilder(cfg *Config, provider interfaces.LoggerProvider) (*Builder, error) {
	pluginCfg, err := cfg.Plugins.FeatureDocs.PluginConfig(cfg.BaseDir)
	if err != nil {
		return nil, err
	}

	plugin, err := featuredocs.New(pluginCfg, featuredocs.WithLogger(provider))
	if err != nil {
		return nil, err
	}

	return &Builder{
		cfg:      cfg,
		plugin:   plugin,
		markdown: NewMarkdownRenderer(),
		provider: provider,
		logger:   logging.SiteLogger(provider),
	}, nil
}

// WatchPaths lists the directories the serve loop rebuilds on.
func (b *Builder) WatchPaths() []string {
	paths := []string{b.cfg.AbsDocsDir()}
	if len(b.watch) > 0 {
		return append(paths, b.watch...)
	}
	if cfg, err := b.cfg.Plugins.FeatureDocs.PluginConfig(b.cfg.BaseDir); err == nil {
		paths = append(paths, cfg.FeaturesDir)
	}
	return paths
}

// Build runs one complete pass and writes the site tree.
func (b *Builder) Build(ctx context.Context) (*BuildResult, error) {
	started := time.Now()
	result := &BuildResult{ID: uuid.New(), OutputDir: b.cfg.AbsSiteDir()}
	logger := logging.WithFields(b.logger, map[string]any{"build_id": result.ID.String()})

	site := b.siteConfig()
	site, err := b.plugin.OnConfig(site)
	if err != nil {
		return nil, err
	}
	b.watch = site.Watch

	pages, err := discoverPages(b.cfg.AbsDocsDir(), b.cfg.AbsSiteDir())
	if err != nil {
		return nil, err
	}

	files := make(interfaces.Files, 0, len(pages))
	sources := make(map[string]*pageSource, len(pages))
	for _, page := range pages {
		files = files.Append(page.file)
		sources[page.file.SrcURI] = page
	}

	files, err = b.plugin.OnFiles(ctx, files, site)
	if err != nil {
		return nil, err
	}

	for _, file := range files {
		if file.Inclusion != interfaces.Included {
			continue
		}
		if err := b.writePage(file, sources, site); err != nil {
			return nil, err
		}
		result.Pages++
	}

	result.Duration = time.Since(started)
	logger.Info("site build complete",
		"pages", result.Pages,
		"duration", result.Duration.String(),
		"output", result.OutputDir,
	)
	return result, nil
}

// siteConfig assembles a fresh host view for one pass. The nav declaration
// is deep-copied so plugin mutations never leak into the loaded config and
// serve rebuilds always start from the declared tree.
func (b *Builder) siteConfig() *interfaces.SiteConfig {
	return &interfaces.SiteConfig{
		SiteName: b.cfg.SiteName,
		BaseDir:  b.cfg.BaseDir,
		DocsDir:  b.cfg.DocsDir,
		SiteDir:  b.cfg.SiteDir,
		Nav:      cloneNav(b.cfg.Nav),
	}
}

func (b *Builder) writePage(file *interfaces.File, sources map[string]*pageSource, site *interfaces.SiteConfig) error {
	title, body, err := b.pageSource(file, sources, site)
	if err != nil {
		return err
	}

	rendered, err := b.markdown.Render(body)
	if err != nil {
		return fmt.Errorf("site: render %s: %w", file.SrcURI, err)
	}

	dest := filepath.Join(file.DestDir, filepath.FromSlash(file.DestURI))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("site: create output directory for %s: %w", file.DestURI, err)
	}
	if err := os.WriteFile(dest, wrapHTML(site.SiteName, title, rendered), 0o644); err != nil {
		return fmt.Errorf("site: write %s: %w", file.DestURI, err)
	}
	return nil
}

// pageSource resolves a file's markdown body and title. Generated files ask
// the plugin; a generated file the plugin does not claim is a hard error
// because nothing else can supply its content.
func (b *Builder) pageSource(file *interfaces.File, sources map[string]*pageSource, site *interfaces.SiteConfig) (string, []byte, error) {
	if source, ok := sources[file.SrcURI]; ok {
		return source.title, source.body, nil
	}

	text, handled, err := b.plugin.OnPageReadSource(&interfaces.Page{File: file}, site)
	if err != nil {
		return "", nil, err
	}
	if !handled {
		return "", nil, fmt.Errorf("site: no source for generated page %s", file.SrcURI)
	}
	return deriveTitle(text, file.SrcURI), []byte(text), nil
}

// deriveTitle takes the first top-level heading, falling back to the stem.
func deriveTitle(markdown, srcURI string) string {
	for _, line := range strings.Split(markdown, "\n") {
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(line[2:])
		}
	}
	return defaultTitle(strings.TrimSuffix(path.Base(srcURI), ".md"))
}

func wrapHTML(siteName, title string, body []byte) []byte {
	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&sb, "<title>%s - %s</title>\n", html.EscapeString(title), html.EscapeString(siteName))
	sb.WriteString("</head>\n<body>\n<main>\n")
	sb.Write(body)
	sb.WriteString("</main>\n</body>\n</html>\n")
	return []byte(sb.String())
}

// cloneNav deep-copies the loosely-typed nav declaration.
func cloneNav(nav []any) []any {
	if nav == nil {
		return nil
	}
	out := make([]any, 0, len(nav))
	for _, element := range nav {
		switch value := element.(type) {
		case map[string]any:
			copied := make(map[string]any, len(value))
			for k, v := range value {
				if list, ok := v.([]any); ok {
					copied[k] = cloneNav(list)
				} else {
					copied[k] = v
				}
			}
			out = append(out, copied)
		default:
			out = append(out, element)
		}
	}
	return out
}
