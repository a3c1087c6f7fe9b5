// Package featuredocs converts Gherkin feature specifications into rendered
// documentation pages and folds them into a generated site's navigation.
//
// The plugin participates in a host site build through three lifecycle
// hooks: OnConfig compiles options, OnFiles runs the external parser and
// reconciles the navigation declaration with the specification files found
// on disk, and OnPageReadSource supplies the rendered markdown when the
// generator reads one of the synthesized pages.
package featuredocs

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-featuredocs/internal/gherkin"
	"github.com/goliatone/go-featuredocs/internal/logging"
	"github.com/goliatone/go-featuredocs/internal/nav"
	"github.com/goliatone/go-featuredocs/internal/renderer"
	"github.com/goliatone/go-featuredocs/pkg/interfaces"
)

// ErrDocumentNotRendered reports a handled page whose rendered text never
// reached the build context, usually because the external parser failed
// before processing its source file. This is a hard error: emitting empty
// content silently would be worse than a loud failure.
var ErrDocumentNotRendered = errors.New("featuredocs: no rendered document for page")

// ErrNotConfigured reports hooks invoked before OnConfig ran.
var ErrNotConfigured = errors.New("featuredocs: OnConfig must run before this hook")

// Runner abstracts the external parser invocation so tests can substitute
// the real command.
type Runner interface {
	Run(ctx context.Context, dir string, paths []string, sink func(*gherkin.Feature) error) error
}

// Option customizes plugin construction.
type Option func(*Plugin)

// WithLogger attaches a logger provider; module-scoped children are derived
// from it for the plugin, the renderer, and the parser runner.
func WithLogger(provider interfaces.LoggerProvider) Option {
	return func(p *Plugin) {
		p.provider = provider
	}
}

// WithRunner replaces the external parser runner.
func WithRunner(runner Runner) Option {
	return func(p *Plugin) {
		p.runner = runner
	}
}

// Plugin integrates feature documentation into one host site. A single
// instance serves consecutive build passes; nothing here is safe for
// concurrent builds, and the host runs exactly one pass at a time.
type Plugin struct {
	config   Config
	provider interfaces.LoggerProvider
	logger   interfaces.Logger
	runner   Runner
	build    *renderer.BuildContext
	renderer *renderer.Renderer
	handled  map[string]struct{}
}

// New validates the configuration and constructs the plugin. A missing
// features directory or malformed option is fatal here, before any build
// work starts.
func New(cfg Config, opts ...Option) (*Plugin, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &Plugin{
		config:  cfg,
		build:   renderer.NewBuildContext(),
		handled: map[string]struct{}{},
	}
	for _, opt := range opts {
		opt(p)
	}

	p.logger = logging.PluginLogger(p.provider)
	if p.runner == nil {
		p.runner = gherkin.NewRunner(
			cfg.Parser.Command,
			cfg.Parser.Args,
			logging.GherkinLogger(p.provider),
		)
	}
	return p, nil
}

// OnStartup runs once per generator process. It exists as an API marker so
// hosts can detect lifecycle support; there is no per-process state to set up.
func (p *Plugin) OnStartup(command string, dirty bool) {}

// OnConfig compiles the step highlight patterns and registers the features
// directory for live-rebuild watching. An invalid pattern aborts the build.
func (p *Plugin) OnConfig(site *interfaces.SiteConfig) (*interfaces.SiteConfig, error) {
	rules := make([]renderer.HighlightRule, 0, len(p.config.StepHighlight))
	for _, entry := range p.config.StepHighlight {
		pattern, err := regexp.Compile(entry.Pattern)
		if err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryValidation,
				fmt.Sprintf("featuredocs: invalid step_highlight pattern %q", entry.Pattern))
		}
		rules = append(rules, renderer.HighlightRule{Pattern: pattern, Language: entry.Language})
	}

	p.renderer = renderer.New(p.build, rules, logging.RendererLogger(p.provider))
	site.Watch = append(site.Watch, p.config.FeaturesDir)
	return site, nil
}

// OnFiles performs one navigation reconciliation pass: parse and render every
// feature, make sure the managed heading exists, merge or cross-check the
// on-disk tree, rewrite suffixes, and synthesize one virtual output file per
// active specification.
func (p *Plugin) OnFiles(ctx context.Context, files interfaces.Files, site *interfaces.SiteConfig) (interfaces.Files, error) {
	if p.renderer == nil {
		return nil, ErrNotConfigured
	}

	baseDir := site.BaseDir
	if baseDir == "" {
		baseDir = "."
	}

	diskPaths, err := p.discoverFeatures(baseDir)
	if err != nil {
		return nil, err
	}

	if err := p.renderFeatures(ctx, baseDir, diskPaths); err != nil {
		return nil, err
	}

	root := &nav.Node{Name: "/"}
	root.Children, err = nav.Decode(site.Nav)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "featuredocs: invalid nav declaration")
	}
	heading := nav.EnsureGroup(root, p.config.NavHeading)

	var active []string
	if p.config.Populate {
		active = diskPaths
		nav.Merge(heading, nav.Build(diskPaths))
	} else {
		active = nav.LeavesWithSuffix(heading, FeatureSuffix)
		if p.config.WarnMissing {
			for _, missing := range missingFromNav(diskPaths, active) {
				p.logger.Warn(fmt.Sprintf(
					"Feature file %q is present on disk, but is not included in the nav configuration", missing))
			}
		}
	}

	nav.RewriteSuffix(heading, FeatureSuffix, DocumentSuffix)
	if len(nav.LeavesWithSuffix(root, FeatureSuffix)) > 0 {
		p.logger.Warn("Feature files are present in the nav configuration outside the configured heading")
	}
	site.Nav = nav.Encode(root.Children)

	p.handled = make(map[string]struct{}, len(active))
	for _, featurePath := range active {
		file := p.virtualFile(featurePath, baseDir, site)
		p.handled[file.SrcURI] = struct{}{}
		files = files.Append(file)
	}
	return files, nil
}

// OnPageReadSource supplies the rendered markdown for pages this plugin
// claimed during OnFiles. The boolean reports whether the page was ours;
// false defers to the host's default source handling.
func (p *Plugin) OnPageReadSource(page *interfaces.Page, site *interfaces.SiteConfig) (string, bool, error) {
	if page == nil || page.File == nil {
		return "", false, nil
	}
	if _, ok := p.handled[page.File.SrcURI]; !ok {
		return "", false, nil
	}

	featurePath := strings.TrimSuffix(page.File.SrcURI, DocumentSuffix) + FeatureSuffix
	text, ok := p.build.Get(featurePath)
	if !ok {
		return "", true, fmt.Errorf("%w: %s", ErrDocumentNotRendered, featurePath)
	}
	return text, true, nil
}

// discoverFeatures lists every specification file under the configured
// directory, as slash paths relative to the site base, sorted
// lexicographically.
func (p *Plugin) discoverFeatures(baseDir string) ([]string, error) {
	featuresDir, err := filepath.Abs(p.config.FeaturesDir)
	if err != nil {
		return nil, fmt.Errorf("featuredocs: resolve features directory: %w", err)
	}

	matches, err := doublestar.FilepathGlob(filepath.Join(featuresDir, "**", "*"+FeatureSuffix))
	if err != nil {
		return nil, fmt.Errorf("featuredocs: list feature files: %w", err)
	}

	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("featuredocs: resolve site directory: %w", err)
	}

	paths := make([]string, 0, len(matches))
	for _, match := range matches {
		rel, err := filepath.Rel(absBase, match)
		if err != nil {
			return nil, fmt.Errorf("featuredocs: relativize %s: %w", match, err)
		}
		paths = append(paths, filepath.ToSlash(rel))
	}
	sort.Strings(paths)
	return paths, nil
}

// renderFeatures runs the external parser over the given files and routes
// every parsed feature through the renderer. A parser failure is demoted to
// a warning so previously rendered entries stay usable; rendering errors
// remain fatal.
func (p *Plugin) renderFeatures(ctx context.Context, baseDir string, paths []string) error {
	err := p.runner.Run(ctx, baseDir, paths, p.renderer.Render)
	if err == nil {
		return nil
	}
	if errors.Is(err, gherkin.ErrParserFailed) {
		p.logger.Warn("Gherkin parser did not complete successfully. Some features may not have been processed.",
			"error", err)
		return nil
	}
	return err
}

// virtualFile synthesizes the output entry for one specification file. The
// markdown pipeline only processes .md sources, so the entry advertises the
// rewritten path; content arrives later through OnPageReadSource.
func (p *Plugin) virtualFile(featurePath, baseDir string, site *interfaces.SiteConfig) *interfaces.File {
	stem := strings.TrimSuffix(featurePath, FeatureSuffix)
	return &interfaces.File{
		SrcURI:           stem + DocumentSuffix,
		SrcDir:           baseDir,
		DestDir:          filepath.Join(baseDir, site.SiteDir),
		UseDirectoryURLs: true,
		DestURI:          path.Join(stem, "index.html"),
		Inclusion:        interfaces.Included,
		Generated:        true,
	}
}

// missingFromNav returns, in sorted order, disk paths absent from the active
// navigation set.
func missingFromNav(disk, active []string) []string {
	known := make(map[string]struct{}, len(active))
	for _, p := range active {
		known[p] = struct{}{}
	}
	var missing []string
	for _, p := range disk {
		if _, ok := known[p]; !ok {
			missing = append(missing, p)
		}
	}
	sort.Strings(missing)
	return missing
}
