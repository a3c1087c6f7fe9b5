package featuredocs

import (
	"errors"
	"fmt"
	"os"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-featuredocs/internal/gherkin"
)

const (
	// FeatureSuffix is the suffix of specification source files.
	FeatureSuffix = ".feature"
	// DocumentSuffix addresses the generated documents. The mapping between
	// the two is a pure suffix substitution; directory and stem survive.
	DocumentSuffix = ".md"
)

// ErrFeaturesDirMissing indicates the configured specification directory does
// not exist. Configuration errors are fatal; the build aborts.
var ErrFeaturesDirMissing = errors.New("featuredocs config: features directory does not exist")

// ErrHighlightPatternEmpty indicates a step_highlight entry without a pattern.
var ErrHighlightPatternEmpty = errors.New("featuredocs config: step highlight pattern must not be empty")

// HighlightEntry pairs a step-name regular expression with the code fence
// language tag it selects. Entries are ordered; the first matching pattern
// wins.
type HighlightEntry struct {
	Pattern  string
	Language string
}

// ParserConfig selects the external Gherkin parser invocation.
type ParserConfig struct {
	Command string
	Args    []string
}

// Config carries the plugin options, validated once at construction time.
type Config struct {
	// FeaturesDir is the specification root. Relative paths resolve against
	// the process working directory; hosts usually pass an absolute path.
	FeaturesDir string
	// NavHeading labels the top-level navigation group managed by the plugin.
	NavHeading string
	// Populate inserts every on-disk specification file into the navigation.
	// When false, only files already declared under the heading are active.
	Populate bool
	// WarnMissing logs one warning per on-disk file absent from the
	// navigation when Populate is disabled.
	WarnMissing bool
	// StepHighlight configures code fence language hints for step doc-strings.
	StepHighlight []HighlightEntry
	// Parser overrides the external parser command. Zero value uses defaults.
	Parser ParserConfig
}

// DefaultConfig returns the documented option defaults.
func DefaultConfig() Config {
	return Config{
		FeaturesDir: "features",
		NavHeading:  "Features",
		Populate:    true,
		WarnMissing: true,
		Parser: ParserConfig{
			Command: gherkin.DefaultCommand,
			Args:    gherkin.DefaultArgs,
		},
	}
}

// Validate checks option shape and the existence of the features directory.
func (cfg Config) Validate() error {
	if err := validation.ValidateStruct(&cfg,
		validation.Field(&cfg.FeaturesDir, validation.Required),
		validation.Field(&cfg.NavHeading, validation.Required),
	); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "featuredocs: invalid plugin options")
	}

	for _, entry := range cfg.StepHighlight {
		if strings.TrimSpace(entry.Pattern) == "" {
			return fmt.Errorf("%w (language %q)", ErrHighlightPatternEmpty, entry.Language)
		}
	}

	info, err := os.Stat(cfg.FeaturesDir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrFeaturesDirMissing, cfg.FeaturesDir)
	}
	return nil
}
