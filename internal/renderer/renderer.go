// Package renderer turns parsed features into markdown documents and keeps
// them in a build-scoped cache until the site generator asks for them.
package renderer

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/goliatone/go-featuredocs/internal/gherkin"
	"github.com/goliatone/go-featuredocs/pkg/interfaces"
)

var quotedText = regexp.MustCompile(`"([^"]*)"`)

// HighlightRule pairs a compiled step-name pattern with the code fence
// language it selects. Order is significant: the first match wins.
type HighlightRule struct {
	Pattern  *regexp.Regexp
	Language string
}

// Renderer converts one feature at a time into a markdown document and
// registers the result in the build context under the feature's source path.
type Renderer struct {
	rules  []HighlightRule
	build  *BuildContext
	logger interfaces.Logger
}

// New constructs a renderer writing into the given build context.
func New(build *BuildContext, rules []HighlightRule, logger interfaces.Logger) *Renderer {
	return &Renderer{rules: rules, build: build, logger: logger}
}

// Render produces the feature's markdown document and stores it. The buffer
// is finalized before the context entry is set, so readers never observe a
// partial document.
func (r *Renderer) Render(feature *gherkin.Feature) error {
	if feature == nil || feature.Path == "" {
		return fmt.Errorf("renderer: feature without a source path")
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "<!-- Generated from %s -->\n\n", feature.Path)

	fmt.Fprintf(&buf, "# %s\n", feature.Name)
	writeTagAdmonition(&buf, feature.Tags)
	for _, line := range feature.Description {
		buf.WriteString(stripLeadingDot(line) + "\n")
	}
	buf.WriteString("\n")

	if feature.Background != nil {
		buf.WriteString("## Background\n\n")
		for _, step := range feature.Background.Steps {
			r.writeStep(&buf, step)
		}
	}

	buf.WriteString("## Scenarios\n")
	for _, scenario := range feature.Scenarios {
		r.writeScenario(&buf, scenario)
	}

	r.build.Put(feature.Path, buf.String())
	if r.logger != nil {
		r.logger.Debug("rendered feature", "path", feature.Path)
	}
	return nil
}

func (r *Renderer) writeScenario(buf *bytes.Buffer, scenario gherkin.Scenario) {
	fmt.Fprintf(buf, "### %s\n", scenario.Name)
	writeTagAdmonition(buf, scenario.Tags)

	for _, step := range scenario.Steps {
		r.writeStep(buf, step)
	}
	buf.WriteString("\n")

	if !scenario.Outline {
		return
	}
	for _, examples := range scenario.Examples {
		heading := "#### Examples"
		if examples.Name != "" {
			heading += ": " + examples.Name
		}
		buf.WriteString(heading + "\n")
		fmt.Fprintf(buf, "|%s|\n", strings.Join(examples.Headings, "|"))
		buf.WriteString(strings.Repeat("|--", len(examples.Headings)) + "|\n")
		for _, row := range examples.Rows {
			cells := make([]string, 0, len(row))
			for _, cell := range row {
				cells = append(cells, "`"+cell+"`")
			}
			fmt.Fprintf(buf, "|%s|\n", strings.Join(cells, "|"))
		}
		buf.WriteString("\n")
	}
}

// writeStep emits the step keyword in bold and rewrites double-quoted
// substrings so their contents render as inline code while the quotes stay.
func (r *Renderer) writeStep(buf *bytes.Buffer, step gherkin.Step) {
	name := quotedText.ReplaceAllString(step.Name, "\"`${1}`\"")
	fmt.Fprintf(buf, "**%s** %s  \n", step.Keyword, name)

	if step.Text != "" {
		buf.WriteString("\n")
		fmt.Fprintf(buf, "```%s\n", r.codeLanguage(step.Name))
		buf.WriteString(step.Text + "\n")
		buf.WriteString("```\n")
	}
}

// codeLanguage returns the language tag of the first rule matching the raw
// step name, or the empty string when none match.
func (r *Renderer) codeLanguage(stepName string) string {
	for _, rule := range r.rules {
		if rule.Pattern.MatchString(stepName) {
			return rule.Language
		}
	}
	return ""
}

func writeTagAdmonition(buf *bytes.Buffer, tags []string) {
	if len(tags) == 0 {
		return
	}
	buf.WriteString("!!! note\n")
	decorated := make([]string, 0, len(tags))
	for _, tag := range tags {
		decorated = append(decorated, "@"+tag)
	}
	buf.WriteString("    " + strings.Join(decorated, " ") + "\n\n")
}

// stripLeadingDot removes the two-character escape prefix feature authors use
// to protect literal markup in descriptions. Only a leading "." line or
// ". "-prefixed line is stripped; dots elsewhere are preserved.
func stripLeadingDot(line string) string {
	if line == "." {
		return ""
	}
	if strings.HasPrefix(line, ". ") {
		return line[2:]
	}
	return line
}
