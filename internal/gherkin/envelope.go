package gherkin

import (
	"path"
	"strings"
)

// envelope is one NDJSON line of cucumber-messages output. Only the fields
// the renderer needs are decoded; everything else is ignored.
type envelope struct {
	GherkinDocument *gherkinDocument `json:"gherkinDocument"`
	ParseError      *parseError      `json:"parseError"`
}

type parseError struct {
	Message string `json:"message"`
	Source  struct {
		URI string `json:"uri"`
	} `json:"source"`
}

type gherkinDocument struct {
	URI     string       `json:"uri"`
	Feature *featureNode `json:"feature"`
}

type featureNode struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Tags        []tagNode   `json:"tags"`
	Children    []childNode `json:"children"`
}

type tagNode struct {
	Name string `json:"name"`
}

type childNode struct {
	Background *scenarioNode `json:"background"`
	Scenario   *scenarioNode `json:"scenario"`
	Rule       *ruleNode     `json:"rule"`
}

type ruleNode struct {
	Children []childNode `json:"children"`
}

type scenarioNode struct {
	Keyword  string         `json:"keyword"`
	Name     string         `json:"name"`
	Tags     []tagNode      `json:"tags"`
	Steps    []stepNode     `json:"steps"`
	Examples []examplesNode `json:"examples"`
}

type stepNode struct {
	Keyword   string         `json:"keyword"`
	Text      string         `json:"text"`
	DocString *docStringNode `json:"docString"`
}

type docStringNode struct {
	Content string `json:"content"`
}

type examplesNode struct {
	Name        string     `json:"name"`
	TableHeader *tableRow  `json:"tableHeader"`
	TableBody   []tableRow `json:"tableBody"`
}

type tableRow struct {
	Cells []tableCell `json:"cells"`
}

type tableCell struct {
	Value string `json:"value"`
}

// toFeature flattens a parsed document into the renderer-facing model.
// Scenarios nested under rules are lifted to the top level in source order.
func (doc *gherkinDocument) toFeature() *Feature {
	if doc == nil || doc.Feature == nil {
		return nil
	}

	f := &Feature{
		Path:        path.Clean(strings.TrimPrefix(doc.URI, "./")),
		Name:        doc.Feature.Name,
		Tags:        tagNames(doc.Feature.Tags),
		Description: descriptionLines(doc.Feature.Description),
	}

	collectChildren(f, doc.Feature.Children)
	return f
}

func collectChildren(f *Feature, children []childNode) {
	for _, child := range children {
		switch {
		case child.Background != nil:
			if f.Background == nil {
				f.Background = &Background{
					Name:  child.Background.Name,
					Steps: steps(child.Background.Steps),
				}
			}
		case child.Scenario != nil:
			f.Scenarios = append(f.Scenarios, toScenario(child.Scenario))
		case child.Rule != nil:
			collectChildren(f, child.Rule.Children)
		}
	}
}

func toScenario(node *scenarioNode) Scenario {
	s := Scenario{
		Name:    node.Name,
		Tags:    tagNames(node.Tags),
		Steps:   steps(node.Steps),
		Outline: len(node.Examples) > 0,
	}
	for _, examples := range node.Examples {
		table := Examples{Name: examples.Name}
		if examples.TableHeader != nil {
			table.Headings = cellValues(examples.TableHeader.Cells)
		}
		for _, row := range examples.TableBody {
			table.Rows = append(table.Rows, cellValues(row.Cells))
		}
		s.Examples = append(s.Examples, table)
	}
	return s
}

func steps(nodes []stepNode) []Step {
	out := make([]Step, 0, len(nodes))
	for _, node := range nodes {
		step := Step{
			Keyword: strings.TrimSpace(node.Keyword),
			Name:    node.Text,
		}
		if node.DocString != nil {
			step.Text = node.DocString.Content
		}
		out = append(out, step)
	}
	return out
}

func tagNames(tags []tagNode) []string {
	if len(tags) == 0 {
		return nil
	}
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		out = append(out, strings.TrimPrefix(tag.Name, "@"))
	}
	return out
}

func descriptionLines(description string) []string {
	if strings.TrimSpace(description) == "" {
		return nil
	}
	raw := strings.Split(strings.ReplaceAll(description, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		lines = append(lines, strings.TrimSpace(line))
	}
	// Drop leading and trailing blank lines while keeping interior ones.
	start, end := 0, len(lines)
	for start < end && lines[start] == "" {
		start++
	}
	for end > start && lines[end-1] == "" {
		end--
	}
	return lines[start:end]
}

func cellValues(cells []tableCell) []string {
	out := make([]string, 0, len(cells))
	for _, cell := range cells {
		out = append(out, cell.Value)
	}
	return out
}
