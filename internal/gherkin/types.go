// Package gherkin defines the structured feature model produced by the
// external Gherkin parser and the runner that drives it. The runner shells
// out to the parser command once per build pass and decodes the NDJSON
// message envelopes it prints, so the parser stays a black box.
package gherkin

// Feature is one parsed specification file.
type Feature struct {
	// Path is the source file path as reported by the parser, relative to
	// the directory the runner executed in.
	Path string
	// Name is the feature title.
	Name string
	// Tags hold the feature's tag names without the leading '@'.
	Tags []string
	// Description holds the free-text lines between the feature line and the
	// first scenario, whitespace-trimmed.
	Description []string
	// Background holds the shared setup steps, when present.
	Background *Background
	// Scenarios lists the feature's scenarios in source order.
	Scenarios []Scenario
}

// Background is the shared setup block executed before every scenario.
type Background struct {
	Name  string
	Steps []Step
}

// Scenario is a single test case. Outline scenarios are parametrized by one
// or more example tables.
type Scenario struct {
	Name     string
	Tags     []string
	Steps    []Step
	Outline  bool
	Examples []Examples
}

// Step is one action or assertion line.
type Step struct {
	// Keyword is the step verb (Given, When, Then, And, But), trimmed.
	Keyword string
	// Name is the step text following the keyword.
	Name string
	// Text is the step's doc-string block content, empty when absent.
	Text string
}

// Examples is one example table attached to a scenario outline.
type Examples struct {
	Name     string
	Headings []string
	Rows     [][]string
}
