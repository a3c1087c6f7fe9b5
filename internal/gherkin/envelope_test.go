package gherkin

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestDocumentToFeature(t *testing.T) {
	payload := `{
		"gherkinDocument": {
			"uri": "./features/login.feature",
			"feature": {
				"name": "User login",
				"description": "\n  Intro line\n\n  . escaped line\n",
				"tags": [{"name": "@smoke"}, {"name": "@slow"}],
				"children": [
					{"background": {
						"name": "Setup",
						"steps": [{"keyword": "Given ", "text": "a registered user"}]
					}},
					{"scenario": {
						"keyword": "Scenario",
						"name": "Valid login",
						"tags": [{"name": "@fast"}],
						"steps": [
							{"keyword": "When ", "text": "the user logs in"},
							{"keyword": "Then ", "text": "a payload arrives",
							 "docString": {"content": "{\"ok\": true}"}}
						]
					}},
					{"scenario": {
						"keyword": "Scenario Outline",
						"name": "Attempts",
						"steps": [{"keyword": "When ", "text": "logging in as <user>"}],
						"examples": [{
							"name": "users",
							"tableHeader": {"cells": [{"value": "user"}]},
							"tableBody": [
								{"cells": [{"value": "bob"}]},
								{"cells": [{"value": "eve"}]}
							]
						}]
					}}
				]
			}
		}
	}`

	var env envelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}

	feature := env.GherkinDocument.toFeature()
	if feature == nil {
		t.Fatalf("expected a feature")
	}

	if feature.Path != "features/login.feature" {
		t.Fatalf("unexpected path %q", feature.Path)
	}
	if feature.Name != "User login" {
		t.Fatalf("unexpected name %q", feature.Name)
	}
	if !reflect.DeepEqual(feature.Tags, []string{"smoke", "slow"}) {
		t.Fatalf("unexpected tags %v", feature.Tags)
	}
	if !reflect.DeepEqual(feature.Description, []string{"Intro line", "", ". escaped line"}) {
		t.Fatalf("unexpected description %v", feature.Description)
	}

	if feature.Background == nil || feature.Background.Name != "Setup" {
		t.Fatalf("unexpected background %+v", feature.Background)
	}
	if got := feature.Background.Steps[0]; got.Keyword != "Given" || got.Name != "a registered user" {
		t.Fatalf("unexpected background step %+v", got)
	}

	if len(feature.Scenarios) != 2 {
		t.Fatalf("expected 2 scenarios, got %d", len(feature.Scenarios))
	}

	valid := feature.Scenarios[0]
	if valid.Outline {
		t.Fatalf("plain scenario marked as outline")
	}
	if !reflect.DeepEqual(valid.Tags, []string{"fast"}) {
		t.Fatalf("unexpected scenario tags %v", valid.Tags)
	}
	if valid.Steps[1].Text != `{"ok": true}` {
		t.Fatalf("doc string lost: %+v", valid.Steps[1])
	}

	outline := feature.Scenarios[1]
	if !outline.Outline {
		t.Fatalf("outline scenario not detected")
	}
	table := outline.Examples[0]
	if table.Name != "users" ||
		!reflect.DeepEqual(table.Headings, []string{"user"}) ||
		!reflect.DeepEqual(table.Rows, [][]string{{"bob"}, {"eve"}}) {
		t.Fatalf("unexpected examples table %+v", table)
	}
}

func TestDocumentToFeatureFlattensRules(t *testing.T) {
	payload := `{
		"gherkinDocument": {
			"uri": "features/rules.feature",
			"feature": {
				"name": "Ruled",
				"children": [
					{"scenario": {"keyword": "Scenario", "name": "first"}},
					{"rule": {"children": [
						{"scenario": {"keyword": "Scenario", "name": "second"}},
						{"scenario": {"keyword": "Scenario", "name": "third"}}
					]}}
				]
			}
		}
	}`

	var env envelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}

	feature := env.GherkinDocument.toFeature()
	var names []string
	for _, scenario := range feature.Scenarios {
		names = append(names, scenario.Name)
	}
	if !reflect.DeepEqual(names, []string{"first", "second", "third"}) {
		t.Fatalf("unexpected scenario order %v", names)
	}
}

func TestDocumentToFeatureNilCases(t *testing.T) {
	var doc *gherkinDocument
	if doc.toFeature() != nil {
		t.Fatalf("nil document should yield nil feature")
	}
	if (&gherkinDocument{URI: "x.feature"}).toFeature() != nil {
		t.Fatalf("document without feature should yield nil")
	}
}
