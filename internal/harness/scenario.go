// Package harness provides scenario-driven conformance testing for the
// sync engine.
//
// Scenarios are YAML files describing a starting corpus of contact
// documents and a sequence of sync operations. After the steps run,
// the final state of every document is dumped in a stable text format
// and compared against a golden file.
//
// # Scenario format
//
//	name: friend_edit
//	description: "Section edit propagates to the counterpart"
//	docs:
//	  - id: alice-1
//	    name: Alice
//	    text: |
//	      # Alice
//	      ## Related
//	      - Friend [[Bob]]
//	steps:
//	  - op: edit        # edit | view | full | all | add
//	    entity: alice-1
//
// The "add" op seeds a new document mid-scenario, for phantom upgrade
// flows where a target comes into existence after it was referenced.
//
// Golden files live in testdata/golden/{name}.golden and regenerate
// with:
//
//	go test ./internal/harness -update
package harness

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario is one declarative sync test case.
type Scenario struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description,omitempty"`
	Docs        []DocSeed `yaml:"docs"`
	Steps       []Step    `yaml:"steps"`
}

// DocSeed is one contact document in the starting corpus.
type DocSeed struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	Text string `yaml:"text"`
}

// Step is one operation against the engine.
type Step struct {
	Op     string `yaml:"op"`
	Entity string `yaml:"entity,omitempty"`

	// Seed fields for the "add" op.
	Name string `yaml:"name,omitempty"`
	Text string `yaml:"text,omitempty"`
}

// LoadScenario reads and validates a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return &s, nil
}

func (s *Scenario) validate() error {
	if s.Name == "" {
		return fmt.Errorf("missing name")
	}
	for i, doc := range s.Docs {
		if doc.ID == "" {
			return fmt.Errorf("docs[%d]: missing id", i)
		}
	}
	for i, step := range s.Steps {
		switch step.Op {
		case "edit", "view", "full":
			if step.Entity == "" {
				return fmt.Errorf("steps[%d]: op %q requires an entity", i, step.Op)
			}
		case "all":
		case "add":
			if step.Entity == "" {
				return fmt.Errorf("steps[%d]: op add requires an entity", i)
			}
		default:
			return fmt.Errorf("steps[%d]: unknown op %q", i, step.Op)
		}
	}
	return nil
}
