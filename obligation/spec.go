package obligation

import (
	"fmt"
)

// Spec is the declarative form of a tree, as written in YAML data files:
//
//	any:
//	  - optional: gain-dollars
//	  - then:
//	      - mandatory: move
//	      - optional: buy-cattle
//
// Exactly one field must be set.
type Spec struct {
	Mandatory Kind          `yaml:"mandatory,omitempty"`
	Optional  Kind          `yaml:"optional,omitempty"`
	Choice    []Spec        `yaml:"choice,omitempty"`
	Any       []Spec        `yaml:"any,omitempty"`
	Then      []Spec        `yaml:"then,omitempty"`
	Repeat    *RepeatSpec   `yaml:"repeat,omitempty"`
	WhenThen  *WhenThenSpec `yaml:"whenThen,omitempty"`
}

type RepeatSpec struct {
	AtLeast int  `yaml:"atLeast"`
	AtMost  int  `yaml:"atMost"`
	Action  Spec `yaml:"action"`
}

type WhenThenSpec struct {
	AtLeast int  `yaml:"atLeast"`
	AtMost  int  `yaml:"atMost"`
	When    Kind `yaml:"when"`
	Then    Kind `yaml:"then"`
}

// Build turns the spec into a fresh tree.
func (s Spec) Build() (*Node, error) {
	set := 0
	for _, ok := range []bool{
		s.Mandatory != "", s.Optional != "", s.Choice != nil, s.Any != nil,
		s.Then != nil, s.Repeat != nil, s.WhenThen != nil,
	} {
		if ok {
			set++
		}
	}
	if set != 1 {
		return nil, fmt.Errorf("obligation spec must set exactly one variant, got %d", set)
	}

	switch {
	case s.Mandatory != "":
		return Mandatory(s.Mandatory), nil
	case s.Optional != "":
		return Optional(s.Optional), nil
	case s.Choice != nil:
		branches, err := buildAll(s.Choice)
		if err != nil {
			return nil, fmt.Errorf("choice: %w", err)
		}
		return Choice(branches...), nil
	case s.Any != nil:
		branches, err := buildAll(s.Any)
		if err != nil {
			return nil, fmt.Errorf("any: %w", err)
		}
		return Any(branches...), nil
	case s.Then != nil:
		if len(s.Then) != 2 {
			return nil, fmt.Errorf("then needs exactly 2 parts, got %d", len(s.Then))
		}
		parts, err := buildAll(s.Then)
		if err != nil {
			return nil, fmt.Errorf("then: %w", err)
		}
		return Then(parts[0], parts[1]), nil
	case s.Repeat != nil:
		if s.Repeat.AtLeast < 0 || s.Repeat.AtMost < s.Repeat.AtLeast {
			return nil, fmt.Errorf("repeat bounds %d..%d are invalid", s.Repeat.AtLeast, s.Repeat.AtMost)
		}
		action, err := s.Repeat.Action.Build()
		if err != nil {
			return nil, fmt.Errorf("repeat: %w", err)
		}
		return Repeat(s.Repeat.AtLeast, s.Repeat.AtMost, action), nil
	default:
		w := s.WhenThen
		if w.When == "" || w.Then == "" {
			return nil, fmt.Errorf("whenThen needs both when and then")
		}
		if w.AtLeast < 0 || w.AtMost < w.AtLeast {
			return nil, fmt.Errorf("whenThen bounds %d..%d are invalid", w.AtLeast, w.AtMost)
		}
		return WhenThen(w.AtLeast, w.AtMost, w.When, w.Then), nil
	}
}

func buildAll(specs []Spec) ([]*Node, error) {
	nodes := make([]*Node, len(specs))
	for i, s := range specs {
		n, err := s.Build()
		if err != nil {
			return nil, err
		}
		nodes[i] = n
	}
	return nodes, nil
}
