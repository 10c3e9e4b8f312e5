package game

import (
	_ "embed"
	"fmt"

	"cattletrail/errs"
	"cattletrail/obligation"

	"golang.org/x/exp/rand"
	"gopkg.in/yaml.v3"
)

//go:embed locations.yaml
var standardLocations []byte

// Labels of the location trees that are not neutral buildings.
const (
	PlayerBuildingTree = "player"
	KansasCityTree     = "kansas-city"
)

// Effect applies an action to the state of the current player's game. It
// validates fully before mutating and returns the obligations it unlocks.
type Effect func(gs *GameState, m Move, rnd *rand.Rand) ([]*obligation.Node, error)

// Action is a registered kind with its effect.
type Action struct {
	obligation.Definition
	Effect    Effect
	Immediate bool // Follow-ups go ahead of every pending tree
}

// Catalogue maps action kinds to effects, and location labels to the
// obligation trees landing there grants.
type Catalogue struct {
	registry  *obligation.Registry
	actions   map[obligation.Kind]Action
	locations map[string]obligation.Spec
}

// NewCatalogue registers actions and checks that every location tree only
// uses registered kinds.
func NewCatalogue(locations map[string]obligation.Spec, actions ...Action) (*Catalogue, error) {
	c := &Catalogue{
		registry:  obligation.NewRegistry(),
		actions:   make(map[obligation.Kind]Action, len(actions)),
		locations: locations,
	}
	for _, a := range actions {
		if err := c.registry.Register(a.Definition); err != nil {
			return nil, err
		}
		c.actions[a.Kind] = a
	}
	for label, spec := range locations {
		tree, err := spec.Build()
		if err != nil {
			return nil, fmt.Errorf("location %s: %w", label, err)
		}
		if err := c.registry.Validate(tree); err != nil {
			return nil, fmt.Errorf("location %s: %w", label, err)
		}
	}
	return c, nil
}

// LoadLocations parses YAML location trees keyed by label.
func LoadLocations(data []byte) (map[string]obligation.Spec, error) {
	var locations map[string]obligation.Spec
	if err := yaml.Unmarshal(data, &locations); err != nil {
		return nil, fmt.Errorf("parse locations: %w", err)
	}
	return locations, nil
}

// StandardCatalogue is the catalogue of the base game.
func StandardCatalogue() (*Catalogue, error) {
	locations, err := LoadLocations(standardLocations)
	if err != nil {
		return nil, err
	}
	return NewCatalogue(locations, standardActions()...)
}

func (c *Catalogue) Registry() *obligation.Registry {
	return c.registry
}

// Action looks up the action for kind, failing with KindUnknown.
func (c *Catalogue) Action(kind obligation.Kind) (Action, error) {
	a, ok := c.actions[kind]
	if !ok {
		return Action{}, errs.WithMetadata(errs.CodeKindUnknown, "action kind is not registered: "+string(kind),
			map[string]string{"kind": string(kind)})
	}
	return a, nil
}

// LocationTree builds a fresh tree for a location label. It reports false for
// labels that grant nothing.
func (c *Catalogue) LocationTree(label string) (*obligation.Node, bool) {
	spec, ok := c.locations[label]
	if !ok {
		return nil, false
	}
	tree, err := spec.Build()
	if err != nil {
		// Every spec was built once in NewCatalogue.
		return nil, false
	}
	return tree, true
}
