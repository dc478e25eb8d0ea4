/*
Package economy
File: fixtures.go
Description:
    Loads a human-edited YAML product list into a fresh Graph, the same way
    the teacher's universe.yaml seeds static world data. Unlike the JSON
    save format (version 2, round-trip fidelity), this is an authoring
    convenience: inputs reference products by name (not id, which the
    author doesn't know yet), resolved in a second pass, and every node
    still passes through Add/SetFuel so a malformed fixture fails the same
    validation a live graph edit would.
*/

package economy

import (
	"fmt"
	"os"

	"github.com/everforgeworks/supplyline-core/internal/simerr"
	"gopkg.in/yaml.v3"
)

type fixtureInput struct {
	Product string `yaml:"product"`
	Amount  int    `yaml:"amount"`
}

type fixtureProduct struct {
	Name   string         `yaml:"name"`
	Icon   string         `yaml:"icon"`
	Inputs []fixtureInput `yaml:"inputs"`
}

type fixtureFile struct {
	Products []fixtureProduct `yaml:"products"`
	Fuel     string           `yaml:"fuel"`
}

// LoadFixtureFile reads a YAML product-list file at path and builds a
// validated Graph from it.
func LoadFixtureFile(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read economy fixture %s: %w", path, err)
	}
	return LoadFixture(data)
}

// LoadFixture parses YAML product-list bytes into a validated Graph.
// Names are resolved against products declared earlier in the list, so
// raw materials must precede the processors that consume them.
func LoadFixture(data []byte) (*Graph, error) {
	var ff fixtureFile
	if err := yaml.Unmarshal(data, &ff); err != nil {
		return nil, fmt.Errorf("parse economy fixture: %w", err)
	}

	g := NewGraph()
	nameToID := make(map[string]int, len(ff.Products))

	for _, fp := range ff.Products {
		inputs := make([]RecipeInput, 0, len(fp.Inputs))
		for _, in := range fp.Inputs {
			id, ok := nameToID[in.Product]
			if !ok {
				return nil, fmt.Errorf("fixture product %q: input %q: %w", fp.Name, in.Product, simerr.InvalidInput)
			}
			inputs = append(inputs, RecipeInput{ProductID: id, Amount: in.Amount})
		}
		id, err := g.Add(fp.Name, fp.Icon, inputs)
		if err != nil {
			return nil, fmt.Errorf("fixture product %q: %w", fp.Name, err)
		}
		nameToID[fp.Name] = id
	}

	if ff.Fuel != "" {
		id, ok := nameToID[ff.Fuel]
		if !ok {
			return nil, fmt.Errorf("fixture fuel %q: %w", ff.Fuel, simerr.InvalidInput)
		}
		if err := g.SetFuel(&id); err != nil {
			return nil, err
		}
	}
	return g, nil
}
