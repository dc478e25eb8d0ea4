/*
Package economy
File: save.go
Description:
    JSON save/load for the economy graph, version 2 (spec §6).
    {version, nodes: [{id, name, imagePath, inputs}], nextNodeId, fuelProductId}
*/

package economy

import (
	"encoding/json"
	"fmt"

	"github.com/everforgeworks/supplyline-core/internal/simerr"
)

const SaveVersion = 2

type saveInput struct {
	ProductID int `json:"productId"`
	Amount    int `json:"amount"`
}

type saveNode struct {
	ID        int         `json:"id"`
	Name      string      `json:"name"`
	ImagePath string      `json:"imagePath"`
	Inputs    []saveInput `json:"inputs"`
}

type saveFile struct {
	Version      int        `json:"version"`
	Nodes        []saveNode `json:"nodes"`
	NextNodeID   int        `json:"nextNodeId"`
	FuelProductID *int      `json:"fuelProductId"`
}

// Serialize marshals the graph into version-2 JSON, preserving products,
// inputs, the fuel designation, and NextProductID.
func (g *Graph) Serialize() ([]byte, error) {
	sf := saveFile{
		Version:       SaveVersion,
		NextNodeID:    g.nextID,
		FuelProductID: g.fuelID,
	}
	for _, id := range g.order {
		p := g.products[id]
		node := saveNode{ID: p.ID, Name: p.Name, ImagePath: p.IconPath}
		for _, in := range p.Inputs {
			node.Inputs = append(node.Inputs, saveInput{ProductID: in.ProductID, Amount: in.Amount})
		}
		sf.Nodes = append(sf.Nodes, node)
	}
	return json.Marshal(sf)
}

// Deserialize loads a version-2 economy save, bypassing cycle/validation
// re-checks (a previously-valid save is trusted on reload) while still
// rejecting an unsupported version.
func Deserialize(data []byte) (*Graph, error) {
	var sf saveFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("decode economy save: %w", err)
	}
	if sf.Version != SaveVersion {
		return nil, fmt.Errorf("economy save version %d: %w", sf.Version, simerr.UnsupportedVersion)
	}

	g := NewGraph()
	for _, node := range sf.Nodes {
		inputs := make([]RecipeInput, 0, len(node.Inputs))
		for _, in := range node.Inputs {
			inputs = append(inputs, RecipeInput{ProductID: in.ProductID, Amount: in.Amount})
		}
		g.products[node.ID] = Product{ID: node.ID, Name: node.Name, IconPath: node.ImagePath, Inputs: inputs}
		g.order = append(g.order, node.ID)
	}
	g.nextID = sf.NextNodeID
	g.fuelID = sf.FuelProductID
	return g, nil
}
