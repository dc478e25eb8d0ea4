/*
Package economy
File: graph.go
Description:
    The economy graph (C1): a DAG of products where each product carries
    an ordered list of recipe inputs, and at most one product may be
    designated as fuel. The graph is mutated only outside a simulation
    run; a running simulation only ever reads it.
*/

package economy

import (
	"fmt"

	"github.com/everforgeworks/supplyline-core/internal/simerr"
)

// RecipeInput is one ingredient of a product's recipe: amount units of
// ProductID are consumed to advance production by one unit.
type RecipeInput struct {
	ProductID int `json:"productId" yaml:"productId"`
	Amount    int `json:"amount" yaml:"amount"`
}

// Product is one node of the economy graph.
type Product struct {
	ID        int           `json:"id" yaml:"id"`
	Name      string        `json:"name" yaml:"name"`
	IconPath  string        `json:"imagePath" yaml:"imagePath"`
	Inputs    []RecipeInput `json:"inputs" yaml:"inputs"`
}

// IsRawMaterial reports whether the product has no recipe inputs.
func (p Product) IsRawMaterial() bool { return len(p.Inputs) == 0 }

// Graph is the DAG of products. It is never mutated by the running
// simulation; edits go through Add/Update/Delete, which validate against a
// trial copy before the live graph changes.
type Graph struct {
	products  map[int]Product
	order     []int // insertion order, ascending id
	nextID    int
	fuelID    *int
}

// NewGraph returns an empty economy graph.
func NewGraph() *Graph {
	return &Graph{
		products: make(map[int]Product),
		nextID:   0,
	}
}

// NextProductID returns the id that would be assigned to the next Add call.
func (g *Graph) NextProductID() int { return g.nextID }

// Product returns the product with the given id, if present.
func (g *Graph) Product(id int) (Product, bool) {
	p, ok := g.products[id]
	return p, ok
}

// Products returns all products in insertion order.
func (g *Graph) Products() []Product {
	out := make([]Product, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.products[id])
	}
	return out
}

// FuelID returns the designated fuel product id, if any.
func (g *Graph) FuelID() (int, bool) {
	if g.fuelID == nil {
		return 0, false
	}
	return *g.fuelID, true
}

// SetFuel designates a product as fuel, or clears the designation when id
// is nil. At most one product may be fuel at a time.
func (g *Graph) SetFuel(id *int) error {
	if id == nil {
		g.fuelID = nil
		return nil
	}
	if _, ok := g.products[*id]; !ok {
		return fmt.Errorf("set fuel %d: %w", *id, simerr.InvalidInput)
	}
	fuel := *id
	g.fuelID = &fuel
	return nil
}

// Add validates and inserts a new product, returning its assigned id.
func (g *Graph) Add(name, icon string, inputs []RecipeInput) (int, error) {
	if name == "" {
		return 0, fmt.Errorf("add product: %w", simerr.EmptyName)
	}
	trial := g.clone()
	id := trial.nextID
	candidate := Product{ID: id, Name: name, IconPath: icon, Inputs: append([]RecipeInput{}, inputs...)}
	if err := trial.validateNode(candidate); err != nil {
		return 0, err
	}
	trial.products[id] = candidate
	trial.order = append(trial.order, id)
	trial.nextID++
	if err := trial.checkAcyclic(); err != nil {
		return 0, err
	}

	// Validation succeeded against the trial copy; commit to the live graph.
	g.products[id] = candidate
	g.order = append(g.order, id)
	g.nextID++
	return id, nil
}

// Update validates and replaces an existing product's name/icon/inputs.
// Self-reference (a product listing itself as an input) is rejected.
func (g *Graph) Update(id int, name, icon string, inputs []RecipeInput) error {
	if _, ok := g.products[id]; !ok {
		return fmt.Errorf("update product %d: %w", id, simerr.InvalidInput)
	}
	if name == "" {
		return fmt.Errorf("update product %d: %w", id, simerr.EmptyName)
	}
	for _, in := range inputs {
		if in.ProductID == id {
			return fmt.Errorf("update product %d: self-reference: %w", id, simerr.InvalidInput)
		}
	}

	trial := g.clone()
	candidate := Product{ID: id, Name: name, IconPath: icon, Inputs: append([]RecipeInput{}, inputs...)}
	if err := trial.validateNode(candidate); err != nil {
		return err
	}
	trial.products[id] = candidate
	if err := trial.checkAcyclic(); err != nil {
		return err
	}

	g.products[id] = candidate
	return nil
}

// Delete removes a product. Fails if any other product lists it as an
// input.
func (g *Graph) Delete(id int) error {
	if _, ok := g.products[id]; !ok {
		return fmt.Errorf("delete product %d: %w", id, simerr.InvalidInput)
	}
	for _, p := range g.products {
		if p.ID == id {
			continue
		}
		for _, in := range p.Inputs {
			if in.ProductID == id {
				return fmt.Errorf("delete product %d: %w", id, simerr.DependentsExist)
			}
		}
	}
	delete(g.products, id)
	for i, oid := range g.order {
		if oid == id {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
	if g.fuelID != nil && *g.fuelID == id {
		g.fuelID = nil
	}
	return nil
}

// validateNode checks that every referenced input exists.
func (g *Graph) validateNode(p Product) error {
	for _, in := range p.Inputs {
		if in.ProductID == p.ID {
			return fmt.Errorf("product %d: self-reference: %w", p.ID, simerr.InvalidInput)
		}
		if _, ok := g.products[in.ProductID]; !ok {
			return fmt.Errorf("product %d: missing input %d: %w", p.ID, in.ProductID, simerr.InvalidInput)
		}
	}
	return nil
}

// checkAcyclic runs iterative DFS with visited/on-stack sets over the
// whole graph. Returns CycleViolation if a back-edge is found.
func (g *Graph) checkAcyclic() error {
	const (
		unvisited = 0
		onStack   = 1
		done      = 2
	)
	state := make(map[int]int, len(g.products))

	type frame struct {
		id      int
		nextIdx int
	}

	for _, start := range g.order {
		if state[start] == done {
			continue
		}
		stack := []frame{{id: start}}
		state[start] = onStack

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			node := g.products[top.id]
			if top.nextIdx < len(node.Inputs) {
				next := node.Inputs[top.nextIdx].ProductID
				top.nextIdx++
				switch state[next] {
				case onStack:
					return fmt.Errorf("product %d -> %d: %w", top.id, next, simerr.CycleViolation)
				case unvisited:
					state[next] = onStack
					stack = append(stack, frame{id: next})
				}
				continue
			}
			state[top.id] = done
			stack = stack[:len(stack)-1]
		}
	}
	return nil
}

// clone returns a deep-enough copy for trial validation.
func (g *Graph) clone() *Graph {
	cp := &Graph{
		products: make(map[int]Product, len(g.products)),
		order:    append([]int{}, g.order...),
		nextID:   g.nextID,
	}
	for id, p := range g.products {
		cp.products[id] = Product{ID: p.ID, Name: p.Name, IconPath: p.IconPath, Inputs: append([]RecipeInput{}, p.Inputs...)}
	}
	if g.fuelID != nil {
		fuel := *g.fuelID
		cp.fuelID = &fuel
	}
	return cp
}

// TopologicalOrder returns one valid topological order, ties broken by
// ascending insertion id.
func (g *Graph) TopologicalOrder() []int {
	const (
		unvisited = 0
		visiting  = 1
		visited   = 2
	)
	state := make(map[int]int, len(g.products))
	out := make([]int, 0, len(g.products))

	var visit func(id int)
	visit = func(id int) {
		if state[id] == visited {
			return
		}
		state[id] = visiting
		node := g.products[id]
		for _, in := range node.Inputs {
			if state[in.ProductID] != visited {
				visit(in.ProductID)
			}
		}
		state[id] = visited
		out = append(out, id)
	}

	for _, id := range g.order {
		if state[id] == unvisited {
			visit(id)
		}
	}
	return out
}

// IsSink reports whether no product in the graph lists id as a recipe
// input — its output, once produced, has no in-graph consumer.
func (g *Graph) IsSink(id int) bool {
	for _, p := range g.products {
		for _, in := range p.Inputs {
			if in.ProductID == id {
				return false
			}
		}
	}
	return true
}

// Depths returns, for every product, the length of the longest path from
// any raw material (raw materials have depth 0).
func (g *Graph) Depths() map[int]int {
	depth := make(map[int]int, len(g.products))
	var compute func(id int) int
	computing := make(map[int]bool)
	compute = func(id int) int {
		if d, ok := depth[id]; ok {
			return d
		}
		if computing[id] {
			// Should not happen in an acyclic graph; break recursion safely.
			return 0
		}
		computing[id] = true
		node := g.products[id]
		max := 0
		for _, in := range node.Inputs {
			d := compute(in.ProductID) + 1
			if d > max {
				max = d
			}
		}
		depth[id] = max
		computing[id] = false
		return max
	}
	for _, id := range g.order {
		compute(id)
	}
	return depth
}
