package domain

import (
	"encoding/json"
	"fmt"
)

// AlgorithmID is the stable wire identifier of a registered algorithm.
type AlgorithmID string

const (
	AlgorithmDijkstra      AlgorithmID = "dijkstra"
	AlgorithmJohnson       AlgorithmID = "johnson"
	AlgorithmPrim          AlgorithmID = "prim"
	AlgorithmRucksackPTAS  AlgorithmID = "rucksack-ptas"
	AlgorithmRucksackFPTAS AlgorithmID = "rucksack-fptas"
)

// Category tags an algorithm with the family it belongs to.
type Category string

const (
	CategoryGraph         Category = "graph"
	CategoryApproximation Category = "approximation"
)

// AlgorithmDescriptor is the immutable description of a registered algorithm.
type AlgorithmDescriptor struct {
	ID         AlgorithmID `json:"id"`
	Name       string      `json:"name"`
	Categories []Category  `json:"categories"`
}

// HasCategory reports whether the descriptor is tagged with c.
func (d AlgorithmDescriptor) HasCategory(c Category) bool {
	for _, own := range d.Categories {
		if own == c {
			return true
		}
	}
	return false
}

// ListType selects which algorithms a List request asks for.
type ListType string

const (
	ListTypeAll           ListType = "all"
	ListTypeGraph         ListType = "graph"
	ListTypeApproximation ListType = "approximation"
)

func (t *ListType) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("list_type must be a string: %w", err)
	}
	switch ListType(raw) {
	case ListTypeAll, ListTypeGraph, ListTypeApproximation:
		*t = ListType(raw)
		return nil
	default:
		return fmt.Errorf("unknown list_type %q, expected one of all, graph, approximation", raw)
	}
}

// Category maps the list type to the category it filters by. ok is false for
// ListTypeAll, which does not filter.
func (t ListType) Category() (c Category, ok bool) {
	switch t {
	case ListTypeGraph:
		return CategoryGraph, true
	case ListTypeApproximation:
		return CategoryApproximation, true
	default:
		return "", false
	}
}
