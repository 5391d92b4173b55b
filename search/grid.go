// Package search implements the hyperparameter sweep: grid enumeration,
// per-point trial execution with partial-failure tolerance, winner
// selection and artifact persistence.
package search

import (
	"fmt"

	"github.com/beewatch/hivetune/transform"
)

// Grid holds the hyperparameter choices swept for one backbone. The
// sweep covers the full cross product of all four axes.
type Grid struct {
	BatchSizes    []int
	Epochs        []int
	LearningRates []float64
	Transforms    []transform.Variant
}

// DefaultGrid is the grid swept for every backbone unless overridden.
func DefaultGrid() Grid {
	return Grid{
		BatchSizes:    []int{16, 32, 64},
		Epochs:        []int{5, 10},
		LearningRates: []float64{0.001, 0.0001, 0.01},
		Transforms:    []transform.Variant{transform.Baseline, transform.TrivialAugment},
	}
}

// Point is one combination drawn from a Grid.
type Point struct {
	BatchSize    int
	Epochs       int
	LearningRate float64
	Transform    transform.Variant
}

func (p Point) String() string {
	return fmt.Sprintf("batch=%d epochs=%d lr=%g transform=%s",
		p.BatchSize, p.Epochs, p.LearningRate, p.Transform)
}

// Size returns the number of points Enumerate will produce.
func (g Grid) Size() int {
	return len(g.BatchSizes) * len(g.Epochs) * len(g.LearningRates) * len(g.Transforms)
}

// Enumerate produces the full cross product in a fixed order (batch
// size, then epochs, then learning rate, then transform). The order only
// affects run numbering and logging, never the selected winner.
func (g Grid) Enumerate() []Point {
	points := make([]Point, 0, g.Size())
	for _, bs := range g.BatchSizes {
		for _, ep := range g.Epochs {
			for _, lr := range g.LearningRates {
				for _, tr := range g.Transforms {
					points = append(points, Point{
						BatchSize:    bs,
						Epochs:       ep,
						LearningRate: lr,
						Transform:    tr,
					})
				}
			}
		}
	}
	return points
}
