package tsp

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Instance is a symmetric TSP instance. It is not modified after creation.
type Instance struct {
	Name    string
	Comment string
	// EdgeWeightType is the TSPLIB weight type, e.g. "GEO", or "EXPLICIT".
	EdgeWeightType string
	// Coords holds node coordinates when the instance was built from them.
	Coords [][2]float64

	dist *mat.SymDense
}

// NewInstance validates a full distance matrix and wraps it.
// The matrix must be square, symmetric and free of negative or NaN entries.
func NewInstance(name string, dist [][]float64) (*Instance, error) {
	n := len(dist)
	if n < 2 {
		return nil, ErrDimensionMismatch
	}
	for _, row := range dist {
		if len(row) != n {
			return nil, ErrNonSquare
		}
	}
	sym := mat.NewSymDense(n, nil)
	for i, row := range dist {
		for j := i; j < n; j++ {
			x := row[j]
			if math.IsNaN(x) || x < 0 {
				return nil, ErrNegativeWeight
			}
			if dist[j][i] != x {
				return nil, ErrAsymmetric
			}
			if i != j {
				sym.SetSym(i, j, x)
			}
		}
	}

	return &Instance{Name: name, EdgeWeightType: WeightExplicit, dist: sym}, nil
}

// fromFunc builds an instance of n nodes from a distance function.
func fromFunc(n int, d func(i, j int) float64) *Instance {
	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			sym.SetSym(i, j, d(i, j))
		}
	}

	return &Instance{dist: sym}
}

// N returns the number of nodes.
func (in *Instance) N() int { return in.dist.SymmetricDim() }

// Distance returns the distance between nodes i and j.
func (in *Instance) Distance(i, j int) float64 { return in.dist.At(i, j) }

// Matrix exposes the distances as a read-only gonum matrix.
func (in *Instance) Matrix() mat.Symmetric { return in.dist }

// Cost returns the length of a closed tour.
func (in *Instance) Cost(tour []int) (float64, error) { return TourCost(in.dist, tour) }
