package services

import (
	"math"

	"routeplanner/internal/core/domain/model/kernel"
	"routeplanner/internal/pkg/errs"
)

// costScale converts kilometers to the solver's fixed-point cost unit.
// Costs are rounded to whole hundredths of a kilometer so the solver works
// on deterministic integer arithmetic with no floating-point tie instability.
const costScale = 100

// CostMatrix is a symmetric matrix of fixed-point travel costs between
// nodes. When a depot is present it always occupies index 0; the remaining
// indexes follow the input stop order. The diagonal is zero. Duplicate
// coordinates legitimately produce zero-cost arcs.
type CostMatrix [][]int64

// Size returns the number of nodes in the matrix.
func (m CostMatrix) Size() int {
	return len(m)
}

// BuildCostMatrix computes the pairwise great-circle cost matrix for the
// given stops, optionally prepending a depot at index 0.
//
// Parameters:
//   - stops: the stops to visit (each must be a valid Coordinate)
//   - depot: optional fixed start location
//
// Returns a validation error if any coordinate was not properly constructed.
func BuildCostMatrix(stops []kernel.Coordinate, depot *kernel.Coordinate) (CostMatrix, error) {
	nodes := make([]kernel.Coordinate, 0, len(stops)+1)
	if depot != nil {
		if err := depot.Validate(); err != nil {
			return nil, errs.NewValueIsInvalidErrorWithCause("depot", err)
		}
		nodes = append(nodes, *depot)
	}
	nodes = append(nodes, stops...)

	n := len(nodes)
	matrix := make(CostMatrix, n)
	for i := range matrix {
		matrix[i] = make([]int64, n)
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			km, err := nodes[i].DistanceTo(nodes[j])
			if err != nil {
				return nil, err
			}
			cost := int64(math.Round(km * costScale))
			matrix[i][j] = cost
			matrix[j][i] = cost
		}
	}

	return matrix, nil
}
