package services

import (
	"context"
	"time"
)

// DefaultSolveBudget is the wall-clock budget for a single solve when the
// caller does not configure one.
const DefaultSolveBudget = 30 * time.Second

// glsPenaltyWeight scales the edge-penalty term of the guided local search.
// The augmented cost of an arc is cost + weight*penalty, with the weight
// derived from the average arc cost of the instance.
const glsPenaltyWeight = 0.2

// RouteSolver computes a near-optimal open-path visiting order over a cost
// matrix: a single vehicle, an optional fixed start node, no return to the
// start. Construction uses a nearest-neighbor greedy heuristic with stable
// lowest-index tie-breaking; improvement runs 2-opt moves inside a guided
// local search that penalizes frequently used arcs to escape local optima.
//
// Each Solve call is a self-contained computation bounded by its own
// deadline. The zero-size budget falls back to DefaultSolveBudget. Solver
// instances hold no mutable state and are safe for concurrent use.
type RouteSolver struct {
	budget time.Duration
}

// NewRouteSolver creates a RouteSolver with the given wall-clock budget per
// solve. A non-positive budget selects DefaultSolveBudget.
func NewRouteSolver(budget time.Duration) RouteSolver {
	if budget <= 0 {
		budget = DefaultSolveBudget
	}
	return RouteSolver{budget: budget}
}

// Solve computes a visiting order over the matrix nodes.
//
// Parameters:
//   - ctx: cancels the search early; the best tour found so far is returned
//   - matrix: symmetric fixed-point cost matrix (depot at index 0 if present)
//   - hasDepot: whether index 0 is a fixed start excluded from the result
//
// Returns the visiting order as indexes into the stop sequence (depot
// excluded) and whether a tour was produced. When solved is false the
// caller must fall back to the original input order. The deadline never
// surfaces as an error: an elapsed budget returns the best tour found.
//
// Fewer than two stops need no solving and return the trivial order
// immediately with solved=true.
func (s RouteSolver) Solve(ctx context.Context, matrix CostMatrix, hasDepot bool) ([]int, bool) {
	n := matrix.Size()
	stopCount := n
	if hasDepot {
		stopCount--
	}

	if stopCount < 2 {
		order := make([]int, 0, stopCount)
		for i := 0; i < stopCount; i++ {
			order = append(order, i)
		}
		return order, true
	}

	deadline := time.Now().Add(s.budget)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}

	tour := constructNearestNeighbor(matrix)
	if tour == nil || expired(ctx, deadline) {
		if tour == nil {
			return nil, false
		}
		return stripDepot(tour, hasDepot), true
	}

	best := s.improve(ctx, deadline, matrix, tour, hasDepot)
	return stripDepot(best, hasDepot), true
}

// constructNearestNeighbor builds an initial tour starting from node 0,
// repeatedly extending by the unvisited node with minimum arc cost from the
// tour's current end. Ties break on the lowest node index so identical
// inputs construct identical tours.
func constructNearestNeighbor(matrix CostMatrix) []int {
	n := matrix.Size()
	tour := make([]int, 0, n)
	visited := make([]bool, n)

	current := 0
	tour = append(tour, current)
	visited[current] = true

	for len(tour) < n {
		next := -1
		var nextCost int64
		for candidate := 0; candidate < n; candidate++ {
			if visited[candidate] {
				continue
			}
			cost := matrix[current][candidate]
			if next == -1 || cost < nextCost {
				next = candidate
				nextCost = cost
			}
		}
		if next == -1 {
			return nil
		}
		tour = append(tour, next)
		visited[next] = true
		current = next
	}

	return tour
}

// improve runs guided local search over 2-opt until the deadline elapses.
// Moves are evaluated on penalty-augmented costs while the best tour is
// tracked by true cost, so penalties steer the search without ever
// degrading the returned solution.
func (s RouteSolver) improve(
	ctx context.Context,
	deadline time.Time,
	matrix CostMatrix,
	tour []int,
	hasDepot bool,
) []int {
	n := matrix.Size()
	penalties := make([][]int64, n)
	for i := range penalties {
		penalties[i] = make([]int64, n)
	}

	weight := penaltyWeight(matrix)

	current := append([]int(nil), tour...)
	best := append([]int(nil), tour...)
	bestCost := pathCost(matrix, best)

	for !expired(ctx, deadline) {
		improvedToLocalOptimum(ctx, deadline, matrix, penalties, weight, current, hasDepot)

		if cost := pathCost(matrix, current); cost < bestCost {
			bestCost = cost
			copy(best, current)
		}

		// A zero-cost path cannot be improved further.
		if bestCost == 0 || expired(ctx, deadline) {
			break
		}
		penalizeMaxUtilityArcs(matrix, penalties, current)
	}

	return best
}

// improvedToLocalOptimum applies first-improvement 2-opt moves on the
// augmented cost until no improving move remains or the deadline elapses.
// With a fixed start node the first tour position never moves.
func improvedToLocalOptimum(
	ctx context.Context,
	deadline time.Time,
	matrix CostMatrix,
	penalties [][]int64,
	weight int64,
	tour []int,
	hasDepot bool,
) {
	n := len(tour)
	first := 0
	if hasDepot {
		first = 1
	}

	augmented := func(a, b int) int64 {
		return matrix[a][b] + weight*penalties[a][b]
	}

	improved := true
	for improved {
		improved = false
		for i := first; i < n-1; i++ {
			if expired(ctx, deadline) {
				return
			}
			for j := i + 1; j < n; j++ {
				// Reversing tour[i..j] on an open path replaces the
				// edge into the segment and the edge out of it.
				var delta int64
				if i > 0 {
					delta += augmented(tour[i-1], tour[j]) - augmented(tour[i-1], tour[i])
				}
				if j < n-1 {
					delta += augmented(tour[i], tour[j+1]) - augmented(tour[j], tour[j+1])
				}
				if delta < 0 {
					reverse(tour, i, j)
					improved = true
				}
			}
		}
	}
}

// penalizeMaxUtilityArcs increments the penalty of the tour arcs with the
// highest utility cost/(1+penalty), the standard guided-local-search escape
// step.
func penalizeMaxUtilityArcs(matrix CostMatrix, penalties [][]int64, tour []int) {
	var maxUtility float64 = -1
	for k := 0; k < len(tour)-1; k++ {
		a, b := tour[k], tour[k+1]
		utility := float64(matrix[a][b]) / float64(1+penalties[a][b])
		if utility > maxUtility {
			maxUtility = utility
		}
	}

	for k := 0; k < len(tour)-1; k++ {
		a, b := tour[k], tour[k+1]
		utility := float64(matrix[a][b]) / float64(1+penalties[a][b])
		if utility == maxUtility {
			penalties[a][b]++
			penalties[b][a]++
		}
	}
}

// penaltyWeight derives the guided-local-search penalty weight from the
// average arc cost of the instance.
func penaltyWeight(matrix CostMatrix) int64 {
	n := matrix.Size()
	var total int64
	var arcs int64
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			total += matrix[i][j]
			arcs++
		}
	}
	if arcs == 0 {
		return 1
	}

	weight := int64(glsPenaltyWeight * float64(total) / float64(arcs))
	if weight < 1 {
		weight = 1
	}
	return weight
}

// pathCost sums the true arc costs of an open path.
func pathCost(matrix CostMatrix, tour []int) int64 {
	var total int64
	for k := 0; k < len(tour)-1; k++ {
		total += matrix[tour[k]][tour[k+1]]
	}
	return total
}

// stripDepot converts a matrix-node tour into stop indexes, dropping the
// fixed start node when present.
func stripDepot(tour []int, hasDepot bool) []int {
	if !hasDepot {
		return tour
	}

	order := make([]int, 0, len(tour)-1)
	for _, node := range tour {
		if node == 0 {
			continue
		}
		order = append(order, node-1)
	}
	return order
}

func reverse(tour []int, i, j int) {
	for i < j {
		tour[i], tour[j] = tour[j], tour[i]
		i++
		j--
	}
}

func expired(ctx context.Context, deadline time.Time) bool {
	select {
	case <-ctx.Done():
		return true
	default:
	}
	return !time.Now().Before(deadline)
}
