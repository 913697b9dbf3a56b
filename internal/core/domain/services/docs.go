// Package services contains stateless domain services for route planning:
// the fixed-point cost matrix builder, the open-path route solver
// (nearest-neighbor construction plus 2-opt under guided local search with a
// hard wall-clock budget), and the distance/duration metrics calculator.
//
// The services operate on kernel value objects and hold no mutable state,
// so a single instance is safe for concurrent use across requests.
package services
