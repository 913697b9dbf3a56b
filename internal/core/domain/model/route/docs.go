// Package route contains the Route aggregate: the solved visiting order for
// a set of delivery stops, its optional depot anchor, derived distance and
// duration metrics, and the optimized/in-progress/completed lifecycle.
package route
