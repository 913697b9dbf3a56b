// Package kernel contains the shared value objects of the routing domain:
// geocoded coordinates and aggregate identifiers. These types are immutable,
// constructor-guarded, and safe to pass by value across layers.
package kernel
