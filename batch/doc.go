// Package batch matches many medicine names concurrently.
//
// A Runner fans names out to a bounded ants worker pool, collects one
// Outcome per name in input order, and optionally reports progress to a
// writer while it runs.
package batch
