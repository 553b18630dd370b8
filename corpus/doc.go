// Package corpus loads the remedy corpus from a CSV file or from a snapshot
// store.
//
// The CSV needs a header row naming an Effect and a Remedy column. Other
// columns are ignored. Every data row must carry a non-empty effect and
// remedy.
package corpus
