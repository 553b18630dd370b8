package lookup

import "context"

// LabelSource retrieves label text for medicines.
// Implementations must be safe for concurrent use.
type LabelSource interface {
	// Indications returns the indications and usage text of the label that
	// best matches medicineName.
	// Returns ErrNotFound if no label matches, ErrTimeout if the source did not
	// answer in time, and a wrapped error for any other failure.
	Indications(ctx context.Context, medicineName string) (string, error)
}
