package corpus

import "errors"

var (
	// ErrMissingColumns is returned when the CSV header lacks Effect or Remedy.
	ErrMissingColumns = errors.New("corpus: CSV is missing required columns: 'Effect' and 'Remedy'")

	// ErrEmptyFile is returned when the CSV has no header row.
	ErrEmptyFile = errors.New("corpus: CSV file is empty")

	// ErrRepositoryRequired is returned by FromStore when given a nil repository.
	ErrRepositoryRequired = errors.New("corpus: repository is required")
)
