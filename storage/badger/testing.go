package badger

import (
	"log/slog"

	"github.com/poiesic/remedymatch/storage"
)

// NewMemoryCorpusRepository creates an in-memory corpus repository for testing.
// Caller must close the repository when done.
func NewMemoryCorpusRepository() (storage.CorpusRepository, error) {
	backend, err := OpenBackend("", true, slog.Default())
	if err != nil {
		return nil, err
	}
	return newCorpusRepository(backend, true), nil
}
