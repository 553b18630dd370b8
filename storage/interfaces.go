package storage

import (
	"context"

	"github.com/poiesic/remedymatch/core"
)

// CorpusRepository persists one remedy corpus snapshot.
type CorpusRepository interface {
	// ReplaceCorpus atomically drops any stored snapshot and stores corpus in
	// its place. source records where the corpus came from, usually a file
	// path. Returns the metadata written alongside the records.
	ReplaceCorpus(ctx context.Context, corpus *core.Corpus, source string) (*core.CorpusMeta, error)

	// LoadCorpus reads the stored snapshot.
	// Returns ErrNotFound if nothing has been stored and ErrCorruptSnapshot if
	// the records do not match their metadata.
	LoadCorpus(ctx context.Context) (*core.Corpus, error)

	// Meta returns the metadata of the stored snapshot without reading its records.
	// Returns ErrNotFound if nothing has been stored.
	Meta(ctx context.Context) (*core.CorpusMeta, error)

	// Close releases resources held by the repository.
	Close() error
}
