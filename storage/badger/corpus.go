package badger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/remedymatch/core"
	"github.com/poiesic/remedymatch/storage"
)

// CorpusRepository implements storage.CorpusRepository for BadgerDB.
type CorpusRepository struct {
	backend     *Backend
	ownsBackend bool
	logger      *slog.Logger
	now         func() time.Time
}

var _ storage.CorpusRepository = (*CorpusRepository)(nil)

// newCorpusRepository is an internal constructor that returns the concrete type.
func newCorpusRepository(backend *Backend, ownsBackend bool) *CorpusRepository {
	return &CorpusRepository{
		backend:     backend,
		ownsBackend: ownsBackend,
		logger:      backend.logger,
		now:         time.Now,
	}
}

// NewCorpusRepository opens (or creates) a snapshot store in dir.
// The repository owns the database and closes it on Close.
func NewCorpusRepository(dir string, logger *slog.Logger) (storage.CorpusRepository, error) {
	backend, err := OpenBackend(dir, false, logger)
	if err != nil {
		return nil, err
	}
	return newCorpusRepository(backend, true), nil
}

// NewCorpusRepositoryWithBackend creates a repository on a shared backend.
// Closing the repository leaves the backend open.
func NewCorpusRepositoryWithBackend(backend *Backend) storage.CorpusRepository {
	return newCorpusRepository(backend, false)
}

// ReplaceCorpus drops the stored snapshot and writes corpus in a single
// transaction, so readers see either the old snapshot or the new one.
func (r *CorpusRepository) ReplaceCorpus(ctx context.Context, corpus *core.Corpus, source string) (*core.CorpusMeta, error) {
	if corpus == nil {
		return nil, storage.ErrCorpusRequired
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	meta := &core.CorpusMeta{
		Fingerprint: corpus.Fingerprint(),
		Count:       corpus.Len(),
		Source:      source,
		ImportedAt:  r.now().UTC().Truncate(time.Microsecond),
	}

	var dropped int
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		// Collect old keys first; deleting while iterating is not allowed.
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(remedyRecordPrefix)
		iter := tx.NewIterator(opts)
		var stale [][]byte
		for iter.Rewind(); iter.Valid(); iter.Next() {
			stale = append(stale, iter.Item().KeyCopy(nil))
		}
		iter.Close()

		for _, key := range stale {
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		dropped = len(stale)

		for i, rec := range corpus.All() {
			if err := tx.Set(makeRecordKey(i), storage.MarshalRemedyRecord(&rec)); err != nil {
				return err
			}
		}
		return tx.Set([]byte(corpusMetaKey), storage.MarshalCorpusMeta(meta))
	}, true)
	if err != nil {
		if errors.Is(err, badger.ErrTxnTooBig) {
			return nil, fmt.Errorf("corpus of %d records is too large for one transaction: %w", corpus.Len(), err)
		}
		return nil, fmt.Errorf("replace corpus: %w", err)
	}

	r.logger.Info("replaced corpus snapshot",
		"records", meta.Count,
		"dropped", dropped,
		"fingerprint", meta.Fingerprint.String(),
		"source", source)
	return meta, nil
}

// LoadCorpus reads the stored records in position order and checks them
// against the stored metadata.
func (r *CorpusRepository) LoadCorpus(ctx context.Context) (*core.Corpus, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		meta    *core.CorpusMeta
		records []core.RemedyRecord
	)
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		if meta, err = readMeta(tx); err != nil {
			return err
		}

		records = make([]core.RemedyRecord, 0, meta.Count)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(remedyRecordPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()
			pos, ok := recordPosition(item.Key())
			if !ok || pos != len(records) {
				return fmt.Errorf("%w: unexpected record key %x", storage.ErrCorruptSnapshot, item.Key())
			}
			err := item.Value(func(val []byte) error {
				rec, err := storage.UnmarshalRemedyRecord(val)
				if err != nil {
					return fmt.Errorf("%w: record %d: %w", storage.ErrCorruptSnapshot, pos, err)
				}
				records = append(records, *rec)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	corpus, err := core.NewCorpus(records)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", storage.ErrCorruptSnapshot, err)
	}
	if err := core.ValidateCorpusMeta(meta, corpus); err != nil {
		return nil, fmt.Errorf("%w: %w", storage.ErrCorruptSnapshot, err)
	}

	r.logger.Debug("loaded corpus snapshot", "records", corpus.Len(), "source", meta.Source)
	return corpus, nil
}

// Meta returns the stored snapshot metadata.
func (r *CorpusRepository) Meta(ctx context.Context) (*core.CorpusMeta, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var meta *core.CorpusMeta
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		meta, err = readMeta(tx)
		return err
	}, false)
	return meta, err
}

// Close closes the underlying database if the repository opened it.
func (r *CorpusRepository) Close() error {
	if !r.ownsBackend || r.backend.IsClosed() {
		return nil
	}
	return r.backend.Close()
}

func readMeta(tx *badger.Txn) (*core.CorpusMeta, error) {
	item, err := tx.Get([]byte(corpusMetaKey))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var meta *core.CorpusMeta
	err = item.Value(func(val []byte) error {
		var err error
		meta, err = storage.UnmarshalCorpusMeta(val)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", storage.ErrCorruptSnapshot, err)
	}
	return meta, nil
}
