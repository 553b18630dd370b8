package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"fmt"
	"iter"
	"slices"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a content-derived identifier.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// String renders the ID as 16 hex digits.
func (id ID) String() string {
	return fmt.Sprintf("%016x", uint64(id))
}

// RemedyRecord is one row of the remedy corpus: a documented effect and
// the natural remedy it is attributed to.
type RemedyRecord struct {
	Effect string // Condition or use the remedy addresses
	Remedy string // Name of the remedy
}

// Corpus is the read-only, ordered table of remedy records that queries are
// ranked against. A record's identity is its position.
//
// A Corpus is built once and never mutated, so it is safe for concurrent
// readers without locking.
type Corpus struct {
	records     []RemedyRecord
	fingerprint ID
}

// NewCorpus validates every record and returns a corpus holding a private
// copy of them. The first invalid record fails the whole corpus.
func NewCorpus(records []RemedyRecord) (*Corpus, error) {
	for i := range records {
		if err := ValidateRemedyRecord(&records[i]); err != nil {
			return nil, &RecordError{Position: i, Err: err}
		}
	}
	owned := slices.Clone(records)
	return &Corpus{
		records:     owned,
		fingerprint: fingerprint(owned),
	}, nil
}

// EmptyCorpus returns a corpus with no records. It stands in for a corpus
// source that could not be loaded.
func EmptyCorpus() *Corpus {
	return &Corpus{fingerprint: fingerprint(nil)}
}

// Len returns the number of records. A nil corpus is empty.
func (c *Corpus) Len() int {
	if c == nil {
		return 0
	}
	return len(c.records)
}

// IsEmpty reports whether the corpus holds no records.
func (c *Corpus) IsEmpty() bool {
	return c.Len() == 0
}

// At returns the record at position i.
func (c *Corpus) At(i int) RemedyRecord {
	return c.records[i]
}

// All iterates over the records in corpus order.
func (c *Corpus) All() iter.Seq2[int, RemedyRecord] {
	return func(yield func(int, RemedyRecord) bool) {
		for i := 0; i < c.Len(); i++ {
			if !yield(i, c.records[i]) {
				return
			}
		}
	}
}

// Records returns a copy of the records in corpus order.
func (c *Corpus) Records() []RemedyRecord {
	if c == nil {
		return nil
	}
	return slices.Clone(c.records)
}

// Effects returns the effect text of every record in corpus order.
func (c *Corpus) Effects() []string {
	effects := make([]string, c.Len())
	for i, rec := range c.All() {
		effects[i] = rec.Effect
	}
	return effects
}

// Fingerprint identifies the corpus contents. Two corpora with the same
// records in the same order share a fingerprint.
func (c *Corpus) Fingerprint() ID {
	if c == nil {
		return fingerprint(nil)
	}
	return c.fingerprint
}

func fingerprint(records []RemedyRecord) ID {
	h, _ := blake2b.New(8, nil)
	var count [8]byte
	binary.LittleEndian.PutUint64(count[:], uint64(len(records)))
	h.Write(count[:])
	for _, rec := range records {
		// Unit and record separators keep ("ab","c") distinct from ("a","bc").
		h.Write([]byte(rec.Effect))
		h.Write([]byte{0x1f})
		h.Write([]byte(rec.Remedy))
		h.Write([]byte{0x1e})
	}
	return ID(binary.LittleEndian.Uint64(h.Sum(nil)))
}

// CorpusMeta describes a stored corpus snapshot.
type CorpusMeta struct {
	Fingerprint ID
	Count       int
	Source      string    // Where the snapshot was imported from, e.g. a CSV path
	ImportedAt  time.Time // When the snapshot was written
}

// MatchResult is a single ranked remedy.
type MatchResult struct {
	Name   string  `json:"name"`
	Effect string  `json:"effect"`
	Score  float64 `json:"match_score"`
}
