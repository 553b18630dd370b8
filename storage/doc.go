// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package storage provides the persistence abstraction for remedy corpora.
//
// A corpus is stored as a snapshot: the ordered remedy records plus a
// CorpusMeta describing them. Snapshots are replaced whole and never edited
// in place, so a loaded corpus always matches one complete import.
//
// # Constructor Return Type Pattern
//
// Public constructors in backend packages return the CorpusRepository
// interface rather than their concrete type:
//
//	repo, err := badger.NewCorpusRepository(path) // returns storage.CorpusRepository
//
// Internal constructors may return concrete types since they are only used
// within the implementation package.
//
// # Usage
//
// Import a corpus, then load it back in another process:
//
//	meta, err := repo.ReplaceCorpus(ctx, corpus, "remedies.csv")
//	...
//	corpus, err := repo.LoadCorpus(ctx)
//
// Use in tests with in-memory storage:
//
//	repo, err := badger.NewMemoryCorpusRepository()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer repo.Close()
//
// # Thread Safety
//
// Repository implementations must be safe for concurrent use.
package storage
