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


// Package search ranks a remedy corpus against an effect phrase.
//
// The Ranker builds a fresh TF-IDF vector space for every call from the
// normalized query and the normalized effect of every corpus record:
//   - Text is normalized by the textproc package (case folding, stop words)
//   - Terms are weighted by raw term frequency times smoothed IDF
//   - Each document vector is scaled to unit length
//
// Records are scored by cosine similarity to the query, the top N are kept,
// and any whose score does not exceed the minimum score are dropped.
// Nothing is cached between calls, so a Ranker is safe for concurrent use.
package search
