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


// Package remedymatch suggests natural remedies whose documented effects
// resemble what a medicine is indicated for.
//
// A Matcher looks up the medicine's label, condenses the indications text to
// an effect phrase with package extract, and ranks the remedy corpus against
// that phrase with package search.
package remedymatch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/remedymatch/core"
	"github.com/poiesic/remedymatch/extract"
	"github.com/poiesic/remedymatch/lookup"
	"github.com/poiesic/remedymatch/search"
)

// Report is the answer for one medicine.
type Report struct {
	Medicine string             `json:"medicine"`
	Effect   string             `json:"effect"`
	Remedies []core.MatchResult `json:"remedies"`
}

// Matcher wires a label source, the effect extractor and a ranker over one
// corpus. It holds no mutable state and is safe for concurrent use.
type Matcher struct {
	source lookup.LabelSource
	corpus *core.Corpus
	ranker *search.Ranker
	logger *slog.Logger

	searchConfig *search.Config
}

// Option configures a Matcher.
type Option func(*Matcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Matcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		m.logger = logger
		return nil
	}
}

// WithSearchConfig sets the ranking configuration.
// Default is search.DefaultConfig().
func WithSearchConfig(cfg *search.Config) Option {
	return func(m *Matcher) error {
		if cfg == nil {
			cfg = search.DefaultConfig()
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		m.searchConfig = cfg
		return nil
	}
}

// NewMatcher creates a matcher over corpus. A nil corpus is treated as empty.
func NewMatcher(source lookup.LabelSource, corpus *core.Corpus, opts ...Option) (*Matcher, error) {
	if source == nil {
		return nil, ErrLabelSourceRequired
	}
	if corpus == nil {
		corpus = core.EmptyCorpus()
	}

	m := &Matcher{
		source:       source,
		corpus:       corpus,
		logger:       slog.Default(),
		searchConfig: search.DefaultConfig(),
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}

	// The ranker is built last so it picks up the logger whatever the
	// option order.
	ranker, err := search.NewRanker(search.WithConfig(m.searchConfig), search.WithLogger(m.logger))
	if err != nil {
		return nil, err
	}
	m.ranker = ranker
	return m, nil
}

// Corpus returns the corpus the matcher ranks against.
func (m *Matcher) Corpus() *core.Corpus {
	return m.corpus
}

// Match looks up medicineName and returns its effect with the closest remedies.
// Lookup failures are returned wrapped, so callers can test for
// lookup.ErrNotFound and lookup.ErrTimeout.
func (m *Matcher) Match(ctx context.Context, medicineName string) (*Report, error) {
	name := strings.TrimSpace(medicineName)
	if name == "" {
		return nil, ErrMedicineNameRequired
	}

	raw, err := m.source.Indications(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("look up %q: %w", name, err)
	}

	effect := extract.Extract(raw)
	remedies := m.ranker.Rank(effect, m.corpus)
	m.logger.Debug("matched medicine", "medicine", name, "effect", effect, "remedies", len(remedies))

	return &Report{
		Medicine: name,
		Effect:   effect,
		Remedies: remedies,
	}, nil
}

// RankEffect ranks the corpus against an effect phrase directly.
func (m *Matcher) RankEffect(effect string) []core.MatchResult {
	return m.ranker.Rank(effect, m.corpus)
}
