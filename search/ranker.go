package search

import (
	"cmp"
	"log/slog"
	"slices"

	"github.com/poiesic/remedymatch/core"
	"github.com/poiesic/remedymatch/textproc"
)

// Ranker ranks remedy corpora against effect phrases.
type Ranker struct {
	config *Config
	logger *slog.Logger
}

// Option configures a Ranker.
type Option func(*Ranker) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Ranker) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// WithConfig sets the ranking configuration.
// Default is DefaultConfig().
func WithConfig(cfg *Config) Option {
	return func(r *Ranker) error {
		if cfg == nil {
			cfg = DefaultConfig()
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		r.config = cfg
		return nil
	}
}

// NewRanker creates a new ranker.
func NewRanker(opts ...Option) (*Ranker, error) {
	r := &Ranker{
		config: DefaultConfig(),
		logger: slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Config returns a copy of the ranker's configuration.
func (r *Ranker) Config() Config {
	return *r.config
}

// Rank returns the corpus records most similar to effect.
func (r *Ranker) Rank(effect string, corpus *core.Corpus) []core.MatchResult {
	return r.RankWithMonitor(effect, corpus, nil)
}

// RankWithMonitor ranks like Rank and reports each stage to monitor.
func (r *Ranker) RankWithMonitor(effect string, corpus *core.Corpus, monitor RankMonitor) []core.MatchResult {
	results := rank(effect, corpus, r.config.TopN, r.config.MinScore, monitor)
	r.logger.Debug("ranked corpus", "corpusSize", corpus.Len(), "matches", len(results))
	return results
}

// Rank scores every record of corpus by TF-IDF cosine similarity between
// its normalized effect and the normalized effect phrase, keeps the topN
// best, and drops those scoring minScore or less. Results are ordered by
// descending score. An empty phrase or corpus yields an empty result, as
// does a phrase sharing no terms with the corpus. A topN below one means
// DefaultTopN.
func Rank(effect string, corpus *core.Corpus, topN int, minScore float64) []core.MatchResult {
	return rank(effect, corpus, topN, minScore, nil)
}

func rank(effect string, corpus *core.Corpus, topN int, minScore float64, monitor RankMonitor) []core.MatchResult {
	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	if topN < 1 {
		topN = DefaultTopN
	}

	monitor.Start(effect)

	if effect == "" || corpus.IsEmpty() {
		results := []core.MatchResult{}
		monitor.Finish(results)
		return results
	}

	// 1. Normalize the query and every corpus effect. Nothing is cached.
	docs := make([]string, 0, corpus.Len()+1)
	docs = append(docs, textproc.Normalize(effect))
	for _, rec := range corpus.All() {
		docs = append(docs, textproc.Normalize(rec.Effect))
	}
	monitor.AfterNormalize(docs[0], corpus.Len())

	// 2. Build the vector space over query plus corpus
	space := newVectorSpace(docs)
	monitor.AfterVectorize(len(space.vocabulary))

	// 3. Score
	query := space.vectors[0]
	scores := make([]float64, corpus.Len())
	for i := range scores {
		scores[i] = cosineSimilarity(query, space.vectors[i+1])
	}
	monitor.AfterScoring(scores)

	// 4. Order by score descending, then cut to topN and threshold
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(scores[b], scores[a])
	})
	if len(order) > topN {
		order = order[:topN]
	}

	results := make([]core.MatchResult, 0, len(order))
	for _, idx := range order {
		if scores[idx] <= minScore {
			continue
		}
		rec := corpus.At(idx)
		results = append(results, core.MatchResult{
			Name:   rec.Remedy,
			Effect: rec.Effect,
			Score:  scores[idx],
		})
	}
	monitor.Finish(results)

	return results
}
