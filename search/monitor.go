package search

import (
	"log/slog"

	"github.com/poiesic/remedymatch/core"
)

// RankMonitor provides hooks to observe a ranking.
// Implement this interface to inspect intermediate steps and results.
type RankMonitor interface {
	Start(effect string)
	AfterNormalize(query string, corpusSize int)
	AfterVectorize(vocabularySize int)
	AfterScoring(scores []float64)
	Finish(results []core.MatchResult)
}

// noopMonitor is a no-op implementation of RankMonitor
type noopMonitor struct{}

var _ RankMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                 {}
func (n *noopMonitor) AfterNormalize(_ string, _ int) {}
func (n *noopMonitor) AfterVectorize(_ int)           {}
func (n *noopMonitor) AfterScoring(_ []float64)       {}
func (n *noopMonitor) Finish(_ []core.MatchResult)    {}

// LogMonitor reports each ranking stage to a logger at debug level.
type LogMonitor struct {
	logger *slog.Logger
}

var _ RankMonitor = (*LogMonitor)(nil)

// NewLogMonitor creates a monitor that logs to logger, or slog.Default() if nil.
func NewLogMonitor(logger *slog.Logger) *LogMonitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMonitor{logger: logger}
}

func (m *LogMonitor) Start(effect string) {
	m.logger.Debug("ranking started", "effect", effect)
}

func (m *LogMonitor) AfterNormalize(query string, corpusSize int) {
	m.logger.Debug("normalized query", "query", query, "corpusSize", corpusSize)
}

func (m *LogMonitor) AfterVectorize(vocabularySize int) {
	m.logger.Debug("built vector space", "vocabularySize", vocabularySize)
}

func (m *LogMonitor) AfterScoring(scores []float64) {
	var nonZero int
	var best float64
	for _, s := range scores {
		if s > 0 {
			nonZero++
		}
		best = max(best, s)
	}
	m.logger.Debug("scored corpus", "nonZero", nonZero, "best", best)
}

func (m *LogMonitor) Finish(results []core.MatchResult) {
	m.logger.Debug("ranking finished", "matches", len(results))
}
