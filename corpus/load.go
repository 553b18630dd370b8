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


package corpus

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/remedymatch/core"
	"github.com/poiesic/remedymatch/storage"
)

const (
	effectColumn = "Effect"
	remedyColumn = "Remedy"
)

// LoadCSV reads the corpus stored in the CSV file at path.
func LoadCSV(path string) (*core.Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus file: %w", err)
	}
	defer f.Close()

	corpus, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return corpus, nil
}

// ReadCSV reads a corpus from CSV data. Records keep file order.
func ReadCSV(r io.Reader) (*core.Corpus, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	effectIdx, remedyIdx := -1, -1
	for i, name := range header {
		switch cleanHeader(name) {
		case effectColumn:
			if effectIdx < 0 {
				effectIdx = i
			}
		case remedyColumn:
			if remedyIdx < 0 {
				remedyIdx = i
			}
		}
	}
	if effectIdx < 0 || remedyIdx < 0 {
		return nil, ErrMissingColumns
	}

	var records []core.RemedyRecord
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if isBlank(row) {
			continue
		}
		line, _ := reader.FieldPos(0)
		records = append(records, core.RemedyRecord{
			Effect: field(row, effectIdx),
			Remedy: field(row, remedyIdx),
		})
		if err := core.ValidateRemedyRecord(&records[len(records)-1]); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}

	return core.NewCorpus(records)
}

// LoadOrEmpty loads the CSV corpus at path. Any failure is logged and an
// empty corpus is returned, so callers can keep serving without remedies.
func LoadOrEmpty(path string, logger *slog.Logger) *core.Corpus {
	if logger == nil {
		logger = slog.Default()
	}
	corpus, err := LoadCSV(path)
	if err != nil {
		logger.Error("error loading corpus, continuing with an empty one", "path", path, "err", err)
		return core.EmptyCorpus()
	}
	logger.Info("loaded corpus", "path", path, "records", corpus.Len(), "fingerprint", corpus.Fingerprint().String())
	return corpus
}

// FromStore loads the corpus snapshot held by repo.
func FromStore(ctx context.Context, repo storage.CorpusRepository) (*core.Corpus, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	corpus, err := repo.LoadCorpus(ctx)
	if err != nil {
		return nil, fmt.Errorf("load corpus snapshot: %w", err)
	}
	return corpus, nil
}

func cleanHeader(name string) string {
	return strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
}

func field(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
