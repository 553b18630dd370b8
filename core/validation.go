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


package core

import (
	"fmt"
	"strings"
)

// ValidateRemedyRecord validates a RemedyRecord according to domain rules.
//
// Validation rules:
//   - Effect must contain non-whitespace text
//   - Remedy must contain non-whitespace text
//
// NOT validated:
//   - Language or vocabulary of the effect (any text is rankable)
func ValidateRemedyRecord(record *RemedyRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidRemedyRecord)
	}

	if strings.TrimSpace(record.Effect) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRemedyRecord, ErrEmptyEffect)
	}

	if strings.TrimSpace(record.Remedy) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRemedyRecord, ErrEmptyRemedy)
	}

	return nil
}

// ValidateCorpusMeta checks that snapshot metadata agrees with the corpus
// it describes.
func ValidateCorpusMeta(meta *CorpusMeta, corpus *Corpus) error {
	if meta == nil {
		return fmt.Errorf("corpus meta is nil")
	}
	if meta.Count != corpus.Len() {
		return fmt.Errorf("corpus meta count %d does not match %d records", meta.Count, corpus.Len())
	}
	if meta.Fingerprint != corpus.Fingerprint() {
		return fmt.Errorf("corpus fingerprint %s does not match meta %s", corpus.Fingerprint(), meta.Fingerprint)
	}
	return nil
}
