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


// Package extract distills a drug label's indications text down to the
// sentences that state what the drug is used for.
//
// Keywords are matched as case-insensitive substrings of a sentence, not as
// whole words, so "pretreats" matches "treats".
package extract

import (
	"slices"
	"strings"

	"github.com/poiesic/remedymatch/textproc"
)

// NoEffectFound is returned for text that contains no sentences.
const NoEffectFound = "No effect found"

// maxSentences is how many matching sentences make up an effect phrase.
const maxSentences = 2

var keywords = []string{
	"used for",
	"treats",
	"helps with",
	"indicated for",
	"reduces",
	"relieves",
}

// Keywords returns the phrases that mark a sentence as stating therapeutic use.
func Keywords() []string {
	return slices.Clone(keywords)
}

// Extract returns the effect phrase for raw indications text: the first two
// sentences containing a usage keyword, joined by a space. Without a keyword
// match it falls back to the first sentence, and to NoEffectFound when the
// text has no sentences at all.
func Extract(raw string) string {
	sentences := textproc.Sentences(raw)
	if len(sentences) == 0 {
		return NoEffectFound
	}

	matched := make([]string, 0, maxSentences)
	for _, sentence := range sentences {
		if !HasKeyword(sentence) {
			continue
		}
		matched = append(matched, sentence)
		if len(matched) == maxSentences {
			break
		}
	}

	if len(matched) == 0 {
		return sentences[0]
	}
	return strings.Join(matched, " ")
}

// HasKeyword reports whether sentence contains any usage keyword.
func HasKeyword(sentence string) bool {
	lower := strings.ToLower(sentence)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
