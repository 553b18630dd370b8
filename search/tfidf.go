package search

import (
	"cmp"
	"math"
	"slices"
	"strings"
	"unicode/utf8"
)

// minTermLength drops single-rune tokens from the vocabulary.
const minTermLength = 2

type weightedTerm struct {
	index  int
	weight float64
}

// sparseVector holds the non-zero weights of a document, ordered by
// vocabulary index so sums are always taken in the same order.
type sparseVector []weightedTerm

// weight returns the weight of vocabulary index idx.
func (v sparseVector) weight(idx int) float64 {
	i, found := slices.BinarySearchFunc(v, idx, func(t weightedTerm, idx int) int {
		return cmp.Compare(t.index, idx)
	})
	if !found {
		return 0
	}
	return v[i].weight
}

// vectorSpace is a TF-IDF space over one set of documents. It lives only
// for the duration of a single ranking.
type vectorSpace struct {
	vocabulary map[string]int
	vectors    []sparseVector
}

func terms(doc string) []string {
	fields := strings.Fields(doc)
	out := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) >= minTermLength {
			out = append(out, f)
		}
	}
	return out
}

// newVectorSpace weights each document's terms by raw count times smoothed
// inverse document frequency, ln((1+n)/(1+df)) + 1, and scales every
// document vector to unit length. Documents without terms get an empty
// vector.
func newVectorSpace(docs []string) *vectorSpace {
	vocabulary := make(map[string]int)
	counts := make([]map[int]int, len(docs))
	var docFreq []int

	for i, doc := range docs {
		counts[i] = make(map[int]int)
		for _, term := range terms(doc) {
			idx, ok := vocabulary[term]
			if !ok {
				idx = len(vocabulary)
				vocabulary[term] = idx
				docFreq = append(docFreq, 0)
			}
			if counts[i][idx] == 0 {
				docFreq[idx]++
			}
			counts[i][idx]++
		}
	}

	n := float64(len(docs))
	idf := make([]float64, len(docFreq))
	for idx, df := range docFreq {
		idf[idx] = math.Log((1+n)/(1+float64(df))) + 1
	}

	vectors := make([]sparseVector, len(docs))
	for i, tf := range counts {
		vec := make(sparseVector, 0, len(tf))
		for idx, count := range tf {
			vec = append(vec, weightedTerm{index: idx, weight: float64(count) * idf[idx]})
		}
		slices.SortFunc(vec, func(a, b weightedTerm) int {
			return cmp.Compare(a.index, b.index)
		})

		var norm float64
		for _, t := range vec {
			norm += t.weight * t.weight
		}
		if norm > 0 {
			inv := 1 / math.Sqrt(norm)
			for j := range vec {
				vec[j].weight *= inv
			}
		}
		vectors[i] = vec
	}

	return &vectorSpace{
		vocabulary: vocabulary,
		vectors:    vectors,
	}
}

// cosineSimilarity returns the cosine of the angle between a and b, or 0 if
// either is a zero vector. Weights are non-negative so the result is in [0,1].
func cosineSimilarity(a, b sparseVector) float64 {
	var dot, normA, normB float64
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].index < b[j].index:
			i++
		case a[i].index > b[j].index:
			j++
		default:
			dot += a[i].weight * b[j].weight
			i++
			j++
		}
	}
	for _, t := range a {
		normA += t.weight * t.weight
	}
	for _, t := range b {
		normB += t.weight * t.weight
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	// Rounding can push identical vectors a hair past 1.
	return min(max(sim, 0), 1)
}
