// Forkcast - Restaurant Discovery and Personalized Recommendations
// Copyright 2026 Forkcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/forkcast/forkcast

package algorithms

import (
	"math"
	"strings"
	"unicode"
)

// englishStopWords are dropped during tokenization so the TF-IDF signal
// reflects descriptive terms rather than filler.
var englishStopWords = map[string]struct{}{
	"a": {}, "about": {}, "above": {}, "after": {}, "again": {}, "against": {},
	"all": {}, "also": {}, "am": {}, "an": {}, "and": {}, "any": {}, "are": {},
	"as": {}, "at": {}, "be": {}, "because": {}, "been": {}, "before": {},
	"being": {}, "below": {}, "between": {}, "both": {}, "but": {}, "by": {},
	"can": {}, "could": {}, "did": {}, "do": {}, "does": {}, "doing": {},
	"down": {}, "during": {}, "each": {}, "few": {}, "for": {}, "from": {},
	"further": {}, "had": {}, "has": {}, "have": {}, "having": {}, "he": {},
	"her": {}, "here": {}, "hers": {}, "him": {}, "his": {}, "how": {},
	"i": {}, "if": {}, "in": {}, "into": {}, "is": {}, "it": {}, "its": {},
	"just": {}, "me": {}, "more": {}, "most": {}, "my": {}, "no": {},
	"nor": {}, "not": {}, "now": {}, "of": {}, "off": {}, "on": {},
	"once": {}, "only": {}, "or": {}, "other": {}, "our": {}, "ours": {},
	"out": {}, "over": {}, "own": {}, "same": {}, "she": {}, "should": {},
	"so": {}, "some": {}, "such": {}, "than": {}, "that": {}, "the": {},
	"their": {}, "theirs": {}, "them": {}, "then": {}, "there": {},
	"these": {}, "they": {}, "this": {}, "those": {}, "through": {},
	"to": {}, "too": {}, "under": {}, "until": {}, "up": {}, "very": {},
	"was": {}, "we": {}, "were": {}, "what": {}, "when": {}, "where": {},
	"which": {}, "while": {}, "who": {}, "whom": {}, "why": {}, "will": {},
	"with": {}, "you": {}, "your": {}, "yours": {},
}

// tfidfModel holds the vocabulary and inverse document frequencies fitted
// over one candidate corpus. Vectors are dense; candidate lists are small
// enough (tens of documents) that sparsity is not worth the complexity.
type tfidfModel struct {
	vocab map[string]int
	idf   []float64
}

// tokenize lowercases text and splits it on non-alphanumeric runes,
// dropping stop words and single characters.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < 2 {
			continue
		}
		if _, stop := englishStopWords[f]; stop {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// fitTFIDF builds a model over the documents. Empty corpora yield a model
// with an empty vocabulary; transform then returns zero vectors.
func fitTFIDF(docs []string) *tfidfModel {
	vocab := make(map[string]int)
	docFreq := make(map[string]int)

	for _, doc := range docs {
		seen := make(map[string]struct{})
		for _, tok := range tokenize(doc) {
			if _, ok := vocab[tok]; !ok {
				vocab[tok] = len(vocab)
			}
			if _, ok := seen[tok]; !ok {
				seen[tok] = struct{}{}
				docFreq[tok]++
			}
		}
	}

	// Smoothed IDF: ln((1+n)/(1+df)) + 1, never zero or negative.
	idf := make([]float64, len(vocab))
	n := float64(len(docs))
	for tok, idx := range vocab {
		idf[idx] = math.Log((1+n)/(1+float64(docFreq[tok]))) + 1
	}

	return &tfidfModel{vocab: vocab, idf: idf}
}

// transform maps a document to its L2-normalized TF-IDF vector.
func (m *tfidfModel) transform(doc string) []float64 {
	vec := make([]float64, len(m.vocab))
	if len(m.vocab) == 0 {
		return vec
	}

	for _, tok := range tokenize(doc) {
		if idx, ok := m.vocab[tok]; ok {
			vec[idx] += m.idf[idx]
		}
	}

	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec
}

// meanVector averages the given vectors element-wise. All vectors must
// share the same length; nil is returned for an empty input.
func meanVector(vectors [][]float64) []float64 {
	if len(vectors) == 0 {
		return nil
	}
	mean := make([]float64, len(vectors[0]))
	for _, vec := range vectors {
		for i, v := range vec {
			mean[i] += v
		}
	}
	for i := range mean {
		mean[i] /= float64(len(vectors))
	}
	return mean
}
