// Forkcast - Restaurant Discovery and Personalized Recommendations
// Copyright 2026 Forkcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/forkcast/forkcast

package lexicon

import "strings"

// fuzzyThreshold is the minimum similarity ratio (0-100) for a token to be
// accepted as a fuzzy match against a canonical tag.
const fuzzyThreshold = 80

// FuzzyCategory finds the canonical tag most similar to the given term using
// a Levenshtein similarity ratio. It returns the tag and its score, or
// ("", score) when no tag clears the threshold.
func FuzzyCategory(term string) (string, int) {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return "", 0
	}

	bestTag := ""
	bestScore := 0
	for _, tag := range CategoryKeys {
		score := similarityRatio(term, tag)
		if score > bestScore {
			bestScore = score
			bestTag = tag
		}
	}

	if bestScore < fuzzyThreshold {
		return "", bestScore
	}
	return bestTag, bestScore
}

// similarityRatio computes a 0-100 similarity score between two strings
// based on Levenshtein edit distance over the combined length.
func similarityRatio(a, b string) int {
	if a == b {
		return 100
	}
	total := len(a) + len(b)
	if total == 0 {
		return 100
	}
	dist := levenshtein(a, b)
	score := int(float64(total-2*dist) / float64(total) * 100)
	if score < 0 {
		score = 0
	}
	return score
}

// levenshtein computes the edit distance between two strings using a
// single-row dynamic programming table.
func levenshtein(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	row := make([]int, len(rb)+1)
	for j := range row {
		row[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		prev := row[0]
		row[0] = i
		for j := 1; j <= len(rb); j++ {
			cur := row[j]
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			row[j] = minInt(row[j]+1, minInt(row[j-1]+1, prev+cost))
			prev = cur
		}
	}
	return row[len(rb)]
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
