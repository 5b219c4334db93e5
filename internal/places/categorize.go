// Forkcast - Restaurant Discovery and Personalized Recommendations
// Copyright 2026 Forkcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/forkcast/forkcast

package places

import (
	"sort"
	"strings"
	"unicode"

	"github.com/forkcast/forkcast/internal/lexicon"
)

// ExtractCategories derives canonical category tags for a place from the
// search keyword, its text (name, reviews, vicinity, summary), its
// provider types, and finally from fuzzy-matching individual tokens
// against the tag names. The result is deduplicated and sorted.
func ExtractCategories(d *placeDetails, keyword string) []string {
	tags := make(map[string]struct{})

	for _, tag := range lexicon.CategoryForKeyword(keyword) {
		tags[tag] = struct{}{}
	}

	texts := []string{d.Name, d.Vicinity, d.EditorialSummary.Overview}
	for _, r := range d.Reviews {
		texts = append(texts, r.Text)
	}
	texts = append(texts, d.Types...)
	for _, text := range texts {
		for _, tag := range lexicon.CategoriesFromText(text) {
			tags[tag] = struct{}{}
		}
	}

	// Fuzzy pass: individual tokens that nearly match a tag name (e.g.
	// "japnese" in a review) still count.
	for _, token := range fuzzyTokens(d) {
		if tag, _ := lexicon.FuzzyCategory(token); tag != "" {
			tags[tag] = struct{}{}
		}
	}

	out := make([]string, 0, len(tags))
	for tag := range tags {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

// fuzzyTokens collects the alphanumeric-bearing tokens worth fuzzy
// matching: name and vicinity words, review words, and provider types.
func fuzzyTokens(d *placeDetails) []string {
	var tokens []string
	appendWords := func(text string) {
		for _, word := range strings.Fields(text) {
			if hasAlphanumeric(word) {
				tokens = append(tokens, word)
			}
		}
	}

	appendWords(d.Name)
	appendWords(d.Vicinity)
	for _, r := range d.Reviews {
		appendWords(r.Text)
	}
	tokens = append(tokens, d.Types...)
	return tokens
}

func hasAlphanumeric(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			return true
		}
	}
	return false
}
