// Forkcast - Restaurant Discovery and Personalized Recommendations
// Copyright 2026 Forkcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/forkcast/forkcast

// Package lexicon defines the canonical restaurant category vocabulary.
//
// The category dictionary is the single source of truth for category
// definitions. Every component that tags, filters, or vectorizes
// restaurants (content scoring, feature extraction, place enrichment)
// works against the same canonical tag set so that one-hot positions and
// category comparisons stay consistent across the system.
package lexicon

import (
	"sort"
	"strings"
)

// CategoryDict maps each canonical category tag to the keywords that imply it.
// Keywords are matched case-insensitively as substrings of place text
// (name, reviews, types, vicinity, summary).
var CategoryDict = map[string][]string{
	"halal":      {"halal", "muslim-friendly", "muslim", "halal-certified", "shariah-compliant"},
	"vegetarian": {"vege", "vegetarian", "vegan", "vegetarian-friendly", "vegetarian option", "meat-free"},
	"vegan":      {"vegan", "plant-based", "vegan-friendly", "cruelty-free", "dairy-free"},
	"beef-free":  {"beef-free", "no beef", "without beef", "beefless"},
	"chinese":    {"chinese", "szechuan", "dim sum", "cantonese", "dumplings", "fried rice", "chicken rice", "charsiew", "horfun", "kopitiam", "mala"},
	"malay":      {"nasi lemak", "satay", "rendang", "keropok", "nasi kerabu", "roti jala"},
	"indian":     {"indian restaurant", "khorma", "masala", "naan", "briyani", "tandoori", "nasi kandar"},
	"korean":     {"korean", "kimchi", "bibimbap", "bulgogi", "tteokbokki", "jajangmyeon", "samgyeopsal"},
	"japanese":   {"japan", "japanese", "sushi", "wasabi", "udon", "miso", "shabu-shabu", "bento", "sukiya", "takoyaki", "onigiri"},
	"thai":       {"thai", "pad thai", "green curry", "tom yum", "som tam", "satay", "red curry"},
	"western":    {"western", "steak", "burger", "pasta", "pizza", "fish n' chips"},
	"eastern":    {"eastern cuisine", "middle eastern", "falafel", "shawarma", "hummus", "kebab"},
	"cafe":       {"café", "coffee shop", "espresso", "latte", "pastry", "bakery", "barista"},
	"bar":        {"bar", "pub", "tavern", "brewery", "cocktail"},
	"buffet":     {"buffet", "all-you-can-eat", "unlimited food", "buffet-style"},
	"fast-food":  {"fast food", "drive-thru", "mcdonald's", "kfc", "burger king", "a&w", "taco bell", "subway", "pizza hut", "domino's", "texas chicken"},
}

// CategoryKeys is the sorted list of canonical category tags.
// One-hot vectors index into this slice, so its order must be stable.
var CategoryKeys = sortedKeys(CategoryDict)

// ExcludedPlaceTypes lists provider place types that are never restaurants
// worth recommending. Places carrying any of these types are dropped.
var ExcludedPlaceTypes = []string{
	"gas_station", "lodging", "convenience_store", "car_repair", "car_wash", "parking",
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsCanonical reports whether tag is a canonical category key.
func IsCanonical(tag string) bool {
	_, ok := CategoryDict[tag]
	return ok
}

// CategoriesFromText returns the canonical tags whose keywords appear as
// substrings of the given text. Matching is case-insensitive.
func CategoriesFromText(text string) []string {
	if text == "" {
		return nil
	}
	lower := strings.ToLower(text)

	var tags []string
	for _, tag := range CategoryKeys {
		for _, kw := range CategoryDict[tag] {
			if strings.Contains(lower, kw) {
				tags = append(tags, tag)
				break
			}
		}
	}
	return tags
}

// CategoryForKeyword returns the canonical tags whose keyword lists contain
// the given search keyword exactly (case-insensitive).
func CategoryForKeyword(keyword string) []string {
	if keyword == "" {
		return nil
	}
	lower := strings.ToLower(keyword)

	var tags []string
	for _, tag := range CategoryKeys {
		for _, kw := range CategoryDict[tag] {
			if kw == lower {
				tags = append(tags, tag)
				break
			}
		}
	}
	return tags
}

// IsExcludedType reports whether any of the place types is in the
// exclusion list.
func IsExcludedType(placeTypes []string) bool {
	for _, t := range placeTypes {
		for _, excluded := range ExcludedPlaceTypes {
			if t == excluded {
				return true
			}
		}
	}
	return false
}
