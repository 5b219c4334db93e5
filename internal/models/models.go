// Forkcast - Restaurant Discovery and Personalized Recommendations
// Copyright 2026 Forkcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/forkcast/forkcast

// Package models defines the wire types shared by the API layer, the
// recommendation engine, and the storage layer.
package models

import "time"

// Review is a single user review attached to a restaurant.
type Review struct {
	Author       string  `json:"author"`
	Rating       float64 `json:"rating"`
	Text         string  `json:"text"`
	RelativeTime string  `json:"relative_time,omitempty"`
}

// Restaurant is the canonical restaurant record exchanged with clients
// and scored by the recommendation pipeline.
//
// Rating and PriceLevel are pointers because upstream place data routinely
// omits them; the scorers and the feature extractor apply their own
// defaults for missing values.
type Restaurant struct {
	PlaceID          string   `json:"place_id" validate:"required"`
	Name             string   `json:"name"`
	Categories       []string `json:"categories"`
	Address          string   `json:"address,omitempty"`
	Latitude         float64  `json:"latitude,omitempty"`
	Longitude        float64  `json:"longitude,omitempty"`
	Rating           *float64 `json:"rating,omitempty"`
	UserRatingsTotal int      `json:"user_ratings_total,omitempty"`
	PriceLevel       *int     `json:"price_level,omitempty"`
	EditorialSummary string   `json:"editorial_summary,omitempty"`
	Reviews          []Review `json:"reviews,omitempty"`
	Photos           []string `json:"photos,omitempty"`
	URL              string   `json:"url,omitempty"`
	PhoneNumber      string   `json:"phone_number,omitempty"`
	Website          string   `json:"website,omitempty"`
	OpeningHours     []string `json:"opening_hours,omitempty"`
	OpeningStatus    bool     `json:"opening_status,omitempty"`
	BusinessStatus   string   `json:"business_status,omitempty"`
	Types            []string `json:"types,omitempty"`
	Delivery         *bool    `json:"delivery,omitempty"`
	Takeout          *bool    `json:"takeout,omitempty"`
}

// FavoriteRef identifies a restaurant a user has favorited.
type FavoriteRef struct {
	PlaceID string `json:"place_id" validate:"required"`
	Name    string `json:"name,omitempty"`
}

// UserProfile carries the per-user signals the recommenders consume:
// category preferences, hard dietary restrictions, and favorites.
type UserProfile struct {
	UID          string        `json:"uid" validate:"required"`
	Preferences  []string      `json:"preferences"`
	Restrictions []string      `json:"restrictions"`
	Favourites   []FavoriteRef `json:"favourites"`
	UpdatedAt    time.Time     `json:"updated_at,omitempty"`
}

// FavoritePlaceIDs returns the set of place IDs the user has favorited.
// Malformed entries (missing place_id) are skipped.
func (p *UserProfile) FavoritePlaceIDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(p.Favourites))
	for _, fav := range p.Favourites {
		if fav.PlaceID != "" {
			ids[fav.PlaceID] = struct{}{}
		}
	}
	return ids
}

// FeedbackAction is a user reaction to a recommended restaurant.
type FeedbackAction string

// Feedback actions, in Q-value output order.
const (
	ActionLike         FeedbackAction = "like"
	ActionDislike      FeedbackAction = "dislike"
	ActionClickDetails FeedbackAction = "click_details"
	ActionSkip         FeedbackAction = "skip"
)

// FeedbackEvent is a persisted record of a single user reaction.
type FeedbackEvent struct {
	ID             string         `json:"id"`
	UserID         string         `json:"user_id"`
	PlaceID        string         `json:"place_id"`
	RestaurantName string         `json:"restaurant_name,omitempty"`
	Action         FeedbackAction `json:"action"`
	Reward         float64        `json:"reward"`
	CreatedAt      time.Time      `json:"created_at"`
}

// APIResponse is the envelope for all API responses.
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
}

// APIError represents an error response with structured details.
//
// Common codes: VALIDATION_ERROR, NOT_FOUND, UPSTREAM_ERROR,
// INTERNAL_ERROR, RATE_LIMIT_EXCEEDED.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
