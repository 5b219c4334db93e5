// Forkcast - Restaurant Discovery and Personalized Recommendations
// Copyright 2026 Forkcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/forkcast/forkcast

// Package places fetches nearby restaurants from the Google Places API
// and enriches them into canonical restaurant records: excluded place
// types and closed businesses are dropped, details are resolved per
// place, and category tags are extracted from the place text.
//
// Upstream calls are paced with a token-bucket rate limiter and guarded
// by a circuit breaker so a degraded provider fails fast instead of
// stalling request handlers.
package places

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/forkcast/forkcast/internal/lexicon"
	"github.com/forkcast/forkcast/internal/models"
)

// detailsFields lists the place detail fields requested upstream.
const detailsFields = "name,place_id,rating,user_ratings_total,price_level," +
	"formatted_address,vicinity,geometry,website,formatted_phone_number," +
	"opening_hours,reviews,photo,url,editorial_summary,type,delivery,takeout,business_status"

// Config holds Places client configuration.
type Config struct {
	// APIKey authenticates against the provider.
	APIKey string

	// BaseURL is the provider API root.
	// Default: https://maps.googleapis.com/maps/api/place
	BaseURL string

	// Timeout bounds each upstream HTTP call. Default: 10s
	Timeout time.Duration

	// RequestsPerSecond paces upstream calls. Default: 10
	RequestsPerSecond float64

	// Burst is the rate limiter burst size. Default: 10
	Burst int

	// MaxPages caps nearby-search pagination. Default: 3
	MaxPages int

	// PageDelay is the wait before using a next-page token; the provider
	// activates tokens with a short lag. Default: 2s
	PageDelay time.Duration
}

// applyDefaults fills zero fields with defaults.
func (c Config) applyDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = "https://maps.googleapis.com/maps/api/place"
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.RequestsPerSecond <= 0 {
		c.RequestsPerSecond = 10
	}
	if c.Burst <= 0 {
		c.Burst = 10
	}
	if c.MaxPages <= 0 {
		c.MaxPages = 3
	}
	if c.PageDelay < 0 {
		c.PageDelay = 0
	} else if c.PageDelay == 0 {
		c.PageDelay = 2 * time.Second
	}
	return c
}

// Client talks to the Places API.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[[]byte]
	logger  zerolog.Logger
}

// NewClient creates a Places client.
func NewClient(cfg Config, logger zerolog.Logger) *Client {
	cfg = cfg.applyDefaults()
	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		breaker: gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
			Name:    "places",
			Timeout: 30 * time.Second,
		}),
		logger: logger.With().Str("component", "places").Logger(),
	}
}

// nearbyResponse is the provider's nearby-search payload.
type nearbyResponse struct {
	Status        string        `json:"status"`
	Results       []nearbyPlace `json:"results"`
	NextPageToken string        `json:"next_page_token"`
	ErrorMessage  string        `json:"error_message"`
}

type nearbyPlace struct {
	PlaceID        string   `json:"place_id"`
	Name           string   `json:"name"`
	Types          []string `json:"types"`
	BusinessStatus string   `json:"business_status"`
	Vicinity       string   `json:"vicinity"`
}

// detailsResponse is the provider's place-details payload.
type detailsResponse struct {
	Status       string       `json:"status"`
	Result       placeDetails `json:"result"`
	ErrorMessage string       `json:"error_message"`
}

type placeDetails struct {
	PlaceID              string       `json:"place_id"`
	Name                 string       `json:"name"`
	Rating               *float64     `json:"rating"`
	UserRatingsTotal     int          `json:"user_ratings_total"`
	PriceLevel           *int         `json:"price_level"`
	FormattedAddress     string       `json:"formatted_address"`
	Vicinity             string       `json:"vicinity"`
	Geometry             geometry     `json:"geometry"`
	Website              string       `json:"website"`
	FormattedPhoneNumber string       `json:"formatted_phone_number"`
	OpeningHours         openingHours `json:"opening_hours"`
	Reviews              []review     `json:"reviews"`
	Photos               []photo      `json:"photos"`
	URL                  string       `json:"url"`
	EditorialSummary     summary      `json:"editorial_summary"`
	Types                []string     `json:"types"`
	Delivery             *bool        `json:"delivery"`
	Takeout              *bool        `json:"takeout"`
	BusinessStatus       string       `json:"business_status"`
}

type geometry struct {
	Location struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"location"`
}

type openingHours struct {
	OpenNow     bool     `json:"open_now"`
	WeekdayText []string `json:"weekday_text"`
}

type review struct {
	AuthorName              string  `json:"author_name"`
	Rating                  float64 `json:"rating"`
	Text                    string  `json:"text"`
	RelativeTimeDescription string  `json:"relative_time_description"`
}

type photo struct {
	PhotoReference string `json:"photo_reference"`
}

type summary struct {
	Overview string `json:"overview"`
}

// NearbyRestaurants finds operational restaurants near the coordinates,
// resolves their details, and returns enriched records. Places with an
// excluded type or no rating are dropped; a failed details lookup skips
// that place rather than failing the whole search.
func (c *Client) NearbyRestaurants(ctx context.Context, lat, lng float64, radius int, keyword string) ([]models.Restaurant, error) {
	places, err := c.searchNearby(ctx, lat, lng, radius, keyword)
	if err != nil {
		return nil, err
	}

	restaurants := make([]models.Restaurant, 0, len(places))
	for i := range places {
		place := &places[i]
		if place.PlaceID == "" {
			continue
		}
		if lexicon.IsExcludedType(place.Types) || !strings.EqualFold(place.BusinessStatus, "OPERATIONAL") {
			continue
		}

		details, err := c.placeDetails(ctx, place.PlaceID)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.Warn().Err(err).Str("place_id", place.PlaceID).Msg("skipping place, details unavailable")
			continue
		}
		if details.Rating == nil {
			// Unrated places carry no quality signal for scoring.
			c.logger.Debug().Str("place_id", place.PlaceID).Msg("skipping unrated place")
			continue
		}

		restaurants = append(restaurants, buildRestaurant(details, keyword))
	}

	c.logger.Info().
		Int("found", len(places)).
		Int("kept", len(restaurants)).
		Str("keyword", keyword).
		Msg("nearby search complete")
	return restaurants, nil
}

// searchNearby runs the paginated nearby search.
func (c *Client) searchNearby(ctx context.Context, lat, lng float64, radius int, keyword string) ([]nearbyPlace, error) {
	params := url.Values{}
	params.Set("location", fmt.Sprintf("%f,%f", lat, lng))
	params.Set("radius", strconv.Itoa(radius))
	params.Set("type", "restaurant")
	params.Set("key", c.cfg.APIKey)
	if keyword != "" {
		params.Set("keyword", keyword)
	}

	var all []nearbyPlace
	endpoint := c.cfg.BaseURL + "/nearbysearch/json"
	for page := 0; page < c.cfg.MaxPages; page++ {
		body, err := c.get(ctx, endpoint+"?"+params.Encode())
		if err != nil {
			return nil, fmt.Errorf("places: nearby search: %w", err)
		}

		var resp nearbyResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("places: decoding nearby response: %w", err)
		}
		if resp.Status != "OK" && resp.Status != "ZERO_RESULTS" {
			return nil, fmt.Errorf("places: nearby search status %s: %s", resp.Status, resp.ErrorMessage)
		}

		all = append(all, resp.Results...)
		if resp.NextPageToken == "" {
			break
		}

		// The provider needs a moment before a page token becomes valid.
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.cfg.PageDelay):
		}
		params = url.Values{}
		params.Set("pagetoken", resp.NextPageToken)
		params.Set("key", c.cfg.APIKey)
	}
	return all, nil
}

// placeDetails resolves full details for one place.
func (c *Client) placeDetails(ctx context.Context, placeID string) (*placeDetails, error) {
	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", detailsFields)
	params.Set("key", c.cfg.APIKey)

	body, err := c.get(ctx, c.cfg.BaseURL+"/details/json?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("places: details: %w", err)
	}

	var resp detailsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("places: decoding details response: %w", err)
	}
	if resp.Status != "OK" {
		return nil, fmt.Errorf("places: details status %s: %s", resp.Status, resp.ErrorMessage)
	}
	if resp.Result.PlaceID == "" {
		resp.Result.PlaceID = placeID
	}
	return &resp.Result, nil
}

// get performs one rate-limited, breaker-guarded HTTP GET.
func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	return c.breaker.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, err
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
		return io.ReadAll(resp.Body)
	})
}

// buildRestaurant maps provider details onto the canonical record.
func buildRestaurant(d *placeDetails, keyword string) models.Restaurant {
	const maxReviews, maxPhotos = 3, 3

	address := d.FormattedAddress
	if address == "" {
		address = d.Vicinity
	}

	reviews := make([]models.Review, 0, maxReviews)
	for i, r := range d.Reviews {
		if i >= maxReviews {
			break
		}
		reviews = append(reviews, models.Review{
			Author:       cleanText(r.AuthorName),
			Rating:       r.Rating,
			Text:         cleanText(r.Text),
			RelativeTime: r.RelativeTimeDescription,
		})
	}

	photos := make([]string, 0, maxPhotos)
	for i, p := range d.Photos {
		if i >= maxPhotos {
			break
		}
		if p.PhotoReference != "" {
			photos = append(photos, p.PhotoReference)
		}
	}

	hours := make([]string, 0, len(d.OpeningHours.WeekdayText))
	for _, h := range d.OpeningHours.WeekdayText {
		hours = append(hours, cleanText(h))
	}

	status := d.BusinessStatus
	if status == "" {
		status = "OPERATIONAL"
	}

	return models.Restaurant{
		PlaceID:          d.PlaceID,
		Name:             cleanText(d.Name),
		Categories:       ExtractCategories(d, keyword),
		Address:          cleanText(address),
		Latitude:         d.Geometry.Location.Lat,
		Longitude:        d.Geometry.Location.Lng,
		Rating:           d.Rating,
		UserRatingsTotal: d.UserRatingsTotal,
		PriceLevel:       d.PriceLevel,
		EditorialSummary: cleanText(d.EditorialSummary.Overview),
		Reviews:          reviews,
		Photos:           photos,
		URL:              d.URL,
		PhoneNumber:      d.FormattedPhoneNumber,
		Website:          d.Website,
		OpeningHours:     hours,
		OpeningStatus:    d.OpeningHours.OpenNow,
		BusinessStatus:   status,
		Types:            d.Types,
		Delivery:         d.Delivery,
		Takeout:          d.Takeout,
	}
}

// cleanText normalizes dashes and strips non-printable characters so
// downstream JSON stays clean regardless of what the provider returns.
func cleanText(text string) string {
	if text == "" {
		return ""
	}
	text = strings.ReplaceAll(text, "–", "-")
	text = strings.ReplaceAll(text, "—", "-")
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == '\t' {
			return r
		}
		if r < 0x20 || r > 0x7e {
			return -1
		}
		return r
	}, text)
}
