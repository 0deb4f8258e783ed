// Package ratings fetches aggregate rating data for a book from the
// third-party ratings service.
package ratings

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avolkau/bookcatalog/internal/config"
)

// NoRatingData is substituted for rating fields the service does not have.
const NoRatingData = "No rating data"

const defaultTimeout = 10 * time.Second

// BookRatings holds the aggregate rating data for a single ISBN.
type BookRatings struct {
	AverageRating    string `json:"average_rating"`
	WorkRatingsCount int    `json:"work_ratings_count"`
}

// Client calls the ratings service. The call is synchronous and single
// attempt: a failure is surfaced to the caller, never retried. The HTTP
// client timeout bounds how long a slow upstream can hold a request.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewClient creates a ratings client from configuration.
func NewClient(cfg config.Ratings) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
	}
}

// GetRatings looks up aggregate rating data by ISBN. The first element of
// the response's book list is consumed; an empty list is an error.
func (c *Client) GetRatings(ctx context.Context, isbn string) (*BookRatings, error) {
	if isbn == "" {
		return nil, fmt.Errorf("isbn is required")
	}

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("isbns", isbn)
	reqURL := fmt.Sprintf("%s/book/review_counts.json?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "BookCatalog/1.0 (https://github.com/avolkau/bookcatalog)")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch rating data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var payload reviewCountsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if len(payload.Books) == 0 {
		return nil, fmt.Errorf("no rating data for ISBN %s", isbn)
	}

	book := payload.Books[0]
	return &BookRatings{
		AverageRating:    book.AverageRating,
		WorkRatingsCount: book.WorkRatingsCount,
	}, nil
}

// Ratings service response types (internal)

type reviewCountsResponse struct {
	Books []reviewCountsBook `json:"books"`
}

type reviewCountsBook struct {
	ID               int    `json:"id"`
	ISBN             string `json:"isbn"`
	ISBN13           string `json:"isbn13"`
	RatingsCount     int    `json:"ratings_count"`
	ReviewsCount     int    `json:"reviews_count"`
	AverageRating    string `json:"average_rating"`
	WorkRatingsCount int    `json:"work_ratings_count"`
	WorkReviewsCount int    `json:"work_reviews_count"`
}
