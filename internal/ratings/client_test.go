package ratings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/avolkau/bookcatalog/internal/config"
)

func newTestClient(baseURL string) *Client {
	return NewClient(config.Ratings{
		BaseURL: baseURL,
		APIKey:  "test-key",
		Timeout: 5 * time.Second,
	})
}

func TestGetRatings(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/book/review_counts.json" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.URL.Query().Get("key") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Query().Get("isbns") != "9781632168146" {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		response := reviewCountsResponse{
			Books: []reviewCountsBook{
				{
					ISBN:             "1632168146",
					ISBN13:           "9781632168146",
					AverageRating:    "4.56",
					WorkRatingsCount: 29625,
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	ratings, err := client.GetRatings(context.Background(), "9781632168146")
	if err != nil {
		t.Fatalf("GetRatings failed: %v", err)
	}

	if ratings.AverageRating != "4.56" {
		t.Errorf("expected average rating '4.56', got %q", ratings.AverageRating)
	}
	if ratings.WorkRatingsCount != 29625 {
		t.Errorf("expected 29625 ratings, got %d", ratings.WorkRatingsCount)
	}
}

func TestGetRatings_EmptyBookList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(reviewCountsResponse{Books: []reviewCountsBook{}})
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.GetRatings(context.Background(), "0000000000")
	if err == nil {
		t.Error("expected error for empty book list")
	}
}

func TestGetRatings_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.GetRatings(context.Background(), "9781632168146")
	if err == nil {
		t.Error("expected error for upstream 500")
	}
}

func TestGetRatings_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.GetRatings(context.Background(), "9781632168146")
	if err == nil {
		t.Error("expected error for malformed response")
	}
}

func TestGetRatings_EmptyISBN(t *testing.T) {
	client := newTestClient("http://localhost:0")

	_, err := client.GetRatings(context.Background(), "")
	if err == nil {
		t.Error("expected error for empty ISBN")
	}
}

func TestGetRatings_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.GetRatings(ctx, "9781632168146")
	if err == nil {
		t.Error("expected error for cancelled context")
	}
}
