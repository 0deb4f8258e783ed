package http

import (
	"context"

	"github.com/avolkau/bookcatalog/internal/entities"
	"github.com/avolkau/bookcatalog/internal/ratings"
)

// This file consolidates the store interfaces used by HTTP controllers.
// Each controller depends only on the operations it actually uses.

// BookStore provides read access to the book catalog.
type BookStore interface {
	GetBookByISBN(isbn string) (*entities.Book, error)
	SearchByISBN(isbn string) ([]entities.Book, error)
	SearchByAuthor(author string) ([]entities.Book, error)
	SearchByTitle(title string) ([]entities.Book, error)
}

// ReviewStore provides review CRUD and rating aggregation.
type ReviewStore interface {
	CreateReview(isbn string, userID uint, rating int, text string) (*entities.Review, error)
	GetReviewsByISBN(isbn string) ([]entities.Review, error)
	CountByISBN(isbn string) (int64, error)
	AverageRating(isbn string) (string, error)
}

// RatingsClient fetches aggregate rating data from the external service.
type RatingsClient interface {
	GetRatings(ctx context.Context, isbn string) (*ratings.BookRatings, error)
}
