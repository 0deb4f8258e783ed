// Package reviews provides database operations for book reviews and the
// rating aggregation used by the detail page and the public JSON API.
package reviews

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/avolkau/bookcatalog/internal/entities"
)

// NotRated is reported for books that have no reviews yet.
const NotRated = "Not Rated"

// ErrAlreadyReviewed is returned when the (isbn, user) unique constraint
// fires: each user gets one review per book.
var ErrAlreadyReviewed = errors.New("you have already rated this book")

// Repository handles all review database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new reviews repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateReview inserts a review row. Duplicate submissions for the same
// (isbn, user) pair are rejected by the database constraint, so concurrent
// identical submissions produce at most one winner.
func (r *Repository) CreateReview(isbn string, userID uint, rating int, text string) (*entities.Review, error) {
	review := &entities.Review{
		ISBN:   isbn,
		UserID: userID,
		Rating: rating,
		Text:   text,
	}

	if err := r.db.Create(review).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyReviewed
		}
		return nil, err
	}

	return review, nil
}

// GetReviewsByISBN returns every review for a book, newest first.
func (r *Repository) GetReviewsByISBN(isbn string) ([]entities.Review, error) {
	var results []entities.Review
	err := r.db.Where("isbn = ?", isbn).Order("created_at DESC").Find(&results).Error
	return results, err
}

// CountByISBN returns the number of reviews for a book.
func (r *Repository) CountByISBN(isbn string) (int64, error) {
	var count int64
	err := r.db.Model(&entities.Review{}).Where("isbn = ?", isbn).Count(&count).Error
	return count, err
}

// AverageRating computes the arithmetic mean rating for a book, formatted
// to one decimal place, or the NotRated sentinel when no reviews exist.
func (r *Repository) AverageRating(isbn string) (string, error) {
	count, err := r.CountByISBN(isbn)
	if err != nil {
		return "", err
	}
	if count == 0 {
		return NotRated, nil
	}

	var avg float64
	err = r.db.Model(&entities.Review{}).
		Where("isbn = ?", isbn).
		Select("AVG(rating)").
		Scan(&avg).Error
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%.1f", avg), nil
}
