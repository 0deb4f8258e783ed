// Package books provides read access to the book catalog.
//
// The catalog is populated by an out-of-band import; this repository never
// writes to it.
package books

import (
	"errors"

	"gorm.io/gorm"

	"github.com/avolkau/bookcatalog/internal/entities"
)

// ErrBookNotFound is returned when no catalog row matches the ISBN.
var ErrBookNotFound = errors.New("book not in database")

// Repository handles catalog lookups and searches.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetBookByISBN retrieves a single book by its exact ISBN.
func (r *Repository) GetBookByISBN(isbn string) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Where("isbn = ?", isbn).First(&book).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return &book, nil
}

// SearchByISBN returns all books whose ISBN contains the given substring.
func (r *Repository) SearchByISBN(isbn string) ([]entities.Book, error) {
	return r.search("isbn", isbn)
}

// SearchByAuthor returns all books whose author contains the given substring.
func (r *Repository) SearchByAuthor(author string) ([]entities.Book, error) {
	return r.search("author", author)
}

// SearchByTitle returns all books whose title contains the given substring.
func (r *Repository) SearchByTitle(title string) ([]entities.Book, error) {
	return r.search("title", title)
}

func (r *Repository) search(column, value string) ([]entities.Book, error) {
	var results []entities.Book
	err := r.db.Where(column+" LIKE ?", "%"+value+"%").Find(&results).Error
	return results, err
}

// SaveBook inserts or updates a catalog row. Used by import tooling and
// tests; the request handlers never call it.
func (r *Repository) SaveBook(book *entities.Book) error {
	return r.db.Save(book).Error
}
