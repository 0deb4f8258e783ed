package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avolkau/bookcatalog/internal/database/books"
)

// BookAPIResponse is the public JSON representation of a catalog entry,
// built from local data only (no external call).
type BookAPIResponse struct {
	ISBN        string `json:"isbn"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Year        int    `json:"year"`
	ReviewCount int64  `json:"review_count"`
	Rating      string `json:"rating"`
}

// APIController serves the unauthenticated JSON API.
type APIController struct {
	books   BookStore
	reviews ReviewStore
}

// NewAPIController creates a new public API controller.
func NewAPIController(bookStore BookStore, reviewStore ReviewStore) *APIController {
	return &APIController{
		books:   bookStore,
		reviews: reviewStore,
	}
}

// GetBook returns catalog data plus the local review count and mean rating
// for an ISBN. Unknown ISBNs get a JSON error object with no book fields.
func (ac *APIController) GetBook(c *gin.Context) {
	isbn := c.Param("isbn")

	book, err := ac.books.GetBookByISBN(isbn)
	if err != nil {
		if errors.Is(err, books.ErrBookNotFound) {
			respondNotFound(c, "book not in database")
			return
		}
		respondInternalError(c, err, "api book lookup")
		return
	}

	count, err := ac.reviews.CountByISBN(isbn)
	if err != nil {
		respondInternalError(c, err, "api review count")
		return
	}

	rating, err := ac.reviews.AverageRating(isbn)
	if err != nil {
		respondInternalError(c, err, "api rating")
		return
	}

	c.JSON(http.StatusOK, BookAPIResponse{
		ISBN:        book.ISBN,
		Title:       book.Title,
		Author:      book.Author,
		Year:        book.Year,
		ReviewCount: count,
		Rating:      rating,
	})
}
