package http

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/avolkau/bookcatalog/internal/auth"
	"github.com/avolkau/bookcatalog/internal/database/books"
	"github.com/avolkau/bookcatalog/internal/database/reviews"
	"github.com/avolkau/bookcatalog/internal/entities"
	"github.com/avolkau/bookcatalog/internal/ratings"
)

// unknownField replaces empty catalog columns on the detail page.
const unknownField = "unknown"

// BooksController serves the search pages and the book detail page.
type BooksController struct {
	books          BookStore
	reviews        ReviewStore
	ratings        RatingsClient
	sessionManager *auth.SessionManager
}

// NewBooksController creates a new catalog controller.
func NewBooksController(bookStore BookStore, reviewStore ReviewStore, ratingsClient RatingsClient, sm *auth.SessionManager) *BooksController {
	return &BooksController{
		books:          bookStore,
		reviews:        reviewStore,
		ratings:        ratingsClient,
		sessionManager: sm,
	}
}

// SearchPage renders the bare search form.
func (bc *BooksController) SearchPage(c *gin.Context) {
	c.HTML(http.StatusOK, "search.html", gin.H{
		"Title":     "Search",
		"Flash":     bc.sessionManager.PopFlash(c.Request),
		"CSRFToken": auth.GetCSRFToken(c),
	})
}

// SearchISBN renders all books whose ISBN contains the submitted value.
func (bc *BooksController) SearchISBN(c *gin.Context) {
	bc.searchBy(c, "isbn", bc.books.SearchByISBN)
}

// SearchAuthor renders all books whose author contains the submitted value.
func (bc *BooksController) SearchAuthor(c *gin.Context) {
	bc.searchBy(c, "author", bc.books.SearchByAuthor)
}

// SearchTitle renders all books whose title contains the submitted value.
func (bc *BooksController) SearchTitle(c *gin.Context) {
	bc.searchBy(c, "title", bc.books.SearchByTitle)
}

// searchBy runs a substring search over one catalog column. An empty form
// field is a validation error rather than an empty result set.
func (bc *BooksController) searchBy(c *gin.Context, field string, search func(string) ([]entities.Book, error)) {
	value := c.PostForm(field)
	if value == "" {
		value = c.Query(field)
	}
	if value == "" {
		renderError(c, http.StatusBadRequest, field+" is required")
		return
	}

	results, err := search(value)
	if err != nil {
		renderError(c, http.StatusInternalServerError, "search failed")
		return
	}

	c.HTML(http.StatusOK, "search.html", gin.H{
		"Title":       "Search",
		"Books":       results,
		"ShowResults": true,
		"CSRFToken":   auth.GetCSRFToken(c),
	})
}

// BookDetail handles the POST from a clicked search result row.
func (bc *BooksController) BookDetail(c *gin.Context) {
	isbn := c.PostForm("selectedBook")
	if isbn == "" {
		renderError(c, http.StatusBadRequest, "Error passing data")
		return
	}
	bc.showBook(c, isbn)
}

// BookByISBN is the GET-friendly detail route; the post-rating redirect
// lands here.
func (bc *BooksController) BookByISBN(c *gin.Context) {
	bc.showBook(c, c.Param("isbn"))
}

// showBook assembles the detail page: local catalog row, local reviews and
// mean rating, and the external aggregate metrics. The external call is a
// single timeout-bounded attempt; on failure the page is discarded in
// favor of a generic API error.
func (bc *BooksController) showBook(c *gin.Context, isbn string) {
	book, err := bc.books.GetBookByISBN(isbn)
	if err != nil {
		if errors.Is(err, books.ErrBookNotFound) {
			renderError(c, http.StatusNotFound, "Book not in database")
			return
		}
		renderError(c, http.StatusInternalServerError, "failed to load book")
		return
	}

	reviewRows, err := bc.reviews.GetReviewsByISBN(isbn)
	if err != nil {
		renderError(c, http.StatusInternalServerError, "failed to load reviews")
		return
	}

	rating, err := bc.reviews.AverageRating(isbn)
	if err != nil {
		renderError(c, http.StatusInternalServerError, "failed to load rating")
		return
	}

	external, err := bc.ratings.GetRatings(c.Request.Context(), isbn)
	if err != nil {
		renderError(c, http.StatusBadGateway, "API error")
		return
	}

	averageRating := external.AverageRating
	if averageRating == "" {
		averageRating = ratings.NoRatingData
	}
	ratingsCount := ratings.NoRatingData
	if external.WorkRatingsCount != 0 {
		ratingsCount = strconv.Itoa(external.WorkRatingsCount)
	}

	title := book.Title
	if title == "" {
		title = unknownField
	}
	author := book.Author
	if author == "" {
		author = unknownField
	}
	year := unknownField
	if book.Year != 0 {
		year = strconv.Itoa(book.Year)
	}

	c.HTML(http.StatusOK, "book.html", gin.H{
		"Title":         title,
		"Author":        author,
		"Year":          year,
		"ISBN":          isbn,
		"Reviews":       reviewRows,
		"Rating":        rating,
		"AverageRating": averageRating,
		"RatingsCount":  ratingsCount,
		"Flash":         bc.sessionManager.PopFlash(c.Request),
		"CSRFToken":     auth.GetCSRFToken(c),
	})
}

// RateBook handles a rating/review submission. Each user gets one review
// per book; a duplicate loses at the database constraint.
func (bc *BooksController) RateBook(c *gin.Context) {
	isbn := c.PostForm("isbn")
	if isbn == "" {
		renderError(c, http.StatusBadRequest, "isbn is required")
		return
	}

	rating, err := strconv.Atoi(c.PostForm("rating"))
	if err != nil {
		renderError(c, http.StatusBadRequest, "rating is required")
		return
	}
	if rating < 1 || rating > 5 {
		renderError(c, http.StatusBadRequest, "rating must be between 1 and 5")
		return
	}

	review := c.PostForm("review")
	userID := GetUserID(c)

	if _, err := bc.reviews.CreateReview(isbn, userID, rating, review); err != nil {
		if errors.Is(err, reviews.ErrAlreadyReviewed) {
			renderError(c, http.StatusConflict, "you have already rated this book")
			return
		}
		renderError(c, http.StatusInternalServerError, "failed to save review")
		return
	}

	bc.sessionManager.Flash(c.Request, "Thank you for your opinion")
	c.Redirect(http.StatusFound, "/book/"+url.PathEscape(isbn))
}
