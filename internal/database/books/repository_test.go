package books

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/avolkau/bookcatalog/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	dbPath := "./test_books_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.Book{})
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, cleanup
}

func seedBooks(t *testing.T, repo *Repository) {
	t.Helper()

	fixtures := []entities.Book{
		{ISBN: "0380795272", Title: "Krondor: The Betrayal", Author: "Raymond E. Feist", Year: 1998},
		{ISBN: "1416949658", Title: "The Dark Is Rising", Author: "Susan Cooper", Year: 1973},
		{ISBN: "1857231082", Title: "The Dark Tower", Author: "Stephen King", Year: 1982},
	}
	for i := range fixtures {
		require.NoError(t, repo.SaveBook(&fixtures[i]))
	}
}

func TestRepository_GetBookByISBN(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	seedBooks(t, repo)

	book, err := repo.GetBookByISBN("0380795272")

	require.NoError(t, err)
	assert.Equal(t, "Krondor: The Betrayal", book.Title)
	assert.Equal(t, "Raymond E. Feist", book.Author)
	assert.Equal(t, 1998, book.Year)
}

func TestRepository_GetBookByISBN_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	seedBooks(t, repo)

	_, err := repo.GetBookByISBN("0000000000")

	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestRepository_GetBookByISBN_NoPartialMatch(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	seedBooks(t, repo)

	_, err := repo.GetBookByISBN("038079527")

	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestRepository_SearchByISBN_Substring(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	seedBooks(t, repo)

	results, err := repo.SearchByISBN("4949")

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "1416949658", results[0].ISBN)
}

func TestRepository_SearchByAuthor_Substring(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	seedBooks(t, repo)

	results, err := repo.SearchByAuthor("Feist")

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Raymond E. Feist", results[0].Author)
}

func TestRepository_SearchByTitle_MultipleMatches(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	seedBooks(t, repo)

	results, err := repo.SearchByTitle("Dark")

	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestRepository_SearchByTitle_NoMatches(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	seedBooks(t, repo)

	results, err := repo.SearchByTitle("Nonexistent")

	require.NoError(t, err)
	assert.Empty(t, results)
}
