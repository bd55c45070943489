package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soundpath/internal/domain"
	"soundpath/internal/service"
)

type memBookRepo struct {
	mu    sync.Mutex
	books map[string]domain.Book
	order []string
	seq   int
}

func newMemBookRepo() *memBookRepo { return &memBookRepo{books: map[string]domain.Book{}} }

func (r *memBookRepo) FindAll(_ context.Context) ([]domain.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Book, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.books[id])
	}
	return out, nil
}

func (r *memBookRepo) FindByID(_ context.Context, id string) (*domain.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.books[id]; ok {
		return &b, nil
	}
	return nil, nil
}

func (r *memBookRepo) Insert(_ context.Context, b domain.Book) (*domain.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	b.ID = fmt.Sprintf("%024x", r.seq)
	r.books[b.ID] = b
	r.order = append(r.order, b.ID)
	return &b, nil
}

func (r *memBookRepo) Update(_ context.Context, id string, u domain.BookUpdate) (*domain.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.books[id]
	if !ok {
		return nil, nil
	}
	if u.Title != nil {
		b.Title = *u.Title
	}
	if u.Author != nil {
		b.Author = *u.Author
	}
	if u.Year != nil {
		b.Year = *u.Year
	}
	if u.Genre != nil {
		b.Genre = *u.Genre
	}
	r.books[id] = b
	return &b, nil
}

func (r *memBookRepo) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.books[id]; !ok {
		return false, nil
	}
	delete(r.books, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true, nil
}

func newBooksEngine() (*gin.Engine, *memBookRepo) {
	repo := newMemBookRepo()
	h := NewBooks(service.NewBooks(repo, nil))
	r := gin.New()
	h.MountAPI(r.Group(""))
	return r, repo
}

func decodeBook(t *testing.T, data []byte) domain.Book {
	t.Helper()
	var b domain.Book
	require.NoError(t, json.Unmarshal(data, &b))
	return b
}

func TestBooks_CreateAndGet(t *testing.T) {
	r, _ := newBooksEngine()

	w := doJSON(r, http.MethodPost, "/books",
		`{"title":"Dune","author":"Herbert","year":1965,"genre":"sci-fi"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	created := decodeBook(t, w.Body.Bytes())
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Dune", created.Title)

	w = doJSON(r, http.MethodGet, "/books/"+created.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, created, decodeBook(t, w.Body.Bytes()))
}

func TestBooks_CreateValidation(t *testing.T) {
	r, repo := newBooksEngine()

	for _, body := range []string{
		`{}`,
		`{"title":"Dune"}`,
		`{"title":"Dune","author":"Herbert"}`,
		`not json`,
	} {
		w := doJSON(r, http.MethodPost, "/books", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body %q", body)
	}
	books, _ := repo.FindAll(context.Background())
	assert.Empty(t, books)
}

func TestBooks_List(t *testing.T) {
	r, _ := newBooksEngine()

	w := doJSON(r, http.MethodGet, "/books", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	doJSON(r, http.MethodPost, "/books", `{"title":"A","author":"X","year":2001}`)
	doJSON(r, http.MethodPost, "/books", `{"title":"B","author":"Y","year":2002}`)

	w = doJSON(r, http.MethodGet, "/books", "")
	require.Equal(t, http.StatusOK, w.Code)
	var books []domain.Book
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &books))
	require.Len(t, books, 2)
	assert.Equal(t, "A", books[0].Title)
	assert.Equal(t, "B", books[1].Title)
}

func TestBooks_NotFound(t *testing.T) {
	r, _ := newBooksEngine()

	// 合法但不存在的 id 与根本非法的 id 走同一个 404
	for _, id := range []string{"aaaaaaaaaaaaaaaaaaaaaaaa", "not-an-id"} {
		w := doJSON(r, http.MethodGet, "/books/"+id, "")
		assert.Equal(t, http.StatusNotFound, w.Code, "id %q", id)
		assert.JSONEq(t, `{"message":"Book not found"}`, w.Body.String())
	}
}

func TestBooks_Update(t *testing.T) {
	r, _ := newBooksEngine()

	w := doJSON(r, http.MethodPost, "/books", `{"title":"Dune","author":"Herbert","year":1965}`)
	require.Equal(t, http.StatusCreated, w.Code)
	id := decodeBook(t, w.Body.Bytes()).ID

	w = doJSON(r, http.MethodPut, "/books/"+id, `{"year":1966}`)
	require.Equal(t, http.StatusOK, w.Code)
	updated := decodeBook(t, w.Body.Bytes())
	assert.Equal(t, 1966, updated.Year)
	assert.Equal(t, "Dune", updated.Title, "untouched fields survive a partial update")

	w = doJSON(r, http.MethodPut, "/books/"+id, `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"No fields to update"}`, w.Body.String())

	w = doJSON(r, http.MethodPut, "/books/aaaaaaaaaaaaaaaaaaaaaaaa", `{"year":1}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBooks_Delete(t *testing.T) {
	r, _ := newBooksEngine()

	w := doJSON(r, http.MethodPost, "/books", `{"title":"Dune","author":"Herbert","year":1965}`)
	id := decodeBook(t, w.Body.Bytes()).ID

	w = doJSON(r, http.MethodDelete, "/books/"+id, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	w = doJSON(r, http.MethodDelete, "/books/"+id, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, http.MethodGet, "/books/"+id, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
