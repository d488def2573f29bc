package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/emzola/bookshelf/config"
	"github.com/emzola/bookshelf/internal/testutil"
	"github.com/emzola/bookshelf/service"
	"github.com/jellydator/ttlcache/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

const accountantHeroics = `{
	"isbn": "8675309",
	"amazon_url": "https://lilypad.com",
	"author": "Cyril Figis",
	"language": "english",
	"pages": 250,
	"publisher": "Lumpy Biscuit Publishing",
	"title": "Accountant Heroics",
	"year": 2010
}`

const awesomesauce = `{
	"amazon_url": "https://amazon.com/awesomesauce",
	"author": "Peter Haverford",
	"language": "English",
	"pages": 512,
	"publisher": "Best Publishing Co",
	"title": "Awesomesauce",
	"year": 2011
}`

func testConfig() config.Config {
	var cfg config.Config
	cfg.Server.Env = "test"
	return cfg
}

func newTestHandler(t *testing.T, cfg config.Config) (*Handler, *testutil.BookRepository) {
	t.Helper()
	repo := testutil.NewBookRepository(testutil.PrinciplesOfBookery())
	logger := testutil.DiscardLogger()
	limiters := ttlcache.New(ttlcache.WithTTL[string, *rate.Limiter](time.Minute))
	return New(cfg, logger, limiters, service.New(cfg, logger, repo)), repo
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m), rec.Body.String())
	return m
}

// errorOf returns the message and status carried by an error envelope.
func errorOf(t *testing.T, rec *httptest.ResponseRecorder) (interface{}, float64) {
	t.Helper()
	env := decodeBody(t, rec)
	inner, ok := env["error"].(map[string]interface{})
	require.True(t, ok, "no error envelope in %s", rec.Body.String())
	return inner["message"], inner["status"].(float64)
}

func TestListBooksHandler(t *testing.T) {
	h, repo := newTestHandler(t, testConfig())
	routes := h.Routes()

	rec := do(t, routes, http.MethodGet, "/books", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	books := decodeBody(t, rec)["books"].([]interface{})
	require.Len(t, books, 1)
	assert.Equal(t, "Peter Haverford", books[0].(map[string]interface{})["author"])

	t.Run("empty table lists an empty array", func(t *testing.T) {
		require.NoError(t, repo.DeleteBook(context.Background(), "1234567891"))
		rec := do(t, routes, http.MethodGet, "/books", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []interface{}{}, decodeBody(t, rec)["books"])
	})

	t.Run("repository failure", func(t *testing.T) {
		repo.Err = errors.New("connection refused")
		defer func() { repo.Err = nil }()
		rec := do(t, routes, http.MethodGet, "/books", "")
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		message, status := errorOf(t, rec)
		assert.Equal(t, "the server encountered a problem and could not process your request", message)
		assert.Equal(t, float64(http.StatusInternalServerError), status)
	})
}

func TestShowBookHandler(t *testing.T) {
	h, _ := newTestHandler(t, testConfig())
	routes := h.Routes()

	rec := do(t, routes, http.MethodGet, "/books/1234567891", "")
	require.Equal(t, http.StatusOK, rec.Code)
	book := decodeBody(t, rec)["book"].(map[string]interface{})
	assert.Equal(t, "The Principles of Bookery", book["title"])
	assert.Equal(t, float64(500), book["pages"])
	assert.Equal(t, "https://amazon.com/potato_pie", book["amazon_url"])

	rec = do(t, routes, http.MethodGet, "/books/75", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	message, status := errorOf(t, rec)
	assert.Equal(t, "there is no book with an isbn of '75'", message)
	assert.Equal(t, float64(http.StatusNotFound), status)
}

func TestCreateBookHandler(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		h, repo := newTestHandler(t, testConfig())
		routes := h.Routes()

		rec := do(t, routes, http.MethodPost, "/books", accountantHeroics)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		assert.Equal(t, "/books/8675309", rec.Header().Get("Location"))
		book := decodeBody(t, rec)["book"].(map[string]interface{})
		assert.Equal(t, "https://lilypad.com", book["amazon_url"])
		assert.Equal(t, "8675309", book["isbn"])
		assert.Equal(t, 2, repo.Len())

		rec = do(t, routes, http.MethodGet, "/books/8675309", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Cyril Figis", decodeBody(t, rec)["book"].(map[string]interface{})["author"])
	})

	t.Run("incomplete body", func(t *testing.T) {
		h, repo := newTestHandler(t, testConfig())
		rec := do(t, h.Routes(), http.MethodPost, "/books", `{"pages": 650}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		message, status := errorOf(t, rec)
		assert.Equal(t, float64(http.StatusBadRequest), status)
		messages, ok := message.([]interface{})
		require.True(t, ok, "validation message should be a list, got %T", message)
		require.Len(t, messages, 7)
		all := rec.Body.String()
		for _, field := range []string{"isbn", "amazon_url", "author", "language", "publisher", "title", "year"} {
			assert.Contains(t, all, field)
		}
		assert.Equal(t, 1, repo.Len())
	})

	t.Run("wrong types", func(t *testing.T) {
		h, _ := newTestHandler(t, testConfig())
		payload := strings.Replace(accountantHeroics, `"pages": 250`, `"pages": "250"`, 1)
		rec := do(t, h.Routes(), http.MethodPost, "/books", payload)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		message, _ := errorOf(t, rec)
		messages := message.([]interface{})
		require.Len(t, messages, 1)
		assert.True(t, strings.HasPrefix(messages[0].(string), "pages: "), messages[0])
	})

	t.Run("pages beyond float range", func(t *testing.T) {
		h, repo := newTestHandler(t, testConfig())
		payload := strings.Replace(accountantHeroics, `"pages": 250`, `"pages": 1e400`, 1)
		rec := do(t, h.Routes(), http.MethodPost, "/books", payload)
		require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		message, _ := errorOf(t, rec)
		assert.Equal(t, []interface{}{"pages: must be a 32-bit integer"}, message)
		assert.Equal(t, 1, repo.Len())
	})

	t.Run("null body", func(t *testing.T) {
		h, _ := newTestHandler(t, testConfig())
		rec := do(t, h.Routes(), http.MethodPost, "/books", "null")
		require.Equal(t, http.StatusBadRequest, rec.Code)
		message, _ := errorOf(t, rec)
		assert.Len(t, message, 8)
	})

	t.Run("malformed json", func(t *testing.T) {
		h, _ := newTestHandler(t, testConfig())
		rec := do(t, h.Routes(), http.MethodPost, "/books", `{"isbn": "1",`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		message, _ := errorOf(t, rec)
		assert.Equal(t, "body contains badly-formed JSON", message)
	})

	t.Run("empty body", func(t *testing.T) {
		h, _ := newTestHandler(t, testConfig())
		rec := do(t, h.Routes(), http.MethodPost, "/books", "")
		require.Equal(t, http.StatusBadRequest, rec.Code)
		message, _ := errorOf(t, rec)
		assert.Equal(t, "body must not be empty", message)
	})

	t.Run("body is not an object", func(t *testing.T) {
		h, _ := newTestHandler(t, testConfig())
		rec := do(t, h.Routes(), http.MethodPost, "/books", `["isbn"]`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("duplicate isbn", func(t *testing.T) {
		h, _ := newTestHandler(t, testConfig())
		payload := strings.Replace(accountantHeroics, "8675309", "1234567891", 1)
		rec := do(t, h.Routes(), http.MethodPost, "/books", payload)
		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestUpdateBookHandler(t *testing.T) {
	h, _ := newTestHandler(t, testConfig())
	routes := h.Routes()

	rec := do(t, routes, http.MethodPut, "/books/1234567891", awesomesauce)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	book := decodeBody(t, rec)["book"].(map[string]interface{})
	assert.Equal(t, "Awesomesauce", book["title"])
	assert.Equal(t, "1234567891", book["isbn"])
	assert.Equal(t, float64(512), book["pages"])

	rec = do(t, routes, http.MethodGet, "/books/1234567891", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Awesomesauce", decodeBody(t, rec)["book"].(map[string]interface{})["title"])

	t.Run("missing book", func(t *testing.T) {
		rec := do(t, routes, http.MethodPut, "/books/75", awesomesauce)
		require.Equal(t, http.StatusNotFound, rec.Code)
		message, _ := errorOf(t, rec)
		assert.Equal(t, "there is no book with an isbn of '75'", message)
	})

	t.Run("invalid body", func(t *testing.T) {
		rec := do(t, routes, http.MethodPut, "/books/1234567891", `{"title": "Awesomesauce"}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		message, status := errorOf(t, rec)
		assert.Equal(t, float64(http.StatusBadRequest), status)
		assert.Len(t, message, 6)
	})
}

func TestDeleteBookHandler(t *testing.T) {
	h, repo := newTestHandler(t, testConfig())
	routes := h.Routes()

	rec := do(t, routes, http.MethodDelete, "/books/1234567891", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Book deleted", decodeBody(t, rec)["message"])
	assert.Zero(t, repo.Len())

	rec = do(t, routes, http.MethodGet, "/books/1234567891", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, routes, http.MethodDelete, "/books/75", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	message, _ := errorOf(t, rec)
	assert.Equal(t, "there is no book with an isbn of '75'", message)
}
