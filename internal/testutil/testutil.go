// Package testutil provides fixtures and an in-memory repository for tests.
package testutil

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"

	"github.com/emzola/bookshelf/data"
	"github.com/emzola/bookshelf/internal/jsonlog"
	"github.com/emzola/bookshelf/repository"
)

// ErrDuplicateISBN mimics the unique-constraint error the database returns.
var ErrDuplicateISBN = errors.New(`pq: duplicate key value violates unique constraint "books_pkey"`)

// PrinciplesOfBookery returns the book every test suite starts with.
func PrinciplesOfBookery() *data.Book {
	return &data.Book{
		ISBN:      "1234567891",
		AmazonURL: "https://amazon.com/potato_pie",
		Author:    "Peter Haverford",
		Language:  "English",
		Pages:     500,
		Publisher: "Best Publishing Co",
		Title:     "The Principles of Bookery",
		Year:      2009,
	}
}

// DiscardLogger returns a logger that writes nowhere.
func DiscardLogger() *jsonlog.Logger {
	return jsonlog.New(io.Discard, jsonlog.LevelOff)
}

// BookRepository is an in-memory repository.Repository keyed by isbn.
// Setting Err makes every call fail with it.
type BookRepository struct {
	mu    sync.Mutex
	books map[string]data.Book
	Err   error
}

var _ repository.Repository = (*BookRepository)(nil)

// NewBookRepository returns a repository holding copies of books.
func NewBookRepository(books ...*data.Book) *BookRepository {
	r := &BookRepository{books: make(map[string]data.Book)}
	for _, b := range books {
		r.books[b.ISBN] = *b
	}
	return r
}

// Len returns the number of stored books.
func (r *BookRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.books)
}

func (r *BookRepository) CreateBook(ctx context.Context, book *data.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if _, ok := r.books[book.ISBN]; ok {
		return ErrDuplicateISBN
	}
	r.books[book.ISBN] = *book
	return nil
}

func (r *BookRepository) GetBook(ctx context.Context, isbn string) (*data.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	b, ok := r.books[isbn]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	return &b, nil
}

func (r *BookRepository) GetAllBooks(ctx context.Context) ([]*data.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	books := []*data.Book{}
	for _, b := range r.books {
		b := b
		books = append(books, &b)
	}
	sort.Slice(books, func(i, j int) bool {
		if books[i].Title != books[j].Title {
			return books[i].Title < books[j].Title
		}
		return books[i].ISBN < books[j].ISBN
	})
	return books, nil
}

func (r *BookRepository) UpdateBook(ctx context.Context, book *data.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if _, ok := r.books[book.ISBN]; !ok {
		return repository.ErrRecordNotFound
	}
	r.books[book.ISBN] = *book
	return nil
}

func (r *BookRepository) DeleteBook(ctx context.Context, isbn string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if _, ok := r.books[isbn]; !ok {
		return repository.ErrRecordNotFound
	}
	delete(r.books, isbn)
	return nil
}
