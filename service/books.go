package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/emzola/bookshelf/data"
	"github.com/emzola/bookshelf/internal/validator"
	"github.com/emzola/bookshelf/repository"
)

type books interface {
	ListBooks(ctx context.Context) ([]*data.Book, error)
	GetBook(ctx context.Context, isbn string) (*data.Book, error)
	CreateBook(ctx context.Context, requestBody map[string]interface{}) (*data.Book, error)
	UpdateBook(ctx context.Context, isbn string, requestBody map[string]interface{}) (*data.Book, error)
	DeleteBook(ctx context.Context, isbn string) error
}

// ListBooks service retrieves every book ordered by title.
func (s *service) ListBooks(ctx context.Context) ([]*data.Book, error) {
	return s.repo.GetAllBooks(ctx)
}

// GetBook service retrieves the details of a book.
func (s *service) GetBook(ctx context.Context, isbn string) (*data.Book, error) {
	book, err := s.repo.GetBook(ctx, isbn)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return book, nil
}

// CreateBook service validates a decoded request body and creates a new book.
// Validation failures are returned as *validator.ValidationError.
func (s *service) CreateBook(ctx context.Context, requestBody map[string]interface{}) (*data.Book, error) {
	if err := data.ValidateBook(data.ModeCreate, requestBody); err != nil {
		return nil, err
	}
	book, err := bookFromBody(requestBody)
	if err != nil {
		return nil, err
	}
	err = s.repo.CreateBook(ctx, book)
	if err != nil {
		return nil, err
	}
	s.logger.PrintDebug("book created", map[string]string{"isbn": book.ISBN})
	return book, nil
}

// UpdateBook service replaces every mutable field of a book. The isbn is taken from
// the caller, never from the request body.
func (s *service) UpdateBook(ctx context.Context, isbn string, requestBody map[string]interface{}) (*data.Book, error) {
	if err := data.ValidateBook(data.ModeUpdate, requestBody); err != nil {
		return nil, err
	}
	book, err := bookFromBody(requestBody)
	if err != nil {
		return nil, err
	}
	book.ISBN = isbn
	err = s.repo.UpdateBook(ctx, book)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	s.logger.PrintDebug("book updated", map[string]string{"isbn": book.ISBN})
	return book, nil
}

// DeleteBook service deletes a book.
func (s *service) DeleteBook(ctx context.Context, isbn string) error {
	err := s.repo.DeleteBook(ctx, isbn)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return ErrRecordNotFound
		default:
			return err
		}
	}
	s.logger.PrintDebug("book deleted", map[string]string{"isbn": isbn})
	return nil
}

// bookFromBody converts a request body that already passed schema validation into a Book.
// Integers arrive as json.Number and may carry a zero fraction such as 250.0.
func bookFromBody(requestBody map[string]interface{}) (*data.Book, error) {
	pages, err := intField(requestBody, "pages")
	if err != nil {
		return nil, err
	}
	year, err := intField(requestBody, "year")
	if err != nil {
		return nil, err
	}
	isbn, _ := requestBody["isbn"].(string)
	return &data.Book{
		ISBN:      isbn,
		AmazonURL: stringField(requestBody, "amazon_url"),
		Author:    stringField(requestBody, "author"),
		Language:  stringField(requestBody, "language"),
		Pages:     pages,
		Publisher: stringField(requestBody, "publisher"),
		Title:     stringField(requestBody, "title"),
		Year:      year,
	}, nil
}

func stringField(body map[string]interface{}, key string) string {
	s, _ := body[key].(string)
	return s
}

func intField(body map[string]interface{}, key string) (int, error) {
	var f float64
	switch v := body[key].(type) {
	case json.Number:
		n, err := v.Float64()
		if err != nil {
			return 0, outOfRange(key)
		}
		f = n
	case float64:
		f = v
	default:
		return 0, fmt.Errorf("book field %s: unexpected type %T", key, v)
	}
	if f < math.MinInt32 || f > math.MaxInt32 {
		return 0, outOfRange(key)
	}
	return int(f), nil
}

func outOfRange(key string) error {
	return &validator.ValidationError{Messages: []string{key + ": must be a 32-bit integer"}}
}
