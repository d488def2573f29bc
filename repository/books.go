package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/emzola/bookshelf/data"
)

type books interface {
	CreateBook(ctx context.Context, book *data.Book) error
	GetBook(ctx context.Context, isbn string) (*data.Book, error)
	GetAllBooks(ctx context.Context) ([]*data.Book, error)
	UpdateBook(ctx context.Context, book *data.Book) error
	DeleteBook(ctx context.Context, isbn string) error
}

// CreateBook creates a new book record. A duplicate isbn surfaces as the driver's
// unique-constraint error.
func (r *repository) CreateBook(ctx context.Context, book *data.Book) error {
	query := `
		INSERT INTO books (isbn, amazon_url, author, language, pages, publisher, title, year)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING isbn, amazon_url, author, language, pages, publisher, title, year`
	args := []interface{}{
		book.ISBN,
		book.AmazonURL,
		book.Author,
		book.Language,
		book.Pages,
		book.Publisher,
		book.Title,
		book.Year,
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	return r.db.QueryRowContext(ctx, query, args...).Scan(bookDest(book)...)
}

// GetBook retrieves a book record by its isbn.
func (r *repository) GetBook(ctx context.Context, isbn string) (*data.Book, error) {
	query := `
		SELECT isbn, amazon_url, author, language, pages, publisher, title, year
		FROM books
		WHERE isbn = $1`
	var book data.Book
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, isbn).Scan(bookDest(&book)...)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &book, nil
}

// GetAllBooks retrieves every book record ordered by title.
func (r *repository) GetAllBooks(ctx context.Context) ([]*data.Book, error) {
	query := `
		SELECT isbn, amazon_url, author, language, pages, publisher, title, year
		FROM books
		ORDER BY title ASC, isbn ASC`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	books := []*data.Book{}
	for rows.Next() {
		var book data.Book
		if err := rows.Scan(bookDest(&book)...); err != nil {
			return nil, err
		}
		books = append(books, &book)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return books, nil
}

// UpdateBook overwrites every mutable field of the book identified by book.ISBN.
func (r *repository) UpdateBook(ctx context.Context, book *data.Book) error {
	query := `
		UPDATE books
		SET amazon_url = $1, author = $2, language = $3, pages = $4, publisher = $5, title = $6, year = $7
		WHERE isbn = $8
		RETURNING isbn, amazon_url, author, language, pages, publisher, title, year`
	args := []interface{}{
		book.AmazonURL,
		book.Author,
		book.Language,
		book.Pages,
		book.Publisher,
		book.Title,
		book.Year,
		book.ISBN,
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(bookDest(book)...)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrRecordNotFound
		default:
			return err
		}
	}
	return nil
}

// DeleteBook deletes a book record.
func (r *repository) DeleteBook(ctx context.Context, isbn string) error {
	query := `
		DELETE FROM books
		WHERE isbn = $1`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	result, err := r.db.ExecContext(ctx, query, isbn)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// bookDest lists scan destinations in the column order used by every query above.
func bookDest(book *data.Book) []interface{} {
	return []interface{}{
		&book.ISBN,
		&book.AmazonURL,
		&book.Author,
		&book.Language,
		&book.Pages,
		&book.Publisher,
		&book.Title,
		&book.Year,
	}
}
