package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/emzola/bookshelf/internal/validator"
	"github.com/emzola/bookshelf/service"
)

// ListBooks godoc
// @Summary List all books
// @Description This endpoint lists every book ordered by title
// @Tags books
// @Produce json
// @Success 200 {array} data.Book
// @Failure 500
// @Router /books [get]
func (h *Handler) listBooksHandler(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.ListBooks(r.Context())
	if err != nil {
		h.serverErrorResponse(w, r, err)
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"books": books}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// ShowBook godoc
// @Summary Show details of a book
// @Description This endpoint shows the details of the book with the given isbn
// @Tags books
// @Produce json
// @Param isbn path string true "ISBN of book to show"
// @Success 200 {object} data.Book
// @Failure 404
// @Failure 500
// @Router /books/{isbn} [get]
func (h *Handler) showBookHandler(w http.ResponseWriter, r *http.Request) {
	isbn := h.readISBNParam(r)
	book, err := h.service.GetBook(r.Context(), isbn)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.bookNotFoundResponse(w, r, isbn)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"book": book}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// CreateBook godoc
// @Summary Create a new book
// @Description This endpoint validates the payload and creates a new book
// @Tags books
// @Accept  json
// @Produce json
// @Param body body data.Book true "JSON payload required to create a book"
// @Success 201 {object} data.Book
// @Failure 400
// @Failure 500
// @Router /books [post]
func (h *Handler) createBookHandler(w http.ResponseWriter, r *http.Request) {
	var requestBody map[string]interface{}
	err := h.decodeJSON(w, r, &requestBody)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	book, err := h.service.CreateBook(r.Context(), requestBody)
	if err != nil {
		var validationErr *validator.ValidationError
		switch {
		case errors.As(err, &validationErr):
			h.failedValidationResponse(w, r, validationErr.Messages)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	headers := make(http.Header)
	headers.Set("Location", "/books/"+url.PathEscape(book.ISBN))
	err = h.encodeJSON(w, http.StatusCreated, envelope{"book": book}, headers)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// UpdateBook godoc
// @Summary Update a book
// @Description This endpoint replaces every field of a book except its isbn
// @Tags books
// @Accept  json
// @Produce json
// @Param isbn path string true "ISBN of book to update"
// @Param body body data.Book true "JSON payload required to update a book"
// @Success 200 {object} data.Book
// @Failure 400
// @Failure 404
// @Failure 500
// @Router /books/{isbn} [put]
func (h *Handler) updateBookHandler(w http.ResponseWriter, r *http.Request) {
	isbn := h.readISBNParam(r)
	var requestBody map[string]interface{}
	err := h.decodeJSON(w, r, &requestBody)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	book, err := h.service.UpdateBook(r.Context(), isbn, requestBody)
	if err != nil {
		var validationErr *validator.ValidationError
		switch {
		case errors.As(err, &validationErr):
			h.failedValidationResponse(w, r, validationErr.Messages)
		case errors.Is(err, service.ErrRecordNotFound):
			h.bookNotFoundResponse(w, r, isbn)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"book": book}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// DeleteBook godoc
// @Summary Delete a book
// @Description This endpoint deletes the book with the given isbn
// @Tags books
// @Produce json
// @Param isbn path string true "ISBN of book to delete"
// @Success 200
// @Failure 404
// @Failure 500
// @Router /books/{isbn} [delete]
func (h *Handler) deleteBookHandler(w http.ResponseWriter, r *http.Request) {
	isbn := h.readISBNParam(r)
	err := h.service.DeleteBook(r.Context(), isbn)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.bookNotFoundResponse(w, r, isbn)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"message": "Book deleted"}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}
