package data

import (
	"github.com/emzola/bookshelf/internal/validator"
)

// Book defines a book model. Isbn is the primary key and never changes after creation.
type Book struct {
	ISBN      string `json:"isbn"`
	AmazonURL string `json:"amazon_url"`
	Author    string `json:"author"`
	Language  string `json:"language"`
	Pages     int    `json:"pages"`
	Publisher string `json:"publisher"`
	Title     string `json:"title"`
	Year      int    `json:"year"`
}

// Mode selects which fields a book payload must carry.
type Mode int

const (
	ModeCreate Mode = iota
	ModeUpdate
)

// BookFields declares every mutable book field. All are required in both modes.
var BookFields = validator.Fields{
	"amazon_url": {Type: validator.TypeString, Required: true},
	"author":     {Type: validator.TypeString, Required: true},
	"language":   {Type: validator.TypeString, Required: true},
	"pages":      {Type: validator.TypeInteger, Required: true},
	"publisher":  {Type: validator.TypeString, Required: true},
	"title":      {Type: validator.TypeString, Required: true},
	"year":       {Type: validator.TypeInteger, Required: true},
}

var (
	createBookSchema = validator.MustSchema("book-create", withISBN(BookFields))
	updateBookSchema = validator.MustSchema("book-update", BookFields)
)

// withISBN returns a copy of fields that also requires the isbn key.
func withISBN(fields validator.Fields) validator.Fields {
	out := make(validator.Fields, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}
	out["isbn"] = validator.Field{Type: validator.TypeString, Required: true}
	return out
}

// ValidateBook checks a decoded JSON payload against the book schema for mode.
// It returns a *validator.ValidationError describing every violation, or nil.
func ValidateBook(mode Mode, doc interface{}) error {
	if mode == ModeUpdate {
		return updateBookSchema.Validate(doc)
	}
	return createBookSchema.Validate(doc)
}
