package repository

import (
	"database/sql"
	"time"
)

// queryTimeout bounds every statement issued by the repository.
const queryTimeout = 3 * time.Second

type Repository interface {
	books
}

// repository defines the app's repository layer.
type repository struct {
	db *sql.DB
}

// New creates a new instance of Repository over an open connection pool.
// The caller owns db and closes it.
func New(db *sql.DB) *repository {
	return &repository{db: db}
}
