package repository

import (
	"github.com/jmoiron/sqlx"
)

// BaseRepository holds the shared database handle for the concrete
// repositories. Every write in this system is a single synchronous insert,
// so there is no transaction helper.
type BaseRepository struct {
	db *sqlx.DB
}

// NewBaseRepository creates a new BaseRepository
func NewBaseRepository(db *sqlx.DB) *BaseRepository {
	return &BaseRepository{
		db: db,
	}
}

// GetDB returns the database connection
func (r *BaseRepository) GetDB() *sqlx.DB {
	return r.db
}
