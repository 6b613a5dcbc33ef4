package tracker

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/example/ankicode/internal/database"
)

// SQLStore is the Store backed by the sqlx database
type SQLStore struct {
	db *database.DB
}

// NewSQLStore creates a store over an open database
func NewSQLStore(db *database.DB) *SQLStore {
	return &SQLStore{db: db}
}

func bind(q sqlx.ExtContext) Repositories {
	return Repositories{
		Problems:  database.NewProblemRepository(q),
		Reminders: database.NewReminderRepository(q),
		Users:     database.NewUserRepository(q),
	}
}

func (s *SQLStore) Repositories() Repositories {
	return bind(s.db)
}

func (s *SQLStore) Atomic(ctx context.Context, fn func(r Repositories) error) error {
	return s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		return fn(bind(tx))
	})
}
