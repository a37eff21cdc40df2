package storage

import (
	"context"
	"errors"

	"github.com/fintrack/fintrack-be/internal/models"
)

// ErrNotFound indicates a record does not exist or is not visible to the caller.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// UserStore captures user persistence operations needed by handlers.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
}

// TransactionStore persists transactions. Every operation is scoped to the
// owning user: a transaction is never visible to, or deletable by, anyone else.
type TransactionStore interface {
	CreateTransaction(ctx context.Context, tx models.Transaction) (models.Transaction, error)
	ListTransactions(ctx context.Context, ownerID int64, skip, limit uint64) ([]models.Transaction, error)
	DeleteTransaction(ctx context.Context, id, ownerID int64) error
}
