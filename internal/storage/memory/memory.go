package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/fintrack/fintrack-be/internal/models"
	"github.com/fintrack/fintrack-be/internal/storage"
)

var (
	_ storage.UserStore        = (*Store)(nil)
	_ storage.TransactionStore = (*Store)(nil)
)

// Store is a map-backed implementation of the storage interfaces with the
// same sentinel-error semantics as the Postgres store. Used in tests.
type Store struct {
	mu           sync.Mutex
	users        map[int64]models.User
	transactions map[int64]models.Transaction
	nextUserID   int64
	nextTxID     int64
}

func NewStore() *Store {
	return &Store{
		users:        make(map[int64]models.User),
		transactions: make(map[int64]models.Transaction),
	}
}

func (s *Store) CreateUser(_ context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == user.Email {
			return models.User{}, storage.ErrAlreadyExists
		}
	}
	s.nextUserID++
	user.ID = s.nextUserID
	s.users[user.ID] = user
	return user, nil
}

func (s *Store) FindByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, storage.ErrNotFound
}

func (s *Store) CreateTransaction(_ context.Context, tx models.Transaction) (models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextTxID++
	tx.ID = s.nextTxID
	s.transactions[tx.ID] = tx
	return tx, nil
}

func (s *Store) ListTransactions(_ context.Context, ownerID int64, skip, limit uint64) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	owned := make([]models.Transaction, 0)
	for _, tx := range s.transactions {
		if tx.OwnerID == ownerID {
			owned = append(owned, tx)
		}
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].ID < owned[j].ID })

	if skip >= uint64(len(owned)) {
		return []models.Transaction{}, nil
	}
	owned = owned[skip:]
	if limit < uint64(len(owned)) {
		owned = owned[:limit]
	}
	return owned, nil
}

func (s *Store) DeleteTransaction(_ context.Context, id, ownerID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, ok := s.transactions[id]
	if !ok || tx.OwnerID != ownerID {
		return storage.ErrNotFound
	}
	delete(s.transactions, id)
	return nil
}
