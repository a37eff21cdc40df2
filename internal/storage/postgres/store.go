package postgres

import (
	"context"
	stderrors "errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"github.com/fintrack/fintrack-be/internal/models"
	"github.com/fintrack/fintrack-be/internal/storage"
)

// Ensure Store satisfies both storage interfaces at compile time.
var (
	_ storage.UserStore        = (*Store)(nil)
	_ storage.TransactionStore = (*Store)(nil)
)

const uniqueViolation = "23505"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Store provides Postgres-backed persistence for users and transactions.
// Connections are acquired from the pool per statement and always released.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects to the database and runs migrations.
func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse database url")
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "connect to database")
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// Close releases database resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			email TEXT UNIQUE NOT NULL,
			name TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS transactions (
			id BIGSERIAL PRIMARY KEY,
			description TEXT NOT NULL,
			amount DOUBLE PRECISION NOT NULL,
			type TEXT NOT NULL,
			category TEXT NOT NULL,
			subcategory TEXT,
			date TEXT NOT NULL,
			owner_id BIGINT NOT NULL REFERENCES users(id)
		);`,
		`CREATE INDEX IF NOT EXISTS transactions_owner_id_idx ON transactions (owner_id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return errors.Wrap(err, "apply migrations")
		}
	}
	return nil
}

// CreateUser inserts a new user row. A duplicate email reports ErrAlreadyExists.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	query, args, err := psql.Insert("users").
		Columns("email", "name", "password_hash").
		Values(user.Email, user.Name, user.PasswordHash).
		Suffix("RETURNING id, email, name, password_hash, created_at").
		ToSql()
	if err != nil {
		return models.User{}, errors.Wrap(err, "build insert user")
	}

	created, err := scanUser(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		var pgErr *pgconn.PgError
		if stderrors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, errors.Wrap(err, "insert user")
	}
	return created, nil
}

// FindByEmail fetches a user by email address.
func (s *Store) FindByEmail(ctx context.Context, email string) (models.User, error) {
	query, args, err := psql.Select("id", "email", "name", "password_hash", "created_at").
		From("users").
		Where(sq.Eq{"email": email}).
		ToSql()
	if err != nil {
		return models.User{}, errors.Wrap(err, "build select user")
	}
	return scanUser(s.pool.QueryRow(ctx, query, args...))
}

// CreateTransaction inserts a transaction row for its owner.
func (s *Store) CreateTransaction(ctx context.Context, tx models.Transaction) (models.Transaction, error) {
	query, args, err := psql.Insert("transactions").
		Columns("description", "amount", "type", "category", "subcategory", "date", "owner_id").
		Values(tx.Description, tx.Amount, tx.Type, tx.Category, tx.Subcategory, tx.Date, tx.OwnerID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return models.Transaction{}, errors.Wrap(err, "build insert transaction")
	}

	if err := s.pool.QueryRow(ctx, query, args...).Scan(&tx.ID); err != nil {
		return models.Transaction{}, errors.Wrap(err, "insert transaction")
	}
	return tx, nil
}

// ListTransactions returns the owner's transactions in insertion order.
func (s *Store) ListTransactions(ctx context.Context, ownerID int64, skip, limit uint64) ([]models.Transaction, error) {
	query, args, err := psql.Select("id", "description", "amount", "type", "category", "subcategory", "date", "owner_id").
		From("transactions").
		Where(sq.Eq{"owner_id": ownerID}).
		OrderBy("id ASC").
		Offset(skip).
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build list transactions")
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list transactions")
	}
	defer rows.Close()

	out := make([]models.Transaction, 0)
	for rows.Next() {
		var tx models.Transaction
		if err := rows.Scan(&tx.ID, &tx.Description, &tx.Amount, &tx.Type, &tx.Category, &tx.Subcategory, &tx.Date, &tx.OwnerID); err != nil {
			return nil, errors.Wrap(err, "scan transaction")
		}
		out = append(out, tx)
	}
	return out, errors.Wrap(rows.Err(), "list transactions")
}

// DeleteTransaction removes a transaction only if it belongs to ownerID.
// A missing or foreign row reports ErrNotFound either way.
func (s *Store) DeleteTransaction(ctx context.Context, id, ownerID int64) error {
	query, args, err := psql.Delete("transactions").
		Where(sq.Eq{"id": id, "owner_id": ownerID}).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "build delete transaction")
	}

	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, "delete transaction")
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	if err := row.Scan(&user.ID, &user.Email, &user.Name, &user.PasswordHash, &user.CreatedAt); err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}
