package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/LavaJover/shvark-cashback-service/internal/domain"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	DefaultMaxTxRetries = 3
	defaultRetryBackoff = 20 * time.Millisecond
)

// postgres SQLSTATEs that mean another writer got to the subject first
var conflictCodes = map[string]struct{}{
	"40001": {}, // serialization_failure
	"40P01": {}, // deadlock_detected
	"55P03": {}, // lock_not_available
}

// ErrInsertRace marks a unique violation on an index whose winning row a
// fresh transaction reads instead of inserting again. Other unique
// violations repeat on every attempt and are not retried.
var ErrInsertRace = errors.New("lost insert race")

// raced tags a unique violation from an insert that loses to a concurrent
// writer of the same natural key.
func raced(err error) error {
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %w", ErrInsertRace, err)
	}
	return err
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Store hands out repositories and runs transactions over them, retrying
// the whole transaction when it loses a race on the same subject.
type Store struct {
	db         *gorm.DB
	maxRetries int
	backoff    time.Duration
	logger     *slog.Logger
	onConflict func(attempt int, err error)
}

type StoreOption func(*Store)

func WithMaxRetries(n int) StoreOption {
	return func(s *Store) {
		if n >= 0 {
			s.maxRetries = n
		}
	}
}

func WithRetryBackoff(d time.Duration) StoreOption {
	return func(s *Store) { s.backoff = d }
}

func WithLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithConflictObserver is called for every conflict that triggers a retry.
func WithConflictObserver(fn func(attempt int, err error)) StoreOption {
	return func(s *Store) { s.onConflict = fn }
}

func NewStore(db *gorm.DB, opts ...StoreOption) *Store {
	s := &Store{
		db:         db,
		maxRetries: DefaultMaxTxRetries,
		backoff:    defaultRetryBackoff,
		logger:     slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) DB() *gorm.DB {
	return s.db
}

func (s *Store) Repositories() domain.Repositories {
	return newRepositories(s.db)
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos domain.Repositories) error) error {
	var lastErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(s.backoff * time.Duration(attempt)):
			}
		}

		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(ctx, newRepositories(tx))
		})
		if err == nil {
			return nil
		}
		if !IsConflict(err) {
			return err
		}

		lastErr = err
		s.logger.Debug("transaction conflict, retrying", "attempt", attempt+1, "error", err.Error())
		if s.onConflict != nil {
			s.onConflict(attempt+1, err)
		}
	}

	s.logger.Warn("transaction retries exhausted", "retries", s.maxRetries, "error", lastErr.Error())
	return domain.TransientConflict(lastErr, "concurrent update on the same subject, retry the request")
}

// IsConflict reports whether err is a lost race that a fresh transaction
// can resolve.
func IsConflict(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrInsertRace) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		_, ok := conflictCodes[pgErr.Code]
		return ok
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked") ||
		strings.Contains(msg, "SQLITE_BUSY")
}

// forUpdate takes a row lock where the dialect has them; SQLite serializes
// writers on its own.
func forUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "postgres" {
		return db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return db
}

type repositories struct {
	db *gorm.DB
}

func newRepositories(db *gorm.DB) *repositories {
	return &repositories{db: db}
}

func (r *repositories) Contributors() domain.ContributorRepository {
	return NewDefaultContributorRepository(r.db)
}

func (r *repositories) Cards() domain.CardRepository {
	return NewDefaultCardRepository(r.db)
}

func (r *repositories) Merchants() domain.MerchantRepository {
	return NewDefaultMerchantRepository(r.db)
}

func (r *repositories) Entries() domain.EntryRepository {
	return NewDefaultEntryRepository(r.db)
}

func (r *repositories) EntryVotes() domain.BallotBox {
	return NewEntryBallotBox(r.db)
}

func (r *repositories) Suggestions() domain.SuggestionRepository {
	return NewDefaultSuggestionRepository(r.db)
}

func (r *repositories) SuggestionVotes() domain.BallotBox {
	return NewSuggestionBallotBox(r.db)
}

func (r *repositories) Comments() domain.CommentRepository {
	return NewDefaultCommentRepository(r.db)
}
