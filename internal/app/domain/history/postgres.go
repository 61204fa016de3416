package history

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// DB is the subset of *pgxpool.Pool the Postgres store needs.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

const historyTable = "search_history"

// Owner predicates are written as expressions: sq.Eq expands array values such as
// uuid.UUID into an IN list.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type PostgresStore struct {
	db     DB
	now    func() time.Time
	logger *zap.Logger
}

func NewPostgresStore(db DB, logger *zap.Logger) *PostgresStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostgresStore{db: db, now: time.Now, logger: logger}
}

func (r *PostgresStore) List(ctx context.Context, owner uuid.UUID, limit int) ([]string, error) {
	query, args, err := psql.Select("term").
		From(historyTable).
		Where("owner_id = ?", owner).
		OrderBy("searched_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build history query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query search history: %w", err)
	}
	defer rows.Close()

	terms := make([]string, 0, limit)
	for rows.Next() {
		var term string
		if err := rows.Scan(&term); err != nil {
			return nil, fmt.Errorf("failed to scan search history row: %w", err)
		}
		terms = append(terms, term)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating search history rows: %w", err)
	}
	return terms, nil
}

// Add upserts term by its case-folded key and deletes everything past the newest limit entries.
func (r *PostgresStore) Add(ctx context.Context, owner uuid.UUID, term string, limit int) error {
	insert, insertArgs, err := psql.Insert(historyTable).
		Columns("owner_id", "term", "term_key", "searched_at").
		Values(owner, term, termKey(term), r.now().UTC()).
		Suffix("ON CONFLICT (owner_id, term_key) DO UPDATE SET term = EXCLUDED.term, searched_at = EXCLUDED.searched_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build history insert: %w", err)
	}

	trim, trimArgs, err := psql.Delete(historyTable).
		Where("owner_id = ?", owner).
		Where(sq.Expr("term_key NOT IN (SELECT term_key FROM "+historyTable+" WHERE owner_id = ? ORDER BY searched_at DESC LIMIT ?)", owner, limit)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build history trim: %w", err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin history transaction: %w", err)
	}

	if _, err := tx.Exec(ctx, insert, insertArgs...); err != nil {
		r.rollback(ctx, tx)
		return fmt.Errorf("failed to insert search history: %w", err)
	}

	tag, err := tx.Exec(ctx, trim, trimArgs...)
	if err != nil {
		r.rollback(ctx, tx)
		return fmt.Errorf("failed to trim search history: %w", err)
	}
	if tag.RowsAffected() > 0 {
		r.logger.Debug("Trimmed search history",
			zap.String("owner", owner.String()),
			zap.Int64("rows", tag.RowsAffected()))
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit search history: %w", err)
	}
	return nil
}

func (r *PostgresStore) rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil {
		r.logger.Warn("Failed to roll back history transaction", zap.Error(err))
	}
}
