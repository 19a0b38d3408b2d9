package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"

	"StockReconciler/internal/domain"
	"StockReconciler/internal/ports"
)

const snapshotsTable = "stock_snapshots"

// schemaDDL is idempotent so EnsureSchema can run on every start.
const schemaDDL = `CREATE TABLE IF NOT EXISTS stock_snapshots (
    id          TEXT PRIMARY KEY,
    captured_at TIMESTAMPTZ NOT NULL,
    total       INTEGER NOT NULL,
    products    JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS stock_snapshots_captured_at_idx ON stock_snapshots (captured_at DESC);`

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PostgresRepository persists snapshots into Postgres, one row per capture.
type PostgresRepository struct {
	db *sql.DB
}

var _ ports.SnapshotRepository = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// EnsureSchema creates the snapshots table when missing.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schemaDDL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Save inserts the snapshot; an existing id is left untouched.
func (r *PostgresRepository) Save(ctx context.Context, snapshot domain.Snapshot) error {
	query, args, err := insertSnapshotQuery(snapshot)
	if err != nil {
		return err
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

// Latest returns the most recent snapshot by capture time.
func (r *PostgresRepository) Latest(ctx context.Context) (domain.Snapshot, error) {
	query, args, err := latestSnapshotQuery()
	if err != nil {
		return domain.Snapshot{}, err
	}

	var (
		snapshot domain.Snapshot
		products []byte
	)
	row := r.db.QueryRowContext(ctx, query, args...)
	if err := row.Scan(&snapshot.ID, &snapshot.CapturedAt, &snapshot.Total, &products); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Snapshot{}, domain.ErrSnapshotNotFound
		}
		return domain.Snapshot{}, fmt.Errorf("select latest snapshot: %w", err)
	}

	if err := json.Unmarshal(products, &snapshot.Products); err != nil {
		return domain.Snapshot{}, fmt.Errorf("decode products: %w", err)
	}
	if snapshot.Products == nil {
		snapshot.Products = []domain.StockRecord{}
	}
	snapshot.CapturedAt = snapshot.CapturedAt.UTC()
	return snapshot, nil
}

func insertSnapshotQuery(snapshot domain.Snapshot) (string, []interface{}, error) {
	products := snapshot.Products
	if products == nil {
		products = []domain.StockRecord{}
	}
	payload, err := json.Marshal(products)
	if err != nil {
		return "", nil, fmt.Errorf("encode products: %w", err)
	}

	query, args, err := psql.Insert(snapshotsTable).
		Columns("id", "captured_at", "total", "products").
		Values(snapshot.ID, snapshot.CapturedAt, snapshot.Total, payload).
		Suffix("ON CONFLICT (id) DO NOTHING").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build insert: %w", err)
	}
	return query, args, nil
}

func latestSnapshotQuery() (string, []interface{}, error) {
	query, args, err := psql.Select("id", "captured_at", "total", "products").
		From(snapshotsTable).
		OrderBy("captured_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build select: %w", err)
	}
	return query, args, nil
}
