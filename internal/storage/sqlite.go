package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"

	"moneynote/internal/core"
	"moneynote/internal/records"

	_ "modernc.org/sqlite"
)

const isoDate = "2006-01-02"

var recordColumns = []string{"id", "kind", "date", "note", "amount", "category"}

// SQLiteRepository keeps records in a local SQLite file. It backs the sqlite
// data backend and the mirror maintained by the worker.
type SQLiteRepository struct {
	db *sql.DB
	sb sq.StatementBuilderType
}

var _ records.Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Question).RunWith(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// List returns every record in insertion order.
func (r *SQLiteRepository) List(ctx context.Context) ([]core.Record, error) {
	rows, err := r.sb.Select(recordColumns...).
		From("records").
		OrderBy("created_at", "rowid").
		QueryContext(ctx)
	if err != nil {
		return nil, records.Fail("list", err)
	}
	defer rows.Close()

	var out []core.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, records.Fail("list", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, records.Fail("list", err)
	}
	return out, nil
}

// Create inserts the record under a fresh id.
func (r *SQLiteRepository) Create(ctx context.Context, rec core.Record) (core.Record, error) {
	if err := rec.Validate(); err != nil {
		return core.Record{}, records.Fail("create", err)
	}
	rec.ID = records.NewID()
	_, err := r.sb.Insert("records").
		Columns(recordColumns...).
		Values(recordValues(rec)...).
		ExecContext(ctx)
	if err != nil {
		return core.Record{}, records.Fail("create", err)
	}

	slog.InfoContext(ctx, "Record saved to SQLite",
		"id", rec.ID,
		"kind", rec.Kind.String(),
		"amount", rec.Amount,
		"category", rec.Category.Slug())

	return rec, nil
}

// Upsert stores rec under its own id, replacing any existing row.
func (r *SQLiteRepository) Upsert(ctx context.Context, rec core.Record) error {
	if rec.ID == "" {
		return records.Fail("upsert", errors.New("empty id"))
	}
	vals := recordValues(rec)
	now := time.Now().UTC()
	_, err := r.sb.Insert("records").
		Columns(recordColumns...).
		Values(vals...).
		Suffix("ON CONFLICT(id) DO UPDATE SET kind = ?, date = ?, note = ?, amount = ?, category = ?, updated_at = ?",
			vals[1], vals[2], vals[3], vals[4], vals[5], now).
		ExecContext(ctx)
	if err != nil {
		return records.Fail("upsert", err)
	}
	return nil
}

// Delete removes the record; an unknown id is ErrNotFound.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.sb.Delete("records").Where(sq.Eq{"id": id}).ExecContext(ctx)
	if err != nil {
		return records.Fail("delete", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return records.Fail("delete", err)
	}
	if n == 0 {
		return records.Fail("delete", fmt.Errorf("%w: %s", records.ErrNotFound, id))
	}
	return nil
}

// Count returns the number of stored records.
func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.sb.Select("COUNT(*)").From("records").QueryRowContext(ctx).Scan(&n); err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}

func recordValues(rec core.Record) []any {
	date := ""
	if !rec.Date.IsZero() {
		date = rec.Date.Format(isoDate)
	}
	return []any{rec.ID, rec.Kind.Label(), date, rec.Note, rec.Amount, rec.Category.Slug()}
}

func scanRecord(rows *sql.Rows) (core.Record, error) {
	var id, kind, date, note, amount, category string
	if err := rows.Scan(&id, &kind, &date, &note, &amount, &category); err != nil {
		return core.Record{}, fmt.Errorf("scan record: %w", err)
	}
	return core.Record{
		ID:       id,
		Kind:     core.KindFromLabel(kind),
		Date:     core.DateFromString(date),
		Note:     note,
		Amount:   amount,
		Category: core.CategoryFromString(category),
	}, nil
}
