package store

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"github.com/vbonduro/shopupload/internal/domain"
)

// RecordStore is the SQLite-backed record collection. NaN prices are stored
// as NULL.
type RecordStore struct {
	db *sql.DB
}

func NewRecordStore(db *sql.DB) *RecordStore {
	return &RecordStore{db: db}
}

func (s *RecordStore) Insert(ctx context.Context, rec *domain.Record) error {
	var price any
	if !math.IsNaN(rec.Price) {
		price = rec.Price
	}
	var filename any
	if rec.Filename != nil {
		filename = *rec.Filename
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO records (id, name, price, content, filename, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, rec.ID, rec.Name, price, rec.Content, filename, rec.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert record: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("insert record %d: %w", rec.ID, ErrDuplicateID)
	}
	return nil
}

func (s *RecordStore) GetByID(ctx context.Context, id int64) (*domain.Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, price, content, filename, created_at FROM records WHERE id = ?
	`, id)

	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record: %w", err)
	}
	return rec, nil
}

func (s *RecordStore) List(ctx context.Context) ([]*domain.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, price, content, filename, created_at FROM records ORDER BY id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	var records []*domain.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating records: %w", err)
	}

	return records, nil
}

func (s *RecordStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (*domain.Record, error) {
	rec := &domain.Record{}
	var price sql.NullFloat64
	var filename sql.NullString
	if err := sc.Scan(&rec.ID, &rec.Name, &price, &rec.Content, &filename, &rec.CreatedAt); err != nil {
		return nil, err
	}

	rec.Price = math.NaN()
	if price.Valid {
		rec.Price = price.Float64
	}
	if filename.Valid {
		name := filename.String
		rec.Filename = &name
	}
	return rec, nil
}
