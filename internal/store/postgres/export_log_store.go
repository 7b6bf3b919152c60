package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alanyoungcy/marketdash/internal/domain"
)

// DefaultHistoryLimit caps ListRecent when the caller passes a non-positive
// limit.
const DefaultHistoryLimit = 20

// ExportLogStore implements domain.ExportLog using the export_log table.
type ExportLogStore struct {
	pool *pgxpool.Pool
}

var _ domain.ExportLog = (*ExportLogStore)(nil)

// NewExportLogStore creates a new ExportLogStore backed by the given pool.
func NewExportLogStore(pool *pgxpool.Pool) *ExportLogStore {
	return &ExportLogStore{pool: pool}
}

// Record appends one delivered export.
func (s *ExportLogStore) Record(ctx context.Context, rec domain.ExportRecord) error {
	const query = `
		INSERT INTO export_log
			(id, format, filename, location, records, bytes, search, category, active_only, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := s.pool.Exec(ctx, query,
		rec.ID,
		string(rec.Format),
		rec.Filename,
		rec.Location,
		rec.Records,
		rec.Bytes,
		rec.Criteria.Search,
		rec.Criteria.Category,
		rec.Criteria.ActiveOnly,
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: record export %s: %w", rec.ID, err)
	}
	return nil
}

// ListRecent returns up to limit records, newest first.
func (s *ExportLogStore) ListRecent(ctx context.Context, limit int) ([]domain.ExportRecord, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	const query = `
		SELECT id, format, filename, location, records, bytes, search, category, active_only, created_at
		FROM export_log
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: list exports: %w", err)
	}
	defer rows.Close()

	var out []domain.ExportRecord
	for rows.Next() {
		var (
			rec    domain.ExportRecord
			format string
		)
		if err := rows.Scan(
			&rec.ID,
			&format,
			&rec.Filename,
			&rec.Location,
			&rec.Records,
			&rec.Bytes,
			&rec.Criteria.Search,
			&rec.Criteria.Category,
			&rec.Criteria.ActiveOnly,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan export: %w", err)
		}
		rec.Format = domain.ExportFormat(format)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate exports: %w", err)
	}
	return out, nil
}
