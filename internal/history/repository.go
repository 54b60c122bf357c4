package history

import (
	"context"
	"database/sql"
	"time"
)

type Repository interface {
	CreateBatch(ctx context.Context, batch *Batch) error
	GetBatch(ctx context.Context, id string) (*Batch, error)
	ListBatches(ctx context.Context, limit int) ([]*Batch, error)
	UpdateBatchStatus(ctx context.Context, id, status, errorMsg string) error
	UpdateBatchResult(ctx context.Context, id string, totalFrames int, frameRate float64, anchorFrame int) error

	GetConfig(ctx context.Context, key string) (string, error)
	SetConfig(ctx context.Context, key, value string) error
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) CreateBatch(ctx context.Context, b *Batch) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO batches (id, mode, duration_seconds, duration_frames, total_frames, frame_rate, anchor_frame, item_count, simulated, status, error, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, b.ID, b.Mode, b.DurationSeconds, b.DurationFrames, b.TotalFrames, b.FrameRate, b.AnchorFrame, b.ItemCount,
		boolToInt(b.Simulated), b.Status, nullString(b.Error),
		b.CreatedAt.Format(time.RFC3339), b.UpdatedAt.Format(time.RFC3339))
	return err
}

func (r *SQLiteRepository) GetBatch(ctx context.Context, id string) (*Batch, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, mode, duration_seconds, duration_frames, total_frames, frame_rate, anchor_frame, item_count, simulated, status, error, created_at, updated_at
		FROM batches WHERE id = ?
	`, id)
	return scanBatch(row)
}

func (r *SQLiteRepository) ListBatches(ctx context.Context, limit int) ([]*Batch, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, mode, duration_seconds, duration_frames, total_frames, frame_rate, anchor_frame, item_count, simulated, status, error, created_at, updated_at
		FROM batches ORDER BY created_at DESC, id LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var batches []*Batch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, err
		}
		batches = append(batches, b)
	}
	return batches, rows.Err()
}

func (r *SQLiteRepository) UpdateBatchStatus(ctx context.Context, id, status, errorMsg string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE batches SET status = ?, error = ?, updated_at = ? WHERE id = ?
	`, status, nullString(errorMsg), time.Now().Format(time.RFC3339), id)
	return err
}

func (r *SQLiteRepository) UpdateBatchResult(ctx context.Context, id string, totalFrames int, frameRate float64, anchorFrame int) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE batches SET total_frames = ?, frame_rate = ?, anchor_frame = ?, updated_at = ? WHERE id = ?
	`, totalFrames, frameRate, anchorFrame, time.Now().Format(time.RFC3339), id)
	return err
}

func (r *SQLiteRepository) GetConfig(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM config WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

func (r *SQLiteRepository) SetConfig(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

type scannable interface {
	Scan(dest ...any) error
}

func scanBatch(row scannable) (*Batch, error) {
	var b Batch
	var simulated int
	var errMsg sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(&b.ID, &b.Mode, &b.DurationSeconds, &b.DurationFrames, &b.TotalFrames, &b.FrameRate,
		&b.AnchorFrame, &b.ItemCount, &simulated, &b.Status, &errMsg, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	b.Simulated = simulated == 1
	b.Error = errMsg.String
	b.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	b.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &b, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
