package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/tripman/internal/model"
)

// PostgresTripRepo はPostgreSQLを使用した旅行リポジトリ。
type PostgresTripRepo struct {
	db *sql.DB
}

// NewPostgresTripRepo はPostgresTripRepoを生成する。
func NewPostgresTripRepo(db *sql.DB) *PostgresTripRepo {
	return &PostgresTripRepo{db: db}
}

const tripColumns = `id, user_id, name, location, start_ts, image_data, created_at, updated_at`

// FindByID は指定IDの旅行を取得する。見つからない場合はnilを返す。
func (r *PostgresTripRepo) FindByID(ctx context.Context, id string) (*model.Trip, error) {
	trip := &model.Trip{}
	err := r.db.QueryRowContext(ctx,
		`SELECT `+tripColumns+` FROM trips WHERE id = $1`, id,
	).Scan(
		&trip.ID, &trip.UserID, &trip.Name, &trip.Location, &trip.Start,
		&trip.ImageData, &trip.CreatedAt, &trip.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find trip by ID: %w", err)
	}
	return trip, nil
}

// ListByUserID はユーザーが所有する旅行一覧を作成日時順で返す。
func (r *PostgresTripRepo) ListByUserID(ctx context.Context, userID string) ([]*model.Trip, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+tripColumns+` FROM trips WHERE user_id = $1 ORDER BY created_at`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	defer rows.Close()

	return scanTrips(rows)
}

// ListEntries は旅行のエントリをペイロード出現順（position昇順）で返す。
func (r *PostgresTripRepo) ListEntries(ctx context.Context, tripID string) ([]*model.Entry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, trip_id, description, kind, completed, day_index, position, created_at
		 FROM entries WHERE trip_id = $1 ORDER BY position`, tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	var entries []*model.Entry
	for rows.Next() {
		e := &model.Entry{}
		if err := rows.Scan(
			&e.ID, &e.TripID, &e.Description, &e.Kind,
			&e.Completed, &e.DayIndex, &e.Position, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate entries: %w", err)
	}
	return entries, nil
}

// Create は旅行とそのエントリを同一トランザクションで作成する。
func (r *PostgresTripRepo) Create(ctx context.Context, trip *model.Trip, entries []*model.Entry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO trips (id, user_id, name, location, start_ts, image_data, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		trip.ID, trip.UserID, trip.Name, trip.Location, trip.Start,
		nullableBytes(trip.ImageData), trip.CreatedAt, trip.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert trip: %w", err)
	}

	if err := insertEntries(ctx, tx, entries); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ReplaceContents は旅行のスカラー更新・既存エントリ全削除・新エントリ挿入を
// 同一トランザクションで適用する。
func (r *PostgresTripRepo) ReplaceContents(ctx context.Context, trip *model.Trip, entries []*model.Entry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`UPDATE trips
		 SET name = $2, location = $3, start_ts = $4, image_data = $5, updated_at = now()
		 WHERE id = $1`,
		trip.ID, trip.Name, trip.Location, trip.Start, nullableBytes(trip.ImageData),
	)
	if err != nil {
		return fmt.Errorf("failed to update trip: %w", err)
	}

	// 既存エントリは解除ではなく完全に削除する
	if _, err := tx.ExecContext(ctx, `DELETE FROM entries WHERE trip_id = $1`, trip.ID); err != nil {
		return fmt.Errorf("failed to delete old entries: %w", err)
	}

	if err := insertEntries(ctx, tx, entries); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Delete は旅行とそのエントリを同一トランザクションで削除する。
func (r *PostgresTripRepo) Delete(ctx context.Context, tripID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM entries WHERE trip_id = $1`, tripID); err != nil {
		return fmt.Errorf("failed to delete entries: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM trips WHERE id = $1`, tripID); err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListMissingImages はlocationを持つが画像キャッシュが空の旅行を返す。
func (r *PostgresTripRepo) ListMissingImages(ctx context.Context, limit int) ([]*model.Trip, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+tripColumns+` FROM trips
		 WHERE location IS NOT NULL AND location <> '' AND image_data IS NULL
		 ORDER BY created_at
		 LIMIT $1`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips missing images: %w", err)
	}
	defer rows.Close()

	return scanTrips(rows)
}

// UpdateImageData は旅行の画像キャッシュのみを更新する。
func (r *PostgresTripRepo) UpdateImageData(ctx context.Context, tripID string, data []byte) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE trips SET image_data = $2, updated_at = now() WHERE id = $1`,
		tripID, nullableBytes(data),
	)
	if err != nil {
		return fmt.Errorf("failed to update image data: %w", err)
	}
	return nil
}

// insertEntries はエントリをposition順のまま挿入する。
func insertEntries(ctx context.Context, tx *sql.Tx, entries []*model.Entry) error {
	for _, e := range entries {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO entries (id, trip_id, description, kind, completed, day_index, position, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			e.ID, e.TripID, e.Description, e.Kind, e.Completed, e.DayIndex, e.Position, e.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert entry: %w", err)
		}
	}
	return nil
}

// scanTrips は複数行の旅行をスキャンする。
func scanTrips(rows *sql.Rows) ([]*model.Trip, error) {
	var trips []*model.Trip
	for rows.Next() {
		trip := &model.Trip{}
		if err := rows.Scan(
			&trip.ID, &trip.UserID, &trip.Name, &trip.Location, &trip.Start,
			&trip.ImageData, &trip.CreatedAt, &trip.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		trips = append(trips, trip)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trips: %w", err)
	}
	return trips, nil
}

// nullableBytes は空のバイト列をNULLとして保存する。
func nullableBytes(b []byte) interface{} {
	if len(b) == 0 {
		return nil
	}
	return b
}

// compile-time interface check
var _ TripRepository = (*PostgresTripRepo)(nil)
