package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/desertthunder/queued/internal/models"
)

// QueueRepository persists the queue aggregate: one queue_items row per
// entry and a singleton queue_state row with id = 1.
//
// Save replaces the whole aggregate transactionally. Snapshots are produced
// under the engine's lock, so whatever Save writes is internally consistent;
// interleaved Saves each leave a complete snapshot behind.
type QueueRepository struct {
	db *sql.DB
}

// NewQueueRepository creates a new QueueRepository with the given database connection
func NewQueueRepository(db *sql.DB) *QueueRepository {
	return &QueueRepository{db: db}
}

// Save writes the snapshot, replacing any previously stored aggregate.
func (r *QueueRepository) Save(ctx context.Context, s models.QueueSnapshot) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM queue_items"); err != nil {
		return fmt.Errorf("failed to clear queue items: %w", err)
	}

	insert := `
		INSERT INTO queue_items (id, track_id, position, source_type, source_id, added_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	for _, entry := range s.Entries {
		_, err := tx.ExecContext(ctx, insert,
			entry.ID,
			entry.TrackID,
			entry.Position,
			entry.SourceType,
			entry.SourceID,
			entry.AddedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert queue item: %w", err)
		}
	}

	var shuffleOrder any
	if s.ShuffleEnabled {
		data, err := json.Marshal(s.ShuffleOrder)
		if err != nil {
			return fmt.Errorf("failed to encode shuffle order: %w", err)
		}
		shuffleOrder = string(data)
	}

	state := `
		INSERT INTO queue_state (id, current_index, shuffle_enabled, repeat_mode, shuffle_order)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			current_index = excluded.current_index,
			shuffle_enabled = excluded.shuffle_enabled,
			repeat_mode = excluded.repeat_mode,
			shuffle_order = excluded.shuffle_order
	`
	if _, err := tx.ExecContext(ctx, state, s.CurrentIndex, s.ShuffleEnabled, string(s.RepeatMode), shuffleOrder); err != nil {
		return fmt.Errorf("failed to save queue state: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit queue snapshot: %w", err)
	}

	return nil
}

// Load reads the stored aggregate. A database that has never seen a Save
// yields an empty snapshot with repeat off, not an error.
func (r *QueueRepository) Load(ctx context.Context) (models.QueueSnapshot, error) {
	s := models.QueueSnapshot{RepeatMode: models.RepeatOff}

	var (
		repeatMode   string
		shuffleOrder sql.NullString
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT current_index, shuffle_enabled, repeat_mode, shuffle_order FROM queue_state WHERE id = 1",
	).Scan(&s.CurrentIndex, &s.ShuffleEnabled, &repeatMode, &shuffleOrder)
	if err == sql.ErrNoRows {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("failed to load queue state: %w", err)
	}

	s.RepeatMode = models.RepeatMode(repeatMode)
	if s.ShuffleEnabled && shuffleOrder.Valid {
		if err := json.Unmarshal([]byte(shuffleOrder.String), &s.ShuffleOrder); err != nil {
			return s, fmt.Errorf("failed to decode shuffle order: %w", err)
		}
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, track_id, position, source_type, source_id, added_at
		FROM queue_items
		ORDER BY position
	`)
	if err != nil {
		return s, fmt.Errorf("failed to query queue items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			entry      models.QueueEntry
			sourceType sql.NullString
			sourceID   sql.NullString
		)
		if err := rows.Scan(&entry.ID, &entry.TrackID, &entry.Position, &sourceType, &sourceID, &entry.AddedAt); err != nil {
			return s, fmt.Errorf("failed to scan queue item: %w", err)
		}
		entry.SourceType = sourceType.String
		entry.SourceID = sourceID.String
		s.Entries = append(s.Entries, entry)
	}

	if err := rows.Err(); err != nil {
		return s, fmt.Errorf("row iteration error: %w", err)
	}

	return s, nil
}
