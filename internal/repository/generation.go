package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/vaultpass/passgen/internal/model"
)

var ErrDuplicateRecord = errors.New("generation record already exists")

const mysqlDuplicateEntry = 1062

const createGenerationEventsTable = `
	CREATE TABLE IF NOT EXISTS generation_events (
		id            CHAR(36)     NOT NULL PRIMARY KEY,
		policy        VARCHAR(32)  NOT NULL,
		classes       VARCHAR(64)  NOT NULL,
		length        INT          NOT NULL,
		alphabet_size INT          NOT NULL,
		count         INT          NOT NULL,
		channel       VARCHAR(16)  NOT NULL,
		created_at    TIMESTAMP(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
		INDEX idx_generation_events_created_at (created_at)
	)`

// GenerationRepository persists generation audit records.
type GenerationRepository struct {
	db *sql.DB
}

// NewGenerationRepository creates a new GenerationRepository.
func NewGenerationRepository(db *sql.DB) *GenerationRepository {
	return &GenerationRepository{db: db}
}

// Migrate creates the generation_events table if it does not exist.
func (r *GenerationRepository) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, createGenerationEventsTable)
	return err
}

// Insert stores a generation record.
func (r *GenerationRepository) Insert(ctx context.Context, rec *model.GenerationRecord) error {
	query := `INSERT INTO generation_events
		(id, policy, classes, length, alphabet_size, count, channel, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.Policy, rec.Classes, rec.Length,
		rec.AlphabetSize, rec.Count, rec.Channel, rec.CreatedAt,
	)
	if isDuplicateEntryError(err) {
		return ErrDuplicateRecord
	}
	return err
}

// ListRecent returns up to limit records, newest first.
func (r *GenerationRepository) ListRecent(ctx context.Context, limit int) ([]model.GenerationRecord, error) {
	query := `SELECT id, policy, classes, length, alphabet_size, count, channel, created_at
		FROM generation_events ORDER BY created_at DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.GenerationRecord
	for rows.Next() {
		var rec model.GenerationRecord
		if err := rows.Scan(
			&rec.ID, &rec.Policy, &rec.Classes, &rec.Length,
			&rec.AlphabetSize, &rec.Count, &rec.Channel, &rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

func isDuplicateEntryError(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry
}
