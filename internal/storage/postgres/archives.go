package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"imageLocator/internal/models"
	"imageLocator/internal/storage"
)

// CreateArchive records an uploaded zip and makes sure its owner exists.
func (s *Storage) CreateArchive(ctx context.Context, archive *models.ArchiveUpload) error {
	const op = "storage.postgres.CreateArchive"

	sqlTx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin: %w", op, err)
	}
	defer func() {
		_ = sqlTx.Rollback()
	}()

	if err = (&Tx{tx: sqlTx}).EnsureUser(ctx, archive.Owner); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `
        INSERT INTO archive_uploads (storage_key, original_filename, url, user_id)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at`

	err = sqlTx.QueryRowContext(ctx, query, archive.Key, archive.OriginalName, archive.URL, archive.Owner.ID).Scan(
		&archive.ID,
		&archive.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err = sqlTx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}

	return nil
}

func (s *Storage) GetArchive(ctx context.Context, id int64) (*models.ArchiveUpload, error) {
	const op = "storage.postgres.GetArchive"

	query := `
        SELECT a.id, a.storage_key, a.original_filename, a.url, a.user_id, u.username, a.created_at
        FROM archive_uploads a
        JOIN users u ON u.id = a.user_id
        WHERE a.id = $1`

	archive := &models.ArchiveUpload{}

	err := s.DB.QueryRowContext(ctx, query, id).Scan(
		&archive.ID,
		&archive.Key,
		&archive.OriginalName,
		&archive.URL,
		&archive.Owner.ID,
		&archive.Owner.Username,
		&archive.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: archive %d: %w", op, id, storage.ErrArchiveNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return archive, nil
}

func (s *Storage) DeleteArchive(ctx context.Context, id int64) error {
	const op = "storage.postgres.DeleteArchive"

	result, err := s.DB.ExecContext(ctx, `DELETE FROM archive_uploads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: archive %d: %w", op, id, storage.ErrArchiveNotFound)
	}

	return nil
}
