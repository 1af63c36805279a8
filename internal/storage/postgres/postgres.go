package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"github.com/lib/pq"
	"imageLocator/internal/config"
	"imageLocator/internal/models"
	"imageLocator/internal/storage"
	"time"
)

//go:embed schema.sql
var schema string

const uniqueViolation = "23505"

type Storage struct {
	DB *sql.DB
}

func InitDB(dbCfg *config.Database) (*Storage, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		dbCfg.Host,
		dbCfg.Port,
		dbCfg.User,
		dbCfg.Password,
		dbCfg.DBName,
		dbCfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to the database: %w", err)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to the database: %w", err)
	}

	return &Storage{DB: db}, nil
}

// Migrate creates missing tables. Every statement is idempotent.
func (s *Storage) Migrate(ctx context.Context) error {
	const op = "storage.postgres.Migrate"

	if _, err := s.DB.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) Close() error {
	return s.DB.Close()
}

// InTx runs fn inside one database transaction. The transaction is committed
// only when fn returns nil; the error from fn is returned unchanged.
func (s *Storage) InTx(ctx context.Context, fn func(tx storage.Tx) error) error {
	const op = "storage.postgres.InTx"

	sqlTx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin: %w", op, err)
	}

	if err = fn(&Tx{tx: sqlTx}); err != nil {
		if rbErr := sqlTx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("%s: rollback: %w", op, rbErr))
		}
		return err
	}

	if err = sqlTx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}

	return nil
}

type Tx struct {
	tx *sql.Tx
}

func (t *Tx) EnsureUser(ctx context.Context, user models.User) error {
	const op = "storage.postgres.EnsureUser"

	query := `
        INSERT INTO users (id, username)
        VALUES ($1, $2)
        ON CONFLICT (id) DO UPDATE SET username = EXCLUDED.username
        WHERE users.username <> EXCLUDED.username`

	if _, err := t.tx.ExecContext(ctx, query, user.ID, user.Username); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// CreateImage inserts the row under a savepoint so that a failed insert does
// not abort the surrounding transaction.
func (t *Tx) CreateImage(ctx context.Context, image *models.StoredImage) error {
	const op = "storage.postgres.CreateImage"

	if _, err := t.tx.ExecContext(ctx, `SAVEPOINT create_image`); err != nil {
		return fmt.Errorf("%s: savepoint: %w", op, err)
	}

	query := `
        INSERT INTO stored_images (storage_key, original_filename, url, user_id)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at`

	err := t.tx.QueryRowContext(ctx, query, image.Key, image.OriginalName, image.URL, image.UserID).Scan(
		&image.ID,
		&image.CreatedAt,
	)
	if err != nil {
		if _, rbErr := t.tx.ExecContext(ctx, `ROLLBACK TO SAVEPOINT create_image`); rbErr != nil {
			return fmt.Errorf("%s: %w", op, errors.Join(err, rbErr))
		}

		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("%s: %s: %w", op, image.Key, storage.ErrImageExists)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err = t.tx.ExecContext(ctx, `RELEASE SAVEPOINT create_image`); err != nil {
		return fmt.Errorf("%s: release savepoint: %w", op, err)
	}

	return nil
}

func (t *Tx) CreateGeoTask(ctx context.Context, task *models.GeoTask) error {
	const op = "storage.postgres.CreateGeoTask"

	if task.Status == "" {
		task.Status = models.StatusProcessing
	}

	query := `
        INSERT INTO geo_tasks (status, user_id, image_id, address, lat, lon, angle, height)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id, created_at`

	err := t.tx.QueryRowContext(ctx, query,
		string(task.Status),
		task.UserID,
		task.ImageID,
		nullString(task.Address),
		nullFloat(task.Lat),
		nullFloat(task.Lon),
		task.Angle,
		task.Height,
	).Scan(&task.ID, &task.CreatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (t *Tx) CreateDetectedEntry(ctx context.Context, entry *models.DetectedEntry) error {
	const op = "storage.postgres.CreateDetectedEntry"

	query := `
        INSERT INTO detected_entries (geo_task_id, image_id, lat, lon)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at`

	err := t.tx.QueryRowContext(ctx, query, entry.TaskID, entry.ImageID, entry.Lat, entry.Lon).Scan(
		&entry.ID,
		&entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func floatPtr(nf sql.NullFloat64) *float64 {
	if !nf.Valid {
		return nil
	}
	f := nf.Float64
	return &f
}
