package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"github.com/lib/pq"
	"imageLocator/internal/lib/geo"
	"imageLocator/internal/models"
	"imageLocator/internal/storage"
	"strings"
)

const taskColumns = `id, status, user_id, image_id, address, lat, lon, angle, height, failure_reason, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner, extra ...any) (models.GeoTask, error) {
	var (
		task          models.GeoTask
		status        string
		address       sql.NullString
		lat, lon      sql.NullFloat64
		failureReason sql.NullString
	)

	dest := []any{
		&task.ID,
		&status,
		&task.UserID,
		&task.ImageID,
		&address,
		&lat,
		&lon,
		&task.Angle,
		&task.Height,
		&failureReason,
		&task.CreatedAt,
	}

	if err := row.Scan(append(dest, extra...)...); err != nil {
		return models.GeoTask{}, err
	}

	task.Status = models.TaskStatus(status)
	task.Address = stringPtr(address)
	task.Lat = floatPtr(lat)
	task.Lon = floatPtr(lon)
	task.FailureReason = stringPtr(failureReason)

	return task, nil
}

// UpdateTask locks the task row, lets fn mutate the loaded task and writes the
// mutable columns back. Concurrent updates of the same task are serialised by
// the row lock.
func (s *Storage) UpdateTask(ctx context.Context, id int64, fn func(task *models.GeoTask) error) (*models.GeoTask, error) {
	const op = "storage.postgres.UpdateTask"

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: begin: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `SELECT ` + taskColumns + ` FROM geo_tasks WHERE id = $1 FOR UPDATE`

	task, err := scanTask(tx.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: task %d: %w", op, id, storage.ErrTaskNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err = fn(&task); err != nil {
		return nil, err
	}

	update := `
        UPDATE geo_tasks
        SET status = $2, address = $3, lat = $4, lon = $5, failure_reason = $6
        WHERE id = $1`

	_, err = tx.ExecContext(ctx, update,
		id,
		string(task.Status),
		nullString(task.Address),
		nullFloat(task.Lat),
		nullFloat(task.Lon),
		nullString(task.FailureReason),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: commit: %w", op, err)
	}

	return &task, nil
}

// MarkTaskFailed moves a processing task to failed. Terminal tasks are left as they are.
func (s *Storage) MarkTaskFailed(ctx context.Context, id int64, reason string) error {
	const op = "storage.postgres.MarkTaskFailed"

	query := `
        UPDATE geo_tasks
        SET failure_reason = CASE WHEN status = 'processing' THEN $2 ELSE failure_reason END,
            status = CASE WHEN status = 'processing' THEN 'failed' ELSE status END
        WHERE id = $1`

	result, err := s.DB.ExecContext(ctx, query, id, reason)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: task %d: %w", op, id, storage.ErrTaskNotFound)
	}

	return nil
}

func (s *Storage) MarkTasksFailed(ctx context.Context, ids []int64, reason string) error {
	const op = "storage.postgres.MarkTasksFailed"

	if len(ids) == 0 {
		return nil
	}

	query := `
        UPDATE geo_tasks
        SET status = 'failed', failure_reason = $2
        WHERE id = ANY($1) AND status = 'processing'`

	if _, err := s.DB.ExecContext(ctx, query, pq.Array(ids), reason); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// taskDistance is the distance from the center bound at placeholders
// $lat and $lon to the task's own coordinates.
func taskDistance(lat, lon int) geo.Expr {
	return geo.CosineDistanceKm(
		geo.Var(fmt.Sprintf("$%d", lat)), geo.Var(fmt.Sprintf("$%d", lon)),
		geo.Var("t.lat"), geo.Var("t.lon"),
	)
}

func buildTaskWhere(f storage.TaskFilter) (string, []any) {
	conds := []string{"t.user_id = $1"}
	args := []any{f.UserID}

	if f.CreatedFrom != nil {
		args = append(args, *f.CreatedFrom)
		conds = append(conds, fmt.Sprintf("t.created_at >= $%d", len(args)))
	}

	if f.CreatedUntil != nil {
		args = append(args, *f.CreatedUntil)
		conds = append(conds, fmt.Sprintf("t.created_at < $%d", len(args)))
	}

	if f.Center != nil {
		args = append(args, f.Center.Lat, f.Center.Lon, f.RadiusKm)
		dist := taskDistance(len(args)-2, len(args)-1)
		conds = append(conds, fmt.Sprintf(
			"t.lat IS NOT NULL AND t.lon IS NOT NULL AND %s <= $%d", dist.SQL(), len(args),
		))
	}

	return strings.Join(conds, " AND "), args
}

// ListTasks returns one page of the user's tasks, newest first, with their
// image, owner and detected entries, plus the total number of matching tasks.
func (s *Storage) ListTasks(ctx context.Context, f storage.TaskFilter) ([]models.GeoTask, int, error) {
	const op = "storage.postgres.ListTasks"

	where, args := buildTaskWhere(f)

	var total int
	countQuery := `SELECT COUNT(*) FROM geo_tasks t WHERE ` + where
	if err := s.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: count: %w", op, err)
	}

	if total == 0 {
		return []models.GeoTask{}, 0, nil
	}

	pageArgs := append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(`
        SELECT t.id, t.status, t.user_id, t.image_id, t.address, t.lat, t.lon, t.angle, t.height, t.failure_reason, t.created_at,
               u.username, i.storage_key, i.original_filename, i.url, i.created_at
        FROM geo_tasks t
        JOIN users u ON u.id = t.user_id
        JOIN stored_images i ON i.id = t.image_id
        WHERE %s
        ORDER BY t.id DESC
        LIMIT $%d OFFSET $%d`, where, len(pageArgs)-1, len(pageArgs))

	rows, err := s.DB.QueryContext(ctx, query, pageArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var (
		tasks []models.GeoTask
		ids   []int64
	)

	for rows.Next() {
		var (
			username string
			image    models.StoredImage
		)

		task, err := scanTask(rows, &username, &image.Key, &image.OriginalName, &image.URL, &image.CreatedAt)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: scan: %w", op, err)
		}

		image.ID = task.ImageID
		image.UserID = task.UserID
		task.Image = &image
		task.User = &models.User{ID: task.UserID, Username: username}

		tasks = append(tasks, task)
		ids = append(ids, task.ID)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	detected, err := s.detectedFor(ctx, ids)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	for i := range tasks {
		tasks[i].Detected = detected[tasks[i].ID]
	}

	return tasks, total, nil
}

func (s *Storage) detectedFor(ctx context.Context, taskIDs []int64) (map[int64][]models.DetectedEntry, error) {
	query := `
        SELECT d.id, d.geo_task_id, d.image_id, d.lat, d.lon, d.created_at,
               i.storage_key, i.original_filename, i.url, i.user_id, i.created_at
        FROM detected_entries d
        JOIN stored_images i ON i.id = d.image_id
        WHERE d.geo_task_id = ANY($1)
        ORDER BY d.id`

	rows, err := s.DB.QueryContext(ctx, query, pq.Array(taskIDs))
	if err != nil {
		return nil, fmt.Errorf("detected entries: %w", err)
	}
	defer rows.Close()

	res := make(map[int64][]models.DetectedEntry)

	for rows.Next() {
		var (
			entry models.DetectedEntry
			image models.StoredImage
		)

		err = rows.Scan(
			&entry.ID, &entry.TaskID, &entry.ImageID, &entry.Lat, &entry.Lon, &entry.CreatedAt,
			&image.Key, &image.OriginalName, &image.URL, &image.UserID, &image.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("detected entries: scan: %w", err)
		}

		image.ID = entry.ImageID
		entry.Image = &image
		res[entry.TaskID] = append(res[entry.TaskID], entry)
	}

	return res, rows.Err()
}

// DeleteTask removes the user's task together with its detected entries and
// the images they reference. It returns the storage keys of the removed images
// so the caller can delete the blobs.
func (s *Storage) DeleteTask(ctx context.Context, userID, id int64) ([]string, error) {
	const op = "storage.postgres.DeleteTask"

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: begin: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var imageID int64
	err = tx.QueryRowContext(ctx,
		`SELECT image_id FROM geo_tasks WHERE id = $1 AND user_id = $2 FOR UPDATE`, id, userID,
	).Scan(&imageID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: task %d: %w", op, id, storage.ErrTaskNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := tx.QueryContext(ctx, `
        SELECT id, storage_key FROM stored_images
        WHERE id = $1 OR id IN (SELECT image_id FROM detected_entries WHERE geo_task_id = $2)`, imageID, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var (
		imageIDs []int64
		keys     []string
	)
	for rows.Next() {
		var (
			imgID int64
			key   string
		)
		if err = rows.Scan(&imgID, &key); err != nil {
			rows.Close()
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		imageIDs = append(imageIDs, imgID)
		keys = append(keys, key)
	}
	rows.Close()
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// detected_entries go with the task through ON DELETE CASCADE.
	if _, err = tx.ExecContext(ctx, `DELETE FROM geo_tasks WHERE id = $1`, id); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM stored_images WHERE id = ANY($1)`, pq.Array(imageIDs)); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: commit: %w", op, err)
	}

	return keys, nil
}
