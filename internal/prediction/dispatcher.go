package prediction

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"imageLocator/internal/config"
	"imageLocator/internal/lib/logger/sl"
	"imageLocator/internal/storage"
	"imageLocator/internal/tasks"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
)

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=TaskFailer
type TaskFailer interface {
	MarkTaskFailed(ctx context.Context, id int64, reason string) error
}

type taskRequest struct {
	FileName string   `json:"fileName"`
	TaskID   string   `json:"taskId"`
	Angle    float64  `json:"angle"`
	Height   float64  `json:"height"`
	Lat      *float64 `json:"lat"`
	Lon      *float64 `json:"lon"`
}

type predictRequest struct {
	CallbackURL string        `json:"callbackUrl"`
	Tasks       []taskRequest `json:"tasks"`
}

type TaskError struct {
	TaskID string `json:"taskId"`
	Error  string `json:"error"`
}

type predictResponse struct {
	Jobs             []string    `json:"jobs"`
	ValidationErrors []TaskError `json:"validationErrors"`
}

// Result is what the prediction service accepted and rejected. An empty
// Result means the request as a whole was not accepted.
type Result struct {
	Success []string
	Errors  []TaskError
}

// Dispatcher hands GeoTasks over to the external prediction service.
type Dispatcher struct {
	log         *slog.Logger
	client      *http.Client
	endpoint    string
	callbackURL string
	tasks       TaskFailer
}

func NewDispatcher(log *slog.Logger, cfg *config.Prediction, tasks TaskFailer) *Dispatcher {
	return &Dispatcher{
		log:         log,
		client:      &http.Client{Timeout: cfg.Timeout},
		endpoint:    strings.TrimRight(cfg.BaseURL, "/") + "/api/Prediction",
		callbackURL: cfg.CallbackURL,
		tasks:       tasks,
	}
}

// Dispatch sends one prediction request for entries. Tasks rejected by the
// service are marked failed. Transport problems are logged and yield an
// empty Result.
func (d *Dispatcher) Dispatch(ctx context.Context, entries []tasks.GeocodeEntry) Result {
	const op = "prediction.Dispatcher.Dispatch"

	log := d.log.With(
		slog.String("op", op),
		slog.Int("tasks", len(entries)),
	)

	if len(entries) == 0 {
		return Result{}
	}

	resp, err := d.send(ctx, entries)
	if err != nil {
		log.Error("prediction request failed", sl.Err(err))
		return Result{}
	}

	log.Info("prediction request accepted",
		slog.Int("jobs", len(resp.Jobs)),
		slog.Int("rejected", len(resp.ValidationErrors)),
	)

	for _, ve := range resp.ValidationErrors {
		d.reject(ctx, log, ve)
	}

	return Result{
		Success: resp.Jobs,
		Errors:  resp.ValidationErrors,
	}
}

func (d *Dispatcher) send(ctx context.Context, entries []tasks.GeocodeEntry) (*predictResponse, error) {
	payload := predictRequest{
		CallbackURL: d.callbackURL,
		Tasks:       make([]taskRequest, 0, len(entries)),
	}

	for _, e := range entries {
		payload.Tasks = append(payload.Tasks, taskRequest{
			FileName: e.FileName,
			TaskID:   strconv.FormatInt(e.TaskID, 10),
			Angle:    e.Angle,
			Height:   e.Height,
			Lat:      e.Lat,
			Lon:      e.Lon,
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "*/*")

	httpResp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post: %w", err)
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode != http.StatusAccepted {
		return nil, fmt.Errorf("unexpected status %d: %s", httpResp.StatusCode, truncate(string(raw), 512))
	}

	var resp predictResponse
	if err = json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("invalid response body: %w", err)
	}

	return &resp, nil
}

func (d *Dispatcher) reject(ctx context.Context, log *slog.Logger, ve TaskError) {
	id, err := strconv.ParseInt(ve.TaskID, 10, 64)
	if err != nil {
		log.Warn("rejected task has unknown id", slog.String("task_id", ve.TaskID))
		return
	}

	if err = d.tasks.MarkTaskFailed(ctx, id, ve.Error); err != nil {
		if errors.Is(err, storage.ErrTaskNotFound) {
			log.Warn("rejected task not found", slog.Int64("task_id", id))
			return
		}
		log.Error("failed to mark task failed", slog.Int64("task_id", id), sl.Err(err))
		return
	}

	log.Info("task rejected by prediction service", slog.Int64("task_id", id), slog.String("reason", ve.Error))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
