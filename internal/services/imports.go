package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"patrimonio/internal/importer"
	"patrimonio/internal/models"
)

// ImportTaskService persists asynchronous import runs in the
// import_tasks table and drives the pipeline for one task.
type ImportTaskService struct {
	DB  *sql.DB
	Log *zap.SugaredLogger
}

func NewImportTaskService(db *sql.DB, log *zap.SugaredLogger) *ImportTaskService {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &ImportTaskService{DB: db, Log: log}
}

func (s *ImportTaskService) CreateTask(ctx context.Context, payloadPath string) (*models.ImportTask, error) {
	now := time.Now()
	task := &models.ImportTask{
		ID:          uuid.NewString(),
		Status:      models.ImportPending,
		PayloadPath: payloadPath,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO import_tasks (id, status, progress, error, payload_path, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, task.ID, string(task.Status), task.Progress, task.Error, task.PayloadPath, task.CreatedAt, task.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (s *ImportTaskService) UpdateStatus(ctx context.Context, id string, status models.ImportTaskStatus, progress int, errMsg string) error {
	_, err := s.DB.ExecContext(ctx, `
		UPDATE import_tasks SET status=$1, progress=$2, error=$3, updated_at=$4 WHERE id=$5
	`, string(status), progress, errMsg, time.Now(), id)
	return err
}

func (s *ImportTaskService) GetTask(ctx context.Context, id string) (*models.ImportTask, error) {
	var task models.ImportTask
	var result []byte
	err := s.DB.QueryRowContext(ctx, `
		SELECT id, status, progress, error, payload_path, result, created_at, updated_at
		FROM import_tasks WHERE id=$1
	`, id).Scan(&task.ID, &task.Status, &task.Progress, &task.Error, &task.PayloadPath, &result, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(result) > 0 {
		var parsed models.ImportResult
		if err := json.Unmarshal(result, &parsed); err == nil {
			task.Result = &parsed
		}
	}
	return &task, nil
}

// Cleanup removes the uploaded payload file after completion.
func (s *ImportTaskService) Cleanup(task *models.ImportTask) {
	if task.PayloadPath != "" {
		_ = os.Remove(task.PayloadPath)
	}
}

// Process runs the pipeline for one task, persisting progress after
// every row and the final result when the run completes. Meant to be
// called from a background goroutine; errors are recorded on the task.
func (s *ImportTaskService) Process(ctx context.Context, task *models.ImportTask, imp *importer.Importer, rows []models.ImportRow) {
	_ = s.UpdateStatus(ctx, task.ID, models.ImportRunning, 0, "")

	imp.Progress = func(done, total int) {
		progress := 100
		if total > 0 {
			progress = done * 100 / total
		}
		_ = s.UpdateStatus(ctx, task.ID, models.ImportRunning, progress, "")
	}

	result := <-importer.Run(ctx, imp, rows)
	s.finish(ctx, task, result)
	s.Cleanup(task)
}

func (s *ImportTaskService) finish(ctx context.Context, task *models.ImportTask, result models.ImportResult) {
	status := models.ImportSuccess
	switch {
	case result.Success:
		status = models.ImportSuccess
	case result.Imported > 0:
		status = models.ImportPartial
	default:
		status = models.ImportFailed
	}
	payload, err := json.Marshal(result)
	if err != nil {
		s.Log.Errorw("marshal import result", "task", task.ID, "error", err)
	}
	errMsg := ""
	if len(result.Errors) > 0 {
		errMsg = result.Errors[0]
	}
	_, err = s.DB.ExecContext(ctx, `
		UPDATE import_tasks SET status=$1, progress=100, error=$2, result=$3, updated_at=$4 WHERE id=$5
	`, string(status), errMsg, payload, time.Now(), task.ID)
	if err != nil {
		s.Log.Errorw("persist import result", "task", task.ID, "error", err)
	}
}
