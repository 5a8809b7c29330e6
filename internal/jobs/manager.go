package jobs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/docflow/docflow/internal/pipeline"
	"github.com/docflow/docflow/pkg/lifecycle"
	"github.com/docflow/docflow/pkg/storage"
)

// Options configures the job manager.
type Options struct {
	MaxConcurrent     int64
	AllowedExtensions []string
	ProcessingTimeout time.Duration
	Thresholds        pipeline.Thresholds
}

type manager struct {
	registry  *Registry
	delegate  pipeline.Delegate
	store     storage.System
	snapshots SnapshotStore
	sem       *semaphore.Weighted
	opts      Options
	logger    *slog.Logger
	base      context.Context
}

// New creates a job manager. Zero-valued options fall back to defaults:
// five concurrent slots, a five minute processing timeout, the standard
// document extensions, and the standard routing thresholds.
func New(
	delegate pipeline.Delegate,
	store storage.System,
	snapshots SnapshotStore,
	logger *slog.Logger,
	opts Options,
) System {
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 5
	}
	if opts.ProcessingTimeout <= 0 {
		opts.ProcessingTimeout = 5 * time.Minute
	}
	if len(opts.AllowedExtensions) == 0 {
		opts.AllowedExtensions = []string{".pdf", ".txt", ".doc", ".docx"}
	}
	if opts.Thresholds == (pipeline.Thresholds{}) {
		opts.Thresholds = pipeline.DefaultThresholds()
	}

	return &manager{
		registry:  NewRegistry(),
		delegate:  delegate,
		store:     store,
		snapshots: snapshots,
		sem:       semaphore.NewWeighted(opts.MaxConcurrent),
		opts:      opts,
		logger:    logger.With("system", "jobs"),
		base:      context.Background(),
	}
}

func (m *manager) Handler(maxUploadSize int64) *Handler {
	return NewHandler(m, m.logger, maxUploadSize)
}

func (m *manager) Start(lc *lifecycle.Coordinator) error {
	m.logger.Info("starting jobs system",
		"max_concurrent", m.opts.MaxConcurrent,
		"processing_timeout", m.opts.ProcessingTimeout,
	)
	m.base = lc.Context()
	lc.OnStartup(func() {
		m.restore(lc.Context())
	})
	return nil
}

// restore replays persisted terminal results into the registry so earlier
// runs stay visible to status, results, and list requests after a restart.
// Jobs already present, such as uploads racing startup, are left alone.
func (m *manager) restore(ctx context.Context) {
	results, err := m.snapshots.List(ctx)
	if err != nil {
		m.logger.Error("snapshot restore failed", "error", err)
		return
	}

	restored := 0
	for _, result := range results {
		if _, err := m.registry.Get(result.DocumentID); err == nil {
			continue
		}
		m.registry.Insert(&Job{
			ID:        result.DocumentID,
			Filename:  result.Filename,
			Status:    result.Status,
			Timestamp: result.Timestamp,
			Result:    result,
		})
		restored++
	}

	if restored > 0 {
		m.logger.Info("restored jobs from snapshots", "count", restored)
	}
}

func (m *manager) Submit(ctx context.Context, cmd SubmitCommand) (*UploadResponse, error) {
	ext := strings.ToLower(filepath.Ext(cmd.Filename))
	if !slices.Contains(m.opts.AllowedExtensions, ext) {
		return nil, fmt.Errorf("%w: %s (allowed: %s)",
			ErrUnsupportedFileType, ext, strings.Join(m.opts.AllowedExtensions, ", "))
	}

	if !m.sem.TryAcquire(1) {
		return nil, fmt.Errorf("%w: %d documents already processing",
			ErrAdmissionRejected, m.opts.MaxConcurrent)
	}

	id := uuid.New()
	now := time.Now().UTC()
	key := fmt.Sprintf("uploads/%s_%s", id, cmd.Filename)

	if err := m.store.Upload(ctx, key, bytes.NewReader(cmd.Data), cmd.ContentType); err != nil {
		m.sem.Release(1)
		return nil, fmt.Errorf("store upload: %w", err)
	}

	m.registry.Insert(&Job{
		ID:        id,
		Filename:  cmd.Filename,
		Status:    pipeline.StatusPending,
		Timestamp: now,
	})

	meta := pipeline.Metadata{
		SizeBytes:  int64(len(cmd.Data)),
		UploadTime: now,
		StorageKey: key,
	}
	go m.process(id, cmd.Filename, meta)

	m.logger.Info("document accepted", "job_id", id, "filename", cmd.Filename, "size", meta.SizeBytes)

	return &UploadResponse{
		DocumentID: id,
		Status:     pipeline.StatusPending,
		Message:    "Document uploaded and queued for processing",
	}, nil
}

// process is the background pipeline task for one job. The slot acquired
// in Submit is released here exactly once, on every outcome including a
// lost cancellation race and a panic.
func (m *manager) process(id uuid.UUID, filename string, meta pipeline.Metadata) {
	defer m.sem.Release(1)
	defer func() {
		if p := recover(); p != nil {
			m.fail(id, filename, fmt.Errorf("pipeline panic: %v", p))
		}
	}()
	defer m.cleanup(id, meta.StorageKey)

	if !m.registry.Begin(id) {
		m.logger.Info("job cancelled before processing started", "job_id", id)
		return
	}

	ctx, cancel := context.WithTimeout(m.base, m.opts.ProcessingTimeout)
	defer cancel()

	reader, err := m.store.Download(ctx, meta.StorageKey)
	if err != nil {
		m.fail(id, filename, fmt.Errorf("download document: %w", err))
		return
	}
	content, err := io.ReadAll(reader)
	reader.Close()
	if err != nil {
		m.fail(id, filename, fmt.Errorf("read document: %w", err))
		return
	}

	state := &pipeline.State{
		JobID:     id,
		Filename:  filename,
		Content:   string(content),
		Metadata:  meta,
		Status:    pipeline.StatusProcessing,
		Errors:    []string{},
		StartTime: time.Now().UTC(),
	}

	rt := &pipeline.Runtime{
		Delegate:   m.delegate,
		Thresholds: m.opts.Thresholds,
		Logger:     m.logger,
	}

	if err := pipeline.Run(ctx, rt, state, func(s pipeline.Status) {
		m.registry.SetStatus(id, s)
	}); err != nil {
		state.Errors = append(state.Errors, fmt.Sprintf("orchestration: %v", err))
		state.Status = pipeline.StatusFailed
		result := NewResult(state)
		m.registry.Complete(id, pipeline.StatusFailed, result)
		m.snapshot(result)
		return
	}

	result := NewResult(state)
	m.registry.Complete(id, state.Status, result)
	m.snapshot(result)
}

// fail records a terminal failure that occurred outside the pipeline stages.
func (m *manager) fail(id uuid.UUID, filename string, err error) {
	m.logger.Error("job failed", "job_id", id, "error", err)

	result := &Result{
		DocumentID: id,
		Status:     pipeline.StatusFailed,
		Filename:   filename,
		Errors:     []string{err.Error()},
		Timestamp:  time.Now().UTC(),
	}
	m.registry.Complete(id, pipeline.StatusFailed, result)
	m.snapshot(result)
}

// cleanup removes the uploaded blob once the pipeline task is done with it,
// whether the job finished, failed, or was cancelled before it started.
func (m *manager) cleanup(id uuid.UUID, key string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := m.store.Delete(ctx, key); err != nil && !errors.Is(err, storage.ErrNotFound) {
		m.logger.Error("blob cleanup failed", "job_id", id, "key", key, "error", err)
	}
}

// snapshot persists a terminal result. Persistence failures are logged
// but never affect the job outcome, which lives in the registry.
func (m *manager) snapshot(result *Result) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := m.snapshots.Save(ctx, result); err != nil {
		m.logger.Error("snapshot persistence failed", "job_id", result.DocumentID, "error", err)
	}
}

func (m *manager) Status(id uuid.UUID) (*StatusResponse, error) {
	job, err := m.registry.Get(id)
	if err != nil {
		return nil, err
	}

	return &StatusResponse{
		DocumentID: job.ID,
		Status:     job.Status,
		Filename:   job.Filename,
		Timestamp:  job.Timestamp,
	}, nil
}

func (m *manager) Result(ctx context.Context, id uuid.UUID) (*Result, error) {
	job, err := m.registry.Get(id)
	if err != nil {
		return nil, err
	}

	switch {
	case job.Status == pipeline.StatusPending:
		return nil, ErrStillPending
	case !job.Status.Terminal():
		return nil, fmt.Errorf("%w: %s", ErrStillProcessing, job.Status)
	}

	if job.Result != nil {
		return job.Result, nil
	}

	return m.snapshots.Find(ctx, id)
}

func (m *manager) Cancel(ctx context.Context, id uuid.UUID) (*Result, error) {
	job, err := m.registry.Get(id)
	if err != nil {
		return nil, err
	}

	result := &Result{
		DocumentID: id,
		Status:     pipeline.StatusFailed,
		Filename:   job.Filename,
		Errors:     []string{"Processing cancelled by user"},
		Timestamp:  time.Now().UTC(),
	}

	if err := m.registry.CancelPending(id, result); err != nil {
		return nil, err
	}

	m.logger.Info("job cancelled", "job_id", id)

	if err := m.snapshots.Save(ctx, result); err != nil {
		m.logger.Error("snapshot persistence failed", "job_id", id, "error", err)
	}

	return result, nil
}

func (m *manager) List() ListResult {
	return m.registry.List()
}
