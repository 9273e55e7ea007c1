// Package runner tracks processing runs. Every CLI invocation that produces
// a workbook registers a run, so callers can correlate log lines, output
// files and failures by one id.
package runner

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"nfsft/internal/logger"
)

// Status is the lifecycle state of a run.
type Status string

const (
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusDone       Status = "done"
	StatusError      Status = "error"
)

// ErrRunNotFound indicates the requested run id is unknown or already
// evicted.
var ErrRunNotFound = errors.New("run not found")

// Run is one processing run. Instances handed out by the registry are
// copies; only the registry mutates its own records.
type Run struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	Status     Status    `json:"status"`
	OutputPath string    `json:"output_path,omitempty"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (r Run) terminal() bool {
	return r.Status == StatusDone || r.Status == StatusError
}

// Registry is an in-memory run store with retention-based eviction:
// terminal runs older than the retention window are dropped the next time
// the registry is touched. There is no background goroutine to stop.
type Registry struct {
	mu        sync.Mutex
	runs      map[string]*Run
	retention time.Duration
	now       func() time.Time
}

// NewRegistry creates a registry evicting terminal runs after retention.
// A zero or negative retention keeps runs for the process lifetime.
func NewRegistry(retention time.Duration) *Registry {
	return &Registry{
		runs:      make(map[string]*Run),
		retention: retention,
		now:       time.Now,
	}
}

// Create registers a new queued run of the given kind and returns it.
func (g *Registry) Create(kind string) Run {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.evictLocked()

	now := g.now()
	run := &Run{
		ID:        uuid.NewString(),
		Kind:      kind,
		Status:    StatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}
	g.runs[run.ID] = run
	return *run
}

// Get returns a snapshot of the run with the given id.
func (g *Registry) Get(id string) (Run, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.evictLocked()

	run, ok := g.runs[id]
	if !ok {
		return Run{}, fmt.Errorf("%s: %w", id, ErrRunNotFound)
	}
	return *run, nil
}

// List returns snapshots of all retained runs, unordered.
func (g *Registry) List() []Run {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.evictLocked()

	out := make([]Run, 0, len(g.runs))
	for _, run := range g.runs {
		out = append(out, *run)
	}
	return out
}

// Execute runs fn under a fresh run record: the run moves to processing, fn
// produces the output path, and the run finishes as done or error. The
// terminal snapshot is returned alongside fn's error.
func (g *Registry) Execute(kind string, fn func(run Run) (string, error)) (Run, error) {
	log := logger.WithComponent("runner")

	run := g.Create(kind)
	g.setStatus(run.ID, StatusProcessing, "", "")
	log.Info().Str("run_id", run.ID).Str("kind", kind).Msg("Run started")

	outputPath, err := fn(run)
	if err != nil {
		g.setStatus(run.ID, StatusError, "", err.Error())
		log.Error().Str("run_id", run.ID).Err(err).Msg("Run failed")
		final, _ := g.Get(run.ID)
		return final, err
	}

	g.setStatus(run.ID, StatusDone, outputPath, "")
	log.Info().Str("run_id", run.ID).Str("output", outputPath).Msg("Run completed")
	final, _ := g.Get(run.ID)
	return final, nil
}

func (g *Registry) setStatus(id string, status Status, outputPath, errMsg string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	run, ok := g.runs[id]
	if !ok {
		return
	}
	run.Status = status
	run.UpdatedAt = g.now()
	if outputPath != "" {
		run.OutputPath = outputPath
	}
	run.Error = errMsg
}

func (g *Registry) evictLocked() {
	if g.retention <= 0 {
		return
	}
	cutoff := g.now().Add(-g.retention)
	for id, run := range g.runs {
		if run.terminal() && run.UpdatedAt.Before(cutoff) {
			delete(g.runs, id)
		}
	}
}

// OutputPath builds the workbook path for a run inside dir.
func OutputPath(dir, runID string) string {
	return filepath.Join(dir, runID+"_output.xlsx")
}
