// Package jobstore tracks clipping jobs across their lifecycle. The
// pipeline itself stays stateless; callers persist job state through the
// Store interface with whichever backend the deployment configures.
package jobstore

import (
	"context"
	"errors"
	"time"

	"github.com/vcutpro/vcut/internal/types"
)

type Status string

const (
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

var ErrNotFound = errors.New("job not found")

// Job is one clipping run's externally visible state.
type Job struct {
	ID        string             `json:"id"`
	Status    Status             `json:"status"`
	Progress  int                `json:"progress"` // 0-100
	Stage     string             `json:"stage"`
	Mode      string             `json:"mode"`
	Clips     []types.ClipResult `json:"clips"`
	Error     string             `json:"error,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// Store persists jobs. Implementations must return copies from Get/List so
// callers cannot mutate stored state in place.
type Store interface {
	Create(ctx context.Context, job *Job) error
	Get(ctx context.Context, id string) (*Job, error)
	Update(ctx context.Context, job *Job) error
	List(ctx context.Context) ([]*Job, error)
	Close() error
}

func cloneJob(j *Job) *Job {
	out := *j
	out.Clips = append([]types.ClipResult(nil), j.Clips...)
	return &out
}
