package scheduler

import (
	"time"

	"github.com/google/uuid"
)

// JobState is a job's position in its five-state lifecycle.
type JobState string

const (
	JobQueued    JobState = "queued"
	JobRunning   JobState = "running"
	JobCompleted JobState = "completed"
	JobFailed    JobState = "failed"
	JobCancelled JobState = "cancelled"
)

// Job is one scheduled unit of work against a plugin.
type Job struct {
	ID         uuid.UUID
	PluginID   string
	Parameters map[string]any
	Priority   int
	Timeout    time.Duration
	MaxRetries int
	RetryCount int

	State      JobState
	EnqueuedAt time.Time
	StartedAt  time.Time
	FinishedAt time.Time

	Result  any
	Err     error
	TimedOut bool

	enqueueSeq uint64
	cancel     func()
}

// jobQueue is a container/heap max-heap ordered by (Priority desc,
// enqueueSeq asc) so equal-priority jobs are dispatched FIFO.
type jobQueue []*Job

func (q jobQueue) Len() int { return len(q) }

func (q jobQueue) Less(i, j int) bool {
	if q[i].Priority != q[j].Priority {
		return q[i].Priority > q[j].Priority
	}
	return q[i].enqueueSeq < q[j].enqueueSeq
}

func (q jobQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *jobQueue) Push(x any) {
	*q = append(*q, x.(*Job))
}

func (q *jobQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}
