package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type errResult struct {
	err error
}

func (r *errResult) GetError() error {
	return r.err
}

// trackingJob records how many jobs run at once
type trackingJob struct {
	fail    bool
	active  *int32
	peak    *int32
	hold    time.Duration
	started *int32
}

func (j *trackingJob) Execute(ctx context.Context) Result {
	if j.started != nil {
		atomic.AddInt32(j.started, 1)
	}
	if j.active != nil {
		n := atomic.AddInt32(j.active, 1)
		defer atomic.AddInt32(j.active, -1)
		for {
			p := atomic.LoadInt32(j.peak)
			if n <= p || atomic.CompareAndSwapInt32(j.peak, p, n) {
				break
			}
		}
	}
	if j.hold > 0 {
		select {
		case <-time.After(j.hold):
		case <-ctx.Done():
			return &errResult{err: ctx.Err()}
		}
	}
	if j.fail {
		return &errResult{err: errors.New("read failed")}
	}
	return &errResult{}
}

func TestNewPool_MinimumOneWorker(t *testing.T) {
	assert.Equal(t, 3, NewPool(3).workers)
	assert.Equal(t, 1, NewPool(0).workers)
	assert.Equal(t, 1, NewPool(-2).workers)
}

func TestPool_RunReturnsEveryResult(t *testing.T) {
	var started int32
	jobs := make([]Job, 50)
	for i := range jobs {
		jobs[i] = &trackingJob{started: &started, fail: i%10 == 0}
	}

	results := NewPool(4).Run(context.Background(), jobs)

	assert.Len(t, results, 50)
	assert.Equal(t, int32(50), atomic.LoadInt32(&started))

	failed := 0
	for _, r := range results {
		if r.GetError() != nil {
			failed++
		}
	}
	assert.Equal(t, 5, failed)
}

func TestPool_RunBoundsConcurrency(t *testing.T) {
	var active, peak int32
	jobs := make([]Job, 12)
	for i := range jobs {
		jobs[i] = &trackingJob{active: &active, peak: &peak, hold: 10 * time.Millisecond}
	}

	results := NewPool(3).Run(context.Background(), jobs)

	assert.Len(t, results, 12)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(3))
	assert.GreaterOrEqual(t, atomic.LoadInt32(&peak), int32(1))
}

func TestPool_RunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var started int32
	jobs := make([]Job, 20)
	for i := range jobs {
		jobs[i] = &trackingJob{started: &started}
	}

	results := NewPool(2).Run(ctx, jobs)

	assert.Empty(t, results)
	assert.Zero(t, atomic.LoadInt32(&started))
}

func TestPool_RunNoJobs(t *testing.T) {
	assert.Empty(t, NewPool(4).Run(context.Background(), nil))
}
