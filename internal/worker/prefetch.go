package worker

import (
	"context"
	"sort"
)

// Reader loads a source document by repo-relative path
type Reader interface {
	Read(path string) (string, error)
}

// ReadJob reads one document so later reads are served from cache
type ReadJob struct {
	Path   string
	Reader Reader
}

// Execute executes the read job
func (j *ReadJob) Execute(ctx context.Context) Result {
	if err := ctx.Err(); err != nil {
		return &ReadResult{Path: j.Path, Error: err}
	}
	_, err := j.Reader.Read(j.Path)
	return &ReadResult{Path: j.Path, Error: err}
}

// ReadResult represents the result of a read job
type ReadResult struct {
	Path  string
	Error error
}

// GetError returns the error from the read result
func (r *ReadResult) GetError() error {
	return r.Error
}

// Prefetch reads every distinct path concurrently with the given number
// of workers. Results are sorted by path.
func Prefetch(ctx context.Context, reader Reader, paths []string, workers int) []*ReadResult {
	seen := make(map[string]bool, len(paths))
	var jobs []Job
	for _, path := range paths {
		if seen[path] {
			continue
		}
		seen[path] = true
		jobs = append(jobs, &ReadJob{Path: path, Reader: reader})
	}

	if len(jobs) == 0 {
		return []*ReadResult{}
	}

	results := NewPool(workers).Run(ctx, jobs)

	readResults := make([]*ReadResult, len(results))
	for i, result := range results {
		readResults[i] = result.(*ReadResult)
	}
	sort.Slice(readResults, func(i, j int) bool {
		return readResults[i].Path < readResults[j].Path
	})

	return readResults
}
