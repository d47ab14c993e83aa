package worker

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingReader records how often each path is read
type countingReader struct {
	mu    sync.Mutex
	reads map[string]int
	fail  map[string]bool
}

func (r *countingReader) Read(path string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.reads == nil {
		r.reads = make(map[string]int)
	}
	r.reads[path]++
	if r.fail[path] {
		return "", errors.New("unreadable")
	}
	return "content of " + path, nil
}

func TestPrefetch_ReadsEachPathOnce(t *testing.T) {
	reader := &countingReader{fail: map[string]bool{"broken.md": true}}
	paths := []string{"b.md", "a.md", "b.md", "broken.md", "a.md"}

	results := Prefetch(context.Background(), reader, paths, 3)

	require.Len(t, results, 3)
	assert.Equal(t, "a.md", results[0].Path)
	assert.Equal(t, "b.md", results[1].Path)
	assert.Equal(t, "broken.md", results[2].Path)
	assert.NoError(t, results[0].GetError())
	assert.Error(t, results[2].GetError())

	for path, n := range reader.reads {
		assert.Equal(t, 1, n, "path %s read more than once", path)
	}
}

func TestPrefetch_Empty(t *testing.T) {
	results := Prefetch(context.Background(), &countingReader{}, nil, 4)
	assert.Empty(t, results)
}
