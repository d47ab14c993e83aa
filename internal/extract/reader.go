package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/ppiankov/specsynth/internal/cache"
	"github.com/ppiankov/specsynth/internal/model"
	"go.uber.org/zap"
)

// DocumentReader reads source documents from the repository and extracts
// their claims. Reads are best-effort: a document that cannot be read
// contributes no claims.
type DocumentReader struct {
	root      string
	cache     cache.Cache
	extractor *ClaimExtractor
	logger    *zap.Logger
	failures  atomic.Int64
}

// NewDocumentReader creates a reader rooted at repoRoot. A nil cache
// disables memoization; a nil logger discards log output.
func NewDocumentReader(repoRoot string, c cache.Cache, logger *zap.Logger) *DocumentReader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentReader{
		root:      repoRoot,
		cache:     c,
		extractor: NewClaimExtractor(),
		logger:    logger,
	}
}

// Read returns the text of the document at the repo-relative path. HTML
// documents are converted to heading-marked lines. Invalid UTF-8 is
// replaced rather than rejected.
func (r *DocumentReader) Read(path string) (string, error) {
	key := cache.DocumentKey(path)
	if r.cache != nil {
		if data, found := r.cache.Get(key); found {
			return string(data), nil
		}
	}

	full := filepath.Join(r.root, model.CleanPath(path))
	data, err := os.ReadFile(full)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	text := strings.ToValidUTF8(string(data), "�")
	if isHTML(path) {
		text, err = HTMLToText(text)
		if err != nil {
			return "", fmt.Errorf("parse html %s: %w", path, err)
		}
	}

	if r.cache != nil {
		_ = r.cache.Set(key, []byte(text), 0)
	}
	return text, nil
}

// Claims reads path and extracts its claims. Failures are logged and
// counted, and yield no claims.
func (r *DocumentReader) Claims(path string) []model.Claim {
	text, err := r.Read(path)
	if err != nil {
		r.failures.Add(1)
		r.logger.Warn("source document unreadable, skipping",
			zap.String("path", path),
			zap.Error(err))
		return nil
	}
	return r.extractor.Extract(text, path)
}

// Failures returns how many Claims calls could not read their document
func (r *DocumentReader) Failures() int {
	return int(r.failures.Load())
}
