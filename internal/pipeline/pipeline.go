// Package pipeline runs canonical spec synthesis end to end: load,
// select, extract, synthesize, report.
package pipeline

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/ppiankov/specsynth/internal/artifact"
	"github.com/ppiankov/specsynth/internal/cache"
	"github.com/ppiankov/specsynth/internal/config"
	"github.com/ppiankov/specsynth/internal/extract"
	"github.com/ppiankov/specsynth/internal/model"
	"github.com/ppiankov/specsynth/internal/report"
	"github.com/ppiankov/specsynth/internal/score"
	"github.com/ppiankov/specsynth/internal/synth"
	"github.com/ppiankov/specsynth/internal/worker"
)

// Options are the user-supplied locations of a run. Empty fields fall
// back to detection and defaults.
type Options struct {
	WorkDir             string
	RepoRoot            string
	Inputs              string
	Out                 string
	Config              string
	AllowExternalOutput bool
}

// Plan is a fully resolved, loaded run that has not written anything yet
type Plan struct {
	RepoRoot  string
	InputsDir string
	OutDir    string
	Config    *config.LoadResult
	Artifacts *artifact.Artifacts
}

// Prepare resolves paths, loads the run configuration and the input
// artifacts. Any error returned here is fatal to the run.
func Prepare(opts Options, logger *zap.Logger) (*Plan, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	repoRoot, err := config.ResolveRepoRoot(opts.RepoRoot, opts.WorkDir)
	if err != nil {
		return nil, fmt.Errorf("repo root: %w", err)
	}

	outDir, err := config.ResolveOutput(repoRoot, opts.Out)
	if err != nil {
		return nil, fmt.Errorf("output path: %w", err)
	}

	loaded := config.Load(config.Discover(opts.Config, repoRoot, outDir))
	for _, w := range loaded.Warnings {
		logger.Warn(w)
	}
	if loaded.Reproducible() {
		logger.Info("configuration loaded", zap.String("path", loaded.Path))
	} else {
		logger.Warn("running with fallback defaults, output is not reproducible",
			zap.String("hint", "use --config docs/spec/RUN_CONFIG.json"))
	}

	inputsDir, err := config.ResolveInputs(repoRoot, opts.Inputs, loaded.Config)
	if err != nil {
		return nil, err
	}

	if err := config.CheckOutput(outDir, repoRoot, opts.AllowExternalOutput); err != nil {
		return nil, err
	}

	arts, err := artifact.Load(inputsDir)
	if err != nil {
		return nil, err
	}
	logger.Info("artifacts loaded",
		zap.String("inputs", inputsDir),
		zap.Int("clusters", len(arts.Clusters)),
		zap.Int("documents", arts.Documents.Len()))

	return &Plan{
		RepoRoot:  repoRoot,
		InputsDir: inputsDir,
		OutDir:    outDir,
		Config:    loaded,
		Artifacts: arts,
	}, nil
}

// ClusterResult is the synthesis output of one cluster
type ClusterResult struct {
	Cluster    model.Cluster
	Ranked     []model.ScoredSource
	ClaimCount int // Claims extracted before filtering and deduplication
	Spec       model.CanonicalSpec
	Rows       []model.TraceabilityRow
	Conflicts  []report.Conflict
}

// Result holds everything a run produces, ready to be written
type Result struct {
	Meta             report.RunMeta
	Clusters         []ClusterResult
	Rows             []model.TraceabilityRow
	Conflicts        []report.Conflict
	MasterIndex      string
	ConflictRegister string
	DeprecationMap   string
	ReadFailures     int
}

// Specs returns the canonical specs in cluster order
func (r *Result) Specs() []model.CanonicalSpec {
	specs := make([]model.CanonicalSpec, len(r.Clusters))
	for i, c := range r.Clusters {
		specs[i] = c.Spec
	}
	return specs
}

// Pipeline orchestrates the synthesis stages
type Pipeline struct {
	logger   *zap.Logger
	progress io.Writer
	workers  int
}

// NewPipeline creates a pipeline. Progress lines go to progress; a nil
// writer discards them.
func NewPipeline(logger *zap.Logger, progress io.Writer, workers int) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	if progress == nil {
		progress = io.Discard
	}
	if workers <= 0 {
		workers = 4
	}
	return &Pipeline{logger: logger, progress: progress, workers: workers}
}

// Run synthesizes every cluster of plan in cluster-map order
func (p *Pipeline) Run(ctx context.Context, plan *Plan) (*Result, error) {
	cfg := plan.Config.Config
	arts := plan.Artifacts
	index := arts.Documents

	// 1. Select core sources
	selector := score.NewSelector(cfg)
	ranked := make([][]model.ScoredSource, len(arts.Clusters))
	selected := make([][]string, len(arts.Clusters))
	var all []string
	for i, cl := range arts.Clusters {
		ranked[i] = selector.Rank(cl, index)
		selected[i] = selector.Take(ranked[i])
		all = append(all, selected[i]...)
	}

	// 2. Warm the document cache concurrently
	reader := extract.NewDocumentReader(plan.RepoRoot, cache.NewRunCache(), p.logger)
	prefetched := worker.Prefetch(ctx, reader, all, p.workers)
	p.logger.Debug("documents prefetched", zap.Int("documents", len(prefetched)))
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("prefetch: %w", err)
	}

	// 3. Extract, synthesize and register conflicts, one cluster at a time
	res := &Result{Meta: report.NewRunMeta(plan.Config.Mode)}
	cursor := report.NewConflictCursor()

	for i, cl := range arts.Clusters {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fmt.Fprintf(p.progress, "\nProcessing: %s\n", cl.Name)

		sources := selected[i]
		fmt.Fprintf(p.progress, "  Selected %d core sources\n", len(sources))

		var claims []model.Claim
		for _, src := range sources {
			claims = append(claims, reader.Claims(src)...)
		}
		fmt.Fprintf(p.progress, "  Extracted %d claims\n", len(claims))

		filename := synth.Filename(cl.Name, cfg.ClusterFilenames)
		spec := synth.GenerateSpec(cl.Name, filename, sources, claims, cfg)
		rows := synth.TraceRows(spec, index)
		for _, r := range rows {
			if r.Status == model.TraceStatusUntraceable {
				p.logger.Warn("claim source is not in the document index",
					zap.String("claim_id", r.ClaimID),
					zap.String("source", r.SourcePath),
					zap.String("spec", filename))
			}
		}

		var conflicts []report.Conflict
		conflicts, cursor = cursor.Collect(cl)

		p.logger.Debug("cluster synthesized",
			zap.String("cluster", cl.Name),
			zap.String("spec", filename),
			zap.Int("sources", len(sources)),
			zap.Int("claims", len(claims)),
			zap.Int("traced", len(rows)),
			zap.Int("conflicts", len(conflicts)))

		res.Clusters = append(res.Clusters, ClusterResult{
			Cluster:    cl,
			Ranked:     ranked[i],
			ClaimCount: len(claims),
			Spec:       spec,
			Rows:       rows,
			Conflicts:  conflicts,
		})
		res.Rows = append(res.Rows, rows...)
		res.Conflicts = append(res.Conflicts, conflicts...)
	}

	// 4. Cross-cutting reports
	specs := res.Specs()
	res.MasterIndex = report.MasterIndex(specs, res.Meta)
	res.ConflictRegister = report.ConflictRegister(res.Conflicts)
	res.DeprecationMap = report.DeprecationMap(specs, index, cfg)
	res.ReadFailures = reader.Failures()

	if res.ReadFailures > 0 {
		p.logger.Warn("some source documents could not be read", zap.Int("failures", res.ReadFailures))
	}
	return res, nil
}
