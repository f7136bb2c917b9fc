package runner

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/yaklabco/gocallout/internal/logging"
	"github.com/yaklabco/gocallout/pkg/config"
	"github.com/yaklabco/gocallout/pkg/fsutil"
	"github.com/yaklabco/gocallout/pkg/pipeline"
)

var (
	// ErrNilPipeline is returned by Run when the runner has no pipeline.
	ErrNilPipeline = errors.New("runner has no pipeline")

	// ErrOutputCollision marks a file whose output path is already taken by
	// an earlier file of the same run.
	ErrOutputCollision = errors.New("output path collision")
)

// Runner renders files concurrently through a shared pipeline.
type Runner struct {
	// Pipeline renders each document. It is shared by all workers.
	Pipeline *pipeline.Pipeline
}

// New creates a new Runner with the given pipeline.
func New(p *pipeline.Pipeline) *Runner {
	return &Runner{Pipeline: p}
}

// Run discovers files under opts.Paths and processes them with a worker
// pool. Outcomes are returned in path order whatever order workers finish
// in. Per-file failures are reported in the outcomes, not as an error.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	if r == nil || r.Pipeline == nil {
		return nil, ErrNilPipeline
	}

	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	cfg := opts.config()
	logger := logging.FromContext(ctx)
	logger.Debug("discovered files", logging.FieldFilesDiscovered, len(files))

	result := &Result{Files: make([]FileOutcome, 0, len(files))}
	result.Stats.FilesDiscovered = len(files)

	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(files))

	var collisions map[string]string
	if opts.Mode == ModeRender {
		collisions = outputCollisions(files, workDir, cfg)
	}

	workCh := make(chan string)
	outCh := make(chan FileOutcome)

	var wg sync.WaitGroup
	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.worker(ctx, workCh, outCh, workDir, opts.Mode, cfg, collisions)
		}()
	}

	go func() {
		defer close(workCh)
		for _, path := range files {
			select {
			case <-ctx.Done():
				return
			case workCh <- path:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	outcomes := make(map[string]FileOutcome, len(files))
	for outcome := range outCh {
		outcomes[outcome.Path] = outcome
	}

	writes := opts.Mode == ModeRender && !cfg.DryRun
	for _, path := range files {
		if outcome, ok := outcomes[path]; ok {
			result.accumulate(outcome, writes)
		}
	}

	if ctx.Err() != nil {
		return result, fmt.Errorf("run cancelled: %w", ctx.Err())
	}

	return result, nil
}

func (r *Runner) worker(
	ctx context.Context,
	workCh <-chan string,
	outCh chan<- FileOutcome,
	workDir string,
	mode Mode,
	cfg *config.Config,
	collisions map[string]string,
) {
	for path := range workCh {
		if ctx.Err() != nil {
			return
		}

		outcome := r.process(ctx, path, workDir, mode, cfg, collisions[path])

		select {
		case <-ctx.Done():
			return
		case outCh <- outcome:
		}
	}
}

// process renders one file and, in render mode, writes its output. taken
// names the earlier file that already renders to the same output, if any.
func (r *Runner) process(
	ctx context.Context,
	path, workDir string,
	mode Mode,
	cfg *config.Config,
	taken string,
) FileOutcome {
	logger := logging.ForFile(ctx, path)
	outcome := FileOutcome{Path: path}

	source, _, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		outcome.Error = err
		return outcome
	}

	rendered, err := r.Pipeline.Render(ctx, source)
	if err != nil {
		outcome.Error = fmt.Errorf("%s: %w", path, err)
		return outcome
	}
	outcome.Findings = rendered.Findings
	outcome.Stats = rendered.Stats

	logger.Debug("rendered",
		logging.FieldCallouts, rendered.Stats.Callouts,
		logging.FieldAdmonitions, rendered.Stats.Admonitions,
	)

	if mode != ModeRender {
		return outcome
	}

	outcome.OutputPath = OutputPath(path, workDir, cfg)
	if taken != "" {
		outcome.Error = fmt.Errorf("%w: %s and %s both render to %s",
			ErrOutputCollision, taken, path, outcome.OutputPath)
		return outcome
	}
	if cfg.DryRun {
		return outcome
	}

	page, err := Page(rendered, path, cfg)
	if err != nil {
		outcome.Error = fmt.Errorf("%s: %w", path, err)
		return outcome
	}

	outcome.Written, err = fsutil.WriteAtomicIfChanged(ctx, outcome.OutputPath, []byte(page), 0)
	if err != nil {
		outcome.Error = fmt.Errorf("write %s: %w", outcome.OutputPath, err)
		return outcome
	}
	if outcome.Written {
		logger.Debug("wrote output", logging.FieldOutput, outcome.OutputPath)
	}

	return outcome
}

// outputCollisions maps every file whose output path was already claimed
// by an earlier file, in path order, to that earlier file.
func outputCollisions(files []string, workDir string, cfg *config.Config) map[string]string {
	owners := make(map[string]string, len(files))
	collisions := make(map[string]string)
	for _, path := range files {
		out := OutputPath(path, workDir, cfg)
		if owner, ok := owners[out]; ok {
			collisions[path] = owner
			continue
		}
		owners[out] = path
	}
	return collisions
}

// Page returns the final output for a rendered document: the body markup,
// or a complete HTML page when cfg.Standalone is set.
func Page(rendered *pipeline.Result, path string, cfg *config.Config) (string, error) {
	if cfg == nil || !cfg.Standalone {
		return rendered.HTML, nil
	}
	return pipeline.WrapPage(pipeline.Title(rendered.Meta, path), rendered.HTML)
}

// OutputPath returns the rendered file path for source. Without an output
// directory the output sits next to the source. With one, the source's
// path relative to workDir is mirrored beneath it; sources outside workDir
// land at its top level.
func OutputPath(source, workDir string, cfg *config.Config) string {
	ext := config.DefaultExtension
	outDir := ""
	if cfg != nil {
		if cfg.Extension != "" {
			ext = cfg.Extension
		}
		outDir = cfg.OutputDir
	}

	name := strings.TrimSuffix(source, filepath.Ext(source)) + ext
	if outDir == "" {
		return name
	}

	if !filepath.IsAbs(outDir) {
		outDir = filepath.Join(workDir, outDir)
	}

	rel, err := filepath.Rel(workDir, name)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		rel = filepath.Base(name)
	}
	return filepath.Join(outDir, rel)
}
