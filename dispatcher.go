package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/William-Gardner-Biotech/SRA-Dispatch/balancer"
	"github.com/William-Gardner-Biotech/SRA-Dispatch/internal/hooks"
	"github.com/William-Gardner-Biotech/SRA-Dispatch/internal/logger"
	"github.com/William-Gardner-Biotech/SRA-Dispatch/internal/metrics"
	"github.com/William-Gardner-Biotech/SRA-Dispatch/partition"
	"github.com/William-Gardner-Biotech/SRA-Dispatch/size"
	"github.com/William-Gardner-Biotech/SRA-Dispatch/submit"
)

// Dispatch results recorded through MetricsCollector.RecordDispatch.
const (
	ResultSuccess = "success"
	ResultTooFew  = "too_few"
	ResultError   = "error"
)

// Result describes a completed (or short-circuited) run.
type Result struct {
	// Items is the number of items the source returned.
	Items int

	// Plan is the resource plan. Zero when the run stopped before balancing.
	Plan ResourcePlan

	// Groups are the written groups in closing order.
	Groups []Group

	// RunConfigPath is where the merged run config was written.
	RunConfigPath string

	// SubmitFilePath is where the submit description was written.
	SubmitFilePath string

	// FallbackPath is set when the run was too small and the accession list
	// was written instead of balancing.
	FallbackPath string
}

// Dispatcher runs the balancing pipeline: list items, balance them into
// groups, persist the groups, merge the plan into the run config and write
// the submit description.
//
// A Dispatcher is not safe for concurrent Run calls against the same writer.
type Dispatcher struct {
	cfg     Config
	source  ItemSource
	writer  PartitionWriter
	hooks   Hooks
	metrics MetricsCollector
	logger  Logger
	now     func() time.Time
}

// NewDispatcher creates a Dispatcher.
//
// cfg is copied and defaulted; the caller's value is never modified.
//
// Parameters:
//   - cfg: Run configuration
//   - src: Item source
//   - writer: Partition writer (see NewDirWriter for the file layout jobs expect)
//   - opts: Optional configuration (WithLogger, WithMetrics, WithHooks, WithClock)
//
// Returns:
//   - *Dispatcher: Dispatcher ready to Run
//   - error: ErrSourceRequired, ErrWriterRequired or an ErrInvalidConfig wrap
//
// Example:
//
//	cfg, _ := dispatch.LoadConfig("config/config.json")
//	src := source.NewTable(cfg.Files.MetadataTable)
//	d, err := dispatch.NewDispatcher(cfg, src, dispatch.NewDirWriter(cfg))
//	res, err := d.Run(ctx)
func NewDispatcher(cfg *Config, src ItemSource, writer PartitionWriter, opts ...Option) (*Dispatcher, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: config is required", ErrInvalidConfig)
	}
	if src == nil {
		return nil, ErrSourceRequired
	}
	if writer == nil {
		return nil, ErrWriterRequired
	}

	o := dispatcherOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	d := &Dispatcher{
		cfg:     *cfg,
		source:  src,
		writer:  writer,
		hooks:   hooks.OrNop(o.hooks),
		metrics: o.metrics,
		logger:  logger.OrNop(o.logger),
		now:     o.now,
	}
	if d.metrics == nil {
		d.metrics = metrics.NewNop()
	}
	if d.now == nil {
		d.now = time.Now
	}

	SetDefaults(&d.cfg)
	if err := d.cfg.ValidateAt(d.now()); err != nil {
		return nil, err
	}
	d.cfg.ValidateWithWarnings(d.logger)

	return d, nil
}

// NewDirWriter returns the filesystem writer for cfg: one file per group in
// files.sra_list_folder and the index at files.sra_query_file.
func NewDirWriter(cfg *Config) *partition.Dir {
	return partition.NewDir(cfg.Files.SRAListFolder, cfg.Files.SRAQueryFile)
}

// Config returns a copy of the effective (defaulted) configuration.
func (d *Dispatcher) Config() Config {
	return d.cfg
}

// Run executes the pipeline once.
//
// Steps:
//  1. On CHTC runs, create the results directory (it must not exist)
//  2. List items from the source
//  3. Below minimum_submissions_for_balancing: write the deduplicated
//     accession list to the fallback path and return ErrTooFewSubmissions
//  4. Balance items into groups and persist them through the writer
//  5. Merge the plan into the run config and write it to files.submit_configs
//  6. Write the submit description to files.submit_file
//
// Hook errors are logged and never fail the run.
//
// Returns:
//   - *Result: Run summary; non-nil with FallbackPath set alongside ErrTooFewSubmissions
//   - error: Pipeline error
func (d *Dispatcher) Run(ctx context.Context) (*Result, error) {
	start := d.now()
	pc := d.cfg.ProcessConfigs

	if pc.OnCHTC {
		d.logger.Info("Configuring run for CHTC's HTC Cluster using the HTCondor workload manager.")
		if err := createOutputDir(d.cfg.Directory.OutputResults); err != nil {
			return nil, d.fail(ctx, err)
		}
	}

	items, err := d.source.ListItems(ctx)
	if err != nil {
		return nil, d.fail(ctx, fmt.Errorf("list items: %w", err))
	}
	res := &Result{Items: len(items)}
	d.logger.Info("items listed", "count", len(items))

	if len(items) < pc.MinimumSubmissionsForBalancing {
		path := d.cfg.FallbackPath(start)
		if err := writeFallback(path, items); err != nil {
			return nil, d.fail(ctx, err)
		}
		res.FallbackPath = path

		d.logger.Warn("too few submissions to balance, consider running locally",
			"items", len(items),
			"minimum", pc.MinimumSubmissionsForBalancing,
			"fallback_list", path)
		d.metrics.RecordDispatch(ResultTooFew)

		return res, fmt.Errorf("%w: %d < %d, accessions written to %s",
			ErrTooFewSubmissions, len(items), pc.MinimumSubmissionsForBalancing, path)
	}
	if len(items) == 0 {
		return nil, d.fail(ctx, ErrNoItems)
	}

	b, err := balancer.New(d.writer, balancer.WithLogger(d.logger), balancer.WithMetrics(d.metrics))
	if err != nil {
		return nil, d.fail(ctx, err)
	}

	plan, groups, err := b.Balance(items, pc.MaxCPURequest, pc.CPUPerNode)
	if err != nil {
		return nil, d.fail(ctx, err)
	}
	res.Plan = plan
	res.Groups = groups
	d.hookFailed("OnGroupsWritten", d.hooks.OnGroupsWritten(ctx, groups))

	runCfg := MergePlan(d.cfg, plan)
	if err := WriteRunConfig(runCfg, d.cfg.Files.SubmitConfigs); err != nil {
		return nil, d.fail(ctx, err)
	}
	res.RunConfigPath = d.cfg.Files.SubmitConfigs

	if err := submit.WriteFile(d.submitDescription(plan), d.cfg.Files.SubmitFile); err != nil {
		return nil, d.fail(ctx, err)
	}
	res.SubmitFilePath = d.cfg.Files.SubmitFile
	d.hookFailed("OnPlanReady", d.hooks.OnPlanReady(ctx, plan))

	d.metrics.RecordDispatch(ResultSuccess)
	d.logger.Info("dispatch complete",
		"groups", len(groups),
		"node_count", plan.NodeCount,
		"cpu_per_node", plan.CPUPerNode,
		"disk_per_node", size.Format(plan.DiskPerNode),
		"submit_file", res.SubmitFilePath,
		"elapsed", d.now().Sub(start))

	return res, nil
}

func (d *Dispatcher) submitDescription(plan ResourcePlan) submit.Description {
	f := d.cfg.Files

	inputs := slices.DeleteFunc([]string{
		f.SubmitConfigs,
		f.StaticFiles,
		f.Modules,
		f.SRAProcessingProgram,
		f.SRAQueryFile,
		f.SRAListFolder,
	}, func(s string) bool { return s == "" })

	return submit.Description{
		Executable:     f.SRAProcessingProgram,
		OutputDir:      d.cfg.Directory.OutputResults,
		ScratchDir:     d.cfg.Directory.FasterqTemp,
		CPUs:           plan.CPUPerNode,
		MemoryGB:       d.cfg.ProcessConfigs.MemoryRequest,
		DiskMB:         plan.DiskPerNode,
		TransferInputs: inputs,
		QueueFrom:      f.SRAQueryFile,
	}
}

// fail records a failed run and notifies OnError.
func (d *Dispatcher) fail(ctx context.Context, err error) error {
	d.metrics.RecordDispatch(ResultError)
	d.logger.Error("dispatch failed", "error", err)
	d.hookFailed("OnError", d.hooks.OnError(ctx, err))

	return err
}

func (d *Dispatcher) hookFailed(name string, err error) {
	if err != nil {
		d.logger.Warn("hook failed", "hook", name, "error", err)
	}
}

// createOutputDir creates the results directory, refusing to reuse one.
func createOutputDir(dir string) error {
	if err := os.MkdirAll(filepath.Dir(dir), 0o755); err != nil {
		return fmt.Errorf("create output parent: %w", err)
	}

	err := os.Mkdir(dir, 0o755)
	if errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("%w: %s", ErrOutputExists, dir)
	}
	if err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	return nil
}

// writeFallback writes the distinct item IDs, first occurrence order, one per line.
func writeFallback(path string, items []Item) error {
	seen := make(map[string]struct{}, len(items))
	ids := make([]string, 0, len(items))
	for _, it := range items {
		if _, dup := seen[it.ID]; dup {
			continue
		}
		seen[it.ID] = struct{}{}
		ids = append(ids, it.ID)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create fallback directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(strings.Join(ids, "\n")), 0o644); err != nil { //nolint:gosec // plain accession list
		return fmt.Errorf("write fallback list: %w", err)
	}

	return nil
}
