package dispatch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DateLayout is the day-month-year layout used for the dates section.
const DateLayout = "02-01-2006"

// Today is the dates keyword for the current day. As an end date it means
// yesterday, the last complete publication day.
const Today = "today"

// DefaultFallbackList is the fallback list path used when neither
// files.fallback_list nor a date window is configured.
const DefaultFallbackList = "fallback_accessions.txt"

// ProcessConfig holds compute budget settings and, after a run, the derived plan.
type ProcessConfig struct {
	// MaxCPURequest is the total number of CPUs the run may request across all nodes.
	MaxCPURequest int `yaml:"max_cpu_request" json:"max_cpu_request"`

	// CPUPerNode is the base CPU request per node. A completed run overwrites it
	// with the reallocated value.
	CPUPerNode int `yaml:"cpu_per_node" json:"cpu_per_node"`

	// MemoryRequest is the per-node memory request in gigabytes.
	MemoryRequest int `yaml:"memory_request" json:"memory_request"`

	// MinimumSubmissionsForBalancing is the smallest run list worth balancing.
	// Smaller lists are written to the fallback list instead.
	MinimumSubmissionsForBalancing int `yaml:"minimum_submissions_for_balancing" json:"minimum_submissions_for_balancing"`

	// OnCHTC marks a cluster run; the results directory is created up front
	// and must not exist yet.
	OnCHTC bool `yaml:"on_chtc" json:"on_chtc"`

	// DiskRequest is the per-node disk threshold in megabytes, written by a run.
	DiskRequest float64 `yaml:"disk_request,omitempty" json:"disk_request,omitempty"`

	// NodeCount is the node budget, written by a run.
	NodeCount int `yaml:"node_count,omitempty" json:"node_count,omitempty"`

	// PartitionFingerprint identifies the group layout, written by a run.
	PartitionFingerprint string `yaml:"partition_fingerprint,omitempty" json:"partition_fingerprint,omitempty"`
}

// FilesConfig holds input and output file locations.
type FilesConfig struct {
	// SRAListFolder receives one file per group.
	SRAListFolder string `yaml:"sra_list_folder" json:"sra_list_folder"`

	// SRAQueryFile is the group index; the scheduler queues one job per line.
	SRAQueryFile string `yaml:"sra_query_file" json:"sra_query_file"`

	// SubmitConfigs is where the merged run config is written (.json or .yaml).
	SubmitConfigs string `yaml:"submit_configs" json:"submit_configs"`

	// SubmitFile is where the HTCondor submit description is written.
	SubmitFile string `yaml:"submit_file" json:"submit_file"`

	// FallbackList receives the accession list when a run is too small to balance.
	FallbackList string `yaml:"fallback_list,omitempty" json:"fallback_list,omitempty"`

	// SRAProcessingProgram is the per-group job executable.
	SRAProcessingProgram string `yaml:"sra_processing_program" json:"sra_processing_program"`

	// StaticFiles and Modules are shipped with every job.
	StaticFiles string `yaml:"static_files" json:"static_files"`
	Modules     string `yaml:"modules" json:"modules"`

	// MetadataTable is the tab-separated archive query dump read by the CLI.
	MetadataTable string `yaml:"metadata_table" json:"metadata_table"`
}

// DirectoryConfig holds job-side directories.
type DirectoryConfig struct {
	// OutputResults is passed to every job as its results directory.
	OutputResults string `yaml:"output_results" json:"output_results"`

	// FasterqTemp is the scratch directory for decompression.
	FasterqTemp string `yaml:"fasterq-temp" json:"fasterq-temp"`
}

// DatesConfig is the publication window of the archive query.
type DatesConfig struct {
	// Start is "today" or a DD-MM-YYYY date.
	Start string `yaml:"start" json:"start"`

	// End is "today" (meaning yesterday) or a DD-MM-YYYY date.
	End string `yaml:"end" json:"end"`
}

// QueryConfig holds the archive search keywords.
type QueryConfig struct {
	Keyword1 string `yaml:"keyword1" json:"keyword1"`
	Keyword2 string `yaml:"keyword2" json:"keyword2"`
}

// Config is the run configuration.
//
// The layout mirrors the JSON config consumed by downstream jobs, so the same
// file can be read here, merged with a resource plan and handed on.
type Config struct {
	// ProcessConfigs controls the CPU budget and carries the derived plan.
	ProcessConfigs ProcessConfig `yaml:"process_configs" json:"process_configs"`

	// Files holds input and output file locations.
	Files FilesConfig `yaml:"files" json:"files"`

	// Directory holds job-side directories.
	Directory DirectoryConfig `yaml:"directory" json:"directory"`

	// Dates is the query publication window; it also names the fallback list.
	Dates DatesConfig `yaml:"dates" json:"dates"`

	// Query holds the search keywords. Only carried through to downstream jobs.
	Query QueryConfig `yaml:"query" json:"query"`
}

// DefaultConfig returns a Config with sensible defaults.
//
// Returns:
//   - Config: Configuration with default values
func DefaultConfig() Config {
	return Config{
		ProcessConfigs: ProcessConfig{
			MaxCPURequest:                  64,
			CPUPerNode:                     4,
			MemoryRequest:                  16,
			MinimumSubmissionsForBalancing: 10,
		},
		Files: FilesConfig{
			SRAListFolder:        "sras_to_process",
			SRAQueryFile:         "sra_queue.txt",
			SubmitConfigs:        "config/submit_configs.json",
			SubmitFile:           "submit_file.sub",
			SRAProcessingProgram: "assets/static_files/SRA_fetch.py",
			StaticFiles:          "assets/static_files",
			Modules:              "modules",
			MetadataTable:        "query_results.tsv",
		},
		Directory: DirectoryConfig{
			OutputResults: "output",
		},
	}
}

// SetDefaults fills in missing configuration values with production defaults.
//
// Zero is a meaningful value for MinimumSubmissionsForBalancing, MemoryRequest
// and OnCHTC, so those are left alone.
//
// Parameters:
//   - cfg: Config to apply defaults to (modified in place)
func SetDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.ProcessConfigs.MaxCPURequest == 0 {
		cfg.ProcessConfigs.MaxCPURequest = defaults.ProcessConfigs.MaxCPURequest
	}
	if cfg.ProcessConfigs.CPUPerNode == 0 {
		cfg.ProcessConfigs.CPUPerNode = defaults.ProcessConfigs.CPUPerNode
	}
	if cfg.Files.SRAListFolder == "" {
		cfg.Files.SRAListFolder = defaults.Files.SRAListFolder
	}
	if cfg.Files.SRAQueryFile == "" {
		cfg.Files.SRAQueryFile = defaults.Files.SRAQueryFile
	}
	if cfg.Files.SubmitConfigs == "" {
		cfg.Files.SubmitConfigs = defaults.Files.SubmitConfigs
	}
	if cfg.Files.SubmitFile == "" {
		cfg.Files.SubmitFile = defaults.Files.SubmitFile
	}
	if cfg.Files.SRAProcessingProgram == "" {
		cfg.Files.SRAProcessingProgram = defaults.Files.SRAProcessingProgram
	}
	if cfg.Files.MetadataTable == "" {
		cfg.Files.MetadataTable = defaults.Files.MetadataTable
	}
	if cfg.Directory.OutputResults == "" {
		cfg.Directory.OutputResults = defaults.Directory.OutputResults
	}
}

// Validate checks configuration constraints and returns error for invalid values.
//
// Hard Validation Rules:
//   - max_cpu_request > 0 and cpu_per_node > 0
//   - max_cpu_request >= cpu_per_node (at least one node)
//   - memory_request >= 0 and minimum_submissions_for_balancing >= 0
//   - group folder, index file, submit config and submit file paths are set
//   - group folder is not the working directory or one of its parents, and
//     holds none of the other configured files (it is removed on every run)
//   - dates, when set, parse and start <= end
//
// Dates are resolved against the wall clock; see ValidateAt.
//
// Returns:
//   - error: Wraps ErrInvalidConfig, nil if valid
func (cfg *Config) Validate() error {
	return cfg.ValidateAt(time.Now())
}

// ValidateAt is Validate with "today" resolved against now.
func (cfg *Config) ValidateAt(now time.Time) error {
	pc := cfg.ProcessConfigs

	if pc.MaxCPURequest <= 0 {
		return fmt.Errorf("%w: max_cpu_request must be > 0, got %d", ErrInvalidConfig, pc.MaxCPURequest)
	}
	if pc.CPUPerNode <= 0 {
		return fmt.Errorf("%w: cpu_per_node must be > 0, got %d", ErrInvalidConfig, pc.CPUPerNode)
	}
	if pc.MaxCPURequest < pc.CPUPerNode {
		return fmt.Errorf("%w: max_cpu_request (%d) must be >= cpu_per_node (%d) to allow one node",
			ErrInvalidConfig, pc.MaxCPURequest, pc.CPUPerNode)
	}
	if pc.MemoryRequest < 0 {
		return fmt.Errorf("%w: memory_request must be >= 0, got %d", ErrInvalidConfig, pc.MemoryRequest)
	}
	if pc.MinimumSubmissionsForBalancing < 0 {
		return fmt.Errorf("%w: minimum_submissions_for_balancing must be >= 0, got %d",
			ErrInvalidConfig, pc.MinimumSubmissionsForBalancing)
	}

	required := []struct{ key, value string }{
		{"files.sra_list_folder", cfg.Files.SRAListFolder},
		{"files.sra_query_file", cfg.Files.SRAQueryFile},
		{"files.submit_configs", cfg.Files.SubmitConfigs},
		{"files.submit_file", cfg.Files.SubmitFile},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidConfig, r.key)
		}
	}
	if err := cfg.checkListFolder(); err != nil {
		return err
	}

	if cfg.Dates.Start != "" || cfg.Dates.End != "" {
		if _, _, err := cfg.Dates.Window(now); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}

	return nil
}

// checkListFolder rejects group folders whose removal would take other
// run inputs or outputs, or the working directory, with it.
func (cfg *Config) checkListFolder() error {
	folder, err := filepath.Abs(cfg.Files.SRAListFolder)
	if err != nil {
		return fmt.Errorf("%w: sra_list_folder: %w", ErrInvalidConfig, err)
	}

	if wd, err := os.Getwd(); err == nil && within(folder, wd) {
		return fmt.Errorf("%w: sra_list_folder %q contains the working directory",
			ErrInvalidConfig, cfg.Files.SRAListFolder)
	}

	others := []struct{ key, value string }{
		{"files.sra_query_file", cfg.Files.SRAQueryFile},
		{"files.submit_configs", cfg.Files.SubmitConfigs},
		{"files.submit_file", cfg.Files.SubmitFile},
		{"files.fallback_list", cfg.Files.FallbackList},
		{"files.metadata_table", cfg.Files.MetadataTable},
	}
	for _, o := range others {
		if o.value == "" {
			continue
		}
		path, err := filepath.Abs(o.value)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, o.key, err)
		}
		if within(folder, path) {
			return fmt.Errorf("%w: sra_list_folder %q must not contain %s",
				ErrInvalidConfig, cfg.Files.SRAListFolder, o.key)
		}
	}

	return nil
}

// within reports whether path is dir or lies below it. Both must be absolute.
func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}

	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// ValidateWithWarnings checks configuration and logs warnings for non-recommended values.
//
// Parameters:
//   - logger: Logger instance for warning output
func (cfg *Config) ValidateWithWarnings(logger Logger) {
	pc := cfg.ProcessConfigs

	if pc.CPUPerNode > 0 && pc.MaxCPURequest%pc.CPUPerNode != 0 {
		logger.Warn(
			"max_cpu_request is not a multiple of cpu_per_node, remainder is never requested",
			"max_cpu_request", pc.MaxCPURequest,
			"cpu_per_node", pc.CPUPerNode,
			"unused", pc.MaxCPURequest%pc.CPUPerNode,
		)
	}

	if pc.MemoryRequest == 0 {
		logger.Warn("memory_request is 0, jobs will request no memory")
	}

	if pc.MinimumSubmissionsForBalancing == 0 {
		logger.Warn(
			"minimum_submissions_for_balancing is 0, every run will be balanced",
			"recommended", "10 or higher",
		)
	}

	if !pc.OnCHTC {
		logger.Warn("Configuring local, non-HTCondor run. Proceed with caution.")
	}
}

// Window resolves the configured dates against now.
//
// Returns:
//   - time.Time: Start day
//   - time.Time: End day ("today" resolves to the day before now)
//   - error: Unparseable date or start after end
func (d DatesConfig) Window(now time.Time) (time.Time, time.Time, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	start, err := parseDate(d.Start, today)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("start date: %w", err)
	}
	end, err := parseDate(d.End, today.AddDate(0, 0, -1))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("end date: %w", err)
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("start date %s cannot be after end date %s",
			start.Format(DateLayout), end.Format(DateLayout))
	}

	return start, end, nil
}

func parseDate(s string, today time.Time) (time.Time, error) {
	if s == Today {
		return today, nil
	}

	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q must be %q or DD-MM-YYYY", s, Today)
	}

	return t, nil
}

// FallbackPath returns where the too-few-submissions list goes.
//
// An explicit files.fallback_list wins; otherwise the list is named after the
// date window ("<start>_<end>"), or DefaultFallbackList without dates.
func (cfg *Config) FallbackPath(now time.Time) string {
	if cfg.Files.FallbackList != "" {
		return cfg.Files.FallbackList
	}
	if cfg.Dates.Start == "" && cfg.Dates.End == "" {
		return DefaultFallbackList
	}

	start, end, err := cfg.Dates.Window(now)
	if err != nil {
		return DefaultFallbackList
	}

	return start.Format(DateLayout) + "_" + end.Format(DateLayout)
}

// TestConfig returns a small configuration for tests.
//
// All paths are relative; callers usually rebase them under t.TempDir().
//
// Returns:
//   - Config: Four-CPU budget with two-CPU nodes and no balancing minimum
//
// Example:
//
//	cfg := dispatch.TestConfig()
//	cfg.Files.SRAListFolder = filepath.Join(t.TempDir(), "groups")
func TestConfig() Config {
	cfg := DefaultConfig()

	cfg.ProcessConfigs.MaxCPURequest = 4
	cfg.ProcessConfigs.CPUPerNode = 2
	cfg.ProcessConfigs.MemoryRequest = 1
	cfg.ProcessConfigs.MinimumSubmissionsForBalancing = 0

	return cfg
}
