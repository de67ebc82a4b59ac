package submit

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/William-Gardner-Biotech/SRA-Dispatch/size"
)

// DefaultRequirements restricts jobs to the supported OS releases on staging-capable machines.
const DefaultRequirements = "(OpSysMajorVer == 7) || (OpSysMajorVer == 8) || (OpSysMajorVer == 9) && (Target.HasCHTCStaging == true)"

// DefaultLogDir is where per-job stdout, stderr and event logs go.
const DefaultLogDir = "logs"

// ErrIncomplete is returned when a Description lacks a required value.
var ErrIncomplete = errors.New("submit: incomplete description")

// Description holds every value rendered into a submit file.
type Description struct {
	// Executable is the per-group processing program.
	Executable string

	// OutputDir is passed to the executable after $(BATCH).
	OutputDir string

	// ScratchDir sets _CONDOR_SCRATCH_DIR when non-empty.
	ScratchDir string

	// Requirements is the ClassAd requirements expression (DefaultRequirements if empty).
	Requirements string

	// CPUs is request_cpus, normally the plan's CPU per node.
	CPUs int

	// MemoryGB is request_memory in gigabytes.
	MemoryGB int

	// DiskMB is the per-node disk threshold; rendered as whole gigabytes, rounded up.
	DiskMB float64

	// TransferInputs lists files shipped with every job.
	TransferInputs []string

	// QueueFrom is the group index file; one job is queued per line.
	QueueFrom string

	// LogDir holds job logs (DefaultLogDir if empty).
	LogDir string
}

var submitTemplate = template.Must(template.New("submit").Funcs(template.FuncMap{
	"join": strings.Join,
	"gb":   size.GigabytesCeil,
}).Parse(`executable = {{ .Executable }}
arguments = $(BATCH) {{ .OutputDir }}

requirements = {{ .Requirements }}
{{- if .ScratchDir }}
_CONDOR_SCRATCH_DIR = {{ .ScratchDir }}
{{- end }}
request_cpus = {{ .CPUs }}
request_memory = {{ .MemoryGB }}G
request_disk = {{ gb .DiskMB }}G

# file transfer options
{{- if .TransferInputs }}
transfer_input_files = {{ join .TransferInputs ", " }}
{{- end }}
should_transfer_files = YES
when_to_transfer_output = ON_EXIT

# logging
error = {{ .LogDir }}/$(Cluster).$(Process).err.txt
output = {{ .LogDir }}/$(Cluster).$(Process).out.txt
log = {{ .LogDir }}/$(Cluster).$(Process).log.txt

queue BATCH from {{ .QueueFrom }}
`))

// Validate checks the fields a scheduler cannot do without.
func (d Description) Validate() error {
	switch {
	case d.Executable == "":
		return fmt.Errorf("%w: executable is required", ErrIncomplete)
	case d.QueueFrom == "":
		return fmt.Errorf("%w: queue source is required", ErrIncomplete)
	case d.CPUs <= 0:
		return fmt.Errorf("%w: request_cpus must be > 0, got %d", ErrIncomplete, d.CPUs)
	case d.MemoryGB < 0:
		return fmt.Errorf("%w: request_memory must be >= 0, got %d", ErrIncomplete, d.MemoryGB)
	}

	return nil
}

// Build renders d to w.
//
// Returns:
//   - error: ErrIncomplete for a missing value, or the write error
func Build(d Description, w io.Writer) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if d.Requirements == "" {
		d.Requirements = DefaultRequirements
	}
	if d.LogDir == "" {
		d.LogDir = DefaultLogDir
	}

	var buf bytes.Buffer
	if err := submitTemplate.Execute(&buf, d); err != nil {
		return fmt.Errorf("render submit file: %w", err)
	}

	_, err := w.Write(buf.Bytes())

	return err
}

// WriteFile renders d into path, creating parent directories as needed.
func WriteFile(d Description, path string) error {
	var buf bytes.Buffer
	if err := Build(d, &buf); err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create submit file directory: %w", err)
		}
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil { //nolint:gosec // submit files are world-readable
		return fmt.Errorf("write submit file: %w", err)
	}

	return nil
}
