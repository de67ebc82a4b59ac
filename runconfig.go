package dispatch

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// MergePlan returns a copy of cfg carrying plan in process_configs.
//
// disk_request is the per-node threshold in megabytes, cpu_per_node the
// reallocated CPU request and partition_fingerprint the hex fingerprint of
// the group layout.
func MergePlan(cfg Config, plan ResourcePlan) Config {
	cfg.ProcessConfigs.DiskRequest = plan.DiskPerNode
	cfg.ProcessConfigs.CPUPerNode = plan.CPUPerNode
	cfg.ProcessConfigs.NodeCount = plan.NodeCount
	cfg.ProcessConfigs.PartitionFingerprint = fmt.Sprintf("%016x", plan.Fingerprint)

	return cfg
}

// WriteRunConfig persists cfg to path, as JSON when path ends in .json and as
// YAML otherwise. Parent directories are created.
func WriteRunConfig(cfg Config, path string) error {
	var (
		data []byte
		err  error
	)

	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err = json.MarshalIndent(cfg, "", " ")
		if err == nil {
			data = append(data, '\n')
		}
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return fmt.Errorf("encode run config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create run config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // read by downstream jobs
		return fmt.Errorf("write run config: %w", err)
	}

	return nil
}
