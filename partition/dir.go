package partition

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/William-Gardner-Biotech/SRA-Dispatch/types"
)

// DefaultGroupPrefix is the file name prefix of group files ("SRA_set_1", ...).
const DefaultGroupPrefix = "SRA_set_"

// Dir writes groups as newline-delimited files inside a folder and the index as
// a separate file. Both locations are explicit; nothing depends on the process
// working directory beyond how relative paths resolve.
type Dir struct {
	folder    string
	indexPath string
	prefix    string
	perm      fs.FileMode
}

var _ types.PartitionWriter = (*Dir)(nil)

// DirOption configures a Dir writer.
type DirOption func(*Dir)

// WithGroupPrefix sets the group file name prefix.
func WithGroupPrefix(prefix string) DirOption {
	return func(d *Dir) {
		d.prefix = prefix
	}
}

// NewDir creates a filesystem writer.
//
// Parameters:
//   - folder: Directory that will contain one file per group
//   - indexPath: Path of the index file listing every group file
//   - opts: Optional configuration (WithGroupPrefix)
//
// Example:
//
//	w := partition.NewDir("sras_to_process", "sra_queue.txt")
func NewDir(folder, indexPath string, opts ...DirOption) *Dir {
	d := &Dir{
		folder:    folder,
		indexPath: indexPath,
		prefix:    DefaultGroupPrefix,
		perm:      0o644,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}

	return d
}

// Folder returns the group folder path.
func (d *Dir) Folder() string { return d.folder }

// IndexPath returns the index file path.
func (d *Dir) IndexPath() string { return d.indexPath }

// Reset removes the group folder and the index file, then recreates the folder.
func (d *Dir) Reset() error {
	if d.folder == "" || d.indexPath == "" {
		return errors.New("group folder and index path are required")
	}

	if err := os.RemoveAll(d.folder); err != nil {
		return fmt.Errorf("remove group folder %s: %w", d.folder, err)
	}
	if err := os.Remove(d.indexPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove index %s: %w", d.indexPath, err)
	}
	if err := os.MkdirAll(d.folder, 0o755); err != nil {
		return fmt.Errorf("create group folder %s: %w", d.folder, err)
	}
	if dir := filepath.Dir(d.indexPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create index folder %s: %w", dir, err)
		}
	}

	return nil
}

// WriteGroup writes <folder>/<prefix><index> and returns its path.
func (d *Dir) WriteGroup(index int, memberIDs []string) (string, error) {
	path := filepath.Join(d.folder, d.prefix+strconv.Itoa(index))
	if err := os.WriteFile(path, []byte(strings.Join(memberIDs, "\n")), d.perm); err != nil {
		return "", fmt.Errorf("write group %d: %w", index, err)
	}

	return path, nil
}

// WriteIndex writes the newline-delimited group file paths to the index file.
func (d *Dir) WriteIndex(refs []string) error {
	if err := os.WriteFile(d.indexPath, []byte(strings.Join(refs, "\n")), d.perm); err != nil {
		return fmt.Errorf("write index %s: %w", d.indexPath, err)
	}

	return nil
}
