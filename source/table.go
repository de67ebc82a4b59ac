package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/William-Gardner-Biotech/SRA-Dispatch/internal/logger"
	"github.com/William-Gardner-Biotech/SRA-Dispatch/types"
)

// Default column names of an archive metadata dump.
const (
	DefaultIDColumn   = "run_1_accession"
	DefaultSizeColumn = "run_1_size"
)

// ErrMissingColumn is returned when the table header lacks a required column.
var ErrMissingColumn = errors.New("source: missing column")

// Table reads items from a delimited metadata file.
//
// The first row is a header. Each following row yields one item whose ID is
// the accession column and whose RawSize is the size column exactly as
// written; an empty size cell becomes a nil RawSize. Rows with an empty
// accession are skipped.
type Table struct {
	path       string
	delimiter  rune
	idColumn   string
	sizeColumn string
	logger     types.Logger
}

var _ types.ItemSource = (*Table)(nil)

// TableOption configures a Table.
type TableOption func(*Table)

// WithDelimiter sets the field delimiter (default tab).
func WithDelimiter(d rune) TableOption {
	return func(t *Table) {
		t.delimiter = d
	}
}

// WithColumns sets the accession and size column names.
func WithColumns(idColumn, sizeColumn string) TableOption {
	return func(t *Table) {
		if idColumn != "" {
			t.idColumn = idColumn
		}
		if sizeColumn != "" {
			t.sizeColumn = sizeColumn
		}
	}
}

// WithLogger sets the logger used for skipped-row warnings.
func WithLogger(l types.Logger) TableOption {
	return func(t *Table) {
		t.logger = l
	}
}

// NewTable creates a table source reading path.
//
// Example:
//
//	src := source.NewTable("query_results.tsv", source.WithLogger(log))
//	items, err := src.ListItems(ctx)
func NewTable(path string, opts ...TableOption) *Table {
	t := &Table{
		path:       path,
		delimiter:  '\t',
		idColumn:   DefaultIDColumn,
		sizeColumn: DefaultSizeColumn,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}
	t.logger = logger.OrNop(t.logger)

	return t
}

// ListItems opens the table file and parses it.
func (t *Table) ListItems(ctx context.Context) ([]types.Item, error) {
	f, err := os.Open(t.path)
	if err != nil {
		return nil, fmt.Errorf("open metadata table: %w", err)
	}
	defer f.Close()

	return t.Read(ctx, f)
}

// Read parses a table from r. ctx is checked between rows.
//
// Returns:
//   - []types.Item: Items in row order
//   - error: ErrMissingColumn, a parse error, or ctx.Err()
func (t *Table) Read(ctx context.Context, r io.Reader) ([]types.Item, error) {
	cr := csv.NewReader(r)
	cr.Comma = t.delimiter
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	idCol, sizeCol := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case t.idColumn:
			idCol = i
		case t.sizeColumn:
			sizeCol = i
		}
	}
	if idCol < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, t.idColumn)
	}
	if sizeCol < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, t.sizeColumn)
	}

	var items []types.Item
	for row := 2; ; row++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", row, err)
		}

		id := strings.TrimSpace(field(record, idCol))
		if id == "" {
			t.logger.Warn("skipping row without accession", "row", row)
			continue
		}

		var raw any
		if s := strings.TrimSpace(field(record, sizeCol)); s != "" {
			raw = s
		}
		items = append(items, types.Item{ID: id, RawSize: raw})
	}

	t.logger.Debug("metadata table read", "path", t.path, "items", len(items))

	return items, nil
}

func field(record []string, i int) string {
	if i >= len(record) {
		return ""
	}

	return record[i]
}
