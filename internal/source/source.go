package source

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// Options controls how raw records are read from a source.
type Options struct {
	// MaxRows limits rows loaded; 0 means unlimited.
	MaxRows int
	// Delimiter for CSV. If 0, picks '\t' for .tsv files and ',' otherwise.
	Delimiter rune
	// SheetName selects an XLSX worksheet by name. Takes precedence over SheetIndex.
	SheetName string
	// SheetIndex is the 1-based worksheet position used when SheetName is empty.
	SheetIndex int
}

// Records is the raw string form of a table: one header row plus data rows,
// every row padded or trimmed to the header width.
type Records struct {
	Name   string
	Header []string
	Rows   [][]string
	// Total counts every data row seen, including rows skipped by MaxRows.
	Total int
}

// Truncated reports whether MaxRows cut the source short.
func (r *Records) Truncated() bool { return r.Total > len(r.Rows) }

// Loader reads a file-backed source into Records.
type Loader interface {
	CanLoad(path string) bool
	Load(ctx context.Context, path string, opt Options) (*Records, error)
}

var registry []Loader

// Register adds a loader implementation to the registry.
func Register(l Loader) {
	registry = append(registry, l)
}

// LoadFile selects a loader based on the file name. Files no loader claims
// are read as delimited text.
func LoadFile(ctx context.Context, path string, opt Options) (*Records, error) {
	for _, l := range registry {
		if l.CanLoad(path) {
			return l.Load(ctx, path, opt)
		}
	}
	return csvLoader{}.Load(ctx, path, opt)
}

// ErrEmpty indicates the source has no header row.
var ErrEmpty = eris.New("source has no header row")

func init() {
	Register(xlsxLoader{})
	Register(csvLoader{})
}

// collector accumulates rows under the MaxRows limit.
type collector struct {
	rec     *Records
	maxRows int
}

func newCollector(name string, header []string, opt Options) *collector {
	maxRows := opt.MaxRows
	if maxRows <= 0 {
		maxRows = int(^uint(0) >> 1)
	}
	h := make([]string, len(header))
	for i, v := range header {
		h[i] = strings.TrimSpace(v)
	}
	return &collector{rec: &Records{Name: name, Header: h}, maxRows: maxRows}
}

func (c *collector) add(row []string) {
	c.rec.Total++
	if len(c.rec.Rows) >= c.maxRows {
		return
	}
	ncol := len(c.rec.Header)
	out := make([]string, ncol)
	copy(out, row)
	c.rec.Rows = append(c.rec.Rows, out)
}

func baseName(path string) string { return filepath.Base(path) }
