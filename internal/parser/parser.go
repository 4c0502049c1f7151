package parser

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/cropinsights/internal/records"
)

// Options controls how a worksheet is located and read.
type Options struct {
	// SheetName selects an XLSX sheet by name (case-insensitive).
	SheetName string
	// SheetIndex is the 1-based XLSX sheet used when SheetName is empty.
	SheetIndex int
	// Delimiter for CSV. If 0, it is sniffed from the extension and header line.
	Delimiter rune
}

// Table is one parsed worksheet: the header in column order plus one RawRow
// per data row. Empty cells are omitted from rows.
type Table struct {
	Name   string
	Header []string
	Rows   []records.RawRow
}

// Parser defines a tabular file parser implementation.
type Parser interface {
	CanParse(filename string) bool
	Parse(r io.Reader, opt Options) (*Table, error)
}

var registry []Parser

// Register adds a parser implementation to the registry.
func Register(p Parser) {
	registry = append(registry, p)
}

// ErrUnsupported indicates a format is not supported.
var ErrUnsupported = errors.New("unsupported file format")

// ParseFile selects a parser based on filename and reads the whole table.
func ParseFile(path string, opt Options) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()
	return ParseReader(filepath.Base(path), f, opt)
}

// ParseReader parses r, choosing the parser by name. It is used for uploads
// where no file exists on disk.
func ParseReader(name string, r io.Reader, opt Options) (*Table, error) {
	for _, p := range registry {
		if p.CanParse(name) {
			t, err := p.Parse(r, opt)
			if err != nil {
				return nil, err
			}
			t.Name = name
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(name))
}

// rowFromCells pairs cells with header names, skipping unnamed columns and
// blank cells.
func rowFromCells(header []string, cells []string, convert func(string) any) records.RawRow {
	row := make(records.RawRow, len(header))
	for i, name := range header {
		if name == "" || i >= len(cells) {
			continue
		}
		if cells[i] == "" {
			continue
		}
		row[name] = convert(cells[i])
	}
	return row
}

func isEmptyLine(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}

func init() {
	Register(csvParser{})
	Register(xlsxParser{})
}
