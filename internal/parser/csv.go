package parser

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

type csvParser struct{}

func (csvParser) CanParse(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".tsv")
}

// Parse reads a delimited file. Every value stays a string; numeric coercion
// happens in the record normalizer.
func (csvParser) Parse(r io.Reader, opt Options) (*Table, error) {
	br := bufio.NewReader(r)
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(br)
	}
	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true
	cr.Comma = delim

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &Table{}, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	t := &Table{Header: cleanHeader(header)}
	line := 1
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			// a malformed record drops only that row
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				line++
				continue
			}
			return nil, fmt.Errorf("read row %d: %w", line+1, err)
		}
		line++
		for i := range rec {
			rec[i] = strings.TrimSpace(rec[i])
		}
		if isEmptyLine(rec) {
			continue
		}
		t.Rows = append(t.Rows, rowFromCells(t.Header, rec, func(s string) any { return s }))
	}
	return t, nil
}

// sniffDelimiter peeks at the header line and picks the most frequent of
// tab, semicolon and comma.
func sniffDelimiter(br *bufio.Reader) rune {
	peek, _ := br.Peek(4096)
	first := string(peek)
	if i := strings.IndexByte(first, '\n'); i >= 0 {
		first = first[:i]
	}
	best, bestN := ',', strings.Count(first, ",")
	for _, d := range []rune{';', '\t'} {
		if n := strings.Count(first, string(d)); n > bestN {
			best, bestN = d, n
		}
	}
	return best
}

func cleanHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		// strip a UTF-8 BOM on the first column
		out[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	return out
}
