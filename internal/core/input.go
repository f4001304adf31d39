package core

// input.go opens log files for reading.
//
// The generator writes plain comma-separated rows with no header. Two
// artifacts still show up in practice: a UTF-8 BOM when a file has passed
// through a Windows editor, and invalid UTF-8 inside the payload column.
// PostgreSQL rejects invalid UTF-8 in text columns, so cells are sanitized
// as they are read.

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// openInput checks that path names a regular file and opens it.
func openInput(path string) (*os.File, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrInputNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s is not a regular file", ErrInputNotFound, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}

// rowReader yields sanitized rows together with their 1-based line numbers.
//
// encoding/csv drops empty lines. rowReader reports each one as a row with
// no cells so that it fails the column check like any other short row.
type rowReader struct {
	r *csv.Reader

	nextLine int   // line the next record starts on if no blank lines intervene
	offset   int64 // input offset just past the last record

	pending     []string
	pendingLine int
}

func newRowReader(src io.Reader) *rowReader {
	br := bufio.NewReader(src)
	if b, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(b, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	r := csv.NewReader(br)
	r.FieldsPerRecord = -1 // width is checked per format
	r.LazyQuotes = true
	return &rowReader{r: r, nextLine: 1}
}

// Next returns the next row. It returns io.EOF when the input is exhausted.
// A blank line is returned as an empty row.
func (rr *rowReader) Next() ([]string, int, error) {
	if rr.pending != nil {
		row, line := rr.pending, rr.pendingLine
		rr.pending = nil
		return row, line, nil
	}

	row, err := rr.r.Read()
	if errors.Is(err, io.EOF) && rr.r.InputOffset() > rr.offset {
		// Only blank lines were consumed after the last record.
		rr.offset = rr.r.InputOffset()
		return []string{}, rr.nextLine, nil
	}
	if err != nil {
		return nil, 0, err
	}
	rr.offset = rr.r.InputOffset()

	line, _ := rr.r.FieldPos(0)
	expected := rr.nextLine
	rr.nextLine = line + 1
	for i, cell := range row {
		rr.nextLine += strings.Count(cell, "\n")
		row[i] = strings.ToValidUTF8(cell, "\uFFFD")
	}

	if line > expected {
		rr.pending, rr.pendingLine = row, line
		return []string{}, expected, nil
	}
	return row, line, nil
}
