// Package ingest reads threat spreadsheets into raw tables.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"threat-tracker/internal/models"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrEmptyFile         = errors.New("file has no header row")
	ErrMissingColumn     = errors.New("missing required column")
)

// Extensions accepted by ReadFile.
var Extensions = []string{".xlsx", ".xlsm", ".csv"}

// Supported reports whether path has an extension ReadFile understands.
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// line is one raw row with its 1-based position in the source file.
type line struct {
	num   int
	cells []string
}

// ReadFile parses the first sheet of an Excel workbook or a CSV file. It
// fails when the file cannot be parsed or a required column is absent; no
// rows are returned in that case. Blank rows are dropped but the returned
// table keeps the source row number of every remaining row.
func ReadFile(path string) (*models.Table, error) {
	var (
		lines []line
		err   error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		lines, err = readWorkbook(path)
	case ".csv":
		lines, err = readCSV(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}
	return toTable(lines)
}

func readWorkbook(path string) ([]line, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	// GetRows starts at row 1 and keeps empty rows in between
	lines := make([]line, len(rows))
	for i, r := range rows {
		lines[i] = line{num: i + 1, cells: r}
	}
	return lines, nil
}

func readCSV(path string) ([]line, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	return parseCSV(f)
}

func parseCSV(r io.Reader) ([]line, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var lines []line
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse csv: %w", err)
		}
		// the reader skips empty lines, so number by source line
		n, _ := cr.FieldPos(0)
		lines = append(lines, line{num: n, cells: rec})
	}
	if len(lines) > 0 && len(lines[0].cells) > 0 {
		// Excel "CSV UTF-8" exports start with a BOM
		lines[0].cells[0] = strings.TrimPrefix(lines[0].cells[0], "\uFEFF")
	}
	return lines, nil
}

func toTable(lines []line) (*models.Table, error) {
	lines = dropBlank(lines)
	if len(lines) == 0 {
		return nil, ErrEmptyFile
	}

	header := make([]string, len(lines[0].cells))
	for i, h := range lines[0].cells {
		header[i] = strings.TrimSpace(h)
	}

	t := &models.Table{Header: header}
	if missing := t.MissingColumns(); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}

	for _, l := range lines[1:] {
		t.Rows = append(t.Rows, pad(l.cells, len(header)))
		t.RowNumbers = append(t.RowNumbers, l.num)
	}
	return t, nil
}

func dropBlank(lines []line) []line {
	out := lines[:0]
	for _, l := range lines {
		if !blank(l.cells) {
			out = append(out, l)
		}
	}
	return out
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func pad(row []string, n int) []string {
	if len(row) >= n {
		return row
	}
	out := make([]string, n)
	copy(out, row)
	return out
}
