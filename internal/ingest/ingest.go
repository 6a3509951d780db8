// Package ingest reads uploaded CSV and XLSX files into ordered rows and the
// list of payee names to classify.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/Veraticus/payee-classifier/internal/common"
	"github.com/Veraticus/payee-classifier/internal/model"
)

// candidateColumns are tried, case-insensitively, when no column is named.
var candidateColumns = []string{"payee_name", "payee", "vendor_name", "vendor", "merchant", "name"}

// Options selects what to read from a file.
type Options struct {
	// Column holds payee names. Empty means detect from common headers.
	Column string
	// Sheet is the XLSX worksheet. Empty means the first sheet.
	Sheet string
}

// File is an ingested upload. Rows[i] and Names[i] describe the same input row.
type File struct {
	Column  string
	Headers []string
	Rows    []model.Row
	Names   []string
}

// ReadFile reads path by extension.
func ReadFile(path string, opts Options) (*File, error) {
	f, err := os.Open(path) // #nosec G304 -- user supplied input file
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return ReadCSV(f, opts)
	case ".tsv":
		return readDelimited(f, '\t', opts)
	case ".xlsx", ".xlsm":
		return ReadXLSX(f, opts)
	default:
		return nil, fmt.Errorf("%w: %s", common.ErrUnsupportedFile, filepath.Ext(path))
	}
}

// ReadCSV reads comma separated values. A UTF-8 byte order mark is dropped.
func ReadCSV(r io.Reader, opts Options) (*File, error) {
	return readDelimited(r, ',', opts)
}

func readDelimited(r io.Reader, comma rune, opts Options) (*File, error) {
	reader := csv.NewReader(transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	return FromRecords(records, opts.Column)
}

// ReadXLSX reads a worksheet from an Excel workbook.
func ReadXLSX(r io.Reader, opts Options) (*File, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open workbook: %w", common.ErrUnsupportedFile, err)
	}
	defer func() { _ = f.Close() }()

	sheet := opts.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	records, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return FromRecords(records, opts.Column)
}

// FromRecords builds a File from a header record followed by data records.
// Blank records are skipped and short records are padded.
func FromRecords(records [][]string, column string) (*File, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: file is empty", common.ErrNoPayees)
	}

	headers := uniqueHeaders(records[0])
	idx, err := findColumn(headers, column)
	if err != nil {
		return nil, err
	}

	file := &File{Column: headers[idx], Headers: headers}
	for _, record := range records[1:] {
		if isBlank(record) {
			continue
		}
		row := model.NewRow(headers, trimTrailing(record, len(headers)))
		name, _ := row.Get(headers[idx])

		file.Rows = append(file.Rows, row)
		file.Names = append(file.Names, strings.TrimSpace(name))
	}

	if len(file.Rows) == 0 {
		return nil, fmt.Errorf("%w: no data rows", common.ErrNoPayees)
	}
	return file, nil
}

func findColumn(headers []string, column string) (int, error) {
	if column != "" {
		for i, h := range headers {
			if h == column {
				return i, nil
			}
		}
		for i, h := range headers {
			if strings.EqualFold(strings.TrimSpace(h), strings.TrimSpace(column)) {
				return i, nil
			}
		}
		return 0, fmt.Errorf("%w: %q (available: %s)", common.ErrMissingColumn, column, strings.Join(headers, ", "))
	}

	for _, candidate := range candidateColumns {
		for i, h := range headers {
			if strings.EqualFold(strings.ReplaceAll(strings.TrimSpace(h), " ", "_"), candidate) {
				return i, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: no payee column detected (available: %s)", common.ErrMissingColumn, strings.Join(headers, ", "))
}

// uniqueHeaders names blank headers by position and suffixes duplicates
// until every header is distinct.
func uniqueHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	used := make(map[string]bool, len(raw))
	for i, h := range raw {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("Column_%d", i+1)
		}
		if used[h] {
			base := h
			for n := 2; used[h]; n++ {
				h = fmt.Sprintf("%s_%d", base, n)
			}
		}
		used[h] = true
		headers[i] = h
	}
	return headers
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// trimTrailing drops cells past the header width.
func trimTrailing(record []string, width int) []string {
	if len(record) > width {
		return record[:width]
	}
	return record
}
