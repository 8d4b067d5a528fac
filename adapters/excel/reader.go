package excel

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"qreport/domain/dataset"

	"github.com/xuri/excelize/v2"
)

// utf8BOM is skipped at the start of CSV uploads.
const utf8BOM = "\ufeff"

// ErrNoColumns is returned when an upload has no header row at all.
var ErrNoColumns = errors.New("no columns to parse from file")

// DataReader handles reading Excel and CSV uploads
type DataReader struct {
	fileType FileType
	config   ReaderConfig
}

// NewDataReader creates a reader for the given upload format
func NewDataReader(fileType FileType, config ReaderConfig) *DataReader {
	if config.Comma == 0 {
		config.Comma = ','
	}
	return &DataReader{fileType: fileType, config: config}
}

// ReadData reads the whole upload into a table, preserving row order
func (r *DataReader) ReadData(src io.Reader) (*dataset.Table, error) {
	switch r.fileType {
	case FileTypeCSV:
		return r.readCSVData(src)
	case FileTypeXLSX:
		return r.readExcelData(src)
	default:
		return nil, fmt.Errorf("unsupported file type: %q", r.fileType)
	}
}

// readCSVData reads CSV data into structured format
func (r *DataReader) readCSVData(src io.Reader) (*dataset.Table, error) {
	buffered := bufio.NewReader(src)
	if prefix, err := buffered.Peek(len(utf8BOM)); err == nil && string(prefix) == utf8BOM {
		_, _ = buffered.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(buffered)
	reader.Comma = r.config.Comma
	reader.FieldsPerRecord = -1
	// Bare quotes inside unquoted fields are kept as literal text
	reader.LazyQuotes = true

	readStart := time.Now()
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	log.Printf("[DataReader] CSV read in %.2fms (%d rows)", float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	return r.processRows(rows)
}

// readExcelData reads the configured sheet of a workbook
func (r *DataReader) readExcelData(src io.Reader) (*dataset.Table, error) {
	readStart := time.Now()
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := r.config.SheetName
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, ErrNoColumns
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	log.Printf("[DataReader] Sheet %q read in %.2fms (%d rows)", sheet, float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	return r.processRows(rows)
}

// processRows converts raw string rows into a rectangular table. Blank
// rows are skipped, short rows are padded with empty cells, and rows
// wider than the header are rejected.
func (r *DataReader) processRows(rows [][]string) (*dataset.Table, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrNoColumns
	}

	headers := NormalizeHeaders(rows[0])
	width := len(headers)

	dataRows := make([][]string, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if isBlankRow(row) {
			continue
		}
		if len(row) > width {
			return nil, fmt.Errorf("expected %d fields in line %d, saw %d", width, i+1, len(row))
		}
		cells := make([]string, width)
		copy(cells, row)
		dataRows = append(dataRows, cells)
	}

	log.Printf("[DataReader] %s file processed (%d columns, %d rows)",
		strings.ToUpper(string(r.fileType)), width, len(dataRows))

	return &dataset.Table{Headers: headers, Rows: dataRows}, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}

// NormalizeHeaders fills in missing header names and disambiguates
// repeated ones, so every column can be addressed by name.
//
// Rules:
//   - Empty or whitespace-only headers become "Unnamed: <index>"
//   - The second and later occurrences of a name get ".1", ".2", ... suffixes
//   - Everything else is preserved as-is, including surrounding whitespace
//
// Example:
//
//	Input:  ["name", "", "name", "age"]
//	Output: ["name", "Unnamed: 1", "name.1", "age"]
func NormalizeHeaders(header []string) []string {
	normalized := make([]string, len(header))
	used := make(map[string]bool, len(header))
	suffixes := make(map[string]int)

	for i, h := range header {
		if strings.TrimSpace(h) == "" {
			h = "Unnamed: " + strconv.Itoa(i)
		}
		name := h
		for used[name] {
			suffixes[h]++
			name = h + "." + strconv.Itoa(suffixes[h])
		}
		used[name] = true
		normalized[i] = name
	}

	return normalized
}
