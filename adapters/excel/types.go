package excel

import (
	"path/filepath"
	"strings"
)

// FileType identifies a supported upload format
type FileType string

const (
	FileTypeCSV  FileType = "csv"
	FileTypeXLSX FileType = "xlsx"
)

// DetectFileType maps a filename extension to a supported format.
// ok is false for anything other than .csv and .xlsx.
func DetectFileType(filename string) (FileType, bool) {
	switch strings.ToLower(filepath.Ext(strings.TrimSpace(filename))) {
	case ".csv":
		return FileTypeCSV, true
	case ".xlsx":
		return FileTypeXLSX, true
	default:
		return "", false
	}
}
