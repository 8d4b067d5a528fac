package excel

// ReaderConfig holds configuration for reading uploaded sheets
type ReaderConfig struct {
	// SheetName selects the workbook sheet; empty means the first sheet.
	SheetName string `json:"sheet_name"`
	// Comma is the CSV field delimiter.
	Comma rune `json:"comma"`
}

// DefaultReaderConfig returns sensible defaults for upload parsing
func DefaultReaderConfig() ReaderConfig {
	return ReaderConfig{
		Comma: ',',
	}
}
