package dataset

// Table is a parsed upload: a header row plus data rows in file order.
// Every row has exactly len(Headers) cells.
type Table struct {
	Headers []string
	Rows    [][]string
}

// NumRows returns the number of data rows
func (t *Table) NumRows() int {
	return len(t.Rows)
}
