package report

import "qreport/domain/dataset"

// Triple is one long-format observation
type Triple struct {
	Entity   string
	Question string
	Response string
}

// Melt turns a wide table back into one triple per non-empty cell, in
// row-major order.
func Melt(w *WideTable) []Triple {
	questions := w.Questions()
	var out []Triple
	for _, row := range w.Rows {
		for j, question := range questions {
			if cell := row[j+1]; cell != "" {
				out = append(out, Triple{Entity: row[0], Question: question, Response: cell})
			}
		}
	}
	return out
}

// WideFromTable interprets a previously exported report: the first column
// holds entities and the remaining headers are questions.
func WideFromTable(t *dataset.Table) *WideTable {
	columns := append([]string(nil), t.Headers...)
	rows := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		rows[i] = append([]string(nil), row...)
	}
	return &WideTable{Columns: columns, Rows: rows}
}

// LongTable renders triples as a table with the given entity column name
// and the default question and response headers.
func LongTable(entityColumn string, triples []Triple) *dataset.Table {
	headers := []string{entityColumn, DefaultRequiredColumns[1].Key(), DefaultRequiredColumns[2].Key()}
	rows := make([][]string, len(triples))
	for i, tr := range triples {
		rows[i] = []string{tr.Entity, tr.Question, tr.Response}
	}
	return &dataset.Table{Headers: headers, Rows: rows}
}
