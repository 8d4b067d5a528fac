package report

import (
	"math"
	"sort"
	"strconv"

	"qreport/domain/dataset"
)

// WideTable is the pivoted report: one row per entity, one column per
// question. An empty cell means the entity has no response for that
// question.
type WideTable struct {
	// Columns holds the entity column name followed by the question values
	Columns []string
	Rows    [][]string

	// Dropped counts later responses discarded for an (entity, question)
	// pair that already had one.
	Dropped int
}

// Questions returns the question columns, without the entity column
func (w *WideTable) Questions() []string {
	if len(w.Columns) == 0 {
		return nil
	}
	return w.Columns[1:]
}

// Cell returns the response for entity and question, and whether one exists
func (w *WideTable) Cell(entity, question string) (string, bool) {
	col := -1
	for i, name := range w.Questions() {
		if name == question {
			col = i + 1
			break
		}
	}
	if col < 0 {
		return "", false
	}
	for _, row := range w.Rows {
		if row[0] == entity {
			return row[col], row[col] != ""
		}
	}
	return "", false
}

type pairKey struct {
	entity   string
	question string
}

// Pivot reshapes t into one row per entity using the resolved columns.
//
// The first non-empty response seen in row order wins for each
// (entity, question) pair; later ones are counted in Dropped and
// otherwise ignored. Rows with an empty entity or question take no part.
// Entities and questions are ordered numerically when every value is a
// number and lexicographically otherwise.
func Pivot(t *dataset.Table, cols ColumnSet) *WideTable {
	values := make(map[pairKey]string)
	entitySeen := make(map[string]bool)
	questionSeen := make(map[string]bool)
	var entities, questions []string
	dropped := 0

	for _, row := range t.Rows {
		entity, question, response := row[cols.Entity], row[cols.Question], row[cols.Response]
		if entity == "" || question == "" || response == "" {
			continue
		}
		key := pairKey{entity: entity, question: question}
		if _, taken := values[key]; taken {
			dropped++
			continue
		}
		values[key] = response

		if !entitySeen[entity] {
			entitySeen[entity] = true
			entities = append(entities, entity)
		}
		if !questionSeen[question] {
			questionSeen[question] = true
			questions = append(questions, question)
		}
	}

	sortKeys(entities)
	sortKeys(questions)

	columns := make([]string, 0, len(questions)+1)
	columns = append(columns, cols.EntityName)
	columns = append(columns, questions...)

	rows := make([][]string, len(entities))
	for i, entity := range entities {
		row := make([]string, len(columns))
		row[0] = entity
		for j, question := range questions {
			row[j+1] = values[pairKey{entity: entity, question: question}]
		}
		rows[i] = row
	}

	return &WideTable{Columns: columns, Rows: rows, Dropped: dropped}
}

// sortKeys orders keys numerically when all of them parse as numbers,
// otherwise by byte value. NaN has no order, so it counts as text.
func sortKeys(keys []string) {
	nums := make([]float64, len(keys))
	numeric := len(keys) > 0
	for i, k := range keys {
		f, err := strconv.ParseFloat(k, 64)
		if err != nil || math.IsNaN(f) {
			numeric = false
			break
		}
		nums[i] = f
	}

	if !numeric {
		sort.Strings(keys)
		return
	}

	idx := make([]int, len(keys))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		if nums[idx[a]] != nums[idx[b]] {
			return nums[idx[a]] < nums[idx[b]]
		}
		return keys[idx[a]] < keys[idx[b]]
	})
	sorted := make([]string, len(keys))
	for i, j := range idx {
		sorted[i] = keys[j]
	}
	copy(keys, sorted)
}
