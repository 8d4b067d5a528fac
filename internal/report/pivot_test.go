package report

import (
	"fmt"
	"math/rand"
	"testing"

	"qreport/domain/dataset"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pivotRows(t *testing.T, rows [][]string) *WideTable {
	t.Helper()
	table := &dataset.Table{
		Headers: []string{"School Name", "question", "Question_response_label"},
		Rows:    rows,
	}
	set, err := ValidateColumns(table.Headers, DefaultRequiredColumns)
	require.NoError(t, err)
	return Pivot(table, set)
}

func entityColumn(w *WideTable) []string {
	out := make([]string, len(w.Rows))
	for i, row := range w.Rows {
		out[i] = row[0]
	}
	return out
}

func TestPivotQuestionReport(t *testing.T) {
	wide := pivotRows(t, [][]string{
		{"Lincoln", "Q1", "Yes"},
		{"Lincoln", "Q2", "No"},
		{"Roosevelt", "Q1", "No"},
	})

	want := &WideTable{
		Columns: []string{"school_name", "Q1", "Q2"},
		Rows: [][]string{
			{"Lincoln", "Yes", "No"},
			{"Roosevelt", "No", ""},
		},
	}
	if diff := cmp.Diff(want, wide); diff != "" {
		t.Errorf("Pivot mismatch (-want +got):\n%s", diff)
	}
}

func TestPivotFirstResponseWins(t *testing.T) {
	wide := pivotRows(t, [][]string{
		{"E1", "Q1", "A"},
		{"E1", "Q1", "B"},
		{"E1", "Q1", "C"},
	})

	got, ok := wide.Cell("E1", "Q1")
	assert.True(t, ok)
	assert.Equal(t, "A", got)
	assert.Equal(t, 2, wide.Dropped)
}

func TestPivotEmptyResponseDoesNotClaimPair(t *testing.T) {
	wide := pivotRows(t, [][]string{
		{"E1", "Q1", ""},
		{"E1", "Q1", "late"},
	})

	got, ok := wide.Cell("E1", "Q1")
	assert.True(t, ok)
	assert.Equal(t, "late", got)
	assert.Equal(t, 0, wide.Dropped)
}

func TestPivotSkipsRowsWithoutEntityOrQuestion(t *testing.T) {
	wide := pivotRows(t, [][]string{
		{"", "Q1", "orphan"},
		{"E1", "", "orphan"},
		{"E2", "Q3", ""},
		{"E1", "Q2", "kept"},
	})

	assert.Equal(t, []string{"school_name", "Q2"}, wide.Columns)
	assert.Equal(t, [][]string{{"E1", "kept"}}, wide.Rows)
}

func TestPivotMissingCellsAreEmpty(t *testing.T) {
	wide := pivotRows(t, [][]string{
		{"A", "Q1", "x"},
		{"B", "Q2", "y"},
	})

	assert.Equal(t, [][]string{
		{"A", "x", ""},
		{"B", "", "y"},
	}, wide.Rows)
	_, ok := wide.Cell("A", "Q2")
	assert.False(t, ok)
	_, ok = wide.Cell("C", "Q1")
	assert.False(t, ok)
	_, ok = wide.Cell("A", "Q9")
	assert.False(t, ok)
}

func TestPivotOrdering(t *testing.T) {
	wide := pivotRows(t, [][]string{
		{"Washington", "10", "a"},
		{"Adams", "9", "b"},
		{"lincoln", "2", "c"},
		{"Lincoln", "1", "d"},
	})

	assert.Equal(t, []string{"school_name", "1", "2", "9", "10"}, wide.Columns)
	assert.Equal(t, []string{"Adams", "Lincoln", "Washington", "lincoln"}, entityColumn(wide))
}

func TestPivotMixedQuestionKeysSortLexically(t *testing.T) {
	wide := pivotRows(t, [][]string{
		{"E", "10", "a"},
		{"E", "9", "b"},
		{"E", "Q1", "c"},
	})

	assert.Equal(t, []string{"school_name", "10", "9", "Q1"}, wide.Columns)
}

func TestPivotNaNKeySortsLexically(t *testing.T) {
	wide := pivotRows(t, [][]string{
		{"E", "2", "a"},
		{"E", "NaN", "b"},
		{"E", "1", "c"},
	})

	assert.Equal(t, []string{"school_name", "1", "2", "NaN"}, wide.Columns)
}

func TestSortKeys(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want []string
	}{
		{"numeric", []string{"10", "2", "-1.5"}, []string{"-1.5", "2", "10"}},
		{"infinities order numerically", []string{"Inf", "3", "-Inf"}, []string{"-Inf", "3", "Inf"}},
		{"nan falls back to text", []string{"2", "NaN", "1"}, []string{"1", "2", "NaN"}},
		{"equal values by text", []string{"1.0", "1"}, []string{"1", "1.0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keys := append([]string(nil), tt.keys...)
			sortKeys(keys)
			assert.Equal(t, tt.want, keys)
		})
	}
}

func TestPivotKeepsLiteralValues(t *testing.T) {
	wide := pivotRows(t, [][]string{
		{" Lincoln ", "Q 1", " Yes "},
	})

	assert.Equal(t, []string{"school_name", "Q 1"}, wide.Columns)
	assert.Equal(t, [][]string{{" Lincoln ", " Yes "}}, wide.Rows)
}

func TestPivotNoRows(t *testing.T) {
	wide := pivotRows(t, nil)

	assert.Equal(t, []string{"school_name"}, wide.Columns)
	assert.Empty(t, wide.Rows)
	assert.Empty(t, Melt(wide))
}

func TestPivotMeltRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 50; trial++ {
		seen := make(map[[2]string]bool)
		var rows [][]string
		var want []Triple
		for i := 0; i < 40; i++ {
			entity := fmt.Sprintf("School %d", rng.Intn(8))
			question := fmt.Sprintf("Q%d", rng.Intn(6))
			if seen[[2]string{entity, question}] {
				continue
			}
			seen[[2]string{entity, question}] = true
			response := fmt.Sprintf("r%d", rng.Intn(100))
			rows = append(rows, []string{entity, question, response})
			want = append(want, Triple{Entity: entity, Question: question, Response: response})
		}

		got := Melt(pivotRows(t, rows))

		sortTriples := cmpopts.SortSlices(func(a, b Triple) bool {
			if a.Entity != b.Entity {
				return a.Entity < b.Entity
			}
			return a.Question < b.Question
		})
		if diff := cmp.Diff(want, got, sortTriples); diff != "" {
			t.Fatalf("trial %d round trip mismatch (-want +got):\n%s", trial, diff)
		}
	}
}

func TestWideFromTableAndLongTable(t *testing.T) {
	exported := &dataset.Table{
		Headers: []string{"school_name", "Q1", "Q2"},
		Rows: [][]string{
			{"Lincoln", "Yes", "No"},
			{"Roosevelt", "No", ""},
		},
	}

	triples := Melt(WideFromTable(exported))
	assert.Equal(t, []Triple{
		{Entity: "Lincoln", Question: "Q1", Response: "Yes"},
		{Entity: "Lincoln", Question: "Q2", Response: "No"},
		{Entity: "Roosevelt", Question: "Q1", Response: "No"},
	}, triples)

	long := LongTable("school_name", triples)
	assert.Equal(t, []string{"school_name", "question", "question_response_label"}, long.Headers)
	assert.Equal(t, []string{"Lincoln", "Q2", "No"}, long.Rows[1])
}
