package report

import (
	"github.com/montanaflynn/stats"
)

// Summary describes the shape of a pivoted report
type Summary struct {
	Entities       int     `json:"entities"`
	Questions      int     `json:"questions"`
	FilledCells    int     `json:"filled_cells"`
	EmptyCells     int     `json:"empty_cells"`
	Dropped        int     `json:"dropped_duplicates"`
	MeanAnswered   float64 `json:"mean_answered"`
	MedianAnswered float64 `json:"median_answered"`
}

// Coverage is the share of cells that hold a response, in [0, 1]
func (s Summary) Coverage() float64 {
	total := s.FilledCells + s.EmptyCells
	if total == 0 {
		return 0
	}
	return float64(s.FilledCells) / float64(total)
}

// Summarize counts answered cells per entity
func Summarize(w *WideTable) Summary {
	s := Summary{
		Entities:  len(w.Rows),
		Questions: len(w.Questions()),
		Dropped:   w.Dropped,
	}

	answered := make(stats.Float64Data, 0, len(w.Rows))
	for _, row := range w.Rows {
		n := 0
		for _, cell := range row[1:] {
			if cell != "" {
				n++
			}
		}
		s.FilledCells += n
		s.EmptyCells += len(row) - 1 - n
		answered = append(answered, float64(n))
	}

	if len(answered) == 0 {
		return s
	}
	if mean, err := stats.Mean(answered); err == nil {
		s.MeanAnswered = mean
	}
	if median, err := stats.Median(answered); err == nil {
		s.MedianAnswered = median
	}
	return s
}
