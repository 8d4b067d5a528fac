package report

import (
	"fmt"
	"strings"
)

// Role is the part a required column plays in the pivot
type Role int

const (
	RoleEntity Role = iota
	RoleQuestion
	RoleResponse
)

func (r Role) String() string {
	switch r {
	case RoleEntity:
		return "entity"
	case RoleQuestion:
		return "question"
	case RoleResponse:
		return "response"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// RequiredColumn names a logical column as users know it
type RequiredColumn struct {
	Role Role
	Name string
}

// Key is the normalized name matched against upload headers
func (c RequiredColumn) Key() string {
	return NormalizeColumnName(c.Name)
}

// DefaultRequiredColumns are the columns of a question report export
var DefaultRequiredColumns = []RequiredColumn{
	{Role: RoleEntity, Name: "school name"},
	{Role: RoleQuestion, Name: "question"},
	{Role: RoleResponse, Name: "question_response_label"},
}

// ColumnSet holds the resolved positions of the required columns
type ColumnSet struct {
	Entity   int
	Question int
	Response int

	// EntityName is the normalized header of the entity column; it heads
	// the first column of the pivoted table.
	EntityName string
}

// MissingColumnsError is returned when an upload lacks required columns.
// It is a reportable outcome, not a fault: the user fixes the headers and
// uploads again.
type MissingColumnsError struct {
	Required []string
	Missing  []string
	Detected []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required columns: %s (detected: %s)",
		strings.Join(e.Missing, ", "), strings.Join(e.Detected, ", "))
}

// RequiredMessage is the first user-facing diagnostic
func (e *MissingColumnsError) RequiredMessage() string {
	return fmt.Sprintf("The uploaded CSV must contain the columns: %s (missing: %s)",
		strings.Join(e.Required, ", "), strings.Join(e.Missing, ", "))
}

// DetectedMessage is the second user-facing diagnostic
func (e *MissingColumnsError) DetectedMessage() string {
	return "Detected columns: " + strings.Join(e.Detected, ", ")
}

// Messages returns both diagnostics in display order
func (e *MissingColumnsError) Messages() []string {
	return []string{e.RequiredMessage(), e.DetectedMessage()}
}

// ValidateColumns resolves each required column against headers in
// normalized space. When a normalized name occurs more than once the
// leftmost column is used.
func ValidateColumns(headers []string, required []RequiredColumn) (ColumnSet, error) {
	normalized := NormalizeColumns(headers)
	index := make(map[string]int, len(normalized))
	for i, name := range normalized {
		if _, ok := index[name]; !ok {
			index[name] = i
		}
	}

	set := ColumnSet{Entity: -1, Question: -1, Response: -1}
	var missing []string
	names := make([]string, len(required))
	for i, col := range required {
		names[i] = col.Name
		pos, ok := index[col.Key()]
		if !ok {
			missing = append(missing, col.Name)
			continue
		}
		switch col.Role {
		case RoleEntity:
			set.Entity = pos
			set.EntityName = normalized[pos]
		case RoleQuestion:
			set.Question = pos
		case RoleResponse:
			set.Response = pos
		}
	}

	if len(missing) > 0 {
		return ColumnSet{}, &MissingColumnsError{
			Required: names,
			Missing:  missing,
			Detected: normalized,
		}
	}
	if set.Entity < 0 || set.Question < 0 || set.Response < 0 {
		return ColumnSet{}, fmt.Errorf("required columns must cover entity, question and response roles")
	}
	return set, nil
}
