package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Cell is a single spreadsheet value. The ledger returns strings, numbers,
// booleans and nulls; all of them are kept as display text.
type Cell string

// UnmarshalJSON accepts any JSON scalar. Numbers keep their literal text and
// null becomes the empty string.
func (c *Cell) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty cell")
	}

	switch data[0] {
	case 'n':
		*c = ""
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = Cell(s)
		return nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		if b {
			*c = "true"
		} else {
			*c = "false"
		}
		return nil
	case '{', '[':
		return fmt.Errorf("cell must be a scalar, got %s", data[:1])
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*c = Cell(n.String())
		return nil
	}
}

// CustomerHistory is the ledger's answer to a customer query: row 0 holds the
// column headers and every following row is one recorded job.
type CustomerHistory struct {
	Rows [][]string
}

// UnmarshalJSON accepts null or an array of arrays of scalars.
func (h *CustomerHistory) UnmarshalJSON(data []byte) error {
	var raw [][]Cell
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("customer history: %w", err)
	}

	rows := make([][]string, 0, len(raw))
	for _, r := range raw {
		row := make([]string, len(r))
		for i, c := range r {
			row[i] = string(c)
		}
		rows = append(rows, row)
	}
	h.Rows = rows
	return nil
}

// MarshalJSON writes the table back as a plain 2-D array.
func (h CustomerHistory) MarshalJSON() ([]byte, error) {
	if h.Rows == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(h.Rows)
}

// HasRecords reports whether there is at least one row beyond the headers.
func (h *CustomerHistory) HasRecords() bool {
	return h != nil && len(h.Rows) >= 2
}

// Headers returns row 0, or nil for an empty table.
func (h *CustomerHistory) Headers() []string {
	if h == nil || len(h.Rows) == 0 {
		return nil
	}
	return h.Rows[0]
}

// Records returns every row after the headers.
func (h *CustomerHistory) Records() [][]string {
	if h == nil || len(h.Rows) < 2 {
		return nil
	}
	return h.Rows[1:]
}

// HeldHistory is the most recent successful customer query, kept so it can be
// exported afterwards.
type HeldHistory struct {
	CustomerName string
	History      CustomerHistory
}
