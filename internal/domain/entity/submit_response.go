package entity

import (
	"encoding/json"
	"errors"
)

// SubmitStatusSuccess is the only status the ledger endpoint uses for a stored row.
const SubmitStatusSuccess = "success"

// SubmitResponse is the ledger endpoint's reply to a posted JobEntry.
type SubmitResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Succeeded reports whether the row was stored.
func (r *SubmitResponse) Succeeded() bool {
	return r.Status == SubmitStatusSuccess
}

// UnmarshalJSON requires an object carrying a string status.
func (r *SubmitResponse) UnmarshalJSON(data []byte) error {
	var raw struct {
		Status  *string         `json:"status"`
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Status == nil {
		return errors.New("submit response has no status")
	}

	var msg Cell
	if len(raw.Message) > 0 {
		if err := json.Unmarshal(raw.Message, &msg); err != nil {
			return errors.New("submit response message is not a scalar")
		}
	}

	r.Status = *raw.Status
	r.Message = string(msg)
	return nil
}
