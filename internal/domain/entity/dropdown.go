package entity

import (
	"encoding/json"
	"fmt"
)

// DropdownOptions holds the autocomplete suggestions for the entry form,
// sourced from values already present in the ledger.
type DropdownOptions struct {
	Customers       []string `json:"customers" yaml:"customers"`
	JobSizes        []string `json:"jobSizes" yaml:"jobSizes"`
	PaperTypes      []string `json:"paperTypes" yaml:"paperTypes"`
	PaperBy         []string `json:"paperBy" yaml:"paperBy"`
	LaminationSizes []string `json:"laminationSizes" yaml:"laminationSizes"`
	EnvelopeSizes   []string `json:"envelopeSizes" yaml:"envelopeSizes"`
}

// UnmarshalJSON accepts an object whose known keys map to arrays of scalars.
// Unknown keys are ignored and missing keys leave the list empty.
func (d *DropdownOptions) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("dropdown options: %w", err)
	}
	if raw == nil {
		return fmt.Errorf("dropdown options: expected an object, got null")
	}

	out := DropdownOptions{}
	targets := map[string]*[]string{
		"customers":       &out.Customers,
		"jobSizes":        &out.JobSizes,
		"paperTypes":      &out.PaperTypes,
		"paperBy":         &out.PaperBy,
		"laminationSizes": &out.LaminationSizes,
		"envelopeSizes":   &out.EnvelopeSizes,
	}

	for key, dst := range targets {
		value, ok := raw[key]
		if !ok {
			continue
		}
		var cells []Cell
		if err := json.Unmarshal(value, &cells); err != nil {
			return fmt.Errorf("dropdown options %q: %w", key, err)
		}
		list := make([]string, 0, len(cells))
		for _, c := range cells {
			list = append(list, string(c))
		}
		*dst = list
	}

	*d = out
	return nil
}
