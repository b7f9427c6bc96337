package service

import "github.com/sangkips/printledger/internal/domain/entity"

// Labels and messages shown by the entry form.
const (
	SubmitLabel     = "Submit Entry"
	SubmittingLabel = "Submitting..."

	MsgDropdownsFailed = "Could not load initial data. Please check the console."
	MsgSubmitFailed    = "Submission failed. Check console for details."
	MsgSelectCustomer  = "Please select a customer."
	MsgFetchFailed     = "Failed to fetch data."
	MsgNoData          = "No data found for this customer."
)

// View is whatever shows the form: the web page, a terminal, a test recorder.
// Render receives a complete snapshot each time something visible changes.
type View interface {
	Render(vm ViewModel)
	Alert(message string)
}

// SubmitControl is the state of the submit button.
type SubmitControl struct {
	Disabled bool   `json:"disabled"`
	Label    string `json:"label"`
}

// HistoryTable is a customer history ready to display: the first column of
// every row is already formatted as a date.
type HistoryTable struct {
	CustomerName string     `json:"customerName" yaml:"customerName"`
	Headers      []string   `json:"headers" yaml:"headers"`
	Rows         [][]string `json:"rows" yaml:"rows"`
}

// ViewModel is everything the entry form and the history panel show.
type ViewModel struct {
	Form      entity.JobEntry        `json:"form"`
	Totals    Totals                 `json:"totals"`
	Dropdowns entity.DropdownOptions `json:"dropdowns"`
	Submit    SubmitControl          `json:"submit"`

	Loading       bool          `json:"loading"`
	ExportEnabled bool          `json:"exportEnabled"`
	Results       *HistoryTable `json:"results,omitempty"`
	NoData        string        `json:"noData,omitempty"`
}
