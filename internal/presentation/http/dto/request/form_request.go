package request

import "github.com/sangkips/printledger/internal/application/service"

// TotalsRequest carries the raw cost fields as typed.
type TotalsRequest struct {
	Cost      string `json:"cost"`
	PaperCost string `json:"paperCost"`
	LamiCost  string `json:"lamiCost"`
	EnveCost  string `json:"enveCost"`
	Received  string `json:"received"`
}

// CostFields converts the request for the controller.
func (r TotalsRequest) CostFields() service.CostFields {
	return service.CostFields{
		Cost:      r.Cost,
		PaperCost: r.PaperCost,
		LamiCost:  r.LamiCost,
		EnveCost:  r.EnveCost,
		Received:  r.Received,
	}
}

// DateRequest is the body of PUT /form/date. An empty date clears the preference.
type DateRequest struct {
	Date string `json:"date"`
}

// HistoryQuery is the query string of GET /history.
type HistoryQuery struct {
	CustomerName string `form:"customerName"`
}
