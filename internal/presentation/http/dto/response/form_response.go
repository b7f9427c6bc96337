package response

import "github.com/sangkips/printledger/internal/application/service"

// FormResult is the state of the form after an operation together with the
// alerts raised while it ran, oldest first.
type FormResult struct {
	View   service.ViewModel `json:"view"`
	Alerts []string          `json:"alerts"`
}

// LastAlert returns the most recent alert, or fallback when there was none.
func (r FormResult) LastAlert(fallback string) string {
	if len(r.Alerts) == 0 {
		return fallback
	}
	return r.Alerts[len(r.Alerts)-1]
}
