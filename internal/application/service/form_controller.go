package service

import (
	"bytes"
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/sangkips/printledger/internal/domain/entity"
	"github.com/sangkips/printledger/pkg/apperror"
	"github.com/sangkips/printledger/pkg/report"
)

// LedgerAPI is the remote spreadsheet ledger.
type LedgerAPI interface {
	GetDropdowns(ctx context.Context) (*entity.DropdownOptions, error)
	GetCustomerData(ctx context.Context, customerName string) (*entity.CustomerHistory, error)
	SubmitEntry(ctx context.Context, entry *entity.JobEntry) (*entity.SubmitResponse, error)
}

// ExportFile is a generated download.
type ExportFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// FormController drives the job entry form and the customer history panel for
// one client. All UI effects go through the View passed to each operation.
type FormController struct {
	api       LedgerAPI
	dates     DateStore
	formatter *DateFormatter
	now       func() time.Time

	mu   sync.Mutex
	vm   ViewModel
	held *entity.HeldHistory
}

// NewFormController creates a controller for one client.
func NewFormController(api LedgerAPI, dates DateStore, formatter *DateFormatter) *FormController {
	if formatter == nil {
		formatter = NewDateFormatter("", nil)
	}
	return &FormController{
		api:       api,
		dates:     dates,
		formatter: formatter,
		now:       time.Now,
		vm: ViewModel{
			Totals: CalculateTotals(CostFields{}),
			Submit: SubmitControl{Label: SubmitLabel},
		},
	}
}

// Snapshot returns the current view model.
func (c *FormController) Snapshot() ViewModel {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.vm
}

// HasHeldHistory reports whether a customer history is available for export.
func (c *FormController) HasHeldHistory() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.held != nil && c.held.History.HasRecords()
}

// Initialize restores the last-used date, loads the dropdown suggestions and
// computes the totals of the empty form.
func (c *FormController) Initialize(ctx context.Context, view View) {
	date := c.DefaultDate(ctx)
	c.update(view, func(vm *ViewModel) {
		vm.Form = entity.JobEntry{Date: date}
		vm.Submit = SubmitControl{Label: SubmitLabel}
	})

	_, _ = c.RefreshDropdowns(ctx, view)
	c.RecalculateTotals(view, CostFields{})
}

// RecalculateTotals derives total and balance from the current cost fields.
func (c *FormController) RecalculateTotals(view View, costs CostFields) Totals {
	totals := CalculateTotals(costs)
	c.update(view, func(vm *ViewModel) {
		vm.Form.Cost = costs.Cost
		vm.Form.PaperCost = costs.PaperCost
		vm.Form.LamiCost = costs.LamiCost
		vm.Form.EnveCost = costs.EnveCost
		vm.Form.Received = costs.Received
		vm.Form.TotalAmount = totals.Total
		vm.Form.BalAmt = totals.Balance
		vm.Totals = totals
	})
	return totals
}

// PersistDate remembers date as this client's default for the next session.
// An empty date clears the preference so the next session starts on today.
func (c *FormController) PersistDate(ctx context.Context, view View, date string) error {
	date = strings.TrimSpace(date)
	if date != "" && !ValidDateInput(date) {
		return apperror.Badf("invalid date %q, expected YYYY-MM-DD", date)
	}
	if err := c.dates.SaveDate(ctx, date); err != nil {
		log.Printf("Error saving date preference: %v", err)
		return err
	}
	c.update(view, func(vm *ViewModel) {
		vm.Form.Date = date
	})
	return nil
}

// SubmitEntry sends the form to the ledger. The submit control is disabled
// while the request is in flight and always restored afterwards. A transport
// or decoding failure is returned; a rejection by the ledger is not an error
// and is reported through the returned response.
func (c *FormController) SubmitEntry(ctx context.Context, view View, form entity.JobEntry) (*entity.SubmitResponse, error) {
	c.update(view, func(vm *ViewModel) {
		vm.Submit = SubmitControl{Disabled: true, Label: SubmittingLabel}
	})
	defer c.update(view, func(vm *ViewModel) {
		vm.Submit = SubmitControl{Label: SubmitLabel}
	})

	entry := form
	totals := CalculateTotals(CostFieldsOf(entry))
	entry.TotalAmount = totals.Total
	entry.BalAmt = totals.Balance
	c.update(view, func(vm *ViewModel) {
		vm.Form = entry
		vm.Totals = totals
	})

	res, err := c.api.SubmitEntry(ctx, &entry)
	if err != nil {
		log.Printf("Error submitting form: %v", err)
		view.Alert(MsgSubmitFailed)
		return nil, err
	}

	view.Alert(res.Message)
	if res.Succeeded() {
		c.resetForm(ctx, view)
		_, _ = c.RefreshDropdowns(ctx, view)
	}
	return res, nil
}

// FetchCustomerHistory loads and displays every job recorded for customerName
// and holds the result for export. The loading indicator is always cleared
// when the call returns.
func (c *FormController) FetchCustomerHistory(ctx context.Context, view View, customerName string) (*HistoryTable, error) {
	if strings.TrimSpace(customerName) == "" {
		view.Alert(MsgSelectCustomer)
		return nil, apperror.ErrCustomerRequired
	}

	c.update(view, func(vm *ViewModel) {
		vm.Loading = true
		vm.Results = nil
		vm.NoData = ""
		vm.ExportEnabled = false
	})
	defer c.update(view, func(vm *ViewModel) {
		vm.Loading = false
	})

	history, err := c.api.GetCustomerData(ctx, customerName)
	if err != nil {
		log.Printf("Error fetching data: %v", err)
		view.Alert(MsgFetchFailed)
		return nil, err
	}

	return c.display(view, customerName, history), nil
}

func (c *FormController) display(view View, customerName string, history *entity.CustomerHistory) *HistoryTable {
	if !history.HasRecords() {
		c.update(view, func(vm *ViewModel) {
			vm.NoData = MsgNoData
			c.held = nil
		})
		return nil
	}

	table := &HistoryTable{
		CustomerName: customerName,
		Headers:      history.Headers(),
		Rows:         c.formatRows(history.Records()),
	}
	held := &entity.HeldHistory{
		CustomerName: customerName,
		History:      *history,
	}

	c.update(view, func(vm *ViewModel) {
		vm.Results = table
		vm.ExportEnabled = true
		c.held = held
	})
	return table
}

// ExportCustomerHistoryToPdf renders the held history as a landscape PDF.
// It returns nil when there is nothing to export or the view has export
// disabled, as it does while a fetch runs and after a failed one.
func (c *FormController) ExportCustomerHistoryToPdf() (*ExportFile, error) {
	return c.export(report.FormatPDF)
}

// ExportCustomerHistoryToXlsx renders the held history as a spreadsheet.
// It returns nil when there is nothing to export.
func (c *FormController) ExportCustomerHistoryToXlsx() (*ExportFile, error) {
	return c.export(report.FormatXLSX)
}

func (c *FormController) export(format report.Format) (*ExportFile, error) {
	c.mu.Lock()
	held, enabled := c.held, c.vm.ExportEnabled
	c.mu.Unlock()

	if !enabled || held == nil || !held.History.HasRecords() {
		return nil, nil
	}

	table := report.Table{
		Title:   "Data for: " + held.CustomerName,
		Headers: held.History.Headers(),
		Rows:    c.formatRows(held.History.Records()),
	}

	var buf bytes.Buffer
	if err := report.Write(&buf, format, table); err != nil {
		log.Printf("Error exporting history for %s: %v", held.CustomerName, err)
		return nil, err
	}

	return &ExportFile{
		Name:        report.FileName(held.CustomerName, format),
		ContentType: format.ContentType(),
		Data:        buf.Bytes(),
	}, nil
}

// formatRows copies rows with the first cell rendered as a date.
func (c *FormController) formatRows(rows [][]string) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		r := make([]string, len(row))
		copy(r, row)
		if len(r) > 0 {
			r[0] = c.formatter.Format(r[0])
		}
		out[i] = r
	}
	return out
}

func (c *FormController) resetForm(ctx context.Context, view View) {
	date := c.DefaultDate(ctx)
	c.update(view, func(vm *ViewModel) {
		vm.Form = entity.JobEntry{Date: date}
	})
	c.RecalculateTotals(view, CostFields{})
}

// RefreshDropdowns reloads the autocomplete suggestions. On failure the
// previous suggestions stay in place.
func (c *FormController) RefreshDropdowns(ctx context.Context, view View) (*entity.DropdownOptions, error) {
	opts, err := c.api.GetDropdowns(ctx)
	if err != nil {
		log.Printf("Error fetching dropdowns: %v", err)
		view.Alert(MsgDropdownsFailed)
		return nil, err
	}
	c.update(view, func(vm *ViewModel) {
		vm.Dropdowns = *opts
	})
	return opts, nil
}

// DefaultDate is the stored last-used date, or today when none is stored.
func (c *FormController) DefaultDate(ctx context.Context) string {
	stored, err := c.dates.LastDate(ctx)
	if err != nil {
		log.Printf("Error loading date preference: %v", err)
	}
	if stored != "" {
		return stored
	}
	return Today(c.now())
}

// update applies fn to the view model under the lock and renders the result.
func (c *FormController) update(view View, fn func(vm *ViewModel)) {
	c.mu.Lock()
	fn(&c.vm)
	snapshot := c.vm
	c.mu.Unlock()

	view.Render(snapshot)
}
