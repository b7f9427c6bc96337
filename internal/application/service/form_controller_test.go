package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/sangkips/printledger/internal/domain/entity"
	"github.com/sangkips/printledger/internal/infrastructure/sheets"
	"github.com/sangkips/printledger/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// fakeLedger is an in-process stand-in for the Apps Script endpoint.
type fakeLedger struct {
	mu        sync.Mutex
	hits      map[string]int
	submitted []entity.JobEntry

	dropdowns string
	history   string
	submit    string
	status    int
}

func newFakeLedger(t *testing.T) (*fakeLedger, *sheets.Client) {
	f := &fakeLedger{
		hits:      map[string]int{},
		dropdowns: `{"customers":["Acme","Bolt"],"jobSizes":["A4"]}`,
		history:   `[["Date","Customer","Total"],["2024-03-05T00:00:00.000Z","Acme","150.00"],["","Acme",0]]`,
		submit:    `{"status":"success","message":"Entry saved"}`,
		status:    http.StatusOK,
	}
	srv := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(srv.Close)
	return f, sheets.NewClient(srv.URL, 0)
}

func (f *fakeLedger) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := r.URL.Query().Get("action")
	body := ""
	switch {
	case r.Method == http.MethodPost:
		key = "submit"
		var e entity.JobEntry
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &e)
		f.submitted = append(f.submitted, e)
		body = f.submit
	case key == "getDropdowns":
		body = f.dropdowns
	case key == "getCustomerData":
		body = f.history
	}
	f.hits[key]++

	w.WriteHeader(f.status)
	w.Write([]byte(body))
}

func (f *fakeLedger) count(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[key]
}

func (f *fakeLedger) set(fn func(f *fakeLedger)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

type memoryDates struct {
	date string
	err  error
}

func (m *memoryDates) LastDate(context.Context) (string, error) { return m.date, m.err }

func (m *memoryDates) SaveDate(_ context.Context, date string) error {
	if m.err != nil {
		return m.err
	}
	m.date = date
	return nil
}

type recordingView struct {
	renders []ViewModel
	alerts  []string
}

func (v *recordingView) Render(vm ViewModel) { v.renders = append(v.renders, vm) }
func (v *recordingView) Alert(msg string)    { v.alerts = append(v.alerts, msg) }

func (v *recordingView) last() ViewModel { return v.renders[len(v.renders)-1] }

func entryWithCosts(cost, paper, lami, enve, received string) entity.JobEntry {
	return entity.JobEntry{Cost: cost, PaperCost: paper, LamiCost: lami, EnveCost: enve, Received: received}
}

func newController(t *testing.T, dates *memoryDates) (*FormController, *fakeLedger) {
	ledger, client := newFakeLedger(t)
	c := NewFormController(client, dates, NewDateFormatter("", nil))
	c.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	return c, ledger
}

func TestInitializeUsesStoredDate(t *testing.T) {
	c, ledger := newController(t, &memoryDates{date: "2024-05-20"})
	view := &recordingView{}

	c.Initialize(context.Background(), view)

	vm := view.last()
	assert.Equal(t, "2024-05-20", vm.Form.Date)
	assert.Equal(t, []string{"Acme", "Bolt"}, vm.Dropdowns.Customers)
	assert.Equal(t, Totals{Total: "0.00", Balance: "0.00"}, vm.Totals)
	assert.Equal(t, SubmitControl{Label: SubmitLabel}, vm.Submit)
	assert.Empty(t, view.alerts)
	assert.Equal(t, 1, ledger.count("getDropdowns"))
}

func TestInitializeDefaultsToToday(t *testing.T) {
	c, _ := newController(t, &memoryDates{})
	view := &recordingView{}

	c.Initialize(context.Background(), view)
	assert.Equal(t, "2024-06-01", view.last().Form.Date)
}

func TestInitializeDropdownFailureAlertsAndKeepsFormUsable(t *testing.T) {
	for name, mutate := range map[string]func(*fakeLedger){
		"server error": func(f *fakeLedger) { f.status = http.StatusInternalServerError },
		"malformed":    func(f *fakeLedger) { f.dropdowns = `<html>login</html>` },
		"not object":   func(f *fakeLedger) { f.dropdowns = `null` },
	} {
		t.Run(name, func(t *testing.T) {
			c, ledger := newController(t, &memoryDates{})
			ledger.set(mutate)
			view := &recordingView{}

			c.Initialize(context.Background(), view)

			assert.Equal(t, []string{MsgDropdownsFailed}, view.alerts)
			assert.Equal(t, "2024-06-01", view.last().Form.Date)
			assert.Equal(t, "0.00", view.last().Totals.Total)
		})
	}
}

func TestRecalculateTotals(t *testing.T) {
	c, _ := newController(t, &memoryDates{})
	view := &recordingView{}

	totals := c.RecalculateTotals(view, CostFields{Cost: "100", PaperCost: "50", Received: "60"})

	assert.Equal(t, Totals{Total: "150.00", Balance: "90.00"}, totals)
	vm := view.last()
	assert.Equal(t, "150.00", vm.Form.TotalAmount)
	assert.Equal(t, "90.00", vm.Form.BalAmt)
	assert.Equal(t, "100", vm.Form.Cost)
}

func TestSubmitEntrySuccess(t *testing.T) {
	dates := &memoryDates{date: "2024-05-20"}
	c, ledger := newController(t, dates)
	view := &recordingView{}
	c.Initialize(context.Background(), view)

	entry := entryWithCosts("100", "50", "", "", "60")
	entry.Date = "2024-05-21"
	entry.CustomerName = "Acme"
	entry.TotalAmount = "stale"

	res, err := c.SubmitEntry(context.Background(), view, entry)
	require.NoError(t, err)
	assert.True(t, res.Succeeded())

	require.Len(t, ledger.submitted, 1)
	sent := ledger.submitted[0]
	assert.Equal(t, "150.00", sent.TotalAmount)
	assert.Equal(t, "90.00", sent.BalAmt)
	assert.Equal(t, "Acme", sent.CustomerName)

	assert.Equal(t, []string{"Entry saved"}, view.alerts)
	vm := view.last()
	assert.Equal(t, entity.JobEntry{Date: "2024-05-20", TotalAmount: "0.00", BalAmt: "0.00"}, vm.Form)
	assert.Equal(t, SubmitControl{Label: SubmitLabel}, vm.Submit)
	assert.Equal(t, 2, ledger.count("getDropdowns"))
}

func TestSubmitEntryDisablesControlWhileInFlight(t *testing.T) {
	c, _ := newController(t, &memoryDates{})
	view := &recordingView{}

	_, err := c.SubmitEntry(context.Background(), view, entity.JobEntry{CustomerName: "Acme"})
	require.NoError(t, err)

	assert.Equal(t, SubmitControl{Disabled: true, Label: SubmittingLabel}, view.renders[0].Submit)
	assert.Equal(t, SubmitControl{Label: SubmitLabel}, view.last().Submit)
}

func TestSubmitEntryRejectedKeepsForm(t *testing.T) {
	c, ledger := newController(t, &memoryDates{})
	ledger.set(func(f *fakeLedger) { f.submit = `{"status":"error","message":"Sheet locked"}` })
	view := &recordingView{}

	entry := entity.JobEntry{CustomerName: "Acme", Cost: "10"}
	res, err := c.SubmitEntry(context.Background(), view, entry)
	require.NoError(t, err)
	assert.False(t, res.Succeeded())

	assert.Equal(t, []string{"Sheet locked"}, view.alerts)
	assert.Equal(t, "Acme", view.last().Form.CustomerName)
	assert.Equal(t, "10.00", view.last().Form.TotalAmount)
	assert.Equal(t, SubmitControl{Label: SubmitLabel}, view.last().Submit)
	assert.Equal(t, 0, ledger.count("getDropdowns"))
}

func TestSubmitEntryFailure(t *testing.T) {
	for name, mutate := range map[string]func(*fakeLedger){
		"transport":  func(f *fakeLedger) { f.status = http.StatusBadGateway },
		"malformed":  func(f *fakeLedger) { f.submit = `ok` },
		"bad status": func(f *fakeLedger) { f.submit = `{"status":1,"message":"x"}` },
	} {
		t.Run(name, func(t *testing.T) {
			c, ledger := newController(t, &memoryDates{})
			ledger.set(mutate)
			view := &recordingView{}

			res, err := c.SubmitEntry(context.Background(), view, entity.JobEntry{CustomerName: "Acme"})
			require.Error(t, err)
			assert.Nil(t, res)
			assert.True(t, errors.Is(err, apperror.ErrTransport) || errors.Is(err, apperror.ErrMalformedResponse))

			assert.Equal(t, []string{MsgSubmitFailed}, view.alerts)
			assert.Equal(t, "Acme", view.last().Form.CustomerName)
			assert.Equal(t, SubmitControl{Label: SubmitLabel}, view.last().Submit)
		})
	}
}

func TestFetchCustomerHistory(t *testing.T) {
	c, ledger := newController(t, &memoryDates{})
	view := &recordingView{}

	table, err := c.FetchCustomerHistory(context.Background(), view, "Acme")
	require.NoError(t, err)
	require.NotNil(t, table)

	assert.Equal(t, []string{"Date", "Customer", "Total"}, table.Headers)
	assert.Equal(t, [][]string{{"3/5/2024", "Acme", "150.00"}, {"", "Acme", "0"}}, table.Rows)
	assert.Equal(t, 1, ledger.count("getCustomerData"))

	assert.True(t, view.renders[0].Loading)
	assert.False(t, view.renders[0].ExportEnabled)
	vm := view.last()
	assert.False(t, vm.Loading)
	assert.True(t, vm.ExportEnabled)
	assert.Equal(t, table, vm.Results)
	assert.True(t, c.HasHeldHistory())
}

func TestFetchCustomerHistoryRequiresName(t *testing.T) {
	c, ledger := newController(t, &memoryDates{})
	view := &recordingView{}

	_, err := c.FetchCustomerHistory(context.Background(), view, "  ")
	assert.ErrorIs(t, err, apperror.ErrCustomerRequired)
	assert.Equal(t, []string{MsgSelectCustomer}, view.alerts)
	assert.Empty(t, view.renders)
	assert.Equal(t, 0, ledger.count("getCustomerData"))
}

func TestFetchCustomerHistoryNoData(t *testing.T) {
	c, ledger := newController(t, &memoryDates{})
	view := &recordingView{}
	_, err := c.FetchCustomerHistory(context.Background(), view, "Acme")
	require.NoError(t, err)

	ledger.set(func(f *fakeLedger) { f.history = `[["Date","Customer"]]` })
	table, err := c.FetchCustomerHistory(context.Background(), view, "Nobody")
	require.NoError(t, err)
	assert.Nil(t, table)

	vm := view.last()
	assert.Equal(t, MsgNoData, vm.NoData)
	assert.Nil(t, vm.Results)
	assert.False(t, vm.ExportEnabled)
	assert.False(t, c.HasHeldHistory())

	file, err := c.ExportCustomerHistoryToPdf()
	assert.NoError(t, err)
	assert.Nil(t, file)
}

func TestFetchCustomerHistoryFailureKeepsHeldHistory(t *testing.T) {
	c, ledger := newController(t, &memoryDates{})
	view := &recordingView{}
	_, err := c.FetchCustomerHistory(context.Background(), view, "Acme")
	require.NoError(t, err)

	ledger.set(func(f *fakeLedger) { f.history = `{"error":"bad"}` })
	_, err = c.FetchCustomerHistory(context.Background(), view, "Bolt")
	assert.ErrorIs(t, err, apperror.ErrMalformedResponse)

	assert.Equal(t, []string{MsgFetchFailed}, view.alerts)
	vm := view.last()
	assert.False(t, vm.Loading)
	assert.False(t, vm.ExportEnabled)
	assert.True(t, c.HasHeldHistory())

	file, err := c.ExportCustomerHistoryToPdf()
	require.NoError(t, err)
	assert.Nil(t, file, "export follows the disabled export control")

	ledger.set(func(f *fakeLedger) {
		f.history = `[["Date","Customer","Total"],["2024-03-05T00:00:00.000Z","Acme","150.00"]]`
	})
	_, err = c.FetchCustomerHistory(context.Background(), view, "Acme")
	require.NoError(t, err)

	file, err = c.ExportCustomerHistoryToPdf()
	require.NoError(t, err)
	require.NotNil(t, file)
	assert.Equal(t, "Acme_data.pdf", file.Name)
}

func TestExportWithoutHistoryIsNoop(t *testing.T) {
	c, ledger := newController(t, &memoryDates{})

	pdf, err := c.ExportCustomerHistoryToPdf()
	assert.NoError(t, err)
	assert.Nil(t, pdf)

	xlsx, err := c.ExportCustomerHistoryToXlsx()
	assert.NoError(t, err)
	assert.Nil(t, xlsx)

	assert.Equal(t, 0, ledger.count("getCustomerData"))
}

func TestExportCustomerHistory(t *testing.T) {
	c, ledger := newController(t, &memoryDates{})
	view := &recordingView{}
	_, err := c.FetchCustomerHistory(context.Background(), view, "Acme")
	require.NoError(t, err)

	pdf, err := c.ExportCustomerHistoryToPdf()
	require.NoError(t, err)
	assert.Equal(t, "Acme_data.pdf", pdf.Name)
	assert.Equal(t, "application/pdf", pdf.ContentType)
	assert.True(t, bytes.HasPrefix(pdf.Data, []byte("%PDF-")))

	xlsx, err := c.ExportCustomerHistoryToXlsx()
	require.NoError(t, err)
	assert.Equal(t, "Acme_data.xlsx", xlsx.Name)

	f, err := excelize.OpenReader(bytes.NewReader(xlsx.Data))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	assert.Equal(t, []string{"3/5/2024", "Acme", "150.00"}, rows[1])

	assert.Equal(t, 1, ledger.count("getCustomerData"))
}

func TestPersistDate(t *testing.T) {
	dates := &memoryDates{}
	c, _ := newController(t, dates)
	view := &recordingView{}

	require.NoError(t, c.PersistDate(context.Background(), view, "2024-07-04"))
	assert.Equal(t, "2024-07-04", dates.date)
	assert.Equal(t, "2024-07-04", view.last().Form.Date)

	err := c.PersistDate(context.Background(), view, "07/04/2024")
	assert.Error(t, err)
	assert.Equal(t, "2024-07-04", dates.date)

	require.NoError(t, c.PersistDate(context.Background(), view, ""))
	assert.Equal(t, "", dates.date)
}

func TestPersistDateStoreFailure(t *testing.T) {
	c, _ := newController(t, &memoryDates{err: errors.New("disk full")})
	assert.EqualError(t, c.PersistDate(context.Background(), &recordingView{}, "2024-07-04"), "disk full")
}
