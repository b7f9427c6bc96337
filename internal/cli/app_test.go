package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/sangkips/printledger/internal/application/service"
	"github.com/sangkips/printledger/internal/domain/entity"
	"github.com/sangkips/printledger/internal/infrastructure/sheets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ledger struct {
	mu        sync.Mutex
	submitted []entity.JobEntry
	submit    string
	history   string
}

func (l *ledger) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if r.Method == http.MethodPost {
		var e entity.JobEntry
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &e)
		l.submitted = append(l.submitted, e)
		io.WriteString(w, l.submit)
		return
	}
	switch r.URL.Query().Get("action") {
	case "getDropdowns":
		io.WriteString(w, `{"customers":["Acme","Bolt"],"jobSizes":["A4"]}`)
	case "getCustomerData":
		io.WriteString(w, l.history)
	}
}

type dates struct{ date string }

func (d *dates) LastDate(context.Context) (string, error) { return d.date, nil }

func (d *dates) SaveDate(_ context.Context, date string) error {
	d.date = date
	return nil
}

func newTestApp(t *testing.T) (*ledger, *dates, *bytes.Buffer, *bytes.Buffer, *App) {
	l := &ledger{
		submit:  `{"status":"success","message":"Entry saved"}`,
		history: `[["Date","Customer","Total"],["2024-03-05T00:00:00.000Z","Acme","150.00"]]`,
	}
	srv := httptest.NewServer(l)
	t.Cleanup(srv.Close)

	d := &dates{}
	ctrl := service.NewFormController(sheets.NewClient(srv.URL, 0), d, service.NewDateFormatter("", nil))
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	return l, d, out, errOut, NewApp(ctrl, out, errOut)
}

func run(a *App, args ...string) error {
	cmd := SetupCommands(a)
	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	return cmd.ExecuteContext(context.Background())
}

func TestTotalsCommand(t *testing.T) {
	_, _, out, _, a := newTestApp(t)

	require.NoError(t, run(a, "totals", "--cost", "100", "--paper-cost", "50", "--received", "60"))
	assert.Equal(t, "Total:   150.00\nBalance: 90.00\n", out.String())
}

func TestDropdownsCommand(t *testing.T) {
	_, _, out, _, a := newTestApp(t)

	require.NoError(t, run(a, "dropdowns"))
	assert.Contains(t, out.String(), "Acme, Bolt")

	out.Reset()
	require.NoError(t, run(a, "dropdowns", "-o", "yaml"))
	assert.Contains(t, out.String(), "- Acme")

	assert.Error(t, run(a, "dropdowns", "-o", "xml"))
}

func TestSubmitCommandUsesRememberedDate(t *testing.T) {
	l, d, out, errOut, a := newTestApp(t)
	d.date = "2024-05-20"

	path := filepath.Join(t.TempDir(), "entry.yaml")
	require.NoError(t, os.WriteFile(path, []byte("customerName: Acme\ncost: 100\nreceived: 40\n"), 0o644))

	require.NoError(t, run(a, "submit", "-f", path))
	require.Len(t, l.submitted, 1)
	assert.Equal(t, "2024-05-20", l.submitted[0].Date)
	assert.Equal(t, "100.00", l.submitted[0].TotalAmount)
	assert.Equal(t, "60.00", l.submitted[0].BalAmt)
	assert.Contains(t, out.String(), "total 100.00, balance 60.00")
	assert.Equal(t, "! Entry saved\n", errOut.String())
}

func TestSubmitCommandRejected(t *testing.T) {
	l, _, _, errOut, a := newTestApp(t)
	l.submit = `{"status":"error","message":"Sheet locked"}`

	path := filepath.Join(t.TempDir(), "entry.yaml")
	require.NoError(t, os.WriteFile(path, []byte("customerName: Acme\n"), 0o644))

	err := run(a, "submit", "-f", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Sheet locked")
	assert.Contains(t, errOut.String(), "Sheet locked")
}

func TestHistoryCommandExports(t *testing.T) {
	_, _, out, _, a := newTestApp(t)
	dir := t.TempDir() + string(os.PathSeparator)

	require.NoError(t, run(a, "history", "Acme", "--pdf", dir, "--xlsx", filepath.Join(dir, "acme.xlsx")))
	assert.Contains(t, out.String(), "3/5/2024")

	pdf, err := os.ReadFile(filepath.Join(dir, "Acme_data.pdf"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
	assert.FileExists(t, filepath.Join(dir, "acme.xlsx"))
}

func TestHistoryCommandWithoutRecords(t *testing.T) {
	for name, body := range map[string]string{
		"header only": `[["Date","Customer"]]`,
		"empty":       `[]`,
	} {
		t.Run(name, func(t *testing.T) {
			l, _, out, _, a := newTestApp(t)
			l.history = body

			require.NoError(t, run(a, "history", "Ghost"))
			assert.Equal(t, service.MsgNoData+"\n", out.String())

			out.Reset()
			pdf := filepath.Join(t.TempDir(), "ghost.pdf")
			err := run(a, "history", "Ghost", "--pdf", pdf)
			assert.EqualError(t, err, "nothing to export")
			assert.Equal(t, service.MsgNoData+"\n", out.String())
			assert.NoFileExists(t, pdf)
		})
	}
}

func TestDateCommands(t *testing.T) {
	_, d, out, _, a := newTestApp(t)

	require.NoError(t, run(a, "date", "set", "2024-05-20"))
	assert.Equal(t, "2024-05-20", d.date)

	out.Reset()
	require.NoError(t, run(a, "date", "get"))
	assert.Equal(t, "2024-05-20\n", out.String())

	assert.Error(t, run(a, "date", "set", "20/05/2024"))

	require.NoError(t, run(a, "date", "set"))
	assert.Empty(t, d.date)
}

func TestProfileClientIDIsStable(t *testing.T) {
	assert.Equal(t, ProfileClientID("shop"), ProfileClientID("shop"))
	assert.NotEqual(t, ProfileClientID("shop"), ProfileClientID("home"))
	assert.Equal(t, ProfileClientID(""), ProfileClientID("default"))
}
