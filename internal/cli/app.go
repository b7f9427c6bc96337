// Package cli drives the form controller from a terminal.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/sangkips/printledger/internal/application/service"
	"github.com/sangkips/printledger/internal/domain/entity"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by -o.
const (
	OutputTable = "table"
	OutputYAML  = "yaml"
)

var errNothingToExport = errors.New("nothing to export")

// ProfileClientID derives a stable client id for a CLI profile, so a profile
// keeps its remembered date across runs.
func ProfileClientID(profile string) uuid.UUID {
	if profile == "" {
		profile = "default"
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("printledger:cli:"+profile))
}

// App runs the ledger commands against one controller.
type App struct {
	ctrl *service.FormController
	view *terminalView
	out  io.Writer
}

// NewApp creates an App writing results to out and alerts to errOut.
func NewApp(ctrl *service.FormController, out, errOut io.Writer) *App {
	return &App{
		ctrl: ctrl,
		view: &terminalView{out: errOut},
		out:  out,
	}
}

// terminalView prints alerts as they happen and keeps the latest view model.
type terminalView struct {
	out io.Writer
	vm  service.ViewModel
}

func (v *terminalView) Render(vm service.ViewModel) {
	v.vm = vm
}

func (v *terminalView) Alert(message string) {
	fmt.Fprintf(v.out, "! %s\n", message)
}

// Dropdowns prints the autocomplete suggestions.
func (a *App) Dropdowns(ctx context.Context, output string) error {
	opts, err := a.ctrl.RefreshDropdowns(ctx, a.view)
	if err != nil {
		return err
	}
	if output == OutputYAML {
		return a.writeYAML(opts)
	}

	lists := []struct {
		name   string
		values []string
	}{
		{"Customers", opts.Customers},
		{"Job sizes", opts.JobSizes},
		{"Paper types", opts.PaperTypes},
		{"Paper by", opts.PaperBy},
		{"Lamination sizes", opts.LaminationSizes},
		{"Envelope sizes", opts.EnvelopeSizes},
	}
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	for _, l := range lists {
		fmt.Fprintf(tw, "%s:\t%s\n", l.name, strings.Join(l.values, ", "))
	}
	return tw.Flush()
}

// CustomerNames lists known customers for shell completion.
func (a *App) CustomerNames(ctx context.Context) ([]string, error) {
	opts, err := a.ctrl.RefreshDropdowns(ctx, &terminalView{out: io.Discard})
	if err != nil {
		return nil, err
	}
	return opts.Customers, nil
}

// Totals prints the total and balance for the given cost fields.
func (a *App) Totals(costs service.CostFields) error {
	totals := a.ctrl.RecalculateTotals(a.view, costs)
	fmt.Fprintf(a.out, "Total:   %s\nBalance: %s\n", totals.Total, totals.Balance)
	return nil
}

// Submit reads an entry from a YAML file ("-" for stdin) and posts it. An
// entry without a date gets the remembered default.
func (a *App) Submit(ctx context.Context, path string) error {
	entry, err := readEntry(path)
	if err != nil {
		return err
	}
	if strings.TrimSpace(entry.Date) == "" {
		entry.Date = a.ctrl.DefaultDate(ctx)
	}

	res, err := a.ctrl.SubmitEntry(ctx, a.view, *entry)
	if err != nil {
		return err
	}
	if !res.Succeeded() {
		return fmt.Errorf("ledger rejected the entry: %s", res.Message)
	}

	totals := service.CalculateTotals(service.CostFieldsOf(*entry))
	fmt.Fprintf(a.out, "Submitted %s for %s: total %s, balance %s\n",
		entry.Date, entry.CustomerName, totals.Total, totals.Balance)
	return nil
}

// History prints a customer's recorded jobs and optionally exports them.
// A customer without records prints the no-data message; asking to export
// such a history is an error.
func (a *App) History(ctx context.Context, customer, output, pdfPath, xlsxPath string) error {
	table, err := a.ctrl.FetchCustomerHistory(ctx, a.view, customer)
	if err != nil {
		return err
	}
	if table == nil {
		fmt.Fprintln(a.out, a.view.vm.NoData)
		if pdfPath != "" || xlsxPath != "" {
			return errNothingToExport
		}
		return nil
	}

	if output == OutputYAML {
		if err := a.writeYAML(table); err != nil {
			return err
		}
	} else if err := a.writeTable(table); err != nil {
		return err
	}

	if pdfPath != "" {
		if err := a.export(pdfPath, a.ctrl.ExportCustomerHistoryToPdf); err != nil {
			return err
		}
	}
	if xlsxPath != "" {
		if err := a.export(xlsxPath, a.ctrl.ExportCustomerHistoryToXlsx); err != nil {
			return err
		}
	}
	return nil
}

// export writes a generated file to path. A path ending in a separator is a
// directory and gets the default file name.
func (a *App) export(path string, run func() (*service.ExportFile, error)) error {
	file, err := run()
	if err != nil {
		return err
	}
	if file == nil {
		return errNothingToExport
	}
	if strings.HasSuffix(path, string(os.PathSeparator)) {
		path += file.Name
	}
	if err := os.WriteFile(path, file.Data, 0o644); err != nil {
		return fmt.Errorf("error writing %s: %w", path, err)
	}
	fmt.Fprintf(a.out, "Wrote %s\n", path)
	return nil
}

// GetDate prints the remembered date, or today when none is set.
func (a *App) GetDate(ctx context.Context) error {
	fmt.Fprintln(a.out, a.ctrl.DefaultDate(ctx))
	return nil
}

// SetDate remembers date for future entries. An empty date clears it.
func (a *App) SetDate(ctx context.Context, date string) error {
	if err := a.ctrl.PersistDate(ctx, a.view, date); err != nil {
		return err
	}
	if date == "" {
		fmt.Fprintln(a.out, "Date preference cleared")
		return nil
	}
	fmt.Fprintf(a.out, "Default date set to %s\n", date)
	return nil
}

func (a *App) writeTable(t *service.HistoryTable) error {
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(t.Headers, "\t"))
	for _, row := range t.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

func (a *App) writeYAML(v interface{}) error {
	enc := yaml.NewEncoder(a.out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func readEntry(path string) (*entity.JobEntry, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("error reading entry: %w", err)
	}

	var entry entity.JobEntry
	if err := yaml.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("error parsing entry: %w", err)
	}
	return &entry, nil
}
