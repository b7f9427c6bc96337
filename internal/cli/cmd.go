package cli

import (
	"fmt"

	"github.com/sangkips/printledger/internal/application/service"
	"github.com/spf13/cobra"
)

// SetupCommands builds the ledgerctl command tree.
func SetupCommands(a *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "ledgerctl",
		Short:         "Record print jobs and query customer history in the job ledger",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	var output string
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", OutputTable, "output format: table or yaml")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if output != OutputTable && output != OutputYAML {
			return fmt.Errorf("unknown output format %q", output)
		}
		return nil
	}

	// autocomplete suggestions from the ledger
	dropdownsCmd := &cobra.Command{
		Use:   "dropdowns",
		Short: "Show the autocomplete suggestions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.Dropdowns(cmd.Context(), output)
		},
	}

	// total and balance without submitting anything
	var costs service.CostFields
	totalsCmd := &cobra.Command{
		Use:   "totals",
		Short: "Calculate total and balance from cost fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.Totals(costs)
		},
	}
	totalsCmd.Flags().StringVar(&costs.Cost, "cost", "", "job cost")
	totalsCmd.Flags().StringVar(&costs.PaperCost, "paper-cost", "", "paper cost")
	totalsCmd.Flags().StringVar(&costs.LamiCost, "lami-cost", "", "lamination cost")
	totalsCmd.Flags().StringVar(&costs.EnveCost, "enve-cost", "", "envelope cost")
	totalsCmd.Flags().StringVar(&costs.Received, "received", "", "amount received")

	var entryFile string
	submitCmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a job entry from a YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.Submit(cmd.Context(), entryFile)
		},
	}
	submitCmd.Flags().StringVarP(&entryFile, "file", "f", "", `entry file, "-" for stdin`)
	_ = submitCmd.MarkFlagRequired("file")

	var pdfPath, xlsxPath string
	historyCmd := &cobra.Command{
		Use:   "history [customer]",
		Short: "Show every recorded job for a customer",
		Args:  cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			customers, err := a.CustomerNames(cmd.Context())
			if err != nil {
				return nil, cobra.ShellCompDirectiveError
			}
			return customers, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.History(cmd.Context(), args[0], output, pdfPath, xlsxPath)
		},
	}
	historyCmd.Flags().StringVar(&pdfPath, "pdf", "", "also export the history to this PDF file")
	historyCmd.Flags().StringVar(&xlsxPath, "xlsx", "", "also export the history to this Excel file")

	// remembered default date
	dateCmd := &cobra.Command{
		Use:   "date",
		Short: "Show or change the remembered entry date",
	}
	dateGetCmd := &cobra.Command{
		Use:   "get",
		Short: "Print the date new entries default to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.GetDate(cmd.Context())
		},
	}
	dateSetCmd := &cobra.Command{
		Use:   "set [YYYY-MM-DD]",
		Short: "Remember a date for new entries; no argument clears it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date := ""
			if len(args) > 0 {
				date = args[0]
			}
			return a.SetDate(cmd.Context(), date)
		},
	}
	dateCmd.AddCommand(dateGetCmd)
	dateCmd.AddCommand(dateSetCmd)

	rootCmd.AddCommand(dropdownsCmd)
	rootCmd.AddCommand(totalsCmd)
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(dateCmd)

	return rootCmd
}
