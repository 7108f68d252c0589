package main

import (
	"fmt"
	"time"

	"constructhub/internal/cli"
	"constructhub/internal/model"
	"constructhub/internal/revenue"

	"github.com/spf13/cobra"
)

var (
	flagInvoicesFile      string
	flagConsultationsFile string
	flagNow               string
)

var revenueCmd = &cobra.Command{
	Use:   "revenue",
	Short: "Monthly revenue, year-to-date and invoice status breakdown",
	RunE:  runRevenue,
}

func init() {
	revenueCmd.Flags().StringVar(&flagInvoicesFile, "invoices", "", "Exported invoices (JSON array)")
	revenueCmd.Flags().StringVar(&flagConsultationsFile, "consultations", "", "Exported consultation registrations (JSON array)")
	revenueCmd.Flags().StringVar(&flagNow, "now", "", "Reference date (YYYY-MM-DD), defaults to today")
	rootCmd.AddCommand(revenueCmd)
}

func runRevenue(_ *cobra.Command, _ []string) error {
	if flagInvoicesFile == "" && flagConsultationsFile == "" {
		return fmt.Errorf("at least one of --invoices or --consultations is required")
	}

	var invoices []model.Invoice
	if flagInvoicesFile != "" {
		if err := readJSON(flagInvoicesFile, &invoices); err != nil {
			return err
		}
	}
	var consultations []model.ConsultationRegistration
	if flagConsultationsFile != "" {
		if err := readJSON(flagConsultationsFile, &consultations); err != nil {
			return err
		}
	}

	now := time.Now()
	if flagNow != "" {
		t, err := time.ParseInLocation("2006-01-02", flagNow, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --now %q: %w", flagNow, err)
		}
		// 当天结束，避免漏掉当天的记录
		now = t.Add(24*time.Hour - time.Nanosecond)
	}

	report := revenue.Aggregate(invoices, consultations, now)
	if flagJSON {
		return printJSON(report)
	}

	fmt.Println()
	fmt.Print(cli.RenderRevenue(report))
	fmt.Println()
	return nil
}
