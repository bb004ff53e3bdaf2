package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmynk/housesplit/internal/calculator"
	"github.com/mmynk/housesplit/internal/models"
	"github.com/mmynk/housesplit/internal/money"
)

func planCmd() *cobra.Command {
	var file string
	var format string
	var monthly bool

	c := &cobra.Command{
		Use:   "plan",
		Short: "Compute balances and a settle-up plan from a YAML ledger (no database)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap, err := LoadLedger(file)
			if err != nil {
				return err
			}

			report, err := buildPlan(snap, monthly)
			if err != nil {
				return err
			}
			return printPlan(cmd.OutOrStdout(), report, format)
		},
	}

	c.Flags().StringVarP(&file, "file", "f", "", "Ledger YAML file (required)")
	c.Flags().StringVar(&format, "format", "pretty", "Output format: pretty|json")
	c.Flags().BoolVar(&monthly, "monthly", false, "Include per-month summaries")

	_ = c.MarkFlagRequired("file")
	return c
}

type planReport struct {
	Group     string                     `json:"group"`
	Balances  []calculator.MemberBalance `json:"balances"`
	Transfers []calculator.Transfer      `json:"transfers"`
	Months    []*calculator.Summary      `json:"months,omitempty"`
	names     map[string]string
}

func buildPlan(snap models.GroupSnapshot, monthly bool) (*planReport, error) {
	members, err := calculator.ComputeMemberBalances(snap)
	if err != nil {
		return nil, err
	}
	balances := make(calculator.Balances, len(members))
	for _, m := range members {
		balances[m.MemberID] = m.NetBalance
	}

	transfers, err := calculator.PlanSettlement(balances)
	if err != nil {
		return nil, err
	}

	report := &planReport{
		Group:     snap.Group.Name,
		Balances:  members,
		Transfers: transfers,
		names:     make(map[string]string, len(snap.Group.Members)),
	}
	for _, m := range snap.Group.Members {
		report.names[m.ID] = m.Name
	}

	if monthly {
		report.Months, err = calculator.MonthlySummaries(snap, time.UTC)
		if err != nil {
			return nil, err
		}
	}
	return report, nil
}

func printPlan(w io.Writer, r *planReport, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case "pretty", "":
		return printPretty(w, r)
	default:
		return fmt.Errorf("unknown format %q (want pretty or json)", format)
	}
}

func printPretty(w io.Writer, r *planReport) error {
	if r.Group != "" {
		fmt.Fprintf(w, "%s\n\n", r.Group)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "MEMBER\tPAID\tOWED\tBALANCE\t")
	for _, b := range r.Balances {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n", r.name(b.MemberID), b.TotalPaid, b.TotalOwed, b.NetBalance)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	if len(r.Transfers) == 0 {
		fmt.Fprintln(w, "Everyone is settled up.")
	} else {
		fmt.Fprintf(w, "Settle up (%d transfers, %s total):\n", len(r.Transfers), planTotal(r.Transfers))
		for _, t := range r.Transfers {
			fmt.Fprintf(w, "  %s pays %s %s\n", r.name(t.From), r.name(t.To), t.Amount)
		}
	}

	for _, m := range r.Months {
		fmt.Fprintf(w, "\n%s: spent %s across %d expenses, settled %s",
			m.PeriodStart.Format("January 2006"), m.TotalSpend, m.ExpenseCount, m.Settled)
		if m.TopPayer != "" {
			fmt.Fprintf(w, ", top payer %s", r.name(m.TopPayer))
		}
		fmt.Fprintln(w)
	}
	return nil
}

func (r *planReport) name(id string) string {
	if n, ok := r.names[id]; ok && n != "" {
		return n
	}
	return id
}

// planTotal is the sum moved by a plan.
func planTotal(transfers []calculator.Transfer) money.Amount {
	var total money.Amount
	for _, t := range transfers {
		total += t.Amount
	}
	return total
}
