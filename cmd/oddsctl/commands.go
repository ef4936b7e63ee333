package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/riskibarqy/club-odds/internal/domain/odds"
	"github.com/riskibarqy/club-odds/internal/usecase"
)

func (c *cli) regenerateCmd() *cobra.Command {
	var margin float64

	cmd := &cobra.Command{
		Use:   "regenerate <match-id>",
		Short: "Recompute and store odds for one match",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := usecase.RegenerateInput{MatchID: args[0]}
			if cmd.Flags().Changed("margin") {
				input.Margin = &margin
			}

			generated, err := c.app.Odds.Regenerate(cmd.Context(), input)
			if err != nil {
				return err
			}
			return printQuote(cmd.OutOrStdout(), generated, odds.FormatDecimal)
		},
	}
	cmd.Flags().Float64Var(&margin, "margin", 0, "bookmaker margin override, e.g. 0.07")
	return cmd
}

func (c *cli) bulkCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "bulk",
		Short: "Regenerate odds for every upcoming match in the window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if days <= 0 {
				days = c.cfg.OddsBulkWindowDays
			}
			n, err := c.app.Odds.BulkRegenerateUpcoming(cmd.Context(), days)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "regenerated odds for %d match(es) in the next %d day(s)\n", n, days)
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 0, "look-ahead window in days (default ODDS_BULK_WINDOW_DAYS)")
	return cmd
}

func (c *cli) lockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lock <match-id>",
		Short: "Expire the active odds of one match",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := c.app.Odds.Lock(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "locked %s: %d row(s) expired\n", args[0], n)
			return nil
		},
	}
}

func (c *cli) lockKickedOffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lock-kicked-off",
		Short: "Lock odds of matches that already kicked off",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			n, err := c.app.Odds.LockKickedOff(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "locked %d match(es)\n", n)
			return nil
		},
	}
}

func (c *cli) showCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <match-id>",
		Short: "Print the active odds of one match",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := odds.ParseFormat(format)
			if err != nil {
				return err
			}
			active, ok, err := c.app.Odds.GetActive(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no active odds for match %s", args[0])
			}
			return printQuote(cmd.OutOrStdout(), active, f)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(odds.FormatDecimal), "decimal, fractional or american")
	return cmd
}

func (c *cli) historyCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history <match-id>",
		Short: "Print the odds audit trail of one match",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := c.app.Odds.History(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}
			return printHistory(cmd.OutOrStdout(), entries)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum entries, newest first")
	return cmd
}

func printQuote(w io.Writer, o odds.MatchOdds, f odds.Format) error {
	fmt.Fprintf(w, "match %s  margin %.2f%%  updated %s\n\n",
		o.MatchID, o.Margin*100, o.LastUpdated.UTC().Format(time.RFC3339))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MARKET\tSELECTION\tPRICE\tIMPLIED\tOVERROUND")
	for _, m := range o.Quote(f) {
		market := string(m.Market)
		if m.Line != nil {
			market += " " + strconv.FormatFloat(*m.Line, 'f', -1, 64)
		}
		overround := "-"
		if m.MarginPercent > 0 {
			overround = fmt.Sprintf("%.2f%%", m.MarginPercent)
		}
		for i, s := range m.Selections {
			if i > 0 {
				market, overround = "", ""
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f%%\t%s\n", market, s.Key, s.Price, s.ImpliedProbability*100, overround)
		}
	}
	return tw.Flush()
}

func printHistory(w io.Writer, entries []odds.HistoryEntry) error {
	if len(entries) == 0 {
		fmt.Fprintln(w, "no history")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "AT\tACTION\tSOURCE\tMARGIN\tODDS")
	for _, e := range entries {
		source := string(e.Source)
		if source == "" {
			source = "-"
		}
		margin := "-"
		if e.Action == odds.ActionGenerated {
			margin = fmt.Sprintf("%.2f%%", e.Margin*100)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			e.CreatedAt.UTC().Format(time.RFC3339), e.Action, source, margin, summarizeOdds(e.Odds))
	}
	return tw.Flush()
}

func summarizeOdds(values map[string]float64) string {
	if len(values) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%.2f", k, values[k]))
	}
	return strings.Join(parts, " ")
}
