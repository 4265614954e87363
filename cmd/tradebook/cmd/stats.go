package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate performance",
	Long: `Show aggregate performance: trade counts, win rate, total PnL,
current balance, and growth. Covers all wallets unless --wallet is given.`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

var equityCmd = &cobra.Command{
	Use:   "equity",
	Short: "Print a wallet's equity curve",
	Args:  cobra.NoArgs,
	RunE:  runEquity,
}

var statsWallet string

func init() {
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(equityCmd)

	statsCmd.Flags().StringVar(&statsWallet, "wallet", "", "restrict to one wallet")
	equityCmd.Flags().StringVar(&statsWallet, "wallet", "", "wallet id (required)")
	equityCmd.MarkFlagRequired("wallet")
}

func runStats(cmd *cobra.Command, args []string) error {
	svc, _, err := openService()
	if err != nil {
		return err
	}

	s, err := svc.Stats(statsWallet)
	if err != nil {
		return fmt.Errorf("stats: %w", err)
	}

	fmt.Printf("Trades:      %d (%d open, %d closed)\n", s.TotalTrades, s.OpenTrades, s.ClosedTrades)
	fmt.Printf("Winners:     %d\n", s.Winners)
	fmt.Printf("Losers:      %d\n", s.Losers)
	fmt.Printf("Break-even:  %d\n", s.BreakEven)
	fmt.Printf("Win rate:    %.2f%%\n", s.WinRatePct)
	fmt.Printf("Total PnL:   %.2f\n", s.PnLTotal)
	fmt.Printf("Balance:     %.2f\n", s.CurrentBalance)
	fmt.Printf("Growth:      %.2f%%\n", s.GrowthPct)
	return nil
}

func runEquity(cmd *cobra.Command, args []string) error {
	svc, _, err := openService()
	if err != nil {
		return err
	}

	points, err := svc.EquityCurve(statsWallet)
	if err != nil {
		return fmt.Errorf("equity curve: %w", err)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tBALANCE")
	for _, p := range points {
		fmt.Fprintf(tw, "%s\t%.2f\n", p.Time.Format("2006-01-02 15:04:05"), p.Balance)
	}
	return tw.Flush()
}
