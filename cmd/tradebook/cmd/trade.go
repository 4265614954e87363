package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradebook/journal"
	"github.com/rustyeddy/tradebook/pnl"
)

var tradeCmd = &cobra.Command{
	Use:   "trade",
	Short: "Record, close, and review trades",
	Long: `Record, close, edit, and list trades.

Examples:
  tradebook trade add --wallet <id> --symbol BTCUSDT --dir Long \
      --entry 100 --sl 90 --tp 120 --size 10 --reason "breakout retest"
  tradebook trade close <trade-id> --at tp
  tradebook trade close <trade-id> --at manual --price 104.50
  tradebook trade list --status Open`,
}

var tradeAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a new open trade",
	Args:  cobra.NoArgs,
	RunE:  runTradeAdd,
}

var tradeCloseCmd = &cobra.Command{
	Use:   "close <trade-id>",
	Short: "Close an open trade at TP, SL, or a manual price",
	Args:  cobra.ExactArgs(1),
	RunE:  runTradeClose,
}

var tradeEditCmd = &cobra.Command{
	Use:   "edit <trade-id>",
	Short: "Edit an open trade's prices or size",
	Args:  cobra.ExactArgs(1),
	RunE:  runTradeEdit,
}

var tradeRmCmd = &cobra.Command{
	Use:   "rm <trade-id>",
	Short: "Delete a trade",
	Args:  cobra.ExactArgs(1),
	RunE:  runTradeRm,
}

var tradeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List trades, optionally filtered",
	Args:  cobra.NoArgs,
	RunE:  runTradeList,
}

var (
	tradeWallet string
	tradeSymbol string
	tradeDir    string
	tradeEntry  float64
	tradeSL     float64
	tradeTP     float64
	tradeSize   float64
	tradeReason string

	closeAt    string
	closePrice float64

	listStatus string
	listFrom   string
	listTo     string
)

func init() {
	rootCmd.AddCommand(tradeCmd)
	tradeCmd.AddCommand(tradeAddCmd)
	tradeCmd.AddCommand(tradeCloseCmd)
	tradeCmd.AddCommand(tradeEditCmd)
	tradeCmd.AddCommand(tradeRmCmd)
	tradeCmd.AddCommand(tradeListCmd)

	tradeAddCmd.Flags().StringVar(&tradeWallet, "wallet", "", "wallet id")
	tradeAddCmd.Flags().StringVar(&tradeSymbol, "symbol", "", "ticker symbol")
	tradeAddCmd.Flags().StringVar(&tradeDir, "dir", "Long", "direction: Long or Short")
	tradeAddCmd.Flags().Float64Var(&tradeEntry, "entry", 0, "entry price")
	tradeAddCmd.Flags().Float64Var(&tradeSL, "sl", 0, "stop-loss price")
	tradeAddCmd.Flags().Float64Var(&tradeTP, "tp", 0, "take-profit price")
	tradeAddCmd.Flags().Float64Var(&tradeSize, "size", 0, "position size")
	tradeAddCmd.Flags().StringVar(&tradeReason, "reason", "", "rationale for the trade")

	tradeCloseCmd.Flags().StringVar(&closeAt, "at", "", "close path: tp, sl, or manual")
	tradeCloseCmd.Flags().Float64Var(&closePrice, "price", 0, "exit price for manual close")

	tradeEditCmd.Flags().Float64Var(&tradeEntry, "entry", 0, "new entry price")
	tradeEditCmd.Flags().Float64Var(&tradeSL, "sl", 0, "new stop-loss price")
	tradeEditCmd.Flags().Float64Var(&tradeTP, "tp", 0, "new take-profit price")
	tradeEditCmd.Flags().Float64Var(&tradeSize, "size", 0, "new position size")

	tradeListCmd.Flags().StringVar(&tradeWallet, "wallet", "", "filter by wallet id")
	tradeListCmd.Flags().StringVar(&tradeSymbol, "symbol", "", "filter by symbol substring")
	tradeListCmd.Flags().StringVar(&listStatus, "status", "", "filter by status: Open or Closed")
	tradeListCmd.Flags().StringVar(&listFrom, "from", "", "created on or after (YYYY-MM-DD)")
	tradeListCmd.Flags().StringVar(&listTo, "to", "", "created on or before (YYYY-MM-DD)")
}

func runTradeAdd(cmd *cobra.Command, args []string) error {
	svc, cfg, err := openService()
	if err != nil {
		return err
	}

	t, err := svc.CreateTrade(journal.TradeParams{
		WalletID:   tradeWallet,
		Symbol:     tradeSymbol,
		Direction:  pnl.Direction(tradeDir),
		EntryPrice: tradeEntry,
		StopLoss:   tradeSL,
		TakeProfit: tradeTP,
		Size:       tradeSize,
		Reason:     tradeReason,
	})
	if err != nil {
		return fmt.Errorf("create trade: %w", err)
	}

	fmt.Printf("trade %s opened: %s %s %.4f @ %.2f (risk %.2f, %.2f%% of balance)\n",
		t.ID, t.Direction, t.Symbol, t.PositionSize, t.EntryPrice, t.RiskAmount, t.RiskPctOfBalance)
	if rr := pnl.RR(t.Direction, t.EntryPrice, t.StopLoss, t.TakeProfit); rr > 0 {
		fmt.Printf("reward:risk %.0f : 1\n", rr)
	}
	if cfg.Risk.WarnPct > 0 && t.RiskPctOfBalance > cfg.Risk.WarnPct {
		fmt.Printf("warning: risk %.2f%% exceeds the %.2f%% threshold\n", t.RiskPctOfBalance, cfg.Risk.WarnPct)
	}
	return nil
}

func runTradeClose(cmd *cobra.Command, args []string) error {
	svc, _, err := openService()
	if err != nil {
		return err
	}

	var reason journal.CloseReason
	switch strings.ToLower(closeAt) {
	case "tp":
		reason = journal.CloseTP
	case "sl":
		reason = journal.CloseSL
	case "manual":
		reason = journal.CloseManual
	default:
		return fmt.Errorf("--at must be tp, sl, or manual")
	}

	t, err := svc.CloseTrade(args[0], reason, closePrice)
	if err != nil {
		return fmt.Errorf("close trade: %w", err)
	}
	fmt.Printf("trade %s closed at %.2f (%s): PnL %.2f, %s\n",
		t.ID, *t.ExitPrice, *t.CloseReason, *t.PnLAbs, *t.Result)
	return nil
}

func runTradeEdit(cmd *cobra.Command, args []string) error {
	svc, _, err := openService()
	if err != nil {
		return err
	}

	var edit journal.TradeEdit
	if cmd.Flags().Changed("entry") {
		edit.EntryPrice = &tradeEntry
	}
	if cmd.Flags().Changed("sl") {
		edit.StopLoss = &tradeSL
	}
	if cmd.Flags().Changed("tp") {
		edit.TakeProfit = &tradeTP
	}
	if cmd.Flags().Changed("size") {
		edit.Size = &tradeSize
	}

	t, err := svc.EditOpenTrade(args[0], edit)
	if err != nil {
		return fmt.Errorf("edit trade: %w", err)
	}
	fmt.Printf("trade %s updated: entry %.2f sl %.2f tp %.2f size %.4f (risk %.2f, %.2f%%)\n",
		t.ID, t.EntryPrice, t.StopLoss, t.TakeProfit, t.PositionSize, t.RiskAmount, t.RiskPctOfBalance)
	return nil
}

func runTradeRm(cmd *cobra.Command, args []string) error {
	svc, _, err := openService()
	if err != nil {
		return err
	}

	if err := svc.DeleteTrade(args[0]); err != nil {
		return fmt.Errorf("delete trade: %w", err)
	}
	fmt.Printf("trade %s deleted\n", args[0])
	return nil
}

func runTradeList(cmd *cobra.Command, args []string) error {
	svc, _, err := openService()
	if err != nil {
		return err
	}

	filter := journal.Filter{
		WalletID: tradeWallet,
		Symbol:   tradeSymbol,
		Status:   journal.Status(listStatus),
	}
	if listFrom != "" {
		from, err := time.ParseInLocation("2006-01-02", listFrom, time.Local)
		if err != nil {
			return fmt.Errorf("--from: %w", err)
		}
		filter.From = from
	}
	if listTo != "" {
		to, err := time.ParseInLocation("2006-01-02", listTo, time.Local)
		if err != nil {
			return fmt.Errorf("--to: %w", err)
		}
		filter.To = to.Add(24*time.Hour - time.Second)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSYMBOL\tDIR\tENTRY\tSL\tTP\tSIZE\tSTATUS\tPNL\tRESULT")
	for _, t := range svc.ListTrades(filter) {
		pnlStr, resStr := "-", "-"
		if t.PnLAbs != nil {
			pnlStr = fmt.Sprintf("%.2f", *t.PnLAbs)
		}
		if t.Result != nil {
			resStr = string(*t.Result)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\t%.2f\t%.2f\t%.4f\t%s\t%s\t%s\n",
			t.ID, t.Symbol, t.Direction, t.EntryPrice, t.StopLoss, t.TakeProfit,
			t.PositionSize, t.Status, pnlStr, resStr)
	}
	return tw.Flush()
}
