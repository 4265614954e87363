package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Manage wallets",
	Long: `Manage wallets (independent capital pools).

Examples:
  tradebook wallet add "Swing account" --balance 10000 --risk 1.5
  tradebook wallet list
  tradebook wallet rm <wallet-id>`,
}

var walletAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a wallet",
	Args:  cobra.ExactArgs(1),
	RunE:  runWalletAdd,
}

var walletListCmd = &cobra.Command{
	Use:   "list",
	Short: "List wallets with their derived balances",
	Args:  cobra.NoArgs,
	RunE:  runWalletList,
}

var walletRmCmd = &cobra.Command{
	Use:   "rm <wallet-id>",
	Short: "Delete a wallet and all of its trades",
	Args:  cobra.ExactArgs(1),
	RunE:  runWalletRm,
}

var (
	walletBalance float64
	walletRisk    float64
)

func init() {
	rootCmd.AddCommand(walletCmd)
	walletCmd.AddCommand(walletAddCmd)
	walletCmd.AddCommand(walletListCmd)
	walletCmd.AddCommand(walletRmCmd)

	walletAddCmd.Flags().Float64Var(&walletBalance, "balance", 0, "initial balance")
	walletAddCmd.Flags().Float64Var(&walletRisk, "risk", 1.0, "reference risk percent per trade")
}

func runWalletAdd(cmd *cobra.Command, args []string) error {
	svc, _, err := openService()
	if err != nil {
		return err
	}

	w, err := svc.CreateWallet(args[0], walletBalance, walletRisk)
	if err != nil {
		return fmt.Errorf("create wallet: %w", err)
	}
	fmt.Printf("wallet %s created (%s, balance %.2f)\n", w.ID, w.Name, w.InitialBalance)
	return nil
}

func runWalletList(cmd *cobra.Command, args []string) error {
	svc, _, err := openService()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tINITIAL\tBALANCE\tRISK%")
	for _, w := range svc.Wallets() {
		bal, err := svc.CurrentBalance(w.ID)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%s\t%.2f\t%.2f\t%.2f\n", w.ID, w.Name, w.InitialBalance, bal, w.RiskPercent)
	}
	return tw.Flush()
}

func runWalletRm(cmd *cobra.Command, args []string) error {
	svc, _, err := openService()
	if err != nil {
		return err
	}

	if err := svc.DeleteWallet(args[0]); err != nil {
		return fmt.Errorf("delete wallet: %w", err)
	}
	fmt.Printf("wallet %s deleted\n", args[0])
	return nil
}
