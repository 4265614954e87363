package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var symbolsCmd = &cobra.Command{
	Use:   "symbols",
	Short: "Manage the entry-form symbol list",
}

var symbolsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List known symbols",
	Args:  cobra.NoArgs,
	RunE:  runSymbolsList,
}

var symbolsAddCmd = &cobra.Command{
	Use:   "add <symbol>",
	Short: "Add a symbol",
	Args:  cobra.ExactArgs(1),
	RunE:  runSymbolsAdd,
}

func init() {
	rootCmd.AddCommand(symbolsCmd)
	symbolsCmd.AddCommand(symbolsListCmd)
	symbolsCmd.AddCommand(symbolsAddCmd)
}

func runSymbolsList(cmd *cobra.Command, args []string) error {
	svc, _, err := openService()
	if err != nil {
		return err
	}
	for _, s := range svc.Symbols() {
		fmt.Println(s)
	}
	return nil
}

func runSymbolsAdd(cmd *cobra.Command, args []string) error {
	svc, _, err := openService()
	if err != nil {
		return err
	}
	if err := svc.AddSymbol(args[0]); err != nil {
		return fmt.Errorf("add symbol: %w", err)
	}
	return nil
}
