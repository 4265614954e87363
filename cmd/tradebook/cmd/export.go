package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradebook/archive"
	"github.com/rustyeddy/tradebook/journal"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export closed trades to the configured archive",
	Long: `Export closed trades to the archive backend named in the config
(CSV file or SQLite database). Each export is tagged with a run id.

Examples:
  tradebook export
  tradebook export --wallet <wallet-id>`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

var exportWallet string

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportWallet, "wallet", "", "restrict to one wallet")
}

func runExport(cmd *cobra.Command, args []string) error {
	svc, cfg, err := openService()
	if err != nil {
		return err
	}

	var dst archive.Archive
	switch cfg.Archive.Type {
	case "sqlite":
		dst, err = archive.NewSQLite(cfg.Archive.DBPath)
	default:
		dst, err = archive.NewCSV(cfg.Archive.CSVFile)
	}
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer dst.Close()

	trades := svc.ListTrades(journal.Filter{
		WalletID: exportWallet,
		Status:   journal.StatusClosed,
	})

	runID := archive.NewRunID()
	n, err := archive.Export(dst, runID, trades)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	fmt.Printf("exported %d closed trades (run %s)\n", n, runID)
	return nil
}
