package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/diario-app/diario/internal/portal"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import scraper JSON exports into the local database",
	RunE: func(cmd *cobra.Command, args []string) error {
		eventsPath, _ := cmd.Flags().GetString("events")
		gradesPath, _ := cmd.Flags().GetString("grades")
		if eventsPath == "" && gradesPath == "" {
			return errors.New("nothing to import: pass --events and/or --grades")
		}

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		if eventsPath != "" {
			data, err := os.ReadFile(eventsPath)
			if err != nil {
				return err
			}
			events, err := portal.ParseEvents(data)
			if err != nil {
				return err
			}
			if err := st.ReplaceEvents(ctx, events); err != nil {
				return err
			}
			fmt.Printf("imported %d events\n", len(events))
		}
		if gradesPath != "" {
			data, err := os.ReadFile(gradesPath)
			if err != nil {
				return err
			}
			ledger, err := portal.ParseLedger(data)
			if err != nil {
				return err
			}
			if err := st.ReplaceLedger(ctx, ledger); err != nil {
				return err
			}
			fmt.Printf("imported %d subjects\n", len(ledger))
		}
		return nil
	},
}

func init() {
	importCmd.Flags().String("events", "", "Path to calendar events JSON export")
	importCmd.Flags().String("grades", "", "Path to grades JSON export")
}
