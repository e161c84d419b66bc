package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Print upcoming test and schedule alerts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		events, err := st.Events(ctx)
		if err != nil {
			return err
		}
		ledger, err := st.Ledger(ctx)
		if err != nil {
			return err
		}

		d := newDetector(cfg)
		now := time.Now()

		tests := d.Tests(events, ledger, now)
		if len(tests) == 0 {
			fmt.Println("No upcoming tests.")
		}
		for _, a := range tests {
			marker := " "
			if a.IsLowPriority {
				marker = "!"
			}
			avg := "-"
			if a.Average != nil {
				avg = fmt.Sprintf("%.2f", *a.Average)
			}
			fmt.Printf("%s %s  %-18s %s (media %s)\n",
				marker, a.DayLabel, a.SubjectLabel, a.DisplayTitle, avg)
		}

		schedule := d.Schedule(events, now)
		if len(schedule) > 0 {
			fmt.Println()
		}
		for _, a := range schedule {
			when := a.DayLabel
			if a.Time != "" {
				when += " " + a.Time
			}
			fmt.Printf("  %s  [%s] %s\n", when, a.ChangeType, a.Summary)
		}
		return nil
	},
}
