package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/diario-app/diario/internal/workload"
)

var workloadCmd = &cobra.Command{
	Use:   "workload",
	Short: "Print the task load for the next five school days",
	RunE: func(cmd *cobra.Command, args []string) error {
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
		statuses, err := st.Statuses(ctx)
		if err != nil {
			return err
		}

		for _, day := range workload.Aggregate(events, statuses, time.Now()) {
			fmt.Printf("%s  da fare %d  iniziati %d  fatti %d\n",
				day.Label, day.Todo, day.Started, day.Done)
		}
		return nil
	},
}
