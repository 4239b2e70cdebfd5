package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var mapCmd = &cobra.Command{
	Use:   "map",
	Short: "Photo counts per state, most photographed first",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		counts, err := a.repo.StatePhotoCounts(cmd.Context())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "STATE\tNAME\tPHOTOS")
		for _, c := range counts {
			fmt.Fprintf(w, "%s\t%s\t%d\n", c.StateCode, c.StateName, c.PhotoCount)
		}
		return w.Flush()
	},
}

var citiesCmd = &cobra.Command{
	Use:   "cities <state-code>",
	Short: "Photo counts per city within a state",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		counts, err := a.repo.CityPhotoCounts(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "CITY\tPHOTOS")
		for _, c := range counts {
			fmt.Fprintf(w, "%s\t%d\n", c.CityName, c.PhotoCount)
		}
		return w.Flush()
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream per-state counts as the log changes (Ctrl-C to stop)",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		for counts := range a.repo.WatchStatePhotoCounts(ctx) {
			fmt.Println("---")
			for _, c := range counts {
				fmt.Printf("%s %s: %d\n", c.StateCode, c.StateName, c.PhotoCount)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mapCmd, citiesCmd, watchCmd)
}
