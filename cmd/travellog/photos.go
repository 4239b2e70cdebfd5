package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/AndrewOchs/TravelLog/internal/domain"
	"github.com/AndrewOchs/TravelLog/internal/repository"
)

var (
	importState     string
	importStateName string
	importCity      string
	importDate      string
	listState       string
)

var importCmd = &cobra.Command{
	Use:   "import <image-file>",
	Short: "Import a photo into the travel log",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		capturedAt := time.Now()
		if importDate != "" {
			capturedAt, err = time.Parse("2006-01-02", importDate)
			if err != nil {
				return fmt.Errorf("invalid --date (want YYYY-MM-DD): %w", err)
			}
		}

		// The tracker mirrors what a save screen does: one submit at a
		// time, explicit terminal state.
		tracker := repository.NewSaveTracker()
		if !tracker.Begin() {
			return fmt.Errorf("a save is already in progress")
		}

		id, err := a.repo.SavePhoto(cmd.Context(), args[0], importState, importStateName, importCity, capturedAt)
		if err != nil {
			tracker.Fail(err)
			return fmt.Errorf("import failed: %w", err)
		}
		tracker.Succeed(id)

		fmt.Printf("imported photo %d (%s, %s)\n", id, importCity, importState)
		return nil
	},
}

var photosCmd = &cobra.Command{
	Use:   "photos",
	Short: "List photos, newest captured first",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		var infos []domain.PhotoWithJournalInfo
		if listState != "" {
			photos, err := a.repo.PhotosByState(cmd.Context(), listState)
			if err != nil {
				return err
			}
			withJournal, err := a.repo.PhotoIDsWithJournal(cmd.Context())
			if err != nil {
				return err
			}
			for _, p := range photos {
				infos = append(infos, domain.PhotoWithJournalInfo{Photo: p, HasJournal: withJournal[p.ID]})
			}
		} else {
			infos, err = a.repo.PhotosWithJournalInfo(cmd.Context())
			if err != nil {
				return err
			}
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSTATE\tCITY\tCAPTURED\tJOURNAL")
		for _, info := range infos {
			p := info.Photo
			journal := ""
			if info.HasJournal {
				journal = "yes"
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
				p.ID, p.StateCode, p.CityName,
				time.UnixMilli(p.CapturedDate).Format("2006-01-02"), journal)
		}
		return w.Flush()
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <photo-id>",
	Short: "Delete a photo, its journal entry, and its files",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid photo id %q", args[0])
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.repo.DeletePhoto(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Printf("deleted photo %d\n", id)
		return nil
	},
}

var setCityCmd = &cobra.Command{
	Use:   "set-city <photo-id> <city>",
	Short: "Correct a photo's city",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid photo id %q", args[0])
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.repo.UpdatePhotoCity(cmd.Context(), id, args[1]); err != nil {
			return err
		}
		fmt.Printf("photo %d moved to %s\n", id, args[1])
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importState, "state", "", "two-letter state code, e.g. TX")
	importCmd.Flags().StringVar(&importStateName, "state-name", "", "state display name, e.g. Texas")
	importCmd.Flags().StringVar(&importCity, "city", "", "city name")
	importCmd.Flags().StringVar(&importDate, "date", "", "captured date, YYYY-MM-DD (default today)")
	_ = importCmd.MarkFlagRequired("state")
	_ = importCmd.MarkFlagRequired("state-name")
	_ = importCmd.MarkFlagRequired("city")

	photosCmd.Flags().StringVar(&listState, "state", "", "only photos from this state code")

	rootCmd.AddCommand(importCmd, photosCmd, deleteCmd, setCityCmd)
}
