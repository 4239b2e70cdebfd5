package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Manage journal entries",
}

var journalSetCmd = &cobra.Command{
	Use:   "set <photo-id> <text>",
	Short: "Create or update the journal entry for a photo",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		photoID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid photo id %q", args[0])
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		photo, err := a.repo.PhotoByID(cmd.Context(), photoID)
		if err != nil {
			return err
		}
		if photo == nil {
			return fmt.Errorf("photo %d not found", photoID)
		}

		id, err := a.repo.SaveJournal(cmd.Context(), photoID, args[1])
		if err != nil {
			return err
		}
		fmt.Printf("journal entry %d saved\n", id)
		return nil
	},
}

var journalShowCmd = &cobra.Command{
	Use:   "show <photo-id>",
	Short: "Show the journal entry for a photo",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		photoID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid photo id %q", args[0])
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		entry, err := a.repo.JournalByPhotoID(cmd.Context(), photoID)
		if err != nil {
			return err
		}
		if entry == nil {
			fmt.Printf("photo %d has no journal entry\n", photoID)
			return nil
		}

		fmt.Printf("entry %d (updated %s)\n%s\n",
			entry.ID, time.UnixMilli(entry.UpdatedDate).Format(time.RFC1123), entry.EntryText)
		return nil
	},
}

var journalDeleteCmd = &cobra.Command{
	Use:   "delete <entry-id>",
	Short: "Delete a journal entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid entry id %q", args[0])
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.repo.DeleteJournal(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Printf("journal entry %d deleted\n", id)
		return nil
	},
}

func init() {
	journalCmd.AddCommand(journalSetCmd, journalShowCmd, journalDeleteCmd)
	rootCmd.AddCommand(journalCmd)
}
