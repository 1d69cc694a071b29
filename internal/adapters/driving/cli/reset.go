package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var resetYes bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the vector store collection",
	Long: `Drops the whole collection from the vector store. All synced data is
lost; the next sync recreates the collection from scratch.`,
	RunE: runReset,
}

func init() {
	resetCmd.Flags().BoolVar(&resetYes, "yes", false,
		"confirm the deletion")
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, _ []string) error {
	if !resetYes {
		return errors.New("refusing to delete without --yes")
	}

	store, cleanup, err := buildStore()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := store.DropCollection(context.Background()); err != nil {
		return fmt.Errorf("reset failed: %w", err)
	}

	cmd.Printf("Collection %q deleted.\n", cfg.Qdrant.Collection)
	return nil
}
