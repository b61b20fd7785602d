package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

var (
	historySpaceID string
	historyLimit   int
	historyOffset  int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past questions and answers for a space",
	RunE:  runHistory,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all query history for a space",
	RunE:  runHistoryClear,
}

func init() {
	historyCmd.PersistentFlags().StringVarP(&historySpaceID, "space", "s", "", "space ID (required)")
	_ = historyCmd.MarkPersistentFlagRequired("space")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", domain.DefaultHistoryLimit, "maximum number of records")
	historyCmd.Flags().IntVar(&historyOffset, "offset", 0, "number of records to skip")

	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if queryService == nil {
		return errors.New("query service not configured")
	}

	ctx := context.Background()
	records, err := queryService.History(ctx, historySpaceID, historyLimit, historyOffset)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	if len(records) == 0 {
		cmd.Printf("No history for space %s.\n", historySpaceID)
		return nil
	}

	for i := range records {
		cmd.Printf("[%s] %s\n", records[i].CreatedAt.Format("2006-01-02 15:04"), records[i].Question)
		cmd.Printf("  %s\n", previewText(records[i].Answer, 200))
		if len(records[i].Sources) > 0 {
			cmd.Printf("  (%d sources)\n", len(records[i].Sources))
		}
		cmd.Println()
	}
	return nil
}

func runHistoryClear(cmd *cobra.Command, _ []string) error {
	if queryService == nil {
		return errors.New("query service not configured")
	}

	ctx := context.Background()
	if err := queryService.ClearHistory(ctx, historySpaceID); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}

	cmd.Printf("Cleared history for space %s.\n", historySpaceID)
	return nil
}
