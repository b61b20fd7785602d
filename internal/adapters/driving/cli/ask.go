package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

var askSpaceID string

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question grounded in a space's content",
	Long: `Retrieves the most relevant items from the space and generates an
answer grounded in them. Without a configured LLM provider the most
relevant items are shown directly.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askSpaceID, "space", "s", "", "space ID to ask about (required)")
	_ = askCmd.MarkFlagRequired("space")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if queryService == nil {
		return errors.New("query service not configured")
	}

	ctx := context.Background()
	record, err := queryService.Ask(ctx, askSpaceID, args[0])
	if err != nil {
		if errors.Is(err, domain.ErrRateLimited) {
			return errors.New("too many questions in this space, try again in a minute")
		}
		return fmt.Errorf("failed to answer question: %w", err)
	}

	cmd.Println(record.Answer)

	if len(record.Sources) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		for i, src := range record.Sources {
			cmd.Printf("  [%d] %s (%.4f)\n", i+1, previewText(src.Content, 80), src.Score)
		}
	}
	return nil
}
