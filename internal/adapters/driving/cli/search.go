package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

var (
	searchSpaceID string
	searchAll     bool
	searchTopK    int
	searchJSON    bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Semantic search over saved content",
	Long: `Searches the vector index for content similar to the query.
Searches one space with --space, or every space you own with --all.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchSpaceID, "space", "s", "", "space ID to search in")
	searchCmd.Flags().BoolVarP(&searchAll, "all", "a", false, "search across all your spaces")
	searchCmd.Flags().IntVarP(&searchTopK, "top-k", "k", domain.DefaultTopK, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if contentService == nil {
		return errors.New("content service not configured")
	}
	if !searchAll && searchSpaceID == "" {
		return errors.New("either --space or --all is required")
	}

	ctx := context.Background()

	var results []domain.SearchResult
	var err error
	if searchAll {
		results, err = contentService.SearchAll(ctx, currentUser(), query, searchTopK)
	} else {
		results, err = contentService.Search(ctx, searchSpaceID, query, searchTopK)
	}
	if err != nil {
		if errors.Is(err, domain.ErrEmbeddingUnavailable) {
			return errors.New("search requires an embedding provider; configure one in the config file")
		}
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}
	return outputSearchTable(cmd, results)
}

func outputSearchJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		cmd.Printf("  [%d] %s (%.4f)\n", i+1, itemSummary(&results[i].Item), results[i].Score)
		cmd.Printf("      Space: %s\n", results[i].Item.SpaceID)
		if results[i].Item.Notes != "" {
			cmd.Printf("      Notes: %s\n", results[i].Item.Notes)
		}
		cmd.Println()
	}
	return nil
}
