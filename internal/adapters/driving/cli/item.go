package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

var itemCmd = &cobra.Command{
	Use:   "item",
	Short: "Manage saved content",
	Long:  `Add text notes, upload files, list, or delete items in a space.`,
}

var itemAddCmd = &cobra.Command{
	Use:   "add [text]",
	Short: "Save a text note to a space",
	Args:  cobra.ExactArgs(1),
	RunE:  runItemAdd,
}

var itemUploadCmd = &cobra.Command{
	Use:   "upload [path]",
	Short: "Upload a file to a space",
	Long: `Uploads a file, extracts its text where possible, and indexes it
for semantic search. Allowed types: pdf, png, jpg, jpeg, docx, txt, md.`,
	Args: cobra.ExactArgs(1),
	RunE: runItemUpload,
}

var itemListCmd = &cobra.Command{
	Use:   "list",
	Short: "List items in a space, newest first",
	RunE:  runItemList,
}

var itemDeleteCmd = &cobra.Command{
	Use:   "delete [item-id]",
	Short: "Delete an item",
	Args:  cobra.ExactArgs(1),
	RunE:  runItemDelete,
}

var (
	itemSpaceID string
	itemNotes   string
	itemJSON    bool
)

func init() {
	for _, c := range []*cobra.Command{itemAddCmd, itemUploadCmd, itemListCmd} {
		c.Flags().StringVarP(&itemSpaceID, "space", "s", "", "space ID (required)")
		_ = c.MarkFlagRequired("space")
	}
	itemAddCmd.Flags().StringVar(&itemNotes, "notes", "", "optional notes saved with the item")
	itemUploadCmd.Flags().StringVar(&itemNotes, "notes", "", "optional notes saved with the item")
	itemListCmd.Flags().BoolVar(&itemJSON, "json", false, "output items as JSON")

	itemCmd.AddCommand(itemAddCmd)
	itemCmd.AddCommand(itemUploadCmd)
	itemCmd.AddCommand(itemListCmd)
	itemCmd.AddCommand(itemDeleteCmd)
	rootCmd.AddCommand(itemCmd)
}

func runItemAdd(cmd *cobra.Command, args []string) error {
	if contentService == nil {
		return errors.New("content service not configured")
	}

	ctx := context.Background()
	item, err := contentService.SaveText(ctx, itemSpaceID, args[0], itemNotes)
	if err != nil {
		return fmt.Errorf("failed to save item: %w", err)
	}

	cmd.Printf("Saved item %s.\n", item.ID)
	return nil
}

func runItemUpload(cmd *cobra.Command, args []string) error {
	if contentService == nil {
		return errors.New("content service not configured")
	}

	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	ctx := context.Background()
	item, err := contentService.SaveFile(ctx, itemSpaceID, filepath.Base(path), mimeType, data, itemNotes)
	if err != nil {
		return fmt.Errorf("failed to upload file: %w", err)
	}

	cmd.Printf("Uploaded %s as item %s.\n", filepath.Base(path), item.ID)
	if item.ExtractedText() == "" {
		cmd.Println("No text could be extracted; the file is stored but may not surface in search.")
	}
	return nil
}

func runItemList(cmd *cobra.Command, _ []string) error {
	if contentService == nil {
		return errors.New("content service not configured")
	}

	ctx := context.Background()
	items, err := contentService.List(ctx, itemSpaceID)
	if err != nil {
		return fmt.Errorf("failed to list items: %w", err)
	}

	if itemJSON {
		data, err := json.MarshalIndent(items, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal items: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(items) == 0 {
		cmd.Printf("No items in space %s.\n", itemSpaceID)
		return nil
	}

	cmd.Printf("Items in space %s:\n\n", itemSpaceID)
	for i := range items {
		cmd.Printf("  %s  [%s]\n", items[i].ID, items[i].Type)
		cmd.Printf("      %s\n", itemSummary(&items[i]))
		if items[i].Notes != "" {
			cmd.Printf("      Notes: %s\n", items[i].Notes)
		}
		cmd.Println()
	}
	cmd.Printf("Total: %d items\n", len(items))
	return nil
}

func runItemDelete(cmd *cobra.Command, args []string) error {
	if contentService == nil {
		return errors.New("content service not configured")
	}

	ctx := context.Background()
	deleted, err := contentService.Delete(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	if !deleted {
		cmd.Printf("Item %s not found.\n", args[0])
		return nil
	}

	cmd.Printf("Deleted item %s.\n", args[0])
	return nil
}

// itemSummary is the one-line listing form of an item.
func itemSummary(item *domain.Item) string {
	if item.Type == domain.ItemTypeFile {
		if name, ok := item.Metadata[domain.MetaOriginalName].(string); ok && name != "" {
			return name
		}
	}
	return previewText(item.Content, 80)
}

// previewText truncates s for display, marking the cut.
func previewText(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
