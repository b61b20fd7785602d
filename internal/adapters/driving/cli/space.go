package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var spaceCmd = &cobra.Command{
	Use:   "space",
	Short: "Manage content spaces",
	Long:  `Create, list, update, or delete the named spaces content lives in.`,
}

var spaceCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a new space",
	Args:  cobra.ExactArgs(1),
	RunE:  runSpaceCreate,
}

var spaceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your spaces",
	RunE:  runSpaceList,
}

var spaceUpdateCmd = &cobra.Command{
	Use:   "update [space-id]",
	Short: "Rename a space or change its description",
	Args:  cobra.ExactArgs(1),
	RunE:  runSpaceUpdate,
}

var spaceDeleteCmd = &cobra.Command{
	Use:   "delete [space-id]",
	Short: "Delete a space",
	Args:  cobra.ExactArgs(1),
	RunE:  runSpaceDelete,
}

var (
	spaceDescription string
	spaceNewName     string
)

func init() {
	spaceCreateCmd.Flags().StringVarP(&spaceDescription, "description", "d", "", "space description")
	spaceUpdateCmd.Flags().StringVarP(&spaceNewName, "name", "n", "", "new space name")
	spaceUpdateCmd.Flags().StringVarP(&spaceDescription, "description", "d", "", "new space description")

	spaceCmd.AddCommand(spaceCreateCmd)
	spaceCmd.AddCommand(spaceListCmd)
	spaceCmd.AddCommand(spaceUpdateCmd)
	spaceCmd.AddCommand(spaceDeleteCmd)
	rootCmd.AddCommand(spaceCmd)
}

func runSpaceCreate(cmd *cobra.Command, args []string) error {
	if spaceService == nil {
		return errors.New("space service not configured")
	}

	ctx := context.Background()
	space, err := spaceService.Create(ctx, currentUser(), args[0], spaceDescription)
	if err != nil {
		return fmt.Errorf("failed to create space: %w", err)
	}

	cmd.Printf("Created space %q (%s)\n", space.Name, space.ID)
	return nil
}

func runSpaceList(cmd *cobra.Command, _ []string) error {
	if spaceService == nil {
		return errors.New("space service not configured")
	}

	ctx := context.Background()
	spaces, err := spaceService.List(ctx, currentUser())
	if err != nil {
		return fmt.Errorf("failed to list spaces: %w", err)
	}

	if len(spaces) == 0 {
		cmd.Println("No spaces yet. Create one with 'recall space create'.")
		return nil
	}

	cmd.Println("Spaces:")
	cmd.Println()
	for i := range spaces {
		cmd.Printf("  %s  %s\n", spaces[i].ID, spaces[i].Name)
		if spaces[i].Description != "" {
			cmd.Printf("      %s\n", spaces[i].Description)
		}
	}
	cmd.Printf("\nTotal: %d spaces\n", len(spaces))
	return nil
}

func runSpaceUpdate(cmd *cobra.Command, args []string) error {
	if spaceService == nil {
		return errors.New("space service not configured")
	}

	ctx := context.Background()
	space, err := spaceService.Update(ctx, args[0], spaceNewName, spaceDescription)
	if err != nil {
		return fmt.Errorf("failed to update space: %w", err)
	}

	cmd.Printf("Updated space %q (%s)\n", space.Name, space.ID)
	return nil
}

func runSpaceDelete(cmd *cobra.Command, args []string) error {
	if spaceService == nil {
		return errors.New("space service not configured")
	}

	ctx := context.Background()
	deleted, err := spaceService.Delete(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to delete space: %w", err)
	}
	if !deleted {
		cmd.Printf("Space %s not found.\n", args[0])
		return nil
	}

	cmd.Printf("Deleted space %s.\n", args[0])
	return nil
}
