package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var classesCmd = &cobra.Command{
	Use:     "classes",
	Aliases: []string{"class"},
	Short:   "Manage classes",
}

var classesListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List classes",
	RunE:    runClassesList,
}

var classesAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a class",
	Args:  cobra.ExactArgs(1),
	RunE:  runClassesAdd,
}

var classesDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a class",
	Args:    cobra.ExactArgs(1),
	RunE:    runClassesDelete,
}

func init() {
	classesCmd.AddCommand(classesListCmd)
	classesCmd.AddCommand(classesAddCmd)
	classesCmd.AddCommand(classesDeleteCmd)
}

func runClassesList(cmd *cobra.Command, args []string) error {
	client, _, err := newClient()
	if err != nil {
		return err
	}

	classes, err := client.ListClasses(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list classes: %w", err)
	}

	if len(classes) == 0 {
		fmt.Println("No classes found. Create one with: facesense classes add \"CSE-A\"")
		return nil
	}

	fmt.Printf("%-16s %-10s %s\n", "CLASS", "STUDENTS", "ID")
	for _, c := range classes {
		fmt.Printf("%-16s %-10d %s\n", c.Name, c.Students, c.ID)
	}
	return nil
}

func runClassesAdd(cmd *cobra.Command, args []string) error {
	client, _, err := newClient()
	if err != nil {
		return err
	}

	class, err := client.CreateClass(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("failed to create class: %w", err)
	}

	fmt.Printf("✅ Created class %s\n", class.Name)
	return nil
}

func runClassesDelete(cmd *cobra.Command, args []string) error {
	client, _, err := newClient()
	if err != nil {
		return err
	}

	if err := client.DeleteClass(context.Background(), args[0]); err != nil {
		return fmt.Errorf("failed to delete class: %w", err)
	}

	fmt.Println("✅ Class deleted.")
	return nil
}
