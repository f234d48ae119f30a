package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SaitejaKommi/FaceSense-Dashboard/internal/model"
)

var studentsCmd = &cobra.Command{
	Use:     "students",
	Aliases: []string{"student"},
	Short:   "Manage students",
}

var studentsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List enrolled students",
	Long: `List enrolled students.

Examples:
  facesense students list
  facesense students list --class CSE-A`,
	RunE: runStudentsList,
}

var studentsAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Enroll a new student",
	Args:  cobra.ExactArgs(1),
	RunE:  runStudentsAdd,
}

var studentsDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Remove a student",
	Args:    cobra.ExactArgs(1),
	RunE:    runStudentsDelete,
}

var (
	studentsClass string
	addRoll       string
	addClass      string
)

func init() {
	studentsCmd.AddCommand(studentsListCmd)
	studentsCmd.AddCommand(studentsAddCmd)
	studentsCmd.AddCommand(studentsDeleteCmd)

	studentsListCmd.Flags().StringVarP(&studentsClass, "class", "c", "", "Filter by class")
	studentsAddCmd.Flags().StringVarP(&addRoll, "roll", "r", "", "Roll number (required)")
	studentsAddCmd.Flags().StringVarP(&addClass, "class", "c", "", "Class name")
	_ = studentsAddCmd.MarkFlagRequired("roll")
}

func runStudentsList(cmd *cobra.Command, args []string) error {
	client, _, err := newClient()
	if err != nil {
		return err
	}

	students, err := client.ListStudents(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list students: %w", err)
	}

	if studentsClass != "" {
		filtered := students[:0:0]
		for _, s := range students {
			if s.ClassName == studentsClass {
				filtered = append(filtered, s)
			}
		}
		students = filtered
	}

	if len(students) == 0 {
		fmt.Println("No students found. Enroll one with: facesense students add \"Name\" --roll 42")
		return nil
	}

	fmt.Printf("%-24s %-10s %-10s %s\n", "NAME", "ROLL", "CLASS", "ID")
	for _, s := range students {
		fmt.Printf("%-24s %-10s %-10s %s\n", s.Name, s.Roll, s.ClassName, s.ID)
	}
	fmt.Printf("\n%d student(s)\n", len(students))
	return nil
}

func runStudentsAdd(cmd *cobra.Command, args []string) error {
	client, _, err := newClient()
	if err != nil {
		return err
	}

	student, err := client.CreateStudent(context.Background(), model.StudentIn{
		Name:      args[0],
		Roll:      addRoll,
		ClassName: addClass,
	})
	if err != nil {
		return fmt.Errorf("failed to add student: %w", err)
	}

	fmt.Printf("✅ Enrolled %s (roll %s)\n", student.Name, student.Roll)
	return nil
}

func runStudentsDelete(cmd *cobra.Command, args []string) error {
	client, _, err := newClient()
	if err != nil {
		return err
	}

	if err := client.DeleteStudent(context.Background(), args[0]); err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}

	fmt.Println("✅ Student removed.")
	return nil
}
