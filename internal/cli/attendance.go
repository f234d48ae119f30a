package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SaitejaKommi/FaceSense-Dashboard/internal/model"
)

var attendanceCmd = &cobra.Command{
	Use:     "attendance",
	Aliases: []string{"att"},
	Short:   "View and mark attendance",
}

var attendanceTodayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show today's attendance",
	Long: `Show today's attendance records.

Examples:
  facesense attendance today
  facesense attendance today --status Absent`,
	RunE: runAttendanceToday,
}

var attendanceMarkCmd = &cobra.Command{
	Use:   "mark <roll>",
	Short: "Mark attendance for a student by roll number",
	Args:  cobra.ExactArgs(1),
	RunE:  runAttendanceMark,
}

var (
	attStatus  string
	markStatus string
)

func init() {
	attendanceCmd.AddCommand(attendanceTodayCmd)
	attendanceCmd.AddCommand(attendanceMarkCmd)

	attendanceTodayCmd.Flags().StringVarP(&attStatus, "status", "s", "", "Filter by status (Present, Absent, Late, Leave)")
	attendanceMarkCmd.Flags().StringVarP(&markStatus, "status", "s", "Present", "Status to record")
}

func runAttendanceToday(cmd *cobra.Command, args []string) error {
	client, _, err := newClient()
	if err != nil {
		return err
	}

	records, err := client.TodayAttendance(context.Background())
	if err != nil {
		return fmt.Errorf("failed to fetch attendance: %w", err)
	}
	records = model.FilterByStatus(records, attStatus)

	if len(records) == 0 {
		fmt.Println("No attendance records for today.")
		return nil
	}

	fmt.Printf("%-17s %-24s %-10s %s\n", "TIME", "STUDENT", "ROLL", "STATUS")
	for _, r := range records {
		ts := ""
		if !r.Timestamp.IsZero() {
			ts = r.Timestamp.Format("2006-01-02 15:04")
		}
		fmt.Printf("%-17s %-24s %-10s %s\n", ts, r.StudentName, r.StudentRoll, model.NormalizeStatus(r.Status))
	}

	stats := model.Stats(records, 0)
	fmt.Printf("\n%d present, %d absent, %d late (%d%% attendance)\n",
		stats.Present, stats.Absent, stats.Late, stats.Rate)
	return nil
}

func runAttendanceMark(cmd *cobra.Command, args []string) error {
	client, _, err := newClient()
	if err != nil {
		return err
	}

	rec, err := client.MarkAttendance(context.Background(), args[0], model.NormalizeStatus(markStatus))
	if err != nil {
		return fmt.Errorf("failed to mark attendance: %w", err)
	}

	fmt.Printf("✅ Marked %s as %s\n", rec.StudentName, rec.Status)
	return nil
}
