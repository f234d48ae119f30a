package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SaitejaKommi/FaceSense-Dashboard/internal/model"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show the attendance summary",
	RunE:  runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	client, _, err := newClient()
	if err != nil {
		return err
	}

	ctx := context.Background()
	summary, err := client.Summary(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch summary: %w", err)
	}
	records, err := client.TodayAttendance(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch attendance: %w", err)
	}

	stats := model.Stats(records, summary.Students)

	fmt.Printf("Students enrolled:  %d\n", summary.Students)
	fmt.Printf("Records (all time): %d\n", summary.AttendanceRecords)
	fmt.Printf("Present today:      %d\n", stats.Present)
	fmt.Printf("Absent today:       %d\n", stats.Absent)
	fmt.Printf("Late today:         %d\n", stats.Late)
	fmt.Printf("Attendance rate:    %d%%\n", stats.Rate)
	return nil
}
