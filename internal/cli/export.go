package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export attendance records",
	Long: `Export attendance records to a file.

Examples:
  facesense export
  facesense export --format excel -o attendance.xls`,
	RunE: runExport,
}

var (
	exportFormat string
	exportOut    string
)

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "csv", "Export format (csv, excel)")
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "Output file (default attendance-<date>.<ext>)")
}

func runExport(cmd *cobra.Command, args []string) error {
	client, _, err := newClient()
	if err != nil {
		return err
	}

	path := exportOut
	if path == "" {
		ext := "csv"
		if exportFormat == "excel" {
			ext = "xls"
		}
		path = fmt.Sprintf("attendance-%s.%s", time.Now().Format("2006-01-02"), ext)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	n, err := client.ExportAttendance(context.Background(), exportFormat, f)
	if err != nil {
		os.Remove(path)
		return fmt.Errorf("export failed: %w", err)
	}

	fmt.Printf("✅ Exported %d bytes to %s\n", n, path)
	return nil
}
