package model

import (
	"strings"
	"time"
)

// Attendance statuses as reported by the recognition pipeline
const (
	StatusPresent = "Present"
	StatusAbsent  = "Absent"
	StatusLate    = "Late"
	StatusLeave   = "Leave"
	StatusUnknown = "Unknown"
)

// AttendanceRecord is one check-in event for a student
type AttendanceRecord struct {
	ID          string    `json:"id"`
	StudentID   string    `json:"student_id,omitempty"`
	StudentName string    `json:"student_name"`
	StudentRoll string    `json:"student_roll"`
	Status      string    `json:"status"`
	Confidence  float64   `json:"confidence,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// NormalizeStatus maps a free-form status string onto one of the known
// constants. Matching is case-insensitive; anything unrecognized is Unknown.
func NormalizeStatus(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "present":
		return StatusPresent
	case "absent":
		return StatusAbsent
	case "late":
		return StatusLate
	case "leave":
		return StatusLeave
	default:
		return StatusUnknown
	}
}

// AttendanceStats are the derived aggregates the dashboard cards show
type AttendanceStats struct {
	Total   int
	Present int
	Absent  int
	Late    int
	Rate    int // percent, rounded
}

// Stats derives counts and the attendance rate from a day's records.
// totalStudents is the enrollment count used as the rate denominator; when
// zero the record count is used instead.
func Stats(records []AttendanceRecord, totalStudents int) AttendanceStats {
	st := AttendanceStats{Total: len(records)}
	for _, r := range records {
		switch NormalizeStatus(r.Status) {
		case StatusPresent:
			st.Present++
		case StatusAbsent:
			st.Absent++
		case StatusLate:
			st.Late++
		}
	}
	denom := totalStudents
	if denom == 0 {
		denom = st.Total
	}
	if denom > 0 {
		st.Rate = int(float64(st.Present)/float64(denom)*100 + 0.5)
	}
	return st
}

// FilterByStatus returns the records matching status, or all records when
// status is empty or "all". The input slice is never modified.
func FilterByStatus(records []AttendanceRecord, status string) []AttendanceRecord {
	if status == "" || strings.EqualFold(status, "all") {
		return records
	}
	want := NormalizeStatus(status)
	out := make([]AttendanceRecord, 0, len(records))
	for _, r := range records {
		if NormalizeStatus(r.Status) == want {
			out = append(out, r)
		}
	}
	return out
}
