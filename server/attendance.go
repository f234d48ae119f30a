package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/SaitejaKommi/FaceSense-Dashboard/internal/model"
)

// handleTodayAttendance returns attendance records since local midnight,
// joined with student name and roll
func (s *Server) handleTodayAttendance(c echo.Context) error {
	midnight := time.Now().UTC().Truncate(24 * time.Hour)

	rows, err := s.db.Query(`
		SELECT a.id, a.student_id, s.name, s.roll, a.status, a.confidence, a.recorded_at
		FROM attendance a
		JOIN students s ON s.id = a.student_id
		WHERE a.recorded_at >= $1
		ORDER BY a.recorded_at DESC`,
		midnight,
	)
	if err != nil {
		c.Logger().Error("db error:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"detail": "internal error"})
	}
	defer rows.Close()

	records := []model.AttendanceRecord{}
	for rows.Next() {
		var r model.AttendanceRecord
		if err := rows.Scan(&r.ID, &r.StudentID, &r.StudentName, &r.StudentRoll, &r.Status, &r.Confidence, &r.Timestamp); err != nil {
			c.Logger().Error("scan error:", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"detail": "internal error"})
		}
		records = append(records, r)
	}

	return c.JSON(http.StatusOK, records)
}

// handleMarkAttendance records a check-in for a roll number. Marking the
// same student twice in a day updates the existing record instead of
// duplicating it.
func (s *Server) handleMarkAttendance(c echo.Context) error {
	var req struct {
		Roll   string `json:"roll"`
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil || req.Roll == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": "roll required"})
	}
	status := model.NormalizeStatus(req.Status)
	if status == model.StatusUnknown {
		status = model.StatusPresent
	}

	var st model.Student
	err := s.db.QueryRow(`
		SELECT id, name, roll FROM students WHERE roll = $1`,
		req.Roll,
	).Scan(&st.ID, &st.Name, &st.Roll)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"detail": "no student with that roll number"})
	}

	now := time.Now().UTC()
	midnight := now.Truncate(24 * time.Hour)

	rec := model.AttendanceRecord{
		StudentID:   st.ID,
		StudentName: st.Name,
		StudentRoll: st.Roll,
		Status:      status,
		Timestamp:   now,
	}

	var existingID string
	err = s.db.QueryRow(`
		SELECT id FROM attendance WHERE student_id = $1 AND recorded_at >= $2`,
		st.ID, midnight,
	).Scan(&existingID)

	if err == nil {
		rec.ID = existingID
		_, err = s.db.Exec(`
			UPDATE attendance SET status = $1, recorded_at = $2 WHERE id = $3`,
			status, now, existingID,
		)
	} else {
		rec.ID = uuid.NewString()
		_, err = s.db.Exec(`
			INSERT INTO attendance (id, student_id, status, confidence, recorded_at)
			VALUES ($1, $2, $3, $4, $5)`,
			rec.ID, st.ID, status, 1.0, now,
		)
		rec.Confidence = 1.0
	}

	if err != nil {
		c.Logger().Error("db error:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"detail": "internal error"})
	}

	c.Logger().Infof("Attendance marked: %s -> %s", st.Roll, status)

	return c.JSON(http.StatusOK, rec)
}
